package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// OpenWeatherClient implements weather.Provider for OpenWeatherMap current weather.
type OpenWeatherClient struct {
	name    string
	apiKey  string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherClient(client *http.Client, apiKey string) *OpenWeatherClient {
	return &OpenWeatherClient{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherClient) Name() string {
	return p.name
}

// FetchWeather asks for the current weather at place in metric units.
func (p *OpenWeatherClient) FetchWeather(ctx context.Context, place string) (weather.Report, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("q", place)
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.Report{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Name    string `json:"name"`
		Weather []struct {
			Main        string `json:"main"`
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Report{}, weather.Classify(weather.Failure{Err: fmt.Errorf("decode openweather response: %w", err)})
	}

	report := weather.Report{
		PlaceName:    payload.Name,
		Condition:    weather.ConditionOther,
		TemperatureC: payload.Main.Temp,
		HumidityPct:  payload.Main.Humidity,
		WindSpeedMS:  payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		report.Condition = weather.ParseCondition(payload.Weather[0].Main)
		report.Description = payload.Weather[0].Description
	}

	return report, nil
}
