package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var errNoImageURL = errors.New("image response has no full url")

// UnsplashClient implements weather.ImageProvider with Unsplash random photos.
type UnsplashClient struct {
	name      string
	accessKey string
	baseURL   string
	rest      *resty.Client
	circuit   *gobreaker.CircuitBreaker
}

// NewUnsplashClient creates a client sharing the given *http.Client (timeouts,
// transport). A nil client falls back to resty's default.
func NewUnsplashClient(client *http.Client, accessKey string) *UnsplashClient {
	rest := resty.New()
	if client != nil {
		rest = resty.NewWithClient(client)
	}
	rest.SetHeader("Accept-Version", "v1")

	return &UnsplashClient{
		name:      "unsplash",
		accessKey: accessKey,
		baseURL:   "https://api.unsplash.com/photos/random",
		rest:      rest,
		circuit:   newCircuitBreaker("unsplash"),
	}
}

func (p *UnsplashClient) Name() string {
	return p.name
}

// FetchImage picks one random photo matching query.
func (p *UnsplashClient) FetchImage(ctx context.Context, query string) (weather.Image, error) {
	result, err := p.circuit.Execute(func() (interface{}, error) {
		response, reqErr := p.rest.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"query":     query,
				"client_id": p.accessKey,
			}).
			Get(p.baseURL)
		if reqErr != nil {
			if response == nil || response.RawResponse == nil {
				return nil, &transportError{err: reqErr}
			}
			return nil, reqErr
		}

		if response.StatusCode() < 200 || response.StatusCode() >= 300 {
			return nil, &statusError{code: response.StatusCode()}
		}

		return response.Body(), nil
	})
	if err != nil {
		return weather.Image{}, classifyBreakerError(err)
	}

	body, _ := result.([]byte)

	var payload struct {
		URLs struct {
			Full string `json:"full"`
		} `json:"urls"`
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return weather.Image{}, weather.Classify(weather.Failure{Err: fmt.Errorf("decode unsplash response: %w", err)})
	}
	if payload.URLs.Full == "" {
		return weather.Image{}, weather.Classify(weather.Failure{Err: errNoImageURL})
	}

	return weather.Image{URL: payload.URLs.Full}, nil
}
