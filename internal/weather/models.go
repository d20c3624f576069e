package weather

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionClear  Condition = "clear"
	ConditionClouds Condition = "clouds"
	ConditionRain   Condition = "rain"
	ConditionSnow   Condition = "snow"
	ConditionFog    Condition = "fog"
	ConditionOther  Condition = "other"
)

// Icon names from the weather-icons set, used by presenters.
const (
	IconClear  = "wi-day-sunny"
	IconClouds = "wi-cloud"
	IconRain   = "wi-rain"
	IconSnow   = "wi-snow"
	IconFog    = "wi-fog"
)

// ParseCondition maps a provider category (OpenWeatherMap "weather[0].main")
// onto a Condition. Matching is exact and case-sensitive.
func ParseCondition(main string) Condition {
	switch main {
	case "Clear":
		return ConditionClear
	case "Clouds":
		return ConditionClouds
	case "Rain":
		return ConditionRain
	case "Snow":
		return ConditionSnow
	case "Fog", "Mist":
		return ConditionFog
	default:
		return ConditionOther
	}
}

// Icon returns the icon a presenter should draw for c.
// Unrecognized conditions fall back to the clear-sky icon.
func (c Condition) Icon() string {
	switch c {
	case ConditionClouds:
		return IconClouds
	case ConditionRain:
		return IconRain
	case ConditionSnow:
		return IconSnow
	case ConditionFog:
		return IconFog
	default:
		return IconClear
	}
}

// Report is the normalized current-weather view for one place.
type Report struct {
	PlaceName    string    `json:"placeName" yaml:"placeName"`
	Condition    Condition `json:"condition" yaml:"condition"`
	Description  string    `json:"description" yaml:"description"`
	TemperatureC float64   `json:"temperatureC" yaml:"temperatureC"`
	HumidityPct  int       `json:"humidityPercent" yaml:"humidityPercent"`
	WindSpeedMS  float64   `json:"windSpeedMs" yaml:"windSpeedMs"`
}

// Image is a single photo picked by the image provider.
type Image struct {
	URL string `json:"url" yaml:"url"`
}

// Phase is the lifecycle phase of a query.
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseSuccess Phase = "success"
	PhaseFailed  Phase = "failed"
)

// QueryState is the state a presenter renders. Report and Image are only set
// in PhaseSuccess, Err only in PhaseFailed. Backdrop is the latest photo that
// was fetched successfully and survives across queries.
type QueryState struct {
	Phase    Phase   `json:"phase" yaml:"phase"`
	Place    string  `json:"place,omitempty" yaml:"place,omitempty"`
	Report   *Report `json:"report,omitempty" yaml:"report,omitempty"`
	Image    *Image  `json:"image,omitempty" yaml:"image,omitempty"`
	Err      *Error  `json:"error,omitempty" yaml:"error,omitempty"`
	Backdrop *Image  `json:"backdrop,omitempty" yaml:"backdrop,omitempty"`
}
