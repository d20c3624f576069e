package weather

import (
	"context"
)

// Provider abstracts the current-weather data source (e.g. OpenWeatherMap).
// Errors should be *Error values built with Classify.
type Provider interface {
	Name() string
	FetchWeather(ctx context.Context, place string) (Report, error)
}

// ImageProvider abstracts the photo source (e.g. Unsplash).
type ImageProvider interface {
	Name() string
	FetchImage(ctx context.Context, query string) (Image, error)
}
