package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed query for user-facing messaging.
type Kind string

const (
	KindInvalidInput       Kind = "invalid_input"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindPlaceNotFound      Kind = "place_not_found"
	KindProviderStatus     Kind = "provider_status"
	KindNoResponse         Kind = "no_response"
	KindUnknown            Kind = "unknown"
)

// Error is a classified failure. Message is safe to show to the user as is.
type Error struct {
	Kind       Kind   `json:"kind" yaml:"kind"`
	StatusCode int    `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Message    string `json:"message" yaml:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// ErrInvalidInput is reported when the submitted place is blank.
func ErrInvalidInput() *Error {
	return &Error{Kind: KindInvalidInput, Message: "Please enter a city name"}
}

// Failure describes what went wrong with a single provider request.
type Failure struct {
	// StatusCode is the HTTP status the provider answered with, 0 if none.
	StatusCode int
	// NoResponse is set when the request went out but nothing came back.
	NoResponse bool
	// Err is the underlying transport or decoding error, if any.
	Err error
}

// Classify maps a failure onto exactly one Kind. Status codes win over the
// no-response flag, which wins over the generic fallback.
func Classify(f Failure) *Error {
	switch {
	case f.StatusCode == http.StatusUnauthorized:
		return &Error{Kind: KindInvalidCredentials, StatusCode: f.StatusCode, Message: "Invalid API key"}
	case f.StatusCode == http.StatusNotFound:
		return &Error{Kind: KindPlaceNotFound, StatusCode: f.StatusCode, Message: "City not found"}
	case f.StatusCode != 0:
		return &Error{
			Kind:       KindProviderStatus,
			StatusCode: f.StatusCode,
			Message:    fmt.Sprintf("Error: %d", f.StatusCode),
		}
	case f.NoResponse:
		return &Error{Kind: KindNoResponse, Message: "No response from the server"}
	}

	msg := "unknown error"
	if f.Err != nil {
		msg = f.Err.Error()
	}
	return &Error{Kind: KindUnknown, Message: "Error: " + msg}
}

// AsError returns err as a classified *Error, classifying it as Unknown when
// it carries no classification of its own.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Classify(Failure{Err: err})
}
