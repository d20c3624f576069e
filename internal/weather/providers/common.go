package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-lookup/internal/weather"
)

var (
	errNoHTTPClient = errors.New("http client not configured")
	errCircuitOpen  = errors.New("circuit breaker open")
)

// statusError is returned from inside the circuit breaker for non-2xx answers.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.code)
}

// transportError wraps a failure that happened after the request was sent.
type transportError struct {
	err error
}

func (e *transportError) Error() string {
	return e.err.Error()
}

func (e *transportError) Unwrap() error {
	return e.err
}

// newCircuitBreaker builds the breaker shared by all provider clients. Only
// transport failures and 5xx answers count against the provider; 4xx answers
// (bad key, unknown city) are the caller's problem.
func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var se *statusError
			return errors.As(err, &se) && se.code < http.StatusInternalServerError
		},
	})
}

// classifyBreakerError turns an error coming out of cb.Execute into a
// classified *weather.Error.
func classifyBreakerError(err error) *weather.Error {
	var se *statusError
	if errors.As(err, &se) {
		return weather.Classify(weather.Failure{StatusCode: se.code, Err: err})
	}

	// The breaker refused to send anything.
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return weather.Classify(weather.Failure{Err: fmt.Errorf("%w: %v", errCircuitOpen, err)})
	}

	var te *transportError
	if errors.As(err, &te) {
		return weather.Classify(weather.Failure{NoResponse: true, Err: err})
	}

	return weather.Classify(weather.Failure{Err: err})
}

// doRequest executes a single attempt of the request through the circuit
// breaker. A non-2xx answer is returned as a classified error with the body
// already drained and closed.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	buildRequest func() (*http.Request, error),
) (*http.Response, error) {
	if client == nil {
		return nil, weather.Classify(weather.Failure{Err: errNoHTTPClient})
	}

	req, err := buildRequest()
	if err != nil {
		return nil, weather.Classify(weather.Failure{Err: err})
	}

	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, &transportError{err: execErr}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, &statusError{code: resp.StatusCode}
		}

		return resp, nil
	})
	if err != nil {
		return nil, classifyBreakerError(err)
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return nil, weather.Classify(weather.Failure{Err: fmt.Errorf("unexpected result type from circuit breaker")})
	}
	return resp, nil
}
