package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-lookup/internal/weather"
)

type stubWeather struct{}

func (stubWeather) Name() string { return "stub" }

func (stubWeather) FetchWeather(ctx context.Context, place string) (weather.Report, error) {
	if place == "New York" {
		return weather.Report{
			PlaceName:    "New York",
			Condition:    weather.ConditionOther,
			Description:  "tornado",
			TemperatureC: 18.2,
			HumidityPct:  64,
			WindSpeedMS:  9.3,
		}, nil
	}
	return weather.Report{}, weather.Classify(weather.Failure{StatusCode: 404})
}

type stubImages struct{}

func (stubImages) Name() string { return "stub" }

func (stubImages) FetchImage(ctx context.Context, query string) (weather.Image, error) {
	return weather.Image{URL: "https://img/" + strings.ReplaceAll(query, " ", "-")}, nil
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	cmd := New(Deps{
		NewOrchestrator: func(opts ...weather.Option) (*weather.Orchestrator, error) {
			return weather.NewOrchestrator(stubWeather{}, stubImages{}, opts...)
		},
	})

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSearchText(t *testing.T) {
	out, errOut, err := execute(t, "search", "New", "York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"[wi-day-sunny] New York",
		"tornado",
		"Temperature: 18.2 °C",
		"Humidity: 64 %",
		"Wind Speed: 9.3 m/s",
		"Photo: https://img/New-York",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}

	if !strings.Contains(errOut, "Loading...") {
		t.Errorf("expected loading indicator on stderr, got %q", errOut)
	}
}

func TestSearchJSON(t *testing.T) {
	out, _, err := execute(t, "search", "--output", "json", "New York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var state weather.QueryState
	if err := json.Unmarshal([]byte(out), &state); err != nil {
		t.Fatalf("invalid json output: %v", err)
	}
	if state.Phase != weather.PhaseSuccess || state.Report.PlaceName != "New York" {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestSearchYAML(t *testing.T) {
	out, _, err := execute(t, "search", "-o", "yaml", "New York")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var state weather.QueryState
	if err := yaml.Unmarshal([]byte(out), &state); err != nil {
		t.Fatalf("invalid yaml output: %v", err)
	}
	if state.Phase != weather.PhaseSuccess || state.Report.HumidityPct != 64 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestSearchFailures(t *testing.T) {
	tests := []struct {
		args    []string
		message string
	}{
		{[]string{"search"}, "Please enter a city name"},
		{[]string{"search", "  "}, "Please enter a city name"},
		{[]string{"search", "Atlantis"}, "City not found"},
	}

	for _, tt := range tests {
		out, errOut, err := execute(t, tt.args...)
		if !errors.Is(err, ErrQueryFailed) {
			t.Fatalf("%v: expected ErrQueryFailed, got %v", tt.args, err)
		}
		if !strings.Contains(err.Error(), tt.message) {
			t.Fatalf("%v: expected %q in error, got %v", tt.args, tt.message, err)
		}
		// The message is rendered once; main does not log ErrQueryFailed again.
		if n := strings.Count(out+errOut, tt.message); n != 1 {
			t.Fatalf("%v: expected message printed once, got %d times in %q / %q", tt.args, n, out, errOut)
		}
	}
}

func TestSearchRejectsUnknownOutput(t *testing.T) {
	_, _, err := execute(t, "search", "-o", "xml", "Paris")
	if err == nil {
		t.Fatal("expected error for unknown output format")
	}
	if errors.Is(err, ErrQueryFailed) {
		t.Fatalf("usage errors must still be reported, got %v", err)
	}
}

func TestServeCommandRegistered(t *testing.T) {
	called := false
	cmd := New(Deps{
		NewOrchestrator: func(opts ...weather.Option) (*weather.Orchestrator, error) {
			return weather.NewOrchestrator(stubWeather{}, stubImages{}, opts...)
		},
		Serve: func(cmd *cobra.Command) error {
			called = true
			return nil
		},
	})
	cmd.SetArgs([]string{"serve"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("expected serve to be invoked")
	}
}
