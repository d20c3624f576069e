package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/weather-lookup/internal/weather"
)

// ErrQueryFailed is returned by search when the query ended in the failed
// phase. The message has already been rendered, so callers should only set
// the exit status.
var ErrQueryFailed = errors.New("query failed")

// Deps are the collaborators the commands need.
type Deps struct {
	// NewOrchestrator builds an orchestrator; opts are appended by the command.
	NewOrchestrator func(opts ...weather.Option) (*weather.Orchestrator, error)
	// Serve runs the HTTP presenter until cmd's context is done.
	Serve func(cmd *cobra.Command) error
}

func New(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "weather-lookup",
		Short:         "Look up the current weather and a photo for a city",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSearchCommand(deps))

	if deps.Serve != nil {
		root.AddCommand(&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return deps.Serve(cmd)
			},
		})
	}

	return root
}

func newSearchCommand(deps Deps) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "search <city>",
		Short: "Search the weather for a city",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "text" && output != "json" && output != "yaml" {
				return fmt.Errorf("unsupported output %q (want text, json or yaml)", output)
			}

			o, err := deps.NewOrchestrator(weather.WithStateListener(func(s weather.QueryState) {
				if s.Phase == weather.PhaseLoading {
					fmt.Fprintln(cmd.ErrOrStderr(), "Loading...")
				}
			}))
			if err != nil {
				return err
			}

			state := o.Submit(cmd.Context(), strings.Join(args, " "))

			if err := render(cmd.OutOrStdout(), output, state); err != nil {
				return err
			}

			if state.Phase == weather.PhaseFailed && state.Err != nil {
				return fmt.Errorf("%w: %s", ErrQueryFailed, state.Err.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")

	return cmd
}

func render(w io.Writer, format string, state weather.QueryState) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(state)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(state)
	}

	if state.Phase == weather.PhaseFailed {
		if state.Err != nil {
			fmt.Fprintln(w, state.Err.Message)
		}
		return nil
	}

	r := state.Report
	if r == nil {
		return nil
	}

	fmt.Fprintf(w, "[%s] %s\n", r.Condition.Icon(), r.PlaceName)
	fmt.Fprintf(w, "%s\n", r.Description)
	fmt.Fprintf(w, "Temperature: %v °C\n", r.TemperatureC)
	fmt.Fprintf(w, "Humidity: %d %%\n", r.HumidityPct)
	fmt.Fprintf(w, "Wind Speed: %v m/s\n", r.WindSpeedMS)
	if state.Image != nil {
		fmt.Fprintf(w, "Photo: %s\n", state.Image.URL)
	}
	return nil
}
