package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/antihub/antihook/internal/healthcheck"
)

var errUnhealthy = errors.New("service is not healthy")

func healthCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "health [url]",
		Short: "Check the AntiHub health endpoint",
		Long: "Probe {url}/api/health, falling back to {url}/backend/api/health when the\n" +
			"first path is missing or unreachable. Exits non-zero when unhealthy.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target string
			if len(args) == 1 {
				target = args[0]
			} else {
				resolved, err := a.store.Resolve(a.cfg.ServerURL)
				if err != nil {
					return err
				}
				target = resolved
			}

			probe := healthcheck.New(a.cfg.HealthTimeout(), a.log, nil)
			result, err := probe.Check(cmd.Context(), target)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				printResult(cmd.OutOrStdout(), result)
			}

			if !result.OK {
				return errUnhealthy
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw result as JSON")
	return cmd
}

func printResult(w io.Writer, r healthcheck.Result) {
	status := "no response"
	if r.HasStatus() {
		status = fmt.Sprintf("HTTP %d", *r.StatusCode)
	}

	if r.OK {
		color.New(color.FgGreen, color.Bold).Fprint(w, "healthy")
	} else {
		color.New(color.FgRed, color.Bold).Fprint(w, "unhealthy")
	}
	fmt.Fprintf(w, "  %s  %s  %dms\n", r.RequestURL, status, r.Elapsed.Milliseconds())

	if r.Error != "" {
		color.New(color.FgYellow).Fprintf(w, "  error: %s\n", r.Error)
	}
	if r.Payload != nil {
		if data, err := json.Marshal(r.Payload); err == nil {
			fmt.Fprintf(w, "  payload: %s\n", data)
		}
	}
}
