package commands

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/antihub/antihook/internal/baseurl"
)

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the saved server URL",
	}

	cmd.AddCommand(configPathCmd(a), configShowCmd(a), configSetCmd(a))
	return cmd
}

func configPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.store.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func configShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved configuration as JSON (null when nothing is saved)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.store.Load()
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		},
	}
}

func configSetCmd(a *app) *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "set [url]",
		Short: "Validate and save the AntiHub server URL",
		Long: "Validate and save the AntiHub server URL. Without an argument the URL is\n" +
			"prompted for on an interactive terminal, defaulting to the current value.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			switch {
			case len(args) == 1:
				raw = args[0]
			case interactive || isTerminal(cmd.InOrStdin()):
				current := ""
				if cfg, err := a.store.Load(); err == nil && cfg != nil {
					current = cfg.ServerURL
				}
				prompted, err := promptBaseURL(bufio.NewReader(cmd.InOrStdin()), cmd.OutOrStdout(),
					"AntiHub server URL", current)
				if err != nil {
					return err
				}
				raw = prompted
			default:
				return errors.New("server url required: pass it as an argument or run on a terminal")
			}

			normalized, err := a.store.Save(raw)
			if err != nil {
				return err
			}

			path, err := a.store.Path()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s to %s\n", normalized, path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "prompt for the URL even when stdin is not a terminal")
	return cmd
}

// promptBaseURL asks until the answer normalizes. An empty answer takes def.
func promptBaseURL(r *bufio.Reader, w io.Writer, label, def string) (string, error) {
	for {
		fmt.Fprintf(w, "%s [%s]: ", label, strings.TrimSpace(def))

		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		eof := errors.Is(err, io.EOF)

		answer := strings.TrimSpace(line)
		if answer == "" {
			answer = def
		}

		normalized, nerr := baseurl.Normalize(answer)
		if nerr == nil {
			return normalized, nil
		}
		fmt.Fprintf(w, "%v\n", nerr)

		if eof {
			return "", nerr
		}
	}
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
