package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/antihub/antihook/config"
	"github.com/antihub/antihook/internal/configstore"
	"github.com/antihub/antihook/pkg/logger"
)

// app holds what PersistentPreRunE builds for the subcommands.
type app struct {
	home     string
	logLevel string

	cfg   *config.Config
	log   *slog.Logger
	store *configstore.Store
}

func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Each call returns independent state.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "antihook",
		Short:         "AntiHub desktop shell backend",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if a.logLevel != "" {
				cfg.Logging.Level = a.logLevel
			}
			a.cfg = cfg
			a.log = logger.New(cfg.Logging.Level, false, cfg.Environment, cmd.ErrOrStderr())

			homeDir := configstore.HomeDirFunc(os.UserHomeDir)
			if a.home != "" {
				home := a.home
				homeDir = func() (string, error) { return home, nil }
			}
			a.store = configstore.New(afero.NewOsFs(), homeDir, a.log)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.home, "home", "", "home directory holding .config/antihook (default: the user's home)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override logging.level (debug, info, warn, error)")

	root.AddCommand(configCmd(a), healthCmd(a), serveCmd(a))
	return root
}
