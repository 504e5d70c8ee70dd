package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/config"
	"github.com/ssargent/pngme/pkg/di"
	"github.com/ssargent/pngme/pkg/logging"
	"github.com/ssargent/pngme/pkg/storage"
)

// app carries state shared by all commands of one invocation
type app struct {
	container  *di.Container
	configPath string
	logLevel   string

	cfg *config.Config
}

func (a *app) files() *storage.FileStore {
	return a.container.GetFileStore()
}

// skipConfigAnnotation marks commands that run on defaults instead of the
// configuration file, such as config init.
const skipConfigAnnotation = "pngme/skip-config"

// load resolves the configuration and logger. A missing config file at the
// default location means defaults; an explicit --config must exist.
func (a *app) load(cmd *cobra.Command) error {
	cfg := config.DefaultConfig()
	switch {
	case cmd.Annotations[skipConfigAnnotation] == "true":
	case a.configPath != "":
		loaded, err := config.LoadConfig(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
	}

	logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	a.cfg = cfg
	cmd.SetContext(logging.WithLogger(cmd.Context(), logger))
	return nil
}

// NewRootCmd builds the pngme command tree on top of container
func NewRootCmd(container *di.Container) *cobra.Command {
	a := &app{container: container}

	rootCmd := &cobra.Command{
		Use:   "pngme",
		Short: "pngme - hide messages in PNG files",
		Long: `pngme hides text messages inside PNG files as extra chunks, reads them
back, removes them and lists the chunks of a file.

Every command rewrites the whole file; chunk checksums are verified on read
and recomputed on write.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file path (default ~/.config/pngme/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newEncodeCmd(a))
	rootCmd.AddCommand(newDecodeCmd(a))
	rootCmd.AddCommand(newRemoveCmd(a))
	rootCmd.AddCommand(newPrintCmd(a))
	rootCmd.AddCommand(newServeCmd(a))
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}
