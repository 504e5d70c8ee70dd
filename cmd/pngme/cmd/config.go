package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/pngme/pkg/config"
	"github.com/ssargent/pngme/pkg/logging"
)

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the pngme configuration file",
	}
	configCmd.AddCommand(newConfigInitCmd(a))
	configCmd.AddCommand(newConfigShowCmd(a))
	return configCmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var (
		dataDir string
		force   bool
	)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with default settings and a generated API key.

The file goes to --config when given and to ~/.config/pngme/config.yaml
otherwise. An existing file is kept unless --force is set.

Example:
  pngme config init --data-dir /var/lib/pngme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.GetDefaultConfigPath()
			}
			if config.ConfigExists(path) && !force {
				return fmt.Errorf("configuration already exists at %s (use --force to overwrite)", path)
			}

			cfg, err := config.BootstrapConfig(path, dataDir)
			if err != nil {
				return fmt.Errorf("failed to write configuration: %w", err)
			}

			logging.FromContext(cmd.Context()).Debug("configuration written", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			fmt.Fprintf(cmd.OutOrStdout(), "API key: %s\n", cfg.Security.APIKey)
			return nil
		},
	}

	initCmd.Annotations = map[string]string{skipConfigAnnotation: "true"}
	initCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Data directory for the image archive")
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	return initCmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
