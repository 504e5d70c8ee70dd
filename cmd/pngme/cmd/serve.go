package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/pngme/pkg/api"
	"github.com/ssargent/pngme/pkg/logging"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port    int
		bind    string
		apiKey  string
		dataDir string
	)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the pngme REST API server.

The server keeps uploaded images in a pebble archive under the data directory
and exposes the encode, decode, remove and list operations over HTTP. Flags
override the configuration file.

Examples:
  pngme serve --api-key=mysecretkey --port=8080
  pngme serve --config ~/.config/pngme/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.FromContext(cmd.Context())
			cfg := a.cfg
			config := api.ServerConfig{
				Port:    cfg.Port,
				Bind:    cfg.Bind,
				APIKey:  cfg.Security.APIKey,
				DataDir: cfg.DataDir,
			}
			if cmd.Flags().Changed("port") {
				config.Port = port
			}
			if cmd.Flags().Changed("bind") {
				config.Bind = bind
			}
			if cmd.Flags().Changed("api-key") {
				config.APIKey = apiKey
			}
			if cmd.Flags().Changed("data-dir") {
				config.DataDir = dataDir
			}

			if config.APIKey == "" {
				return errors.New("an API key is required (--api-key, or run 'pngme config init')")
			}

			archive, err := a.container.GetArchiveFactory().OpenArchive(config.DataDir)
			if err != nil {
				return fmt.Errorf("failed to open archive: %w", err)
			}
			defer func() {
				if cerr := archive.Close(); cerr != nil {
					logger.Error("failed to close archive", "error", cerr)
				}
			}()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting pngme API server on %s:%d\n", config.Bind, config.Port)
			starter := a.container.GetServerFactory().CreateServerStarter()
			return starter.StartServer(cmd.Context(), archive, config, logger)
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&bind, "bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for authentication")
	serveCmd.Flags().StringVar(&dataDir, "data-dir", "./data", "Data directory for the image archive")
	return serveCmd
}
