package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/aisdk/internal/metrics"
	"github.com/jackzampolin/aisdk/internal/server"
)

var (
	serveHost string
	servePort string
	noWatch   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the aisdk server",
	Long: `Start the aisdk HTTP server.

The server provides:
  - /health             Server health, prompt root and models
  - /metrics            Prometheus metrics
  - /api/prompts        Template listing and source
  - /api/render         Render a template
  - /api/generate       Render a template and generate text
  - /api/models         Registered models
  - /api/llmcalls       Recent generation calls
  - /api/settings       Effective configuration

The config file is watched and the model registry reloads on change.

Examples:
  aisdk serve                    # Start on the configured port (default 8080)
  aisdk serve --port 3000        # Start on custom port
  aisdk serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := loadServices(metrics.NewProm("aisdk"))
		if err != nil {
			return err
		}
		if !noWatch {
			svc.WatchConfig()
		}

		cfg := svc.Config.Get()
		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:     host,
			Port:     port,
			Services: svc,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(cmd.Context())
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload models when the config file changes")

	rootCmd.AddCommand(serveCmd)
}
