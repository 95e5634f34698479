package cli

import (
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gradgo/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the training API over HTTP",
	Long: `Start the HTTP server exposing dataset upload, training with SSE and
WebSocket streaming, pause/resume/stop control, prediction and summary
endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "bind port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	return server.New(cfg).Run()
}
