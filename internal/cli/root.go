// Package cli implements the gradgo command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/gradgo/internal/config"
	"github.com/YuminosukeSato/gradgo/pkg/log"
)

var (
	// Global flags
	cfgFile string
	jsonOut bool

	// Version info (set from main)
	Version = "0.1.0"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gradgo",
	Short: "Univariate linear regression by streaming gradient descent",
	Long: `Gradgo trains a univariate linear regression model with batch gradient
descent, streaming per-epoch progress and supporting pause/resume/stop
control. It can serve an HTTP API or train directly from a CSV file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := config.LoadOrDefault(cfgFile)
		log.SetupLogger(cfg.Logging.Level)
		// Route library warnings (convergence, undefined metrics)
		// through a structured logger instead of stderr prints.
		log.UseZerologWarnings(os.Stderr)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output in JSON format")
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

func loadConfig() *config.Config {
	return config.LoadOrDefault(cfgFile)
}
