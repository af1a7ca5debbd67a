// Package main implements the reverie terminal client for the dream backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/oneirolab/reverie/internal/api"
	"github.com/oneirolab/reverie/internal/config"
	"github.com/oneirolab/reverie/internal/logging"
	"github.com/oneirolab/reverie/internal/tui"
)

var (
	// serverURL overrides the configured backend address when set.
	serverURL string
	// configPath overrides the default config file location when set.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reverie [dream-id]",
	Short: "Terminal client for the dream backend",
	Long: `reverie is a terminal client for the idea-combination dream backend.
It starts dreams from two seed concepts, continues them by combining
existing concepts, and browses dream history.

Run with no arguments to start a new dream, or pass a dream ID to open
an existing one.`,
	Version: version,
	Args:    cobra.MaximumNArgs(1),
	RunE:    runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "dream backend URL (default from config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(listCmd)
}

// loadConfig resolves configuration from .env, config file, environment
// and flags, in increasing precedence.
func loadConfig() (*config.Config, error) {
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.Server.URL, cfg.Server.Timeout)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer log.Sync() //nolint:errcheck // file sink, nothing to do on failure

	dreamID := ""
	if len(args) == 1 {
		dreamID = args[0]
	}

	log.Info("starting reverie",
		zap.String("server", cfg.Server.URL),
		zap.String("dream_id", dreamID),
		zap.String("version", version))

	return tui.Run(cfg, newClient(cfg), log, dreamID)
}
