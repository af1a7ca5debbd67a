package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// healthCmd checks backend health without starting the TUI.
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check dream backend health",
	Long: `Check the health status of the dream backend, including its
database connectivity.

Examples:
  # Check the configured backend
  reverie health

  # Check a different backend
  reverie health --server http://localhost:8080`,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	h, err := client.GetHealth(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to reach %s: %v\n", client.BaseURL(), err)
		return err
	}

	fmt.Printf("Server Status: %s\n", h.Status)
	fmt.Printf("Database:      %s\n", h.Database)
	if h.Message != "" {
		fmt.Printf("Message:       %s\n", h.Message)
	}
	return nil
}
