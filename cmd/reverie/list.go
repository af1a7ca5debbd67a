package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listOffset int
	listLimit  int
)

// listCmd prints one page of dream summaries without starting the TUI.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List dreams",
	Long: `List dreams newest first, one page at a time.

Examples:
  # First page
  reverie list

  # Next page
  reverie list --offset 20`,
	RunE: runList,
}

func init() {
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "number of dreams to skip")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "page size (default from config)")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := newClient(cfg)

	limit := listLimit
	if limit <= 0 {
		limit = cfg.List.PageSize
	}

	page, err := client.ListDreams(context.Background(), listOffset, limit)
	if err != nil {
		return fmt.Errorf("failed to list dreams: %w", err)
	}

	if len(page.Dreams) == 0 {
		fmt.Println("No dreams found.")
		return nil
	}

	for _, s := range page.Dreams {
		fmt.Printf("%s  %s  %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04"), s.DisplayLabel())
	}
	fmt.Printf("\nShowing %d-%d of %d", listOffset+1, listOffset+len(page.Dreams), page.TotalCount)
	if page.HasMore {
		fmt.Printf(" (more available: --offset %d)", listOffset+len(page.Dreams))
	}
	fmt.Println()
	return nil
}
