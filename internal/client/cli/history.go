package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

const defaultHistoryLimit = 20

func (a *App) newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show resolved changes, including rolled back ones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runHistory(cmd.Context(), limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "maximum number of entries (0 for all)")

	return cmd
}

func (c *Cli) runHistory(ctx context.Context, limit int) error {
	if limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", limit)
	}

	entries, err := c.libraryService.History(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	c.io.Println("=== Mutation History ===")
	c.io.Println()

	if len(entries) == 0 {
		c.io.Println("No changes recorded yet.")
		return nil
	}

	return c.renderTable(historyTable, entries)
}
