package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local snapshot of confirmed books",
	}

	var all bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the saved book list used when the server is unreachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runCacheClear(cmd.Context(), all)
		},
	}
	clearCmd.Flags().BoolVar(&all, "all", false, "remove snapshots of every query, not only books")

	cmd.AddCommand(clearCmd)
	return cmd
}

func (c *Cli) runCacheClear(ctx context.Context, all bool) error {
	if err := c.libraryService.ClearCache(ctx, all); err != nil {
		return fmt.Errorf("failed to clear local cache: %w", err)
	}

	if all {
		c.io.Println("Local cache cleared.")
	} else {
		c.io.Println("Saved book list cleared.")
	}
	return nil
}
