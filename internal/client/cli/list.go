package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (a *App) newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List books",
		Long:  "List books from the server. Falls back to the last saved snapshot when the server is unreachable.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runList(cmd.Context())
		},
	}
}

func (c *Cli) runList(ctx context.Context) error {
	res, err := c.libraryService.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	c.io.Println("=== Books ===")
	c.io.Println()

	if res.Offline {
		c.io.Printf("Server unreachable (%v).\n", res.Err)
		if !res.SavedAt.IsZero() {
			c.io.Printf("Showing local snapshot saved at %s.\n", res.SavedAt.Local().Format(time.DateTime))
		} else {
			c.io.Println("Showing local snapshot.")
		}
		c.io.Println()
	}

	books := c.libraryService.List()
	if len(books) == 0 {
		c.io.Println("No books found.")
		c.io.Println()
		c.io.Println("Use 'bookvault add --title <title> --author <author>' to add your first book.")
		return nil
	}

	c.io.Printf("Found %d book(s):\n", len(books))
	c.io.Println()

	if err := c.renderTable(bookTable, books); err != nil {
		return err
	}

	if pending := c.libraryService.Pending(); len(pending) > 0 {
		c.io.Println()
		c.io.Printf("%d change(s) awaiting server confirmation.\n", len(pending))
	}

	return nil
}
