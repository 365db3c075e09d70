package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/bookvault/internal/client/reconciler"
)

func (a *App) newDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a book",
		Long:  "Delete a book by ID. Asks for confirmation when run in a terminal unless --yes is given.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runDelete(cmd.Context(), args[0], yes)
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "do not ask for confirmation")

	return cmd
}

func (c *Cli) runDelete(ctx context.Context, id string, yes bool) error {
	if _, err := c.libraryService.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	var found bool
	for _, b := range c.libraryService.List() {
		if b.ID != id {
			continue
		}
		found = true
		if err := c.renderBook(b); err != nil {
			return err
		}
		break
	}
	if !found {
		return fmt.Errorf("book not found with ID: %s", id)
	}

	if !yes && c.io.IsInteractive() {
		c.io.Println()
		ok, err := c.io.Confirm("Are you sure you want to delete this book?")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !ok {
			c.io.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := c.libraryService.Delete(ctx, id); err != nil {
		if errors.Is(err, reconciler.ErrEntityNotFound) {
			return fmt.Errorf("book not found with ID: %s", id)
		}
		if reconciler.IsTransport(err) {
			return fmt.Errorf("book was not deleted, local change rolled back: %w", err)
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}

	c.io.Println()
	c.io.Println("Book deleted successfully!")
	return nil
}
