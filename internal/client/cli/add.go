package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iudanet/bookvault/internal/client/reconciler"
	"github.com/iudanet/bookvault/internal/models"
)

func (a *App) newAddCmd() *cobra.Command {
	var nb models.NewBook

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book",
		Example: `  bookvault add --title "Clean Code" --author "Robert C. Martin"
  bookvault add --title Dune --author "Frank Herbert" --genre "Science Fiction" --year 1965`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.cli.runAdd(cmd.Context(), nb)
		},
	}

	cmd.Flags().StringVarP(&nb.Title, "title", "t", "", "book title (required)")
	cmd.Flags().StringVarP(&nb.Author, "author", "a", "", "book author (required)")
	cmd.Flags().StringVarP(&nb.Genre, "genre", "g", "", "book genre")
	cmd.Flags().IntVarP(&nb.PublishedYear, "year", "y", 0, "year of publication")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("author")

	return cmd
}

func (c *Cli) runAdd(ctx context.Context, nb models.NewBook) error {
	if _, err := c.libraryService.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to load books: %w", err)
	}

	book, err := c.libraryService.Add(ctx, nb)
	if err != nil {
		switch {
		case reconciler.IsValidation(err):
			return fmt.Errorf("book rejected: %w", err)
		case reconciler.IsTransport(err):
			return fmt.Errorf("book was not saved, local change rolled back: %w", err)
		default:
			return fmt.Errorf("failed to add book: %w", err)
		}
	}

	c.io.Println("Book added successfully!")
	return c.renderBook(book)
}
