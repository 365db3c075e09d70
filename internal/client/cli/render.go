package cli

import (
	"fmt"
	"text/tabwriter"
	"text/template"

	"github.com/iudanet/bookvault/internal/models"
)

// renderTable выводит таблицу, выровненную по колонкам
func (c *Cli) renderTable(tmpl *template.Template, data any) error {
	tw := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	if err := tmpl.Execute(tw, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl.Name(), err)
	}
	return tw.Flush()
}

// bookView разыменовывает необязательные поля для шаблона
type bookView struct {
	Genre         string
	ID            string
	Title         string
	Author        string
	PublishedYear int
}

func (c *Cli) renderBook(b models.Book) error {
	v := bookView{ID: b.ID, Title: b.Title, Author: b.Author}
	if b.Genre != nil {
		v.Genre = *b.Genre
	}
	if b.PublishedYear != nil {
		v.PublishedYear = *b.PublishedYear
	}
	if err := bookDetails.Execute(c.io, v); err != nil {
		return fmt.Errorf("failed to render book: %w", err)
	}
	return nil
}
