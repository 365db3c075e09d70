package api

import (
	"context"
	"fmt"

	"github.com/iudanet/bookvault/internal/client/reconciler"
	"github.com/iudanet/bookvault/internal/models"
)

// BooksSource реализует reconciler.DataSource для коллекции books
type BooksSource struct {
	client *Client
}

var _ reconciler.DataSource = (*BooksSource)(nil)

// NewBooksSource создает источник данных книг
func NewBooksSource(client *Client) *BooksSource {
	return &BooksSource{client: client}
}

// FetchAll загружает список книг (GetBooks)
func (s *BooksSource) FetchAll(ctx context.Context, query string) ([]models.Entity, error) {
	if query != models.QueryBooks {
		return nil, fmt.Errorf("%s: %w", query, ErrUnknownQuery)
	}

	var data struct {
		Books []models.Entity `json:"books"`
	}
	if err := s.client.Do(ctx, GetBooks, nil, &data); err != nil {
		return nil, fmt.Errorf("failed to fetch books: %w", err)
	}
	return data.Books, nil
}

// Mutate отправляет AddBook или DeleteBook
func (s *BooksSource) Mutate(ctx context.Context, m reconciler.Mutation) (*models.Entity, error) {
	if m.Query != models.QueryBooks {
		return nil, fmt.Errorf("%s: %w", m.Query, ErrUnknownQuery)
	}

	switch m.Kind {
	case reconciler.OpInsert:
		return s.addBook(ctx, m.Entity)
	case reconciler.OpDelete:
		return s.deleteBook(ctx, m.ID)
	default:
		return nil, fmt.Errorf("%s: %w", m.Kind, ErrUnsupportedMutation)
	}
}

func (s *BooksSource) addBook(ctx context.Context, e models.Entity) (*models.Entity, error) {
	vars := map[string]any{
		"title":         e.String(models.FieldTitle),
		"author":        e.String(models.FieldAuthor),
		"genre":         nil,
		"publishedYear": nil,
	}
	if g, ok := e.Fields[models.FieldGenre].(string); ok {
		vars["genre"] = g
	}
	if y, ok := e.Int(models.FieldPublishedYear); ok {
		vars["publishedYear"] = y
	}

	var data struct {
		AddBook *models.Entity `json:"addBook"`
	}
	if err := s.client.Do(ctx, AddBook, vars, &data); err != nil {
		return nil, fmt.Errorf("failed to add book: %w", err)
	}
	if data.AddBook == nil || data.AddBook.ID == "" {
		return nil, fmt.Errorf("failed to add book: %w", reconciler.ErrEmptyResult)
	}
	return data.AddBook, nil
}

// deleteBook удаляет книгу. null в ответе означает, что книги на сервере
// уже нет, что для удаления тоже успех.
func (s *BooksSource) deleteBook(ctx context.Context, id string) (*models.Entity, error) {
	if id == "" {
		return nil, reconciler.ErrMissingID
	}

	var data struct {
		DeleteBook *models.Entity `json:"deleteBook"`
	}
	if err := s.client.Do(ctx, DeleteBook, map[string]any{"id": id}, &data); err != nil {
		return nil, fmt.Errorf("failed to delete book %s: %w", id, err)
	}
	return data.DeleteBook, nil
}
