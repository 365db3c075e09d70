package models

// Имена полей книги в коллекции books
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldGenre         = "genre"
	FieldPublishedYear = "publishedYear"
)

// QueryBooks имя запроса, под которым кэшируется список книг
const QueryBooks = "books"

// Book представляет книгу в библиотеке BookVault.
type Book struct {
	Genre         *string `json:"genre"`         // Genre жанр (опционально)
	PublishedYear *int    `json:"publishedYear"` // PublishedYear год издания (опционально)
	ID            string  `json:"id"`            // ID серверный или временный идентификатор
	Title         string  `json:"title"`         // Title название (обязательно)
	Author        string  `json:"author"`        // Author автор (обязательно)
}

// NewBook описывает книгу до отправки на сервер (без ID)
type NewBook struct {
	Genre         string
	Title         string
	Author        string
	PublishedYear int // 0 означает "не указан"
}

// ToEntity конвертирует книгу в запись коллекции
func (b *Book) ToEntity() Entity {
	fields := map[string]any{
		FieldTitle:         b.Title,
		FieldAuthor:        b.Author,
		FieldGenre:         nil,
		FieldPublishedYear: nil,
	}
	if b.Genre != nil {
		fields[FieldGenre] = *b.Genre
	}
	if b.PublishedYear != nil {
		fields[FieldPublishedYear] = int64(*b.PublishedYear)
	}
	return NewEntity(b.ID, fields)
}

// BookFromEntity восстанавливает книгу из записи коллекции
func BookFromEntity(e Entity) Book {
	b := Book{
		ID:     e.ID,
		Title:  e.String(FieldTitle),
		Author: e.String(FieldAuthor),
	}
	if g, ok := e.Fields[FieldGenre].(string); ok {
		b.Genre = &g
	}
	if y, ok := e.Int(FieldPublishedYear); ok {
		year := int(y)
		b.PublishedYear = &year
	}
	return b
}
