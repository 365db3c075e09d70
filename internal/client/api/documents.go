package api

import (
	"fmt"

	"github.com/dgraph-io/gqlparser/v2"
	"github.com/dgraph-io/gqlparser/v2/ast"

	"github.com/iudanet/bookvault/pkg/api"
)

// Document GraphQL документ с одной именованной операцией
type Document struct {
	Name string // имя операции, уходит как operationName
	Text string
}

var schema = gqlparser.MustLoadSchema(&ast.Source{Name: "bookvault.graphql", Input: api.Schema})

// Документы BookVault. Проверяются по схеме при загрузке пакета,
// опечатка в документе ломает старт, а не первый запрос.
var (
	GetBooks = mustDocument(`
query GetBooks {
	books {
		id
		title
		author
		genre
		publishedYear
	}
}`)

	AddBook = mustDocument(`
mutation AddBook($title: String!, $author: String!, $genre: String, $publishedYear: Int) {
	addBook(title: $title, author: $author, genre: $genre, publishedYear: $publishedYear) {
		id
		title
		author
		genre
		publishedYear
	}
}`)

	DeleteBook = mustDocument(`
mutation DeleteBook($id: ID!) {
	deleteBook(id: $id) {
		id
	}
}`)
)

// ParseDocument проверяет документ по схеме BookVault и извлекает имя операции
func ParseDocument(text string) (Document, error) {
	doc, errs := gqlparser.LoadQuery(schema, text)
	if len(errs) > 0 {
		return Document{}, fmt.Errorf("invalid document: %w", errs)
	}
	if len(doc.Operations) != 1 {
		return Document{}, fmt.Errorf("document must contain exactly one operation, got %d", len(doc.Operations))
	}
	name := doc.Operations[0].Name
	if name == "" {
		return Document{}, fmt.Errorf("operation must be named")
	}
	return Document{Name: name, Text: text}, nil
}

func mustDocument(text string) Document {
	doc, err := ParseDocument(text)
	if err != nil {
		panic(err)
	}
	return doc
}
