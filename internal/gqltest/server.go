// Package gqltest поднимает in-process GraphQL endpoint BookVault для тестов.
// Сервер держит книги в памяти и умеет имитировать сбои и задержки.
package gqltest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/iudanet/bookvault/internal/models"
	"github.com/iudanet/bookvault/pkg/api"
)

// ErrInjected ошибка, которую возвращают мутации после FailMutations
var ErrInjected = errors.New("injected failure")

// Server тестовый GraphQL endpoint
type Server struct {
	httpServer *httptest.Server
	gate       chan struct{} // мутации ждут закрытия gate, если он задан
	token      string
	books      []models.Book
	nextID     int
	failMut    int // сколько следующих мутаций завершить ошибкой
	failHTTP   int // сколько следующих запросов завершить 503
	panics     int // сколько следующих запросов завершить паникой обработчика
	requests   int
	logger     *slog.Logger
	mu         sync.Mutex
}

// NewServer запускает сервер с начальным набором книг.
// Книги без ID получают последовательные серверные ID.
func NewServer(seed ...models.Book) *Server {
	s := &Server{nextID: 1, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, b := range seed {
		if b.ID == "" {
			b.ID = s.allocID()
		}
		s.books = append(s.books, b)
	}

	schema := graphql.MustParseSchema(api.Schema, &resolver{s: s})
	handler := &relay.Handler{Schema: schema}

	s.httpServer = httptest.NewServer(chain(handler,
		s.loggingMiddleware,
		s.recoveryMiddleware,
		s.faultMiddleware,
		s.authMiddleware,
	))

	return s
}

// URL адрес GraphQL endpoint
func (s *Server) URL() string {
	return s.httpServer.URL
}

// Close останавливает сервер и отпускает задержанные мутации
func (s *Server) Close() {
	s.Release()
	s.httpServer.Close()
}

// Books возвращает копию текущего состояния сервера
func (s *Server) Books() []models.Book {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Book, len(s.books))
	copy(out, s.books)
	return out
}

// Requests возвращает число принятых HTTP запросов
func (s *Server) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.requests
}

// RequireToken требует заголовок Authorization: Bearer token
func (s *Server) RequireToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
}

// FailMutations завершает ошибкой GraphQL следующие n мутаций
func (s *Server) FailMutations(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failMut = n
}

// FailRequests отвечает 503 на следующие n HTTP запросов
func (s *Server) FailRequests(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failHTTP = n
}

// PanicRequests роняет обработчик следующих n HTTP запросов
func (s *Server) PanicRequests(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.panics = n
}

// SetLogger задает логгер запросов (по умолчанию логи отбрасываются)
func (s *Server) SetLogger(logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger = logger
}

func (s *Server) log() *slog.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.logger
}

// Hold задерживает все мутации до вызова Release
func (s *Server) Hold() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gate == nil {
		s.gate = make(chan struct{})
	}
}

// Release отпускает задержанные мутации
func (s *Server) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gate != nil {
		close(s.gate)
		s.gate = nil
	}
}

// enter ждет gate и решает, должна ли мутация завершиться ошибкой
func (s *Server) enter(ctx context.Context) error {
	s.mu.Lock()
	gate := s.gate
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failMut > 0 {
		s.failMut--
		return ErrInjected
	}
	return nil
}

// allocID вызывается под s.mu (или до запуска сервера)
func (s *Server) allocID() string {
	id := strconv.Itoa(s.nextID)
	s.nextID++
	return id
}

type resolver struct {
	s *Server
}

func (r *resolver) Books() []*bookResolver {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make([]*bookResolver, len(r.s.books))
	for i := range r.s.books {
		out[i] = &bookResolver{b: r.s.books[i]}
	}
	return out
}

type addBookArgs struct {
	Genre         *string
	PublishedYear *int32
	Title         string
	Author        string
}

func (r *resolver) AddBook(ctx context.Context, args addBookArgs) (*bookResolver, error) {
	if err := r.s.enter(ctx); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	b := models.Book{ID: r.s.allocID(), Title: args.Title, Author: args.Author, Genre: args.Genre}
	if args.PublishedYear != nil {
		year := int(*args.PublishedYear)
		b.PublishedYear = &year
	}
	r.s.books = append(r.s.books, b)
	return &bookResolver{b: b}, nil
}

func (r *resolver) DeleteBook(ctx context.Context, args struct{ ID graphql.ID }) (*bookResolver, error) {
	if err := r.s.enter(ctx); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.books {
		if r.s.books[i].ID == string(args.ID) {
			b := r.s.books[i]
			r.s.books = append(r.s.books[:i], r.s.books[i+1:]...)
			return &bookResolver{b: b}, nil
		}
	}
	return nil, nil
}

type bookResolver struct {
	b models.Book
}

func (r *bookResolver) ID() graphql.ID {
	return graphql.ID(r.b.ID)
}

func (r *bookResolver) Title() string {
	return r.b.Title
}

func (r *bookResolver) Author() string {
	return r.b.Author
}

func (r *bookResolver) Genre() *string {
	return r.b.Genre
}

func (r *bookResolver) PublishedYear() *int32 {
	if r.b.PublishedYear == nil {
		return nil
	}
	y := int32(*r.b.PublishedYear)
	return &y
}
