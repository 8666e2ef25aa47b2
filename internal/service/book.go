package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/librarianapp/librarian-server/internal/domain"
	domainerrors "github.com/librarianapp/librarian-server/internal/errors"
	"github.com/librarianapp/librarian-server/internal/store"
)

// BookService manages the book catalog.
type BookService struct {
	store  store.Store
	logger *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(store store.Store, logger *slog.Logger) *BookService {
	return &BookService{
		store:  store,
		logger: logger,
	}
}

// CreateBookRequest contains the fields for a new catalog entry.
type CreateBookRequest struct {
	Title    string `json:"title" validate:"required"`
	Author   string `json:"author" validate:"required"`
	ISBN     string `json:"isbn" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// CreateBook adds a book to the catalog. New books start available.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	book := &domain.Book{
		Title:    req.Title,
		Author:   req.Author,
		ISBN:     req.ISBN,
		Category: req.Category,
	}

	if err := s.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrISBNExists) {
			return nil, domainerrors.AlreadyExists("ISBN already exists")
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book created", "book_id", book.ID, "title", book.Title)
	}

	return book, nil
}

// ListBooks returns catalog entries matching the filter.
func (s *BookService) ListBooks(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// GetBook returns a single catalog entry.
func (s *BookService) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrBookNotFound) {
			return nil, domainerrors.NotFound("Book not found")
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}
