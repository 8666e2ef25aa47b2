package api

import (
	"encoding/json/v2"
	"net/http"
	"time"

	"github.com/librarianapp/librarian-server/internal/domain"
	"github.com/librarianapp/librarian-server/internal/http/response"
	"github.com/librarianapp/librarian-server/internal/service"
	"github.com/librarianapp/librarian-server/internal/store"
)

// BookResponse is the wire shape of a catalog entry.
// DueDate and IsOverdue appear only when the book is out on loan.
type BookResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Category  string `json:"category"`
	Available bool   `json:"available"`
	DueDate   string `json:"due_date,omitempty"`
	IsOverdue *bool  `json:"is_overdue,omitempty"`
}

// toBookResponse renders a book with availability recomputed at read time.
func toBookResponse(b *domain.Book, now time.Time) BookResponse {
	resp := BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		ISBN:      b.ISBN,
		Category:  b.Category,
		Available: b.Available,
	}
	if !b.Available && b.DueDate != nil {
		resp.DueDate = b.DueDate.Format("2006-01-02")
		overdue := !now.Before(b.DueDate.AddDate(0, 0, 1))
		resp.IsOverdue = &overdue
	}
	return resp
}

func toBookResponses(books []*domain.Book) []BookResponse {
	now := time.Now()
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b, now))
	}
	return out
}

// bookFilterFromQuery builds a store filter from list/search query params.
func bookFilterFromQuery(r *http.Request) store.BookFilter {
	q := r.URL.Query()
	filter := store.BookFilter{
		Title:    q.Get("title"),
		Author:   q.Get("author"),
		Category: q.Get("category"),
		ISBN:     q.Get("isbn"),
	}
	if v := q.Get("available"); v != "" {
		available := v == "true" || v == "1"
		filter.Available = &available
	}
	return filter
}

// handleListBooks returns catalog entries matching the query filters.
// GET /api/books
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.bookService.ListBooks(r.Context(), bookFilterFromQuery(r))
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Success(w, toBookResponses(books), s.logger)
}

// handleSearchBooks searches the catalog with the same filter semantics.
// GET /api/books/search
func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.bookService.ListBooks(r.Context(), bookFilterFromQuery(r))
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Success(w, toBookResponses(books), s.logger)
}

// handleCreateBook adds a book to the catalog.
// POST /api/books
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.CreateBook(r.Context(), req)
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Created(w, toBookResponse(book, time.Now()), s.logger)
}
