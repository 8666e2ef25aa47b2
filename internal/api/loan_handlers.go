package api

import (
	"encoding/json/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/librarianapp/librarian-server/internal/domain"
	"github.com/librarianapp/librarian-server/internal/http/response"
	"github.com/librarianapp/librarian-server/internal/service"
	"github.com/librarianapp/librarian-server/internal/store"
)

// LoanResponse is the wire shape of a loan, with overdue state
// recomputed at read time.
type LoanResponse struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	BookID     int64  `json:"book_id"`
	BorrowedOn string `json:"borrowed_on"`
	DueDate    string `json:"due_date"`
	Returned   bool   `json:"returned"`
	IsOverdue  bool   `json:"is_overdue"`
}

func toLoanResponse(l *domain.Loan, now time.Time) LoanResponse {
	return LoanResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		BookID:     l.BookID,
		BorrowedOn: l.BorrowedOn.Format("2006-01-02"),
		DueDate:    l.DueDate.Format("2006-01-02"),
		Returned:   l.Returned,
		IsOverdue:  l.IsOverdue(now),
	}
}

func toLoanResponses(loans []*domain.Loan) []LoanResponse {
	now := time.Now()
	out := make([]LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoanResponse(l, now))
	}
	return out
}

// handleAssignLoan checks a book out to a user.
// POST /api/loans/assign
func (s *Server) handleAssignLoan(w http.ResponseWriter, r *http.Request) {
	var req service.AssignRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	loan, err := s.loanService.Assign(r.Context(), req)
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Success(w, toLoanResponse(loan, time.Now()), s.logger)
}

// handleReturnLoan closes the open loan for a book.
// POST /api/loans/return/{bookID}
func (s *Server) handleReturnLoan(w http.ResponseWriter, r *http.Request) {
	bookID, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid book ID", s.logger)
		return
	}

	loan, err := s.loanService.Return(r.Context(), bookID)
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Success(w, toLoanResponse(loan, time.Now()), s.logger)
}

// handleListLoans returns the loan history.
// GET /api/loans
func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.LoanFilter{
		OpenOnly: q.Get("open") == "true" || q.Get("open") == "1",
	}
	if v := q.Get("user_id"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid user ID", s.logger)
			return
		}
		filter.UserID = userID
	}

	loans, err := s.loanService.ListLoans(r.Context(), filter)
	if err != nil {
		handleServiceError(w, err, s.logger)
		return
	}

	response.Success(w, toLoanResponses(loans), s.logger)
}
