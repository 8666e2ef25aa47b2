package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/librarianapp/librarian-server/internal/domain"
	domainerrors "github.com/librarianapp/librarian-server/internal/errors"
	"github.com/librarianapp/librarian-server/internal/store"
)

// dueDateLayout is the calendar-date format accepted for return dates.
const dueDateLayout = "2006-01-02"

// LoanService manages the loan lifecycle.
type LoanService struct {
	store  store.Store
	logger *slog.Logger
}

// NewLoanService creates a new loan service.
func NewLoanService(store store.Store, logger *slog.Logger) *LoanService {
	return &LoanService{
		store:  store,
		logger: logger,
	}
}

// AssignRequest names the book, the borrower, and the date the book is due back.
type AssignRequest struct {
	BookID     int64  `json:"book_id" validate:"required"`
	UserID     int64  `json:"user_id" validate:"required"`
	ReturnDate string `json:"return_date" validate:"required"`
}

// Assign opens a loan for a book. The book must exist and have no
// open loan; the store enforces both inside one transaction, so a
// failed assignment changes nothing.
func (s *LoanService) Assign(ctx context.Context, req AssignRequest) (*domain.Loan, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	dueDate, err := time.Parse(dueDateLayout, req.ReturnDate)
	if err != nil {
		return nil, domainerrors.Validation("Invalid return_date format, expected YYYY-MM-DD")
	}

	loan := &domain.Loan{
		UserID:     req.UserID,
		BookID:     req.BookID,
		BorrowedOn: time.Now(),
		DueDate:    dueDate,
	}

	if err := s.store.CreateLoan(ctx, loan); err != nil {
		switch {
		case errors.Is(err, store.ErrBookNotFound), errors.Is(err, store.ErrBookOnLoan):
			// A missing book and a loaned-out book read the same to the caller.
			return nil, domainerrors.StateConflict("Book not available")
		case errors.Is(err, store.ErrUserNotFound):
			return nil, domainerrors.NotFound("User not found")
		default:
			return nil, fmt.Errorf("create loan: %w", err)
		}
	}

	if s.logger != nil {
		s.logger.Info("Book assigned",
			"loan_id", loan.ID,
			"book_id", loan.BookID,
			"user_id", loan.UserID,
			"due_date", req.ReturnDate,
		)
	}

	return loan, nil
}

// Return closes the open loan for a book.
func (s *LoanService) Return(ctx context.Context, bookID int64) (*domain.Loan, error) {
	loan, err := s.store.ReturnLoan(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrLoanNotFound) {
			return nil, domainerrors.StateConflict("No active loan for this book")
		}
		return nil, fmt.Errorf("return loan: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Book returned", "loan_id", loan.ID, "book_id", loan.BookID)
	}

	return loan, nil
}

// ListLoans returns loans matching the filter.
func (s *LoanService) ListLoans(ctx context.Context, filter store.LoanFilter) ([]*domain.Loan, error) {
	loans, err := s.store.ListLoans(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return loans, nil
}
