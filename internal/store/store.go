// Package store defines the persistence interface and its sentinel errors.
package store

import (
	"context"
	"errors"

	"github.com/librarianapp/librarian-server/internal/domain"
)

// Sentinel errors returned by Store implementations.
// Services map these onto user-facing domain errors.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrBookNotFound   = errors.New("book not found")
	ErrLoanNotFound   = errors.New("no open loan for book")
	ErrUsernameExists = errors.New("username already exists")
	ErrISBNExists     = errors.New("isbn already exists")
	ErrBookOnLoan     = errors.New("book already on loan")
)

// BookFilter narrows book listings.
// String fields are case-insensitive substring matches except ISBN,
// which matches exactly. Available filters on whether an open loan exists.
type BookFilter struct {
	Title     string
	Author    string
	Category  string
	ISBN      string
	Available *bool
}

// UserFilter narrows user listings.
type UserFilter struct {
	Username string
	IsAdmin  *bool
}

// LoanFilter narrows loan listings.
type LoanFilter struct {
	UserID   int64 // 0 matches all users
	OpenOnly bool
}

// Store is the persistence interface for the library system.
type Store interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, filter UserFilter) ([]*domain.User, error)

	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	ListBooks(ctx context.Context, filter BookFilter) ([]*domain.Book, error)

	CreateLoan(ctx context.Context, loan *domain.Loan) error
	ReturnLoan(ctx context.Context, bookID int64) (*domain.Loan, error)
	ListLoans(ctx context.Context, filter LoanFilter) ([]*domain.Loan, error)

	Close() error
}
