package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/librarianapp/librarian-server/internal/auth"
	"github.com/librarianapp/librarian-server/internal/domain"
	"github.com/librarianapp/librarian-server/internal/store"
	"github.com/librarianapp/librarian-server/internal/store/sqlite"
)

// testServices bundles all services wired against one temp store.
type testServices struct {
	auth  *AuthService
	books *BookService
	users *UserService
	loans *LoanService
	store store.Store
}

// setupServices creates services with temporary storage for testing.
func setupServices(t *testing.T) *testServices {
	t.Helper()

	dir := t.TempDir()

	s, err := sqlite.Open(filepath.Join(dir, "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	authKey, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(authKey, 15*time.Minute)
	require.NoError(t, err)

	return &testServices{
		auth:  NewAuthService(s, tokenService, nil),
		books: NewBookService(s, nil),
		users: NewUserService(s, nil),
		loans: NewLoanService(s, nil),
		store: s,
	}
}

// seedUser creates an account through the user service.
func (ts *testServices) seedUser(t *testing.T, username, password string, isAdmin bool) *domain.User {
	t.Helper()
	user, err := ts.users.CreateUser(context.Background(), CreateUserRequest{
		Username: username,
		Password: password,
		IsAdmin:  isAdmin,
	})
	require.NoError(t, err)
	return user
}

// seedBook creates a catalog entry through the book service.
func (ts *testServices) seedBook(t *testing.T, title, isbn string) *domain.Book {
	t.Helper()
	book, err := ts.books.CreateBook(context.Background(), CreateBookRequest{
		Title:    title,
		Author:   "Test Author",
		ISBN:     isbn,
		Category: "Roman",
	})
	require.NoError(t, err)
	return book
}
