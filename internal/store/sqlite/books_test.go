package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/librarianapp/librarian-server/internal/store"
)

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := mustCreateBook(t, s, "1984", "9789750718533")
	if book.ID == 0 {
		t.Fatal("expected generated ID")
	}
	if !book.Available {
		t.Error("new book should be available")
	}

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != "1984" {
		t.Errorf("Title: got %q, want %q", got.Title, "1984")
	}
	if !got.Available {
		t.Error("expected available with no open loan")
	}
	if got.DueDate != nil {
		t.Errorf("expected nil due date, got %v", got.DueDate)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), 9999)
	if !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestCreateBook_DuplicateISBN(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateBook(t, s, "1984", "9789750718533")

	dup := mustCreateBook(t, s, "Animal Farm", "9789750799389")
	dup.ISBN = "9789750718533"
	err := s.CreateBook(ctx, dup)
	if !errors.Is(err, store.ErrISBNExists) {
		t.Errorf("expected ErrISBNExists, got %v", err)
	}
}

func TestGetBook_DerivedAvailability(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "user1", false)
	book := mustCreateBook(t, s, "1984", "9789750718533")

	loan := mustCreateLoan(t, s, user.ID, book.ID)

	got, err := s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Available {
		t.Error("book on loan should be unavailable")
	}
	if got.DueDate == nil {
		t.Fatal("expected due date for book on loan")
	}
	if got.DueDate.Format("2006-01-02") != loan.DueDate.Format("2006-01-02") {
		t.Errorf("DueDate: got %v, want %v", got.DueDate, loan.DueDate)
	}

	// Returning restores availability.
	if _, err := s.ReturnLoan(ctx, book.ID); err != nil {
		t.Fatalf("ReturnLoan: %v", err)
	}
	got, err = s.GetBook(ctx, book.ID)
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if !got.Available {
		t.Error("returned book should be available again")
	}
}

func TestListBooks_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "user1", false)
	crime := mustCreateBook(t, s, "Suç ve Ceza", "9789754589078")
	orwell := mustCreateBook(t, s, "1984", "9789750718533")
	mustCreateBook(t, s, "Yabancı", "9789750726477")

	mustCreateLoan(t, s, user.ID, orwell.ID)

	all, err := s.ListBooks(ctx, store.BookFilter{})
	if err != nil {
		t.Fatalf("ListBooks: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 books, got %d", len(all))
	}

	// Case-insensitive substring on title.
	matched, err := s.ListBooks(ctx, store.BookFilter{Title: "suç"})
	if err != nil {
		t.Fatalf("ListBooks(title): %v", err)
	}
	if len(matched) != 1 || matched[0].ID != crime.ID {
		t.Errorf("expected only %q, got %d books", "Suç ve Ceza", len(matched))
	}

	// Exact ISBN.
	matched, err = s.ListBooks(ctx, store.BookFilter{ISBN: "9789750718533"})
	if err != nil {
		t.Fatalf("ListBooks(isbn): %v", err)
	}
	if len(matched) != 1 || matched[0].ID != orwell.ID {
		t.Errorf("expected only 1984, got %d books", len(matched))
	}

	// Partial ISBN must not match.
	matched, err = s.ListBooks(ctx, store.BookFilter{ISBN: "97897507"})
	if err != nil {
		t.Fatalf("ListBooks(partial isbn): %v", err)
	}
	if len(matched) != 0 {
		t.Errorf("partial ISBN should not match, got %d books", len(matched))
	}

	// Availability filter.
	available := true
	matched, err = s.ListBooks(ctx, store.BookFilter{Available: &available})
	if err != nil {
		t.Fatalf("ListBooks(available): %v", err)
	}
	if len(matched) != 2 {
		t.Errorf("expected 2 available books, got %d", len(matched))
	}

	available = false
	matched, err = s.ListBooks(ctx, store.BookFilter{Available: &available})
	if err != nil {
		t.Fatalf("ListBooks(unavailable): %v", err)
	}
	if len(matched) != 1 || matched[0].ID != orwell.ID {
		t.Errorf("expected only the loaned book, got %d books", len(matched))
	}
}
