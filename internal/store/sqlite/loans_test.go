package sqlite

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/librarianapp/librarian-server/internal/domain"
	"github.com/librarianapp/librarian-server/internal/store"
)

func TestCreateLoan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "user1", false)
	book := mustCreateBook(t, s, "1984", "9789750718533")

	loan := mustCreateLoan(t, s, user.ID, book.ID)
	if loan.ID == 0 {
		t.Fatal("expected generated ID")
	}
	if loan.Returned {
		t.Error("new loan should be open")
	}

	loans, err := s.ListLoans(ctx, store.LoanFilter{})
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(loans) != 1 {
		t.Fatalf("expected 1 loan, got %d", len(loans))
	}
	if loans[0].UserID != user.ID || loans[0].BookID != book.ID {
		t.Errorf("loan refs: got user=%d book=%d", loans[0].UserID, loans[0].BookID)
	}
}

func TestCreateLoan_BookNotFound(t *testing.T) {
	s := newTestStore(t)

	user := mustCreateUser(t, s, "user1", false)

	err := s.CreateLoan(context.Background(), &domain.Loan{
		UserID:     user.ID,
		BookID:     9999,
		BorrowedOn: time.Now(),
		DueDate:    time.Now().AddDate(0, 0, 7),
	})
	if !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestCreateLoan_UserNotFound(t *testing.T) {
	s := newTestStore(t)

	book := mustCreateBook(t, s, "1984", "9789750718533")

	err := s.CreateLoan(context.Background(), &domain.Loan{
		UserID:     9999,
		BookID:     book.ID,
		BorrowedOn: time.Now(),
		DueDate:    time.Now().AddDate(0, 0, 7),
	})
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateLoan_BookAlreadyOnLoan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user1 := mustCreateUser(t, s, "user1", false)
	user2 := mustCreateUser(t, s, "user2", false)
	book := mustCreateBook(t, s, "1984", "9789750718533")

	mustCreateLoan(t, s, user1.ID, book.ID)

	err := s.CreateLoan(ctx, &domain.Loan{
		UserID:     user2.ID,
		BookID:     book.ID,
		BorrowedOn: time.Now(),
		DueDate:    time.Now().AddDate(0, 0, 7),
	})
	if !errors.Is(err, store.ErrBookOnLoan) {
		t.Errorf("expected ErrBookOnLoan, got %v", err)
	}

	// The failed assignment must not leave a second loan behind.
	loans, err := s.ListLoans(ctx, store.LoanFilter{OpenOnly: true})
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(loans) != 1 {
		t.Errorf("expected 1 open loan, got %d", len(loans))
	}
}

func TestCreateLoan_ConcurrentAssign(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	book := mustCreateBook(t, s, "1984", "9789750718533")

	const workers = 8
	users := make([]*domain.User, workers)
	for i := range users {
		users[i] = mustCreateUser(t, s, "user"+string(rune('a'+i)), false)
	}

	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.CreateLoan(ctx, &domain.Loan{
				UserID:     users[i].ID,
				BookID:     book.ID,
				BorrowedOn: time.Now(),
				DueDate:    time.Now().AddDate(0, 0, 7),
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful assignment, got %d", succeeded)
	}

	loans, err := s.ListLoans(ctx, store.LoanFilter{OpenOnly: true})
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(loans) != 1 {
		t.Errorf("expected 1 open loan, got %d", len(loans))
	}
}

func TestReturnLoan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "user1", false)
	book := mustCreateBook(t, s, "1984", "9789750718533")
	created := mustCreateLoan(t, s, user.ID, book.ID)

	returned, err := s.ReturnLoan(ctx, book.ID)
	if err != nil {
		t.Fatalf("ReturnLoan: %v", err)
	}
	if returned.ID != created.ID {
		t.Errorf("returned loan ID: got %d, want %d", returned.ID, created.ID)
	}
	if !returned.Returned {
		t.Error("loan should be closed")
	}

	// Second return fails; the loan history stays intact.
	_, err = s.ReturnLoan(ctx, book.ID)
	if !errors.Is(err, store.ErrLoanNotFound) {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}

	loans, err := s.ListLoans(ctx, store.LoanFilter{})
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(loans) != 1 || !loans[0].Returned {
		t.Errorf("expected 1 closed loan, got %+v", loans)
	}
}

func TestReturnLoan_NeverLoaned(t *testing.T) {
	s := newTestStore(t)

	book := mustCreateBook(t, s, "1984", "9789750718533")

	_, err := s.ReturnLoan(context.Background(), book.ID)
	if !errors.Is(err, store.ErrLoanNotFound) {
		t.Errorf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestAssignReturnAssign_Cycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user1 := mustCreateUser(t, s, "user1", false)
	user2 := mustCreateUser(t, s, "user2", false)
	book := mustCreateBook(t, s, "1984", "9789750718533")

	mustCreateLoan(t, s, user1.ID, book.ID)
	if _, err := s.ReturnLoan(ctx, book.ID); err != nil {
		t.Fatalf("ReturnLoan: %v", err)
	}

	// The book can be assigned again after return.
	mustCreateLoan(t, s, user2.ID, book.ID)

	loans, err := s.ListLoans(ctx, store.LoanFilter{})
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("expected 2 loans in history, got %d", len(loans))
	}

	open, err := s.ListLoans(ctx, store.LoanFilter{OpenOnly: true})
	if err != nil {
		t.Fatalf("ListLoans(open): %v", err)
	}
	if len(open) != 1 || open[0].UserID != user2.ID {
		t.Errorf("expected 1 open loan for user2, got %+v", open)
	}
}

func TestListLoans_UserFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user1 := mustCreateUser(t, s, "user1", false)
	user2 := mustCreateUser(t, s, "user2", false)
	book1 := mustCreateBook(t, s, "1984", "9789750718533")
	book2 := mustCreateBook(t, s, "Yabancı", "9789750726477")

	mustCreateLoan(t, s, user1.ID, book1.ID)
	mustCreateLoan(t, s, user2.ID, book2.ID)

	loans, err := s.ListLoans(ctx, store.LoanFilter{UserID: user1.ID})
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if len(loans) != 1 || loans[0].BookID != book1.ID {
		t.Errorf("expected user1's loan only, got %+v", loans)
	}
}

func TestLoan_DateRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := mustCreateUser(t, s, "user1", false)
	book := mustCreateBook(t, s, "1984", "9789750718533")

	due := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	loan := &domain.Loan{
		UserID:     user.ID,
		BookID:     book.ID,
		BorrowedOn: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    due,
	}
	if err := s.CreateLoan(ctx, loan); err != nil {
		t.Fatalf("CreateLoan: %v", err)
	}

	loans, err := s.ListLoans(ctx, store.LoanFilter{})
	if err != nil {
		t.Fatalf("ListLoans: %v", err)
	}
	if got := loans[0].DueDate.Format("2006-01-02"); got != "2026-10-15" {
		t.Errorf("DueDate: got %s, want 2026-10-15", got)
	}
	if got := loans[0].BorrowedOn.Format("2006-01-02"); got != "2026-10-01" {
		t.Errorf("BorrowedOn: got %s, want 2026-10-01", got)
	}
}
