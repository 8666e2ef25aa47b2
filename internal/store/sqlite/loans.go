package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/librarianapp/librarian-server/internal/domain"
	"github.com/librarianapp/librarian-server/internal/store"
)

const loanColumns = `id, user_id, book_id, borrowed_on, due_date, returned, created_at, updated_at`

// scanLoan scans a loan row into a domain.Loan.
func scanLoan(scanner interface{ Scan(dest ...any) error }) (*domain.Loan, error) {
	var l domain.Loan

	var (
		borrowedOn string
		dueDate    string
		returned   int
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&l.ID,
		&l.UserID,
		&l.BookID,
		&borrowedOn,
		&dueDate,
		&returned,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Returned = returned != 0

	l.BorrowedOn, err = parseDate(borrowedOn)
	if err != nil {
		return nil, err
	}
	l.DueDate, err = parseDate(dueDate)
	if err != nil {
		return nil, err
	}
	l.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	l.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// CreateLoan opens a loan for a book in a single transaction.
// The book and user must exist, and the book must have no open loan.
// The partial unique index on open loans rejects a racing second
// assignment no matter how the transactions interleave.
// Returns store.ErrBookNotFound, store.ErrUserNotFound, or
// store.ErrBookOnLoan; on success fills in the loan's generated ID.
func (s *Store) CreateLoan(ctx context.Context, loan *domain.Loan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM books WHERE id = ?`, loan.BookID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return store.ErrBookNotFound
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM users WHERE id = ?`, loan.UserID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return store.ErrUserNotFound
	}

	now := time.Now()
	loan.CreatedAt = now
	loan.UpdatedAt = now
	loan.Returned = false

	res, err := tx.ExecContext(ctx, `
		INSERT INTO loans (user_id, book_id, borrowed_on, due_date, returned, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)`,
		loan.UserID,
		loan.BookID,
		formatDate(loan.BorrowedOn),
		formatDate(loan.DueDate),
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrBookOnLoan
		}
		return err
	}

	loan.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ReturnLoan closes the open loan for a book and returns it.
// Returns store.ErrLoanNotFound if the book has no open loan,
// which covers both never-loaned and already-returned books.
func (s *Store) ReturnLoan(ctx context.Context, bookID int64) (*domain.Loan, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op

	row := tx.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE book_id = ? AND returned = 0`, bookID)

	loan, err := scanLoan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		`UPDATE loans SET returned = 1, updated_at = ? WHERE id = ?`,
		formatTime(now), loan.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	loan.Returned = true
	loan.UpdatedAt = now
	return loan, nil
}

// ListLoans returns loans matching the filter, oldest first.
func (s *Store) ListLoans(ctx context.Context, filter store.LoanFilter) ([]*domain.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans`
	var conds []string
	var args []any

	if filter.UserID != 0 {
		conds = append(conds, `user_id = ?`)
		args = append(args, filter.UserID)
	}
	if filter.OpenOnly {
		conds = append(conds, `returned = 0`)
	}

	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []*domain.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}
