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

// bookColumns selects book fields plus the due date of the open loan,
// if any. Availability is derived: a book is available exactly when
// the joined loan row is absent.
const bookColumns = `b.id, b.title, b.author, b.isbn, b.category, b.created_at, b.updated_at, l.due_date`

const bookFrom = ` FROM books b
	LEFT JOIN loans l ON l.book_id = b.id AND l.returned = 0`

// scanBook scans a book row joined against its open loan.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt string
		updatedAt string
		dueDate   sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.ISBN,
		&b.Category,
		&createdAt,
		&updatedAt,
		&dueDate,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	b.Available = !dueDate.Valid
	if dueDate.Valid {
		due, err := parseDate(dueDate.String)
		if err != nil {
			return nil, err
		}
		b.DueDate = &due
	}

	return &b, nil
}

// CreateBook inserts a new book and fills in its generated ID.
// Returns store.ErrISBNExists if a book with the same ISBN exists.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	now := time.Now()
	book.CreatedAt = now
	book.UpdatedAt = now

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO books (title, author, isbn, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		book.Title,
		book.Author,
		book.ISBN,
		book.Category,
		formatTime(now),
		formatTime(now),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrISBNExists
		}
		return err
	}

	book.ID, err = res.LastInsertId()
	if err != nil {
		return err
	}
	book.Available = true
	return nil
}

// GetBook retrieves a book by ID with its derived availability.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+bookFrom+` WHERE b.id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns books matching the filter, oldest first.
// Title, author and category match case-insensitive substrings;
// ISBN matches exactly.
func (s *Store) ListBooks(ctx context.Context, filter store.BookFilter) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + bookFrom
	var conds []string
	var args []any

	if filter.Title != "" {
		conds = append(conds, `lower(b.title) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Title)+"%")
	}
	if filter.Author != "" {
		conds = append(conds, `lower(b.author) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Author)+"%")
	}
	if filter.Category != "" {
		conds = append(conds, `lower(b.category) LIKE ?`)
		args = append(args, "%"+strings.ToLower(filter.Category)+"%")
	}
	if filter.ISBN != "" {
		conds = append(conds, `b.isbn = ?`)
		args = append(args, filter.ISBN)
	}
	if filter.Available != nil {
		if *filter.Available {
			conds = append(conds, `l.id IS NULL`)
		} else {
			conds = append(conds, `l.id IS NOT NULL`)
		}
	}

	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, ` AND `)
	}
	query += ` ORDER BY b.id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
