package domain

import "time"

// Loan represents a book checked out to a user.
// At most one open loan can exist per book at any time.
type Loan struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	BookID     int64     `json:"book_id"`
	BorrowedOn time.Time `json:"borrowed_on"`
	DueDate    time.Time `json:"due_date"`
	Returned   bool      `json:"returned"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsOpen returns true if the book has not been returned yet.
func (l *Loan) IsOpen() bool {
	return !l.Returned
}

// IsOverdue returns true if the loan is still open past its due date.
// The due date marks the last day the book may be kept, so the loan
// only becomes overdue once that whole day has passed.
func (l *Loan) IsOverdue(now time.Time) bool {
	if l.Returned {
		return false
	}
	endOfDueDay := l.DueDate.AddDate(0, 0, 1)
	return !now.Before(endOfDueDay)
}
