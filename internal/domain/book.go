package domain

import "time"

// Book represents a title in the catalog.
// Availability is not stored on the book row. A book is available
// exactly when it has no open loan, so the store derives Available
// (and DueDate) by joining against open loans at read time.
type Book struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	ISBN      string    `json:"isbn"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Derived fields, populated on read.
	Available bool       `json:"available"`
	DueDate   *time.Time `json:"due_date,omitempty"`
}
