package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoan_IsOverdue(t *testing.T) {
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		loan     Loan
		now      time.Time
		expected bool
	}{
		{
			name:     "before due date",
			loan:     Loan{DueDate: due},
			now:      due.AddDate(0, 0, -3),
			expected: false,
		},
		{
			name:     "on due date",
			loan:     Loan{DueDate: due},
			now:      due.Add(12 * time.Hour),
			expected: false,
		},
		{
			name:     "day after due date",
			loan:     Loan{DueDate: due},
			now:      due.AddDate(0, 0, 1),
			expected: true,
		},
		{
			name:     "past due but returned",
			loan:     Loan{DueDate: due, Returned: true},
			now:      due.AddDate(0, 0, 30),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.loan.IsOverdue(tt.now))
		})
	}
}

func TestLoan_IsOpen(t *testing.T) {
	open := Loan{Returned: false}
	closed := Loan{Returned: true}

	assert.True(t, open.IsOpen())
	assert.False(t, closed.IsOpen())
}
