package repository

import (
	"context"
	"time"

	"github.com/yogasw/expense-tracker-api/internal/domain/entity"
)

// SummaryFilter narrows the set of expenses a summary is computed over.
// A nil From/To leaves that bound open; Category "" matches every category.
type SummaryFilter struct {
	From     *time.Time
	To       *time.Time // exclusive
	Category string
}

// Summary holds aggregate statistics over a filtered expense set.
type Summary struct {
	TotalAmount float64  `json:"totalAmount"`
	TotalCount  int      `json:"totalCount"`
	AvgAmount   float64  `json:"avgAmount"`
	Categories  []string `json:"categories"`
}

// ExpenseRepository defines owner-scoped expense persistence.
// Every method takes the owner's user ID so that an unscoped query
// cannot be expressed against this interface.
type ExpenseRepository interface {
	Create(ctx context.Context, e *entity.Expense) error
	ListByOwner(ctx context.Context, ownerID string) ([]entity.Expense, error)
	GetByID(ctx context.Context, ownerID, id string) (*entity.Expense, error)
	Update(ctx context.Context, e *entity.Expense) error
	Delete(ctx context.Context, ownerID, id string) error
	Summarize(ctx context.Context, ownerID string, f SummaryFilter) (*Summary, error)
}
