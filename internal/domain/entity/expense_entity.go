package entity

import (
	"time"
)

// Expense is a single spending record owned by exactly one user.
// OwnerID is assigned at creation and never changes afterwards.
type Expense struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	ReceiptURL  string    `json:"receiptUrl,omitempty"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
