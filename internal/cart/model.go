package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses. PENDING is the customer's cart; everything after
// CONFIRMED is driven by kitchen or admin staff.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusPreparing = "PREPARING"
	StatusReady     = "READY"
	StatusServed    = "SERVED"
	StatusCompleted = "COMPLETED"
	StatusCancelled = "CANCELLED"
)

// Payment methods.
const (
	PaymentCOD    = "cod"
	PaymentCard   = "card"
	PaymentUPI    = "upi"
	PaymentWallet = "wallet"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusServed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCOD, PaymentCard, PaymentUPI, PaymentWallet:
		return true
	}
	return false
}

// next holds the single forward successor of each status.
var next = map[string]string{
	StatusPending:   StatusConfirmed,
	StatusConfirmed: StatusPreparing,
	StatusPreparing: StatusReady,
	StatusReady:     StatusServed,
	StatusServed:    StatusCompleted,
}

// CanTransition reports whether an order may move from one status to
// another. Forward moves must be adjacent; CANCELLED is reachable from
// any active post-checkout state.
func CanTransition(from, to string) bool {
	if to == StatusCancelled {
		switch from {
		case StatusConfirmed, StatusPreparing, StatusReady:
			return true
		}
		return false
	}
	return next[from] == to
}

type Order struct {
	ID                  string          `json:"id"`
	CustomerID          string          `json:"customer_id"`
	TableID             *string         `json:"table_id,omitempty"`
	Status              string          `json:"status"`
	TotalAmount         decimal.Decimal `json:"total_amount"`
	PaymentMethod       string          `json:"payment_method"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

type Item struct {
	ID         string `json:"id"`
	OrderID    string `json:"order_id"`
	MenuItemID string `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	// Price is snapshotted at add time so later menu edits leave
	// placed orders untouched.
	Price decimal.Decimal `json:"price"`
}

// Subtotal is quantity times the snapshotted price.
func (it Item) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Total sums line-item subtotals. Idempotent; always safe to call.
func Total(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}
