package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product selection in the session cart.
// Quantity is always within [1, stock of the product].
type CartLine struct {
	ProductID int64
	Quantity  int
}

// SnapshotLine freezes a cart line together with the product data it was
// priced against, so a confirmation can render even if the catalog changes.
type SnapshotLine struct {
	ProductID   int64
	Name        string
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// CartSnapshot represents the full cart state at checkout time.
type CartSnapshot struct {
	Lines      []SnapshotLine
	Total      decimal.Decimal
	CapturedAt time.Time
}

func (s CartSnapshot) Empty() bool {
	return len(s.Lines) == 0
}
