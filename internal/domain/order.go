package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is one outbound order position, referencing the item by id only.
type OrderItem struct {
	ProductID int64
	Quantity  int
}

// Order is the finalized purchase request. It is built once at submission
// time from the checkout snapshot and never mutated afterwards.
type Order struct {
	Customer CustomerDetails
	Items    []OrderItem
	Total    decimal.Decimal
}

// OrderSummary is a past purchase as returned by the order history endpoint.
type OrderSummary struct {
	OrderID    string
	TotalPrice decimal.Decimal
	OrderedAt  time.Time
}
