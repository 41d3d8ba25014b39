package domain

import "github.com/shopspring/decimal"

// Product is a catalog entry as the storefront sees it: item fields merged
// with the quantity of its inventory record.
type Product struct {
	ID          int64
	Name        string
	Description string
	Category    string
	ImageURL    string
	Price       decimal.Decimal
	Stock       int
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
