package cart

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storekit/storefront/internal/domain"
)

// ProductLookup resolves a product id against the latest known catalog data.
// The cart re-reads stock through it on every mutation, so the ceiling is
// always the live figure rather than a snapshot taken at add time.
type ProductLookup func(productID int64) (domain.Product, bool)

// DefaultNoticeTTL is how long the "added to cart" notice stays visible.
const DefaultNoticeTTL = 2 * time.Second

// Cart holds the product selections of one browsing session. It is owned by
// a single session and is not safe for concurrent use; all mutations happen
// on the session's event loop.
type Cart struct {
	lookup ProductLookup
	lines  []domain.CartLine // insertion order = order of first add

	notice      string
	noticeUntil time.Time
	noticeTTL   time.Duration

	clock func() time.Time
}

func New(lookup ProductLookup) *Cart {
	return &Cart{
		lookup:    lookup,
		noticeTTL: DefaultNoticeTTL,
		clock:     time.Now,
	}
}

// Add puts one unit of the product into the cart: a new line with quantity 1
// if the product is not selected yet, otherwise an increment. The mutation is
// rejected with domain.ErrOutOfStock when it would exceed the product's
// currently known stock; a rejected add leaves the cart unchanged.
func (c *Cart) Add(productID int64) error {
	p, ok := c.lookup(productID)
	if !ok {
		return fmt.Errorf("product %d: %w", productID, domain.ErrUnknownProduct)
	}

	line := c.find(productID)
	if line == nil {
		if p.Stock <= 0 {
			return fmt.Errorf("%s: %w", p.Name, domain.ErrOutOfStock)
		}
		c.lines = append(c.lines, domain.CartLine{ProductID: productID, Quantity: 1})
		c.setNotice(p.Name)
		return nil
	}

	if line.Quantity >= p.Stock {
		return fmt.Errorf("%s: %w", p.Name, domain.ErrOutOfStock)
	}
	line.Quantity++
	c.setNotice(p.Name)
	return nil
}

// Increment raises the quantity of a selected product by one. It follows the
// same rules as Add: the product is inserted if absent, and the live stock
// ceiling applies.
func (c *Cart) Increment(productID int64) error {
	return c.Add(productID)
}

// Decrement lowers the quantity by one, floored at 1. It never drops the
// line; removal is an explicit separate action. Decrementing a product that
// is not in the cart is a no-op.
func (c *Cart) Decrement(productID int64) {
	if line := c.find(productID); line != nil && line.Quantity > 1 {
		line.Quantity--
	}
}

// Remove deletes the line unconditionally, regardless of quantity.
func (c *Cart) Remove(productID int64) {
	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

func (c *Cart) Contains(productID int64) bool {
	return c.find(productID) != nil
}

// QuantityOf returns the selected quantity, or 0 when the product is absent.
func (c *Cart) QuantityOf(productID int64) int {
	if line := c.find(productID); line != nil {
		return line.Quantity
	}
	return 0
}

func (c *Cart) Len() int {
	return len(c.lines)
}

// Lines returns a copy of the cart contents in insertion order.
func (c *Cart) Lines() []domain.CartLine {
	out := make([]domain.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Total recomputes the cart total from current quantities and current
// product prices. It is never cached, so it cannot desync from the cart.
func (c *Cart) Total() (decimal.Decimal, error) {
	total := decimal.Zero
	for _, line := range c.lines {
		p, ok := c.lookup(line.ProductID)
		if !ok {
			return decimal.Zero, fmt.Errorf("product %d: %w", line.ProductID, domain.ErrUnknownProduct)
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// Snapshot freezes the cart for checkout: every line is resolved against the
// catalog and captured with the product name, description and unit price, so
// the checkout flow no longer depends on live catalog data.
func (c *Cart) Snapshot() (domain.CartSnapshot, error) {
	snap := domain.CartSnapshot{CapturedAt: c.clock()}
	for _, line := range c.lines {
		p, ok := c.lookup(line.ProductID)
		if !ok {
			return domain.CartSnapshot{}, fmt.Errorf("product %d: %w", line.ProductID, domain.ErrUnknownProduct)
		}
		qty := decimal.NewFromInt(int64(line.Quantity))
		sl := domain.SnapshotLine{
			ProductID:   line.ProductID,
			Name:        p.Name,
			Description: p.Description,
			Quantity:    line.Quantity,
			UnitPrice:   p.Price,
			Subtotal:    p.Price.Mul(qty),
		}
		snap.Lines = append(snap.Lines, sl)
		snap.Total = snap.Total.Add(sl.Subtotal)
	}
	return snap, nil
}

// Notice reports the product name of the last successful add while the
// notice is still fresh. The caller renders it; the cart only tracks it.
func (c *Cart) Notice() (string, bool) {
	if c.notice == "" || c.clock().After(c.noticeUntil) {
		return "", false
	}
	return c.notice, true
}

func (c *Cart) setNotice(name string) {
	c.notice = name
	c.noticeUntil = c.clock().Add(c.noticeTTL)
}

func (c *Cart) find(productID int64) *domain.CartLine {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return &c.lines[i]
		}
	}
	return nil
}
