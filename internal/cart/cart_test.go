package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit/storefront/internal/domain"
)

func lookupFor(products ...domain.Product) ProductLookup {
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return func(id int64) (domain.Product, bool) {
		p, ok := byID[id]
		return p, ok
	}
}

func product(id int64, name string, price float64, stock int) domain.Product {
	return domain.Product{ID: id, Name: name, Price: decimal.NewFromFloat(price), Stock: stock}
}

func TestAddOutOfStockProduct(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 100, 0)))

	err := c.Add(1)
	require.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, 0, c.QuantityOf(1))
}

func TestAddUnknownProduct(t *testing.T) {
	c := New(lookupFor())

	err := c.Add(42)
	require.ErrorIs(t, err, domain.ErrUnknownProduct)
	assert.Equal(t, 0, c.Len())
}

func TestAddUpToStockCeiling(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 100, 3)))

	for want := 1; want <= 3; want++ {
		require.NoError(t, c.Add(1))
		assert.Equal(t, want, c.QuantityOf(1))
	}

	err := c.Increment(1)
	require.ErrorIs(t, err, domain.ErrOutOfStock)
	assert.Equal(t, 3, c.QuantityOf(1), "rejected increment must not change quantity")
}

func TestIncrementNeverExceedsStock(t *testing.T) {
	p := product(1, "Lamp", 100, 5)
	c := New(lookupFor(p))

	for i := 0; i < 20; i++ {
		_ = c.Increment(1)
		assert.LessOrEqual(t, c.QuantityOf(1), p.Stock)
	}
	assert.Equal(t, p.Stock, c.QuantityOf(1))
}

func TestIncrementCeilingFollowsLiveStock(t *testing.T) {
	stock := 2
	lookup := func(id int64) (domain.Product, bool) {
		return product(1, "Lamp", 100, stock), true
	}
	c := New(lookup)

	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(1))
	require.ErrorIs(t, c.Increment(1), domain.ErrOutOfStock)

	// Stock was raised on the server side; the ceiling moves with it.
	stock = 3
	require.NoError(t, c.Increment(1))
	assert.Equal(t, 3, c.QuantityOf(1))
}

func TestDecrementFloorsAtOne(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 100, 5)))
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(1))

	c.Decrement(1)
	assert.Equal(t, 1, c.QuantityOf(1))

	c.Decrement(1)
	assert.Equal(t, 1, c.QuantityOf(1), "decrement never goes below 1")
	assert.True(t, c.Contains(1), "decrement never removes the line")
}

func TestDecrementAbsentProductIsNoop(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 100, 5)))
	c.Decrement(1)
	assert.Equal(t, 0, c.QuantityOf(1))
}

func TestRemove(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 100, 5), product(2, "Desk", 250, 5)))
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(2))

	c.Remove(1)
	assert.Equal(t, 0, c.QuantityOf(1))
	assert.False(t, c.Contains(1))
	assert.Equal(t, 1, c.Len())
}

func TestClear(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 100, 5), product(2, "Desk", 250, 5)))
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(2))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	total, err := c.Total()
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestTotal(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 100, 5), product(2, "Desk", 250, 5)))
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(1)) // Lamp x2
	require.NoError(t, c.Add(2)) // Desk x1

	total, err := c.Total()
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(450).Equal(total), "got %s", total)
}

func TestTotalTracksEverySequenceOfMutations(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 19.99, 10), product(2, "Desk", 250, 10)))

	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(2))
	require.NoError(t, c.Increment(1))
	require.NoError(t, c.Increment(1)) // Lamp x3
	c.Decrement(2)                     // floored, Desk stays x1
	c.Remove(2)

	total, err := c.Total()
	require.NoError(t, err)
	want := decimal.NewFromFloat(19.99).Mul(decimal.NewFromInt(3))
	assert.True(t, want.Equal(total), "got %s", total)
}

func TestLinesKeepInsertionOrder(t *testing.T) {
	c := New(lookupFor(product(1, "Lamp", 100, 5), product(2, "Desk", 250, 5), product(3, "Chair", 50, 5)))
	require.NoError(t, c.Add(2))
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(3))
	require.NoError(t, c.Add(1)) // re-add must not reorder

	lines := c.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, int64(2), lines[0].ProductID)
	assert.Equal(t, int64(1), lines[1].ProductID)
	assert.Equal(t, int64(3), lines[2].ProductID)
}

func TestSnapshot(t *testing.T) {
	c := New(lookupFor(
		domain.Product{ID: 1, Name: "Lamp", Description: "warm white", Price: decimal.NewFromInt(100), Stock: 5},
		product(2, "Desk", 250, 5),
	))
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(1))
	require.NoError(t, c.Add(2))

	snap, err := c.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Lines, 2)

	assert.Equal(t, "Lamp", snap.Lines[0].Name)
	assert.Equal(t, "warm white", snap.Lines[0].Description)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.True(t, decimal.NewFromInt(200).Equal(snap.Lines[0].Subtotal))
	assert.True(t, decimal.NewFromInt(450).Equal(snap.Total))
	assert.False(t, snap.CapturedAt.IsZero())
}

func TestNoticeExpires(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(lookupFor(product(1, "Lamp", 100, 5)))
	c.clock = func() time.Time { return now }

	require.NoError(t, c.Add(1))
	name, ok := c.Notice()
	require.True(t, ok)
	assert.Equal(t, "Lamp", name)

	now = now.Add(DefaultNoticeTTL + time.Millisecond)
	_, ok = c.Notice()
	assert.False(t, ok)
}

func TestFailedAddDoesNotRefreshNotice(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := New(lookupFor(product(1, "Lamp", 100, 1)))
	c.clock = func() time.Time { return now }

	require.NoError(t, c.Add(1))
	now = now.Add(time.Second)
	require.ErrorIs(t, c.Add(1), domain.ErrOutOfStock)

	// The old notice is still within its original window.
	_, ok := c.Notice()
	assert.True(t, ok)

	now = now.Add(DefaultNoticeTTL)
	_, ok = c.Notice()
	assert.False(t, ok)
}
