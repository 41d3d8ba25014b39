package stubapi

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInventoryNotFound = errors.New("inventory record not found")
	ErrInsufficientStock = errors.New("Insufficient stock")
)

// Item is a catalog entry as the stub backend stores it.
type Item struct {
	ID          int64
	Name        string
	Description string
	Price       float64
	Category    string
	Image       string
}

// InventoryRecord tracks the stock of one item.
type InventoryRecord struct {
	ID       int64
	ItemID   int64
	Quantity int
}

// PurchaseItem is one position of a recorded purchase.
type PurchaseItem struct {
	ItemID   int64
	Quantity int
}

// Purchase is a recorded order, keyed by the customer's email for the
// history endpoint.
type Purchase struct {
	OrderID       int64
	CustomerEmail string
	Items         []PurchaseItem
	Total         float64
	OrderedAt     time.Time
}

// Store is the in-memory backend behind the stub API. Unlike the real
// service it keeps nothing durable, but it mirrors the real behavior,
// including the stock decrement on purchase.
type Store struct {
	mu sync.RWMutex

	nextItemID      int64
	nextInventoryID int64
	nextOrderID     int64

	itemOrder []int64
	items     map[int64]*Item
	inventory map[int64]*InventoryRecord // keyed by inventory id
	byItem    map[int64]*InventoryRecord // same records, keyed by item id
	purchases []Purchase

	clock func() time.Time
}

func NewStore() *Store {
	return &Store{
		nextOrderID: 1000,
		items:       make(map[int64]*Item),
		inventory:   make(map[int64]*InventoryRecord),
		byItem:      make(map[int64]*InventoryRecord),
		clock:       time.Now,
	}
}

// AddItem inserts a catalog entry together with its inventory record and
// returns the stored item.
func (s *Store) AddItem(item Item, quantity int) Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextItemID++
	item.ID = s.nextItemID
	s.items[item.ID] = &item
	s.itemOrder = append(s.itemOrder, item.ID)

	s.nextInventoryID++
	rec := &InventoryRecord{ID: s.nextInventoryID, ItemID: item.ID, Quantity: quantity}
	s.inventory[rec.ID] = rec
	s.byItem[item.ID] = rec

	return item
}

// ItemWithStock pairs an item with its current quantity.
type ItemWithStock struct {
	Item     Item
	Quantity int
}

// Items returns every item with its quantity, in insertion order.
func (s *Store) Items() []ItemWithStock {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ItemWithStock, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		entry := ItemWithStock{Item: *s.items[id]}
		if rec, ok := s.byItem[id]; ok {
			entry.Quantity = rec.Quantity
		}
		out = append(out, entry)
	}
	return out
}

// ItemPatch carries the mutable item fields; nil means keep.
type ItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Image       *string
	Quantity    *int
}

func (s *Store) UpdateItem(itemID int64, patch ItemPatch) (Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[itemID]
	if !ok {
		return Item{}, ErrItemNotFound
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Image != nil {
		item.Image = *patch.Image
	}
	if patch.Quantity != nil {
		if rec, ok := s.byItem[itemID]; ok {
			rec.Quantity = *patch.Quantity
		}
	}
	return *item, nil
}

func (s *Store) DeleteItem(itemID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[itemID]; !ok {
		return ErrItemNotFound
	}
	delete(s.items, itemID)
	if rec, ok := s.byItem[itemID]; ok {
		delete(s.inventory, rec.ID)
		delete(s.byItem, itemID)
	}
	for i, id := range s.itemOrder {
		if id == itemID {
			s.itemOrder = append(s.itemOrder[:i], s.itemOrder[i+1:]...)
			break
		}
	}
	return nil
}

// InventoryWithItem pairs a stock record with its owning item.
type InventoryWithItem struct {
	Record InventoryRecord
	Item   Item
}

// Inventory returns every stock record with its owning item, in item order.
func (s *Store) Inventory() []InventoryWithItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]InventoryWithItem, 0, len(s.itemOrder))
	for _, id := range s.itemOrder {
		rec, ok := s.byItem[id]
		if !ok {
			continue
		}
		out = append(out, InventoryWithItem{Record: *rec, Item: *s.items[id]})
	}
	return out
}

func (s *Store) SetStock(inventoryID int64, quantity int) (InventoryRecord, Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.inventory[inventoryID]
	if !ok {
		return InventoryRecord{}, Item{}, ErrInventoryNotFound
	}
	rec.Quantity = quantity
	return *rec, *s.items[rec.ItemID], nil
}

// CreatePurchase validates stock for every position, decrements it and
// records the order. Validation happens in a first pass so a rejected
// purchase leaves the inventory untouched.
func (s *Store) CreatePurchase(customerEmail string, items []PurchaseItem, total float64) (Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, pi := range items {
		rec, ok := s.byItem[pi.ItemID]
		if !ok {
			return Purchase{}, ErrItemNotFound
		}
		if pi.Quantity <= 0 || pi.Quantity > rec.Quantity {
			return Purchase{}, ErrInsufficientStock
		}
	}

	for _, pi := range items {
		s.byItem[pi.ItemID].Quantity -= pi.Quantity
	}

	s.nextOrderID++
	p := Purchase{
		OrderID:       s.nextOrderID,
		CustomerEmail: customerEmail,
		Items:         items,
		Total:         total,
		OrderedAt:     s.clock(),
	}
	s.purchases = append(s.purchases, p)
	return p, nil
}

// PurchasesFor returns the order history of one customer.
func (s *Store) PurchasesFor(customerEmail string) []Purchase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Purchase
	for _, p := range s.purchases {
		if p.CustomerEmail == customerEmail {
			out = append(out, p)
		}
	}
	return out
}

// SeedDemoData loads a small catalog for local development.
func (s *Store) SeedDemoData() {
	s.AddItem(Item{Name: "Desk Lamp", Description: "Warm white, dimmable", Price: 100, Category: "Home"}, 4)
	s.AddItem(Item{Name: "Standing Desk", Description: "Height adjustable", Price: 250, Category: "Home"}, 3)
	s.AddItem(Item{Name: "USB-C Cable", Description: "1m braided", Price: 10, Category: "Electronics"}, 25)
	s.AddItem(Item{Name: "Office Chair", Description: "Lumbar support", Price: 180, Category: "Home"}, 0)
}
