package admin

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/storekit/storefront/internal/api"
	"github.com/storekit/storefront/internal/domain"
)

// Categories an item can be filed under.
var Categories = []string{"Electronics", "Clothing", "Groceries", "Home", "Other"}

// DefaultNewItemStock seeds the inventory record of a freshly created item.
const DefaultNewItemStock = 10

// ItemAPI is the slice of the store API the item management screen needs.
type ItemAPI interface {
	ListItems(ctx context.Context) ([]domain.Product, error)
	CreateItem(ctx context.Context, item api.NewItem) (domain.Product, error)
	UpdateItem(ctx context.Context, itemID int64, patch api.ItemPatch) (domain.Product, error)
	DeleteItem(ctx context.Context, itemID int64) error
}

// ItemForm holds the in-progress form fields. Price stays a raw string
// until submit, mirroring the input box it comes from.
type ItemForm struct {
	Name        string
	Description string
	Price       string
	Category    string
	Image       string
}

// ItemManager backs the shop-owner item screen: list with search filter,
// create/edit through a single form, delete. Owned by one session; not safe
// for concurrent use.
type ItemManager struct {
	api ItemAPI
	log logrus.FieldLogger

	items     []domain.Product
	search    string
	form      ItemForm
	editingID int64 // 0 while creating a new item
}

func NewItemManager(a ItemAPI, log logrus.FieldLogger) *ItemManager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ItemManager{api: a, log: log, form: ItemForm{Category: Categories[0]}}
}

// Load refreshes the item list. A fetch failure degrades to an empty list.
func (m *ItemManager) Load(ctx context.Context) error {
	items, err := m.api.ListItems(ctx)
	if err != nil {
		m.log.WithError(err).Warn("failed to fetch items")
		m.items = nil
		return err
	}
	m.items = items
	return nil
}

func (m *ItemManager) SetSearch(term string) {
	m.search = term
}

// Items returns the loaded items filtered by the search term against name
// and category, case-insensitively.
func (m *ItemManager) Items() []domain.Product {
	term := strings.ToLower(strings.TrimSpace(m.search))
	if term == "" {
		out := make([]domain.Product, len(m.items))
		copy(out, m.items)
		return out
	}
	var out []domain.Product
	for _, item := range m.items {
		if strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Category), term) {
			out = append(out, item)
		}
	}
	return out
}

func (m *ItemManager) Form() ItemForm {
	return m.form
}

func (m *ItemManager) SetForm(form ItemForm) {
	m.form = form
}

// Editing reports which item the form currently edits, 0 when creating.
func (m *ItemManager) Editing() int64 {
	return m.editingID
}

// BeginEdit loads an item's fields into the form.
func (m *ItemManager) BeginEdit(itemID int64) error {
	for _, item := range m.items {
		if item.ID == itemID {
			m.editingID = itemID
			m.form = ItemForm{
				Name:        item.Name,
				Description: item.Description,
				Price:       item.Price.String(),
				Category:    item.Category,
				Image:       item.ImageURL,
			}
			return nil
		}
	}
	return ErrUnknownRecord
}

// Reset clears the form back to create mode.
func (m *ItemManager) Reset() {
	m.editingID = 0
	m.form = ItemForm{Category: Categories[0]}
}

// Submit validates the form and either creates a new item or patches the
// one being edited, then reloads the list and resets the form. A rejected
// form keeps its fields.
func (m *ItemManager) Submit(ctx context.Context) error {
	if strings.TrimSpace(m.form.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	price, err := decimal.NewFromString(strings.TrimSpace(m.form.Price))
	if err != nil || price.IsNegative() {
		return &domain.ValidationError{Field: "price", Reason: "must be a non-negative number"}
	}

	if m.editingID != 0 {
		priceF := price.InexactFloat64()
		patch := api.ItemPatch{
			Name:        &m.form.Name,
			Description: &m.form.Description,
			Price:       &priceF,
			Category:    &m.form.Category,
			Image:       &m.form.Image,
		}
		if _, err := m.api.UpdateItem(ctx, m.editingID, patch); err != nil {
			return err
		}
	} else {
		item := api.NewItem{
			Name:        m.form.Name,
			Description: m.form.Description,
			Price:       price,
			Category:    m.form.Category,
			Image:       m.form.Image,
			Quantity:    DefaultNewItemStock,
		}
		if _, err := m.api.CreateItem(ctx, item); err != nil {
			return err
		}
	}

	m.Reset()
	return m.Load(ctx)
}

// Delete removes an item and drops it from the loaded list.
func (m *ItemManager) Delete(ctx context.Context, itemID int64) error {
	if err := m.api.DeleteItem(ctx, itemID); err != nil {
		m.log.WithError(err).WithField("item_id", itemID).Warn("failed to delete item")
		return err
	}
	for i, item := range m.items {
		if item.ID == itemID {
			m.items = append(m.items[:i], m.items[i+1:]...)
			break
		}
	}
	if m.editingID == itemID {
		m.Reset()
	}
	return nil
}
