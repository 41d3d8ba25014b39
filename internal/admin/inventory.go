package admin

import (
	"context"
	"errors"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/storekit/storefront/internal/domain"
)

// ErrUnknownRecord means the referenced inventory row is not loaded.
var ErrUnknownRecord = errors.New("unknown inventory record")

// StockAPI is the slice of the store API the inventory screen needs.
type StockAPI interface {
	ListInventory(ctx context.Context) ([]domain.InventoryRecord, error)
	UpdateStock(ctx context.Context, inventoryID int64, quantity int) (domain.InventoryRecord, error)
}

// RowMode tags the per-row edit state: a row is either viewed or carries an
// in-progress draft.
type RowMode int

const (
	ModeViewing RowMode = iota
	ModeEditing
)

// Row is one inventory record plus its transient edit state.
type Row struct {
	Record domain.InventoryRecord
	Mode   RowMode
	Draft  string // raw input; meaningful only while editing
}

// InventoryManager backs the inventory screen: it lists stock records and
// drives the edit/save/cancel cycle on each row. At most one session owns a
// manager; it is not safe for concurrent use.
type InventoryManager struct {
	api  StockAPI
	log  logrus.FieldLogger
	rows []Row
}

func NewInventoryManager(api StockAPI, log logrus.FieldLogger) *InventoryManager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &InventoryManager{api: api, log: log}
}

// Load replaces the rows with fresh records, all back in viewing mode.
// A fetch failure keeps nothing: the screen degrades to an empty state.
func (m *InventoryManager) Load(ctx context.Context) error {
	records, err := m.api.ListInventory(ctx)
	if err != nil {
		m.log.WithError(err).Warn("failed to fetch inventory")
		m.rows = nil
		return err
	}
	m.rows = make([]Row, 0, len(records))
	for _, rec := range records {
		m.rows = append(m.rows, Row{Record: rec, Mode: ModeViewing})
	}
	return nil
}

func (m *InventoryManager) Rows() []Row {
	out := make([]Row, len(m.rows))
	copy(out, m.rows)
	return out
}

// BeginEdit switches a row into editing mode, seeding the draft with the
// current quantity.
func (m *InventoryManager) BeginEdit(inventoryID int64) error {
	row := m.find(inventoryID)
	if row == nil {
		return ErrUnknownRecord
	}
	row.Mode = ModeEditing
	row.Draft = strconv.Itoa(row.Record.Quantity)
	return nil
}

// SetDraft stores the raw input. Validation happens on Save, like the form
// it backs.
func (m *InventoryManager) SetDraft(inventoryID int64, draft string) error {
	row := m.find(inventoryID)
	if row == nil {
		return ErrUnknownRecord
	}
	if row.Mode != ModeEditing {
		return ErrUnknownRecord
	}
	row.Draft = draft
	return nil
}

// Cancel drops the draft and returns the row to viewing mode.
func (m *InventoryManager) Cancel(inventoryID int64) {
	if row := m.find(inventoryID); row != nil {
		row.Mode = ModeViewing
		row.Draft = ""
	}
}

// Save validates the draft as a whole non-negative number, pushes it to the
// API and folds the updated record back into the row. A rejected draft
// leaves the row in editing mode with the input intact.
func (m *InventoryManager) Save(ctx context.Context, inventoryID int64) error {
	row := m.find(inventoryID)
	if row == nil || row.Mode != ModeEditing {
		return ErrUnknownRecord
	}

	quantity, err := strconv.Atoi(row.Draft)
	if err != nil || quantity < 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be a whole number"}
	}

	updated, err := m.api.UpdateStock(ctx, inventoryID, quantity)
	if err != nil {
		m.log.WithError(err).WithField("inventory_id", inventoryID).Warn("failed to update stock")
		return err
	}

	row.Record = updated
	row.Mode = ModeViewing
	row.Draft = ""
	return nil
}

// StockStatus derives the display label for a quantity.
func StockStatus(quantity int) string {
	if quantity <= 0 {
		return "Out of Stock"
	}
	return "In Stock"
}

func (m *InventoryManager) find(inventoryID int64) *Row {
	for i := range m.rows {
		if m.rows[i].Record.InventoryID == inventoryID {
			return &m.rows[i]
		}
	}
	return nil
}
