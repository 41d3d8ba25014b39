package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/storekit/storefront/internal/domain"
)

type inventoryDTO struct {
	InventoryID int64 `json:"inventory_id"`
	Quantity    int   `json:"quantity"`
	Item        *struct {
		ItemID int64  `json:"item_id"`
		Name   string `json:"name"`
	} `json:"item,omitempty"`
}

func (d inventoryDTO) toDomain() domain.InventoryRecord {
	rec := domain.InventoryRecord{
		InventoryID: d.InventoryID,
		Quantity:    d.Quantity,
	}
	if d.Item != nil {
		rec.Item = domain.ItemRef{ID: d.Item.ItemID, Name: d.Item.Name}
	}
	return rec
}

// ListInventory fetches the stock ledger with the owning item nested in.
// The endpoint returns a bare array, not a success envelope.
func (c *Client) ListInventory(ctx context.Context) ([]domain.InventoryRecord, error) {
	var dtos []inventoryDTO
	if err := c.do(ctx, http.MethodGet, "/api/inventory/", nil, &dtos); err != nil {
		return nil, err
	}
	records := make([]domain.InventoryRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, d.toDomain())
	}
	return records, nil
}

type updateStockDTO struct {
	Quantity int `json:"quantity"`
}

// UpdateStock sets the absolute quantity of one inventory record and
// returns the updated record.
func (c *Client) UpdateStock(ctx context.Context, inventoryID int64, quantity int) (domain.InventoryRecord, error) {
	var dto inventoryDTO
	path := fmt.Sprintf("/api/inventory/%d", inventoryID)
	if err := c.do(ctx, http.MethodPatch, path, updateStockDTO{Quantity: quantity}, &dto); err != nil {
		return domain.InventoryRecord{}, err
	}
	return dto.toDomain(), nil
}
