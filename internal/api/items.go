package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/storekit/storefront/internal/domain"
)

type itemDTO struct {
	ItemID      int64   `json:"item_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Inventory   *struct {
		Quantity int `json:"quantity"`
	} `json:"inventory,omitempty"`
}

func (d itemDTO) toDomain() domain.Product {
	p := domain.Product{
		ID:          d.ItemID,
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		ImageURL:    d.Image,
		Price:       decimal.NewFromFloat(d.Price),
	}
	if d.Inventory != nil {
		p.Stock = d.Inventory.Quantity
	}
	return p
}

type itemListEnvelope struct {
	Success flexBool  `json:"success"`
	Data    []itemDTO `json:"data"`
	Message string    `json:"message"`
}

type itemEnvelope struct {
	Success flexBool `json:"success"`
	Data    itemDTO  `json:"data"`
	Message string   `json:"message"`
}

// NewItem is the payload for creating an item; Quantity seeds its inventory
// record.
type NewItem struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	Image       string
	Quantity    int
}

type newItemDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}

// ItemPatch is a partial item update; nil fields are left untouched.
type ItemPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
}

// ListItems fetches the catalog with each item's inventory quantity nested in.
func (c *Client) ListItems(ctx context.Context) ([]domain.Product, error) {
	var env itemListEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/items/", nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &Error{Status: http.StatusOK, Detail: env.Message}
	}
	products := make([]domain.Product, 0, len(env.Data))
	for _, d := range env.Data {
		products = append(products, d.toDomain())
	}
	return products, nil
}

func (c *Client) CreateItem(ctx context.Context, item NewItem) (domain.Product, error) {
	body := newItemDTO{
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price.InexactFloat64(),
		Category:    item.Category,
		Image:       item.Image,
		Quantity:    item.Quantity,
	}

	var env itemEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/items/", body, &env); err != nil {
		return domain.Product{}, err
	}
	if !env.Success {
		return domain.Product{}, &Error{Status: http.StatusOK, Detail: env.Message}
	}
	return env.Data.toDomain(), nil
}

func (c *Client) UpdateItem(ctx context.Context, itemID int64, patch ItemPatch) (domain.Product, error) {
	var env itemEnvelope
	path := fmt.Sprintf("/api/items/%d", itemID)
	if err := c.do(ctx, http.MethodPatch, path, patch, &env); err != nil {
		return domain.Product{}, err
	}
	if !env.Success {
		return domain.Product{}, &Error{Status: http.StatusOK, Detail: env.Message}
	}
	return env.Data.toDomain(), nil
}

// DeleteItem removes an item; the server answers 204 or a success envelope.
func (c *Client) DeleteItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%d", itemID), nil, nil)
}
