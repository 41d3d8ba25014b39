package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/storekit/storefront/internal/domain"
)

type customerDTO struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type orderItemDTO struct {
	ItemID   int64 `json:"item_id"`
	Quantity int   `json:"quantity"`
}

type createOrderDTO struct {
	Customer customerDTO    `json:"customer"`
	Items    []orderItemDTO `json:"items"`
	Total    float64        `json:"total"`
}

type createOrderResponse struct {
	Success flexBool    `json:"success"`
	OrderID json.Number `json:"order_id"`
	Message string      `json:"message"`
	Detail  string      `json:"detail"`
}

// OrderResult is a successful order submission. OrderID is empty when the
// server did not issue one; the caller then falls back to a local id.
type OrderResult struct {
	OrderID string
}

// CreateOrder submits a finalized purchase. A 2xx response with a false
// success flag is still a failure and surfaces the server's message.
func (c *Client) CreateOrder(ctx context.Context, order domain.Order) (OrderResult, error) {
	body := createOrderDTO{
		Customer: customerDTO{
			Name:    order.Customer.Name,
			Phone:   order.Customer.Phone,
			Email:   order.Customer.Email,
			Address: order.Customer.Address,
		},
		Total: order.Total.InexactFloat64(),
	}
	for _, item := range order.Items {
		body.Items = append(body.Items, orderItemDTO{ItemID: item.ProductID, Quantity: item.Quantity})
	}

	var resp createOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/purchases/", body, &resp); err != nil {
		return OrderResult{}, err
	}
	if !resp.Success {
		detail := resp.Detail
		if detail == "" {
			detail = resp.Message
		}
		return OrderResult{}, &Error{Status: http.StatusOK, Detail: detail}
	}
	return OrderResult{OrderID: resp.OrderID.String()}, nil
}

type orderSummaryDTO struct {
	OrderID    json.Number `json:"order_id"`
	TotalPrice float64     `json:"total_price"`
	OrderedAt  time.Time   `json:"ordered_at"`
}

// ListOrders fetches the purchase history of one customer.
func (c *Client) ListOrders(ctx context.Context, customerID string) ([]domain.OrderSummary, error) {
	var dtos []orderSummaryDTO
	path := "/api/purchases/" + url.PathEscape(customerID)
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos); err != nil {
		return nil, err
	}
	orders := make([]domain.OrderSummary, 0, len(dtos))
	for _, d := range dtos {
		orders = append(orders, domain.OrderSummary{
			OrderID:    d.OrderID.String(),
			TotalPrice: decimal.NewFromFloat(d.TotalPrice),
			OrderedAt:  d.OrderedAt,
		})
	}
	return orders, nil
}
