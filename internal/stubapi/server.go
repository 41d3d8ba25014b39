package stubapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// Server exposes a Store over the same wire format as the real backend,
// quirks included: item endpoints spell the success flag as the string
// "true", the purchase endpoint as a boolean, and failures carry a
// {"detail": ...} body.
type Server struct {
	store *Store
	log   logrus.FieldLogger
}

func NewServer(store *Store, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Server{store: store, log: log}
}

// Handler builds the chi router for the stub API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/items/", s.listItems)
		r.Post("/items/", s.createItem)
		r.Patch("/items/{id}", s.updateItem)
		r.Delete("/items/{id}", s.deleteItem)

		r.Get("/inventory/", s.listInventory)
		r.Patch("/inventory/{id}", s.updateInventory)

		r.Post("/purchases/", s.createPurchase)
		r.Get("/purchases/{customerID}", s.listPurchases)
	})
	return r
}

type itemDTO struct {
	ItemID      int64         `json:"item_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Category    string        `json:"category"`
	Image       string        `json:"image"`
	Inventory   *inventoryRef `json:"inventory,omitempty"`
}

type inventoryRef struct {
	Quantity int `json:"quantity"`
}

func itemToDTO(item Item, quantity int, withInventory bool) itemDTO {
	dto := itemDTO{
		ItemID:      item.ID,
		Name:        item.Name,
		Description: item.Description,
		Price:       item.Price,
		Category:    item.Category,
		Image:       item.Image,
	}
	if withInventory {
		dto.Inventory = &inventoryRef{Quantity: quantity}
	}
	return dto
}

func (s *Server) listItems(w http.ResponseWriter, r *http.Request) {
	entries := s.store.Items()
	data := make([]itemDTO, 0, len(entries))
	for _, e := range entries {
		data = append(data, itemToDTO(e.Item, e.Quantity, true))
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": "true", "data": data})
}

type createItemDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}

func (s *Server) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if req.Price < 0 {
		respondDetail(w, http.StatusUnprocessableEntity, "price must be non-negative")
		return
	}

	item := s.store.AddItem(Item{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
	}, req.Quantity)

	respondJSON(w, http.StatusCreated, map[string]any{
		"success": "true",
		"data":    itemToDTO(item, req.Quantity, true),
	})
}

type patchItemDTO struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
	Quantity    *int     `json:"quantity"`
}

func (s *Server) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req patchItemDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Price != nil && *req.Price < 0 {
		respondDetail(w, http.StatusUnprocessableEntity, "price must be non-negative")
		return
	}

	item, err := s.store.UpdateItem(id, ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Quantity:    req.Quantity,
	})
	if errors.Is(err, ErrItemNotFound) {
		respondDetail(w, http.StatusNotFound, "item not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": "true",
		"data":    itemToDTO(item, 0, false),
	})
}

func (s *Server) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteItem(id); errors.Is(err, ErrItemNotFound) {
		respondDetail(w, http.StatusNotFound, "item not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type inventoryDTO struct {
	InventoryID int64    `json:"inventory_id"`
	Quantity    int      `json:"quantity"`
	Item        *itemRef `json:"item,omitempty"`
}

type itemRef struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
}

func (s *Server) listInventory(w http.ResponseWriter, r *http.Request) {
	entries := s.store.Inventory()
	out := make([]inventoryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, inventoryDTO{
			InventoryID: e.Record.ID,
			Quantity:    e.Record.Quantity,
			Item:        &itemRef{ItemID: e.Item.ID, Name: e.Item.Name},
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) updateInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity *int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Quantity == nil {
		respondDetail(w, http.StatusBadRequest, "quantity is required")
		return
	}
	if *req.Quantity < 0 {
		respondDetail(w, http.StatusUnprocessableEntity, "quantity must be non-negative")
		return
	}

	rec, item, err := s.store.SetStock(id, *req.Quantity)
	if errors.Is(err, ErrInventoryNotFound) {
		respondDetail(w, http.StatusNotFound, "inventory record not found")
		return
	}

	respondJSON(w, http.StatusOK, inventoryDTO{
		InventoryID: rec.ID,
		Quantity:    rec.Quantity,
		Item:        &itemRef{ItemID: item.ID, Name: item.Name},
	})
}

type createPurchaseDTO struct {
	Customer struct {
		Name    string `json:"name"`
		Phone   string `json:"phone"`
		Email   string `json:"email"`
		Address string `json:"address"`
	} `json:"customer"`
	Items []struct {
		ItemID   int64 `json:"item_id"`
		Quantity int   `json:"quantity"`
	} `json:"items"`
	Total float64 `json:"total"`
}

func (s *Server) createPurchase(w http.ResponseWriter, r *http.Request) {
	var req createPurchaseDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	c := req.Customer
	if c.Name == "" || c.Phone == "" || c.Email == "" || c.Address == "" {
		respondDetail(w, http.StatusUnprocessableEntity, "all customer fields are required")
		return
	}
	if len(req.Items) == 0 {
		respondDetail(w, http.StatusUnprocessableEntity, "order must contain at least one item")
		return
	}

	items := make([]PurchaseItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, PurchaseItem{ItemID: it.ItemID, Quantity: it.Quantity})
	}

	purchase, err := s.store.CreatePurchase(c.Email, items, req.Total)
	switch {
	case errors.Is(err, ErrItemNotFound):
		respondDetail(w, http.StatusUnprocessableEntity, "unknown item in order")
		return
	case errors.Is(err, ErrInsufficientStock):
		respondDetail(w, http.StatusUnprocessableEntity, "Insufficient stock")
		return
	case err != nil:
		s.log.WithError(err).Error("failed to record purchase")
		respondDetail(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"order_id": purchase.OrderID,
	})
}

type purchaseSummaryDTO struct {
	OrderID    int64     `json:"order_id"`
	TotalPrice float64   `json:"total_price"`
	OrderedAt  time.Time `json:"ordered_at"`
}

func (s *Server) listPurchases(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	purchases := s.store.PurchasesFor(customerID)
	out := make([]purchaseSummaryDTO, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, purchaseSummaryDTO{
			OrderID:    p.OrderID,
			TotalPrice: p.Total,
			OrderedAt:  p.OrderedAt,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		respondDetail(w, http.StatusBadRequest, param+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode response")
	}
}

func respondDetail(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, map[string]string{"detail": detail})
}
