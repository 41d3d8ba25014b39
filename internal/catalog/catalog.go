package catalog

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/storekit/storefront/internal/domain"
)

// Fetcher loads the product list from the remote store API.
type Fetcher interface {
	ListItems(ctx context.Context) ([]domain.Product, error)
}

// Store caches the catalog in memory and hands out product lookups. The cart
// reads its stock ceilings through Lookup, so every Refresh moves the
// ceilings to the latest server-side figures.
type Store struct {
	fetcher Fetcher
	log     logrus.FieldLogger
	sfg     singleflight.Group // collapses concurrent refreshes

	mu    sync.RWMutex
	order []int64
	byID  map[int64]domain.Product
}

func New(fetcher Fetcher, log logrus.FieldLogger) *Store {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Store{
		fetcher: fetcher,
		log:     log,
		byID:    make(map[int64]domain.Product),
	}
}

// Refresh reloads the catalog. A failed refresh keeps the previously cached
// data so views degrade instead of going blank mid-session.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, _ := s.sfg.Do("refresh", func() (interface{}, error) {
		products, err := s.fetcher.ListItems(ctx)
		if err != nil {
			s.log.WithError(err).Warn("failed to fetch items")
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		s.order = s.order[:0]
		s.byID = make(map[int64]domain.Product, len(products))
		for _, p := range products {
			s.order = append(s.order, p.ID)
			s.byID[p.ID] = p
		}
		return nil, nil
	})
	return err
}

// Products returns the cached catalog in the order the server listed it.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Lookup resolves one product by id. Its method value satisfies
// cart.ProductLookup.
func (s *Store) Lookup(productID int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[productID]
	return p, ok
}

// Search filters the cached catalog by name or category, case-insensitively.
func (s *Store) Search(term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return s.Products()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Product
	for _, id := range s.order {
		p := s.byID[id]
		if strings.Contains(strings.ToLower(p.Name), term) ||
			strings.Contains(strings.ToLower(p.Category), term) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
