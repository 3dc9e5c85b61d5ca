// Package store provides the in-memory stores that own entity lifetime.
package store

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/regear/marketplace/internal/errors"
	"github.com/shopspring/decimal"
)

// Product represents a product entity in the store.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
}

// ProductStore is an interface for product storage operations.
// It abstracts the underlying data store, allowing for different implementations (e.g., in-memory, database).
type ProductStore interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAll returns all available products ordered by ID.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]Product, error)

	// Create adds a new product to the system and assigns the next unused ID.
	Create(ctx context.Context, name, description string, price decimal.Decimal) (*Product, error)

	// Update replaces an existing product's mutable fields, keeping its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, name, description string, price decimal.Decimal) (*Product, error)

	// DeleteByID removes a product by its ID. The ID is never reassigned.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// productInMemory implements ProductStore using an in-memory map.
type productInMemory struct {
	mu       sync.RWMutex
	products map[int64]Product
	nextID   int64
}

// NewProductStore creates a new instance of ProductStore
func NewProductStore() ProductStore {
	return &productInMemory{
		products: make(map[int64]Product),
		nextID:   1,
	}
}

func (s *productInMemory) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *productInMemory) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *productInMemory) Create(_ context.Context, name, description string, price decimal.Decimal) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product := Product{
		ID:          s.nextID,
		Name:        name,
		Description: description,
		Price:       price,
	}
	s.nextID++
	s.products[product.ID] = product

	return &product, nil
}

func (s *productInMemory) Update(_ context.Context, id int64, name, description string, price decimal.Decimal) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, apperrors.ErrProductNotFound
	}
	product.Name = name
	product.Description = description
	product.Price = price
	s.products[id] = product

	return &product, nil
}

func (s *productInMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.products[id]; !exists {
		return apperrors.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}
