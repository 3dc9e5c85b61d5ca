package store

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/regear/marketplace/internal/errors"
)

// Item represents a single physical unit of a product.
type Item struct {
	ID        int64
	ProductID int64
	Condition string
}

// ItemStore is an interface for item storage operations.
type ItemStore interface {
	// FindByID retrieves a single item by its unique identifier.
	// Returns ErrItemNotFound if no item exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Item, error)

	// FindAll returns all available items ordered by ID.
	// Returns an empty slice if no items exist.
	FindAll(ctx context.Context) ([]Item, error)

	// Create adds a new item to the system and assigns the next unused ID.
	Create(ctx context.Context, productID int64, condition string) (*Item, error)

	// Update replaces an existing item's mutable fields, keeping its ID.
	// Returns ErrItemNotFound if no item exists with the given ID.
	Update(ctx context.Context, id int64, productID int64, condition string) (*Item, error)

	// DeleteByID removes an item by its ID. The ID is never reassigned.
	// Returns ErrItemNotFound if no item exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// itemInMemory implements ItemStore using an in-memory map.
type itemInMemory struct {
	mu     sync.RWMutex
	items  map[int64]Item
	nextID int64
}

// NewItemStore creates a new instance of ItemStore
func NewItemStore() ItemStore {
	return &itemInMemory{
		items:  make(map[int64]Item),
		nextID: 1,
	}
}

func (s *itemInMemory) FindByID(_ context.Context, id int64) (*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.items[id]
	if !ok {
		return nil, apperrors.ErrItemNotFound
	}
	return &i, nil
}

func (s *itemInMemory) FindAll(_ context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Item, 0, len(s.items))
	for _, i := range s.items {
		list = append(list, i)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *itemInMemory) Create(_ context.Context, productID int64, condition string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := Item{
		ID:        s.nextID,
		ProductID: productID,
		Condition: condition,
	}
	s.nextID++
	s.items[item.ID] = item

	return &item, nil
}

func (s *itemInMemory) Update(_ context.Context, id int64, productID int64, condition string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, apperrors.ErrItemNotFound
	}
	item.ProductID = productID
	item.Condition = condition
	s.items[id] = item

	return &item, nil
}

func (s *itemInMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; !exists {
		return apperrors.ErrItemNotFound
	}
	delete(s.items, id)
	return nil
}
