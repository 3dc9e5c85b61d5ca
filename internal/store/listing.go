package store

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/regear/marketplace/internal/errors"
	"github.com/shopspring/decimal"
)

// Listing represents a time-bounded sale offer.
type Listing struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	StartUTC    time.Time
	EndUTC      time.Time
}

// ListingStore is an interface for listing storage operations. It also owns
// the listing-to-item association so that replacing a listing's item set is
// atomic with respect to every other listing mutation.
type ListingStore interface {
	// FindByID retrieves a single listing by its unique identifier.
	// Returns ErrListingNotFound if no listing exists with the given ID.
	FindByID(ctx context.Context, id int64) (*Listing, error)

	// FindAll returns all listings ordered by ID.
	// Returns an empty slice if no listings exist.
	FindAll(ctx context.Context) ([]Listing, error)

	// Create adds a new listing to the system and assigns the next unused ID.
	Create(ctx context.Context, name, description string, price decimal.Decimal, startUTC, endUTC time.Time) (*Listing, error)

	// Update replaces an existing listing's mutable fields, keeping its ID.
	// Returns ErrListingNotFound if no listing exists with the given ID.
	Update(ctx context.Context, id int64, name, description string, price decimal.Decimal, startUTC, endUTC time.Time) (*Listing, error)

	// DeleteByID removes a listing and its item association by ID.
	// Returns ErrListingNotFound if no listing exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// ReplaceItems atomically replaces the entire item-id set associated
	// with the listing. The previous membership is discarded in full.
	// Returns ErrListingNotFound if no listing exists with the given ID.
	ReplaceItems(ctx context.Context, listingID int64, itemIDs []int64) error

	// ItemIDs returns the item ids currently associated with the listing,
	// ordered ascending. Returns an empty slice if none were set.
	// Returns ErrListingNotFound if no listing exists with the given ID.
	ItemIDs(ctx context.Context, listingID int64) ([]int64, error)
}

// listingInMemory implements ListingStore using in-memory maps.
type listingInMemory struct {
	mu       sync.RWMutex
	listings map[int64]Listing
	items    map[int64][]int64
	nextID   int64
}

// NewListingStore creates a new instance of ListingStore
func NewListingStore() ListingStore {
	return &listingInMemory{
		listings: make(map[int64]Listing),
		items:    make(map[int64][]int64),
		nextID:   1,
	}
}

func (s *listingInMemory) FindByID(_ context.Context, id int64) (*Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listings[id]
	if !ok {
		return nil, apperrors.ErrListingNotFound
	}
	return &l, nil
}

func (s *listingInMemory) FindAll(_ context.Context) ([]Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Listing, 0, len(s.listings))
	for _, l := range s.listings {
		list = append(list, l)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (s *listingInMemory) Create(_ context.Context, name, description string, price decimal.Decimal, startUTC, endUTC time.Time) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing := Listing{
		ID:          s.nextID,
		Name:        name,
		Description: description,
		Price:       price,
		StartUTC:    startUTC,
		EndUTC:      endUTC,
	}
	s.nextID++
	s.listings[listing.ID] = listing

	return &listing, nil
}

func (s *listingInMemory) Update(_ context.Context, id int64, name, description string, price decimal.Decimal, startUTC, endUTC time.Time) (*Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[id]
	if !ok {
		return nil, apperrors.ErrListingNotFound
	}
	listing.Name = name
	listing.Description = description
	listing.Price = price
	listing.StartUTC = startUTC
	listing.EndUTC = endUTC
	s.listings[id] = listing

	return &listing, nil
}

func (s *listingInMemory) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[id]; !exists {
		return apperrors.ErrListingNotFound
	}
	delete(s.listings, id)
	delete(s.items, id)
	return nil
}

func (s *listingInMemory) ReplaceItems(_ context.Context, listingID int64, itemIDs []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.listings[listingID]; !exists {
		return apperrors.ErrListingNotFound
	}
	s.items[listingID] = dedupeSorted(itemIDs)
	return nil
}

func (s *listingInMemory) ItemIDs(_ context.Context, listingID int64) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.listings[listingID]; !exists {
		return nil, apperrors.ErrListingNotFound
	}
	ids := s.items[listingID]
	out := make([]int64, len(ids))
	copy(out, ids)
	return out, nil
}

// dedupeSorted copies the ids, removes duplicates and sorts ascending so
// repeated reads of the association are deterministic.
func dedupeSorted(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
