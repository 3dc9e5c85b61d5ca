package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/regear/marketplace/internal/errors"
	"github.com/regear/marketplace/internal/store"
	"github.com/regear/marketplace/pkg/validation"
	"github.com/shopspring/decimal"
)

// ListingService defines the methods for managing sale listings and their
// item associations.
type ListingService interface {
	// FindByID retrieves a single listing by its unique identifier.
	// Returns ErrListingNotFound if no listing exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ListingDto, error)

	// FindAll returns all listings regardless of their sale window.
	// Returns an empty slice if no listings exist.
	FindAll(ctx context.Context) ([]ListingDto, error)

	// FindActive returns exactly the listings whose sale window contains
	// the current time. The window is re-evaluated on every call.
	FindActive(ctx context.Context) ([]ListingDto, error)

	// Create validates the candidate and adds a new listing.
	// Returns validator.ValidationErrors if the candidate is invalid.
	Create(ctx context.Context, listing ListingCreateDto) (*ListingDto, error)

	// Update re-validates the candidate and replaces the listing's mutable
	// fields. Validation failures are reported before existence is checked.
	// Returns ErrListingNotFound if no listing exists with the given ID.
	Update(ctx context.Context, id int64, listing ListingCreateDto) (*ListingDto, error)

	// DeleteByID removes a listing and its item association by ID.
	// Returns ErrListingNotFound if no listing exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error

	// SetItems atomically replaces the listing's entire item set; old
	// membership is discarded, not merged. Returns ErrListingNotFound if
	// the listing is unknown and ErrUnknownItem if any id does not resolve.
	SetItems(ctx context.Context, listingID int64, itemIDs []int64) error

	// Items returns the hydrated items currently associated with the
	// listing, an empty slice if none were set yet.
	// Returns ErrListingNotFound if the listing is unknown.
	Items(ctx context.Context, listingID int64) ([]ItemDto, error)

	// ActiveForProduct returns every active listing with at least one
	// associated item of the given product, each listing at most once.
	ActiveForProduct(ctx context.Context, productID int64) ([]ListingDto, error)
}

// ListingDto represents the data transfer object for a listing.
type ListingDto struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	StartUTC    time.Time       `json:"startUtc"`
	EndUTC      time.Time       `json:"endUtc"`
}

// ListingCreateDto represents the data transfer object for creating or
// replacing a listing. Price carries no positivity constraint.
type ListingCreateDto struct {
	Name        string          `json:"name"        validate:"notblank"`
	Description string          `json:"description" validate:"notblank"`
	Price       decimal.Decimal `json:"price"`
	StartUTC    time.Time       `json:"startUtc"    validate:"required"`
	EndUTC      time.Time       `json:"endUtc"      validate:"required,gtefield=StartUTC"`
}

// Listings implements ListingService. Item hydration and reference checks
// are delegated to the item service so product names stay live-derived.
type Listings struct {
	repository store.ListingStore
	items      ItemService
	validate   *validator.Validate
	now        func() time.Time
}

// NewListingService creates a new instance of ListingService.
func NewListingService(repo store.ListingStore, items ItemService) *Listings {
	return &Listings{
		repository: repo,
		items:      items,
		validate:   validation.New(),
		now:        time.Now,
	}
}

func (s *Listings) FindByID(ctx context.Context, id int64) (*ListingDto, error) {
	listing, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing by ID %d: %w", id, err)
	}

	return toListingDto(listing), nil
}

func (s *Listings) FindAll(ctx context.Context) ([]ListingDto, error) {
	listings, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	listingDTOs := make([]ListingDto, len(listings))

	for i, item := range listings {
		listingDTOs[i] = *toListingDto(&item)
	}

	return listingDTOs, nil
}

func (s *Listings) FindActive(ctx context.Context) ([]ListingDto, error) {
	listings, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	now := s.now()
	active := make([]ListingDto, 0, len(listings))
	for _, listing := range listings {
		if isActive(&listing, now) {
			active = append(active, *toListingDto(&listing))
		}
	}

	return active, nil
}

func (s *Listings) Create(ctx context.Context, listing ListingCreateDto) (*ListingDto, error) {
	if err := s.validate.Struct(listing); err != nil {
		return nil, err
	}
	created, err := s.repository.Create(ctx, listing.Name, listing.Description, listing.Price, listing.StartUTC, listing.EndUTC)
	if err != nil {
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	return toListingDto(created), nil
}

func (s *Listings) Update(ctx context.Context, id int64, listing ListingCreateDto) (*ListingDto, error) {
	if err := s.validate.Struct(listing); err != nil {
		return nil, err
	}
	updated, err := s.repository.Update(ctx, id, listing.Name, listing.Description, listing.Price, listing.StartUTC, listing.EndUTC)
	if err != nil {
		return nil, fmt.Errorf("failed to update listing with ID %d: %w", id, err)
	}

	return toListingDto(updated), nil
}

func (s *Listings) DeleteByID(ctx context.Context, id int64) error {
	return s.repository.DeleteByID(ctx, id)
}

func (s *Listings) SetItems(ctx context.Context, listingID int64, itemIDs []int64) error {
	if _, err := s.repository.FindByID(ctx, listingID); err != nil {
		return fmt.Errorf("failed to fetch listing by ID %d: %w", listingID, err)
	}
	for _, itemID := range itemIDs {
		if _, err := s.items.FindByID(ctx, itemID); err != nil {
			if errors.Is(err, apperrors.ErrItemNotFound) {
				return fmt.Errorf("item %d: %w", itemID, apperrors.ErrUnknownItem)
			}
			return fmt.Errorf("failed to resolve item %d: %w", itemID, err)
		}
	}
	if err := s.repository.ReplaceItems(ctx, listingID, itemIDs); err != nil {
		return fmt.Errorf("failed to replace items for listing %d: %w", listingID, err)
	}
	return nil
}

func (s *Listings) Items(ctx context.Context, listingID int64) ([]ItemDto, error) {
	ids, err := s.repository.ItemIDs(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items for listing %d: %w", listingID, err)
	}
	items := make([]ItemDto, 0, len(ids))
	for _, id := range ids {
		item, err := s.items.FindByID(ctx, id)
		if err != nil {
			// An associated item deleted after the fact is skipped, the
			// same looseness as a deleted product behind an item.
			if errors.Is(err, apperrors.ErrItemNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, *item)
	}

	return items, nil
}

func (s *Listings) ActiveForProduct(ctx context.Context, productID int64) ([]ListingDto, error) {
	listings, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	now := s.now()
	matched := make([]ListingDto, 0)
	for _, listing := range listings {
		if !isActive(&listing, now) {
			continue
		}
		items, err := s.Items(ctx, listing.ID)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if item.ProductID == productID {
				matched = append(matched, *toListingDto(&listing))
				break
			}
		}
	}

	return matched, nil
}

// isActive reports whether the listing's sale window contains the instant.
// Both bounds are inclusive.
func isActive(listing *store.Listing, now time.Time) bool {
	return !now.Before(listing.StartUTC) && !now.After(listing.EndUTC)
}

// toListingDto converts a store.Listing to a ListingDto.
func toListingDto(listing *store.Listing) *ListingDto {
	return &ListingDto{
		ID:          listing.ID,
		Name:        listing.Name,
		Description: listing.Description,
		Price:       listing.Price,
		StartUTC:    listing.StartUTC,
		EndUTC:      listing.EndUTC,
	}
}
