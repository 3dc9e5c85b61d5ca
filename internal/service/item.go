package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/regear/marketplace/internal/errors"
	"github.com/regear/marketplace/internal/store"
	"github.com/regear/marketplace/pkg/validation"
)

// ItemService defines the methods for managing physical item units.
type ItemService interface {
	// FindByID retrieves a single item by its unique identifier.
	// Returns ErrItemNotFound if no item exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ItemDto, error)

	// FindAll returns all available items.
	// Returns an empty slice if no items exist.
	FindAll(ctx context.Context) ([]ItemDto, error)

	// Create validates the candidate and adds a new item.
	// Returns validator.ValidationErrors if the candidate is invalid and
	// ErrUnknownProduct if the referenced product does not exist.
	Create(ctx context.Context, item ItemCreateDto) (*ItemDto, error)

	// Update re-validates the candidate and replaces the item's mutable
	// fields. Validation failures are reported before existence is checked.
	// Returns ErrItemNotFound if no item exists with the given ID.
	Update(ctx context.Context, id int64, item ItemCreateDto) (*ItemDto, error)

	// DeleteByID removes an item by its ID.
	// Returns ErrItemNotFound if no item exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// ItemDto represents the data transfer object for an item. ProductName is
// derived from the referenced product on every read; it is empty when the
// product has since been deleted.
type ItemDto struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"`
	Condition   string `json:"condition"`
}

// ItemCreateDto represents the data transfer object for creating or
// replacing an item.
type ItemCreateDto struct {
	ProductID int64  `json:"productId" validate:"required,gt=0"`
	Condition string `json:"condition" validate:"notblank"`
}

// Items implements ItemService.
type Items struct {
	repository store.ItemStore
	products   store.ProductStore
	validate   *validator.Validate
}

// NewItemService creates a new instance of ItemService. The product store is
// used to resolve item references and to derive product names on reads.
func NewItemService(repo store.ItemStore, products store.ProductStore) *Items {
	return &Items{
		repository: repo,
		products:   products,
		validate:   validation.New(),
	}
}

func (s *Items) FindByID(ctx context.Context, id int64) (*ItemDto, error) {
	item, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item by ID %d: %w", id, err)
	}

	return s.toItemDto(ctx, item), nil
}

func (s *Items) FindAll(ctx context.Context) ([]ItemDto, error) {
	items, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch items: %w", err)
	}
	itemDTOs := make([]ItemDto, len(items))

	for i, item := range items {
		itemDTOs[i] = *s.toItemDto(ctx, &item)
	}

	return itemDTOs, nil
}

func (s *Items) Create(ctx context.Context, item ItemCreateDto) (*ItemDto, error) {
	if err := s.validateItem(ctx, item); err != nil {
		return nil, err
	}
	created, err := s.repository.Create(ctx, item.ProductID, item.Condition)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	return s.toItemDto(ctx, created), nil
}

func (s *Items) Update(ctx context.Context, id int64, item ItemCreateDto) (*ItemDto, error) {
	if err := s.validateItem(ctx, item); err != nil {
		return nil, err
	}
	updated, err := s.repository.Update(ctx, id, item.ProductID, item.Condition)
	if err != nil {
		return nil, fmt.Errorf("failed to update item with ID %d: %w", id, err)
	}

	return s.toItemDto(ctx, updated), nil
}

func (s *Items) DeleteByID(ctx context.Context, id int64) error {
	return s.repository.DeleteByID(ctx, id)
}

// validateItem checks field rules and resolves the product reference.
func (s *Items) validateItem(ctx context.Context, item ItemCreateDto) error {
	if err := s.validate.Struct(item); err != nil {
		return err
	}
	if _, err := s.products.FindByID(ctx, item.ProductID); err != nil {
		if errors.Is(err, apperrors.ErrProductNotFound) {
			return fmt.Errorf("product %d: %w", item.ProductID, apperrors.ErrUnknownProduct)
		}
		return fmt.Errorf("failed to resolve product %d: %w", item.ProductID, err)
	}
	return nil
}

// toItemDto converts a store.Item to an ItemDto, deriving the product name
// live from the product store. A deleted product yields an empty name.
func (s *Items) toItemDto(ctx context.Context, item *store.Item) *ItemDto {
	dto := &ItemDto{
		ID:        item.ID,
		ProductID: item.ProductID,
		Condition: item.Condition,
	}
	if product, err := s.products.FindByID(ctx, item.ProductID); err == nil {
		dto.ProductName = product.Name
	}
	return dto
}
