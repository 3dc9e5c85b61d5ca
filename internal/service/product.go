// Package service provides the implementation of marketplace business logic.
package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/regear/marketplace/internal/store"
	"github.com/regear/marketplace/pkg/validation"
	"github.com/shopspring/decimal"
)

// ProductService defines the methods for managing catalog products.
// It abstracts the underlying business logic and data access.
type ProductService interface {
	// FindByID retrieves a single product by its unique identifier.
	// Returns ErrProductNotFound if no product exists with the given ID.
	FindByID(ctx context.Context, id int64) (*ProductDto, error)

	// FindAll returns all available products.
	// Returns an empty slice if no products exist.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// Create validates the candidate and adds a new product.
	// Returns validator.ValidationErrors if the candidate is invalid.
	Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Update re-validates the candidate and replaces the product's mutable
	// fields. Validation failures are reported before existence is checked.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id int64, product ProductCreateDto) (*ProductDto, error)

	// DeleteByID removes a product by its ID.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeleteByID(ctx context.Context, id int64) error
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// ProductCreateDto represents the data transfer object for creating or
// replacing a product.
type ProductCreateDto struct {
	Name        string          `json:"name"        validate:"notblank,max=120"`
	Description string          `json:"description" validate:"notblank"`
	Price       decimal.Decimal `json:"price"       validate:"gt=0"`
}

// Products implements ProductService.
type Products struct {
	repository store.ProductStore
	validate   *validator.Validate
}

// NewProductService creates a new instance of ProductService with the provided store.
func NewProductService(repo store.ProductStore) *Products {
	return &Products{
		repository: repo,
		validate:   validation.New(),
	}
}

func (s *Products) FindByID(ctx context.Context, id int64) (*ProductDto, error) {
	product, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %d: %w", id, err)
	}

	return toProductDto(product), nil
}

func (s *Products) FindAll(ctx context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	productDTOs := make([]ProductDto, len(products))

	for i, item := range products {
		productDTOs[i] = *toProductDto(&item)
	}

	return productDTOs, nil
}

func (s *Products) Create(ctx context.Context, product ProductCreateDto) (*ProductDto, error) {
	if err := s.validate.Struct(product); err != nil {
		return nil, err
	}
	p, err := s.repository.Create(ctx, product.Name, product.Description, product.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return toProductDto(p), nil
}

func (s *Products) Update(ctx context.Context, id int64, product ProductCreateDto) (*ProductDto, error) {
	if err := s.validate.Struct(product); err != nil {
		return nil, err
	}
	updated, err := s.repository.Update(ctx, id, product.Name, product.Description, product.Price)
	if err != nil {
		return nil, fmt.Errorf("failed to update product with ID %d: %w", id, err)
	}

	return toProductDto(updated), nil
}

func (s *Products) DeleteByID(ctx context.Context, id int64) error {
	return s.repository.DeleteByID(ctx, id)
}

// toProductDto converts a store.Product to a ProductDto.
func toProductDto(product *store.Product) *ProductDto {
	return &ProductDto{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
	}
}
