package rest

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/regear/marketplace/internal/errors"
	"github.com/regear/marketplace/internal/service"
	"github.com/regear/marketplace/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	product  *service.ProductDto
	products []service.ProductDto
	error    error
}

func (m *mockProductService) FindByID(_ context.Context, _ int64) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) FindAll(_ context.Context) ([]service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.products, nil
}

func (m *mockProductService) Create(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) Update(_ context.Context, _ int64, _ service.ProductCreateDto) (*service.ProductDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.product, nil
}

func (m *mockProductService) DeleteByID(_ context.Context, _ int64) error {
	return m.error
}

// mockItemService is a mock implementation of the ItemService interface
type mockItemService struct {
	item  *service.ItemDto
	items []service.ItemDto
	error error
}

func (m *mockItemService) FindByID(_ context.Context, _ int64) (*service.ItemDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.item, nil
}

func (m *mockItemService) FindAll(_ context.Context) ([]service.ItemDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.items, nil
}

func (m *mockItemService) Create(_ context.Context, _ service.ItemCreateDto) (*service.ItemDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.item, nil
}

func (m *mockItemService) Update(_ context.Context, _ int64, _ service.ItemCreateDto) (*service.ItemDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.item, nil
}

func (m *mockItemService) DeleteByID(_ context.Context, _ int64) error {
	return m.error
}

// mockListingService is a mock implementation of the ListingService interface
type mockListingService struct {
	listing  *service.ListingDto
	listings []service.ListingDto
	items    []service.ItemDto
	error    error
}

func (m *mockListingService) FindByID(_ context.Context, _ int64) (*service.ListingDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.listing, nil
}

func (m *mockListingService) FindAll(_ context.Context) ([]service.ListingDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.listings, nil
}

func (m *mockListingService) FindActive(_ context.Context) ([]service.ListingDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.listings, nil
}

func (m *mockListingService) Create(_ context.Context, _ service.ListingCreateDto) (*service.ListingDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.listing, nil
}

func (m *mockListingService) Update(_ context.Context, _ int64, _ service.ListingCreateDto) (*service.ListingDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.listing, nil
}

func (m *mockListingService) DeleteByID(_ context.Context, _ int64) error {
	return m.error
}

func (m *mockListingService) SetItems(_ context.Context, _ int64, _ []int64) error {
	return m.error
}

func (m *mockListingService) Items(_ context.Context, _ int64) ([]service.ItemDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.items, nil
}

func (m *mockListingService) ActiveForProduct(_ context.Context, _ int64) ([]service.ListingDto, error) {
	if m.error != nil {
		return nil, m.error
	}
	return m.listings, nil
}

func newTestRouter(products service.ProductService, items service.ItemService, listings service.ListingService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mux := chi.NewRouter()
	NewHandler(products, items, listings, logger).RegisterRoutes(mux)
	return mux
}

// validationErr produces a real validator.ValidationErrors value the way the
// services do, for mocks to return.
func validationErr(t *testing.T) error {
	t.Helper()
	err := validation.New().Struct(service.ProductCreateDto{})
	require.Error(t, err)
	return err
}

// toJSON is a helper function to convert a struct to JSON string
func toJSON(t *testing.T, v interface{}) string {
	t.Helper()
	bytes, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal to JSON: %v", err)
	}
	return string(bytes)
}

func Test_FindProductByID(t *testing.T) {
	mockProduct := &service.ProductDto{
		ID:          1,
		Name:        "Super Mario World",
		Description: "SNES cartridge",
		Price:       decimal.NewFromFloat(259.99),
	}
	testCases := []struct {
		name         string
		mockService  mockProductService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			mockService:  mockProductService{product: mockProduct},
			productID:    "1",
			expectedCode: http.StatusOK,
			expectedBody: toJSON(t, mockProduct),
		},
		{
			name:         "Error - product not found",
			mockService:  mockProductService{error: apperrors.ErrProductNotFound},
			productID:    "42",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, map[string]string{"error": "Product with ID 42 not found"}),
		},
		{
			name:         "Error - invalid id",
			mockService:  mockProductService{},
			productID:    "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: toJSON(t, map[string]string{"error": "Invalid ID: abc"}),
		},
		{
			// zero is a well-formed id that simply matches nothing
			name:         "Error - id zero is not found",
			mockService:  mockProductService{error: apperrors.ErrProductNotFound},
			productID:    "0",
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, map[string]string{"error": "Product with ID 0 not found"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(&tc.mockService, &mockItemService{}, &mockListingService{})
			req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+tc.productID, nil)
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_CreateProduct(t *testing.T) {
	mockProduct := &service.ProductDto{
		ID:          7,
		Name:        "Super Mario World",
		Description: "SNES cartridge",
		Price:       decimal.NewFromFloat(259.99),
	}

	t.Run("Success - returns 201 with Location header", func(t *testing.T) {
		// given
		mux := newTestRouter(&mockProductService{product: mockProduct}, &mockItemService{}, &mockListingService{})
		body := strings.NewReader(`{"name":"Super Mario World","description":"SNES cartridge","price":259.99}`)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", body)
		rec := httptest.NewRecorder()
		// when
		mux.ServeHTTP(rec, req)
		// then
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "/api/v1/products/7", rec.Header().Get("Location"))
		assert.JSONEq(t, toJSON(t, mockProduct), rec.Body.String())
	})

	t.Run("Error - validation failure returns 400", func(t *testing.T) {
		// given
		mux := newTestRouter(&mockProductService{error: validationErr(t)}, &mockItemService{}, &mockListingService{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		// when
		mux.ServeHTTP(rec, req)
		// then
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "validation_errors")
	})

	t.Run("Error - malformed body returns 400", func(t *testing.T) {
		// given
		mux := newTestRouter(&mockProductService{}, &mockItemService{}, &mockListingService{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/products", strings.NewReader(`{not json`))
		rec := httptest.NewRecorder()
		// when
		mux.ServeHTTP(rec, req)
		// then
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, toJSON(t, map[string]string{"error": "Invalid request body"}), rec.Body.String())
	})
}

func Test_DeleteProductByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockProductService
		expectedCode int
	}{
		{
			name:         "Success - returns 200",
			mockService:  mockProductService{},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Error - product not found",
			mockService:  mockProductService{error: apperrors.ErrProductNotFound},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(&tc.mockService, &mockItemService{}, &mockListingService{})
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/products/1", nil)
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
		})
	}
}

func Test_CreateItem_UnknownProduct(t *testing.T) {
	// given
	mux := newTestRouter(&mockProductService{}, &mockItemService{error: apperrors.ErrUnknownProduct}, &mockListingService{})
	body := strings.NewReader(`{"productId":999,"condition":"Good"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/items", body)
	rec := httptest.NewRecorder()

	// when
	mux.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, toJSON(t, map[string]string{"error": "Product with ID 999 does not exist"}), rec.Body.String())
}

func Test_SetListingItems(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockListingService
		body         string
		expectedCode int
	}{
		{
			name:         "Success - returns 204",
			mockService:  mockListingService{},
			body:         `[1,2,3]`,
			expectedCode: http.StatusNoContent,
		},
		{
			name:         "Error - listing not found",
			mockService:  mockListingService{error: apperrors.ErrListingNotFound},
			body:         `[1]`,
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "Error - unknown item",
			mockService:  mockListingService{error: apperrors.ErrUnknownItem},
			body:         `[999]`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "Error - malformed body",
			mockService:  mockListingService{},
			body:         `{"items":[1]}`,
			expectedCode: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(&mockProductService{}, &mockItemService{}, &tc.mockService)
			req := httptest.NewRequest(http.MethodPut, "/api/v1/listings/1/items", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
		})
	}
}

func Test_FindActiveListings(t *testing.T) {
	// given
	now := time.Date(2022, 10, 15, 12, 0, 0, 0, time.UTC)
	mockListings := []service.ListingDto{{
		ID:          1,
		Name:        "Good games",
		Description: "Stuff",
		Price:       decimal.NewFromInt(999),
		StartUTC:    now.Add(-time.Hour),
		EndUTC:      now.Add(time.Hour),
	}}
	mux := newTestRouter(&mockProductService{}, &mockItemService{}, &mockListingService{listings: mockListings})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/active", nil)
	rec := httptest.NewRecorder()

	// when
	mux.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, toJSON(t, mockListings), rec.Body.String())
}

func Test_ActiveListingsForProduct_EmptyList(t *testing.T) {
	// given: an unknown product yields an empty list, not a 404
	mux := newTestRouter(&mockProductService{}, &mockItemService{}, &mockListingService{listings: []service.ListingDto{}})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/42/listings", nil)
	rec := httptest.NewRecorder()

	// when
	mux.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func Test_FindListingItems(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  mockListingService
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - hydrated items",
			mockService: mockListingService{items: []service.ItemDto{
				{ID: 1, ProductID: 1, ProductName: "Super Mario World", Condition: "Good"},
			}},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"productId":1,"productName":"Super Mario World","condition":"Good"}]`,
		},
		{
			name:         "Error - listing not found",
			mockService:  mockListingService{error: apperrors.ErrListingNotFound},
			expectedCode: http.StatusNotFound,
			expectedBody: toJSON(t, map[string]string{"error": "Listing with ID 1 not found"}),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(&mockProductService{}, &mockItemService{}, &tc.mockService)
			req := httptest.NewRequest(http.MethodGet, "/api/v1/listings/1/items", nil)
			rec := httptest.NewRecorder()
			// when
			mux.ServeHTTP(rec, req)
			// then
			assert.Equal(t, tc.expectedCode, rec.Code)
			assert.JSONEq(t, tc.expectedBody, rec.Body.String())
		})
	}
}

func Test_HealthCheck(t *testing.T) {
	// given
	mux := newTestRouter(&mockProductService{}, &mockItemService{}, &mockListingService{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()

	// when
	mux.ServeHTTP(rec, req)

	// then
	assert.Equal(t, http.StatusOK, rec.Code)
}
