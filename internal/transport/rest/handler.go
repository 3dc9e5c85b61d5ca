// Package rest provides HTTP handlers for the marketplace API.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/regear/marketplace/internal/service"
	"github.com/regear/marketplace/pkg/web"
)

type Handler struct {
	products service.ProductService
	items    service.ItemService
	listings service.ListingService
	logger   *slog.Logger
}

// NewHandler creates a new instance of the marketplace API with the provided services.
func NewHandler(products service.ProductService, items service.ItemService, listings service.ListingService, logger *slog.Logger) *Handler {
	return &Handler{
		products: products,
		items:    items,
		listings: listings,
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for the marketplace service.
func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", h.FindAllProducts)
		r.Post("/", h.CreateProduct)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindProductByID)
			r.Put("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProductByID)
			r.Get("/listings", h.ActiveListingsForProduct)
		})
	})

	r.Route("/api/v1/items", func(r chi.Router) {
		r.Get("/", h.FindAllItems)
		r.Post("/", h.CreateItem)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindItemByID)
			r.Put("/", h.UpdateItem)
			r.Delete("/", h.DeleteItemByID)
		})
	})

	r.Route("/api/v1/listings", func(r chi.Router) {
		r.Get("/", h.FindAllListings)
		r.Post("/", h.CreateListing)
		r.Get("/active", h.FindActiveListings)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindListingByID)
			r.Put("/", h.UpdateListing)
			r.Delete("/", h.DeleteListingByID)
			r.Put("/items", h.SetListingItems)
			r.Get("/items", h.FindListingItems)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}

// respondValidationErrors writes the 400 response for a failed struct
// validation. Returns false if err is not a validator.ValidationErrors.
func respondValidationErrors(w http.ResponseWriter, logger *slog.Logger, err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	// Extract field-specific errors, e.g. fieldErr.Tag() is "notblank", "max".
	errorResponse := make(map[string]string)
	for _, fieldErr := range validationErrors {
		errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
	}
	logger.Warn("Validation errors occurred", "errors", errorResponse)
	web.RespondJSON(w, logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
	return true
}
