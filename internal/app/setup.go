// Package app contains the application setup for the marketplace service.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/regear/marketplace/internal/config"
	"github.com/regear/marketplace/internal/service"
	"github.com/regear/marketplace/internal/store"
	"github.com/regear/marketplace/internal/transport/rest"
	"github.com/regear/marketplace/pkg/server"
	"github.com/shopspring/decimal"
)

type Dependencies struct {
	Products service.ProductService
	Items    service.ItemService
	Listings service.ListingService
	Logger   *slog.Logger
}

func SetupDependencies(logger *slog.Logger) *Dependencies {
	productStore := store.NewProductStore()
	itemStore := store.NewItemStore()
	listingStore := store.NewListingStore()

	items := service.NewItemService(itemStore, productStore)

	return &Dependencies{
		Products: service.NewProductService(productStore),
		Items:    items,
		Listings: service.NewListingService(listingStore, items),
		Logger:   logger,
	}
}

// SetupHttpHandler initializes the HTTP routes for the marketplace service.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the marketplace service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.Products, deps.Items, deps.Listings, deps.Logger)
	handler.RegisterRoutes(mux)
}

// SetupHttpServer creates and configures an HTTP server for the marketplace service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {

	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, mux)
}

// SeedCatalog stores a small demo catalog so a fresh instance is browsable.
func SeedCatalog(ctx context.Context, deps *Dependencies) error {
	seed := []service.ProductCreateDto{
		{
			Name:        "Super Mario World",
			Description: "Super Nintendo (SNES) System. Mint Condition",
			Price:       decimal.NewFromFloat(259.99),
		},
		{
			Name:        "Donkey Kong 64",
			Description: "Moderate Condition Donkey Kong 64 cartridge for the Nintendo 64",
			Price:       decimal.NewFromInt(199),
		},
		{
			Name:        "Half-Life 2: Collector's Edition",
			Description: "Good condition with all 5 CDs, booklets, and material from original",
			Price:       decimal.NewFromFloat(559.99),
		},
	}
	for _, candidate := range seed {
		if _, err := deps.Products.Create(ctx, candidate); err != nil {
			return fmt.Errorf("failed to seed product %q: %w", candidate.Name, err)
		}
	}
	return nil
}
