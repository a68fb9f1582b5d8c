// Package handler exposes the storefront over a JSON HTTP API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/ojo-prints/internal/domain/cart"
	"github.com/xenking/ojo-prints/internal/domain/checkout"
	"github.com/xenking/ojo-prints/internal/domain/pricing"
	"github.com/xenking/ojo-prints/internal/domain/product"
	"github.com/xenking/ojo-prints/internal/domain/search"
)

// maxBodyBytes caps request bodies; a full cart snapshot is a few KiB.
const maxBodyBytes = 1 << 20

// Brand is the storefront identity served by GET /brand.
type Brand struct {
	Name     string
	Tagline  string
	Location string
	Email    string
	HeroNote string
	// LogoSrcs is an ordered fallback chain of logo URLs.
	LogoSrcs []string
}

// Config holds non-dependency configuration for the Handler.
type Config struct {
	Brand Brand
	// ImageBaseURL is prepended to relative image paths. Absolute URLs are
	// returned as stored.
	ImageBaseURL string
}

// Deps are the domain services the Handler delegates to.
type Deps struct {
	Catalog  *product.Catalog
	Prices   *pricing.Engine
	Search   *search.Service
	Carts    *cart.Service
	Checkout *checkout.Resolver
}

// Handler serves the storefront API.
type Handler struct {
	catalog  *product.Catalog
	prices   *pricing.Engine
	search   *search.Service
	carts    *cart.Service
	checkout *checkout.Resolver

	brand        Brand
	imageBaseURL string

	resolutions metric.Int64Counter
}

// NewHandler constructs a Handler.
func NewHandler(cfg Config, deps Deps, mp metric.MeterProvider) (*Handler, error) {
	meter := mp.Meter("github.com/xenking/ojo-prints/internal/handler")
	resolutions, err := meter.Int64Counter("shop.checkout.resolutions",
		metric.WithDescription("Checkout link resolutions, by link source"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create checkout resolutions counter")
	}

	return &Handler{
		catalog:      deps.Catalog,
		prices:       deps.Prices,
		search:       deps.Search,
		carts:        deps.Carts,
		checkout:     deps.Checkout,
		brand:        cfg.Brand,
		imageBaseURL: cfg.ImageBaseURL,
		resolutions:  resolutions,
	}, nil
}

// Routes returns the API router. It is meant to be mounted under /api.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/brand", h.GetBrand)

	r.Get("/products", h.ListProducts)
	r.Get("/products/facets", h.GetFacets)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/products/{id}/price", h.GetPrice)
	r.Get("/products/{id}/checkout", h.GetCheckout)

	r.Post("/cart", h.ApplyCart)
	r.Post("/cart/checkout", h.CheckoutCart)
	return r
}
