// Package httpapi exposes the storefront over HTTP: catalog reads, pricing
// lookups, cart quotes, and order placement. Handlers delegate all business
// logic to the domain packages and only translate between JSON and domain
// types.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/xenking/granola-store/internal/domain/catalog"
	"github.com/xenking/granola-store/internal/domain/checkout"
	"github.com/xenking/granola-store/internal/pricing"
)

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// ImageBaseURL is prepended to relative image paths in product
	// responses. When empty, image paths are returned as stored.
	ImageBaseURL string
}

// Handler serves the storefront API routes.
type Handler struct {
	products     catalog.Repository
	checkout     *checkout.Service
	engine       *pricing.Engine
	validate     *validator.Validate
	imageBaseURL string
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	cfg Config,
	products catalog.Repository,
	checkoutSvc *checkout.Service,
	engine *pricing.Engine,
) *Handler {
	return &Handler{
		products:     products,
		checkout:     checkoutSvc,
		engine:       engine,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		imageBaseURL: cfg.ImageBaseURL,
	}
}

// Routes mounts the API routes. requireAPIKey guards the mutating order
// endpoint; read-only routes are public.
func (h *Handler) Routes(requireAPIKey func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/products", h.ListProducts)
	r.Get("/products/{productID}", h.GetProduct)
	r.Get("/pack-options", h.PackOptions)
	r.Get("/subscription", h.SubscriptionInfo)
	r.Post("/cart/quote", h.QuoteCart)
	r.With(requireAPIKey).Post("/orders", h.PlaceOrder)

	return r
}
