package api

import (
	"net/http"
	"time"

	"storefront-be/internal/cart"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/middleware"
	"storefront-be/internal/order"
	"storefront-be/internal/product"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

type Deps struct {
	Products product.Service
	Carts    *cart.Service
	Orders   order.Service
	Metrics  *metrics.Registry
	Limiter  *middleware.Limiter

	CORSOrigin    string
	SessionTTL    time.Duration
	SecureCookies bool
}

func NewRouter(d Deps) http.Handler {
	if d.Limiter == nil {
		d.Limiter = middleware.NewLimiter()
	}

	products := NewProductHandler(d.Products)
	carts := NewCartHandler(d.Carts)
	checkout := NewCheckoutHandler(d.Orders, d.Carts)
	orders := NewOrderHandler(d.Orders)

	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(middleware.CORS(d.CORSOrigin))
	r.Use(d.Limiter.Middleware)
	r.Use(middleware.Session(d.SessionTTL, d.SecureCookies))

	r.Get("/health", healthHandler(d.Metrics))

	// streams stay open past the request timeout
	r.Get("/cart/events", carts.Events)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(requestTimeout))

		r.Get("/products", products.List)
		r.Get("/products/search", products.Search)
		r.Get("/products/{id}", products.Get)

		r.Get("/cart", carts.Get)
		r.Delete("/cart", carts.Clear)
		r.Post("/cart/items", carts.AddItem)
		r.Put("/cart/items/{key}", carts.UpdateQuantity)
		r.Delete("/cart/items/{key}", carts.RemoveItem)

		r.Post("/checkout/validate", checkout.Validate)
		r.Post("/checkout", checkout.Checkout)
		r.Get("/orders/{orderNumber}", orders.Get)
	})

	return r
}

func healthHandler(reg *metrics.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"metrics": reg.Snapshot(),
		})
	}
}
