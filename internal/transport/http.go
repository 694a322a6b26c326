package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/woodcraft-pdl/storefront/internal/cart"
	"github.com/woodcraft-pdl/storefront/internal/catalog"
	"github.com/woodcraft-pdl/storefront/internal/handler"
	"github.com/woodcraft-pdl/storefront/internal/messaging"
	"github.com/woodcraft-pdl/storefront/internal/order"
)

// NewRouter wires the storefront's HTTP surface: catalog reads, quote
// pricing, session carts, and checkout with the order lifecycle.
func NewRouter(dbPool *pgxpool.Pool, cartStore cart.Store, publisher messaging.Publisher, ordersTopic string) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	catalogRepo := catalog.NewRepository(dbPool)
	orderRepo := order.NewRepository(dbPool)
	orderService := order.NewService(orderRepo, publisher, ordersTopic)

	handler.NewCatalogHandler(catalogRepo).RegisterRoutes(r)
	handler.NewPricingHandler(catalogRepo).RegisterRoutes(r)
	handler.NewCartHandler(cartStore, catalogRepo).RegisterRoutes(r)
	handler.NewOrderHandler(orderService, cartStore).RegisterRoutes(r)

	return r
}
