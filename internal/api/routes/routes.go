package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/AIBlockOfficial/valence-market/internal/api/handlers"
	"github.com/AIBlockOfficial/valence-market/internal/api/middleware"
)

// Options holds route-level policy configuration
type Options struct {
	MaxBodyBytes   int64
	AllowedOrigins []string
}

// DefaultOptions returns the policy used when none is supplied
func DefaultOptions() Options {
	return Options{
		MaxBodyBytes:   1 << 20, // 1 MiB
		AllowedOrigins: []string{"*"},
	}
}

// SetupRoutes configures all API routes with middleware
func SetupRoutes(marketHolder *handlers.MarketHolder, opts Options) http.Handler {
	router := mux.NewRouter()
	api := router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", handlers.HealthHandler).Methods(http.MethodGet)

	// Listing endpoints
	api.HandleFunc("/listings", marketHolder.ListingsHandler).Methods(http.MethodGet)
	api.HandleFunc("/listings", marketHolder.CreateListingHandler).Methods(http.MethodPost)
	api.HandleFunc("/listings/{id}", marketHolder.ListingByIDHandler).Methods(http.MethodGet)

	// Order endpoints: POST submits an order, GET returns the order book for
	// a listing
	api.HandleFunc("/orders", marketHolder.SubmitOrderHandler).Methods(http.MethodPost)
	api.HandleFunc("/orders/{id}", marketHolder.OrderBookHandler).Methods(http.MethodGet)

	// Trade endpoints
	api.HandleFunc("/trades/{id}", marketHolder.PendingTradesHandler).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})

	// Apply middleware (order matters: Recovery -> CORS -> BodyLimit -> Logging -> Handler)
	handler := middleware.Recovery(router)
	handler = c.Handler(handler)
	handler = middleware.BodyLimit(handler, opts.MaxBodyBytes)
	handler = middleware.Logging(handler)

	return handler
}
