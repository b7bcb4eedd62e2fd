package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/bazar/internal/market"
)

// Options configures the API beyond its database.
type Options struct {
	JWTSecret   string
	EmailDomain string
	TokenTTL    time.Duration
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, opts Options) http.Handler {
	mux := http.NewServeMux()

	listings := &market.ListingGuard{DB: db}
	offers := &market.OfferEngine{DB: db, Listings: listings}
	messaging := &market.Messaging{DB: db}

	authHandler := &AuthHandler{
		DB:          db,
		JWTSecret:   opts.JWTSecret,
		EmailDomain: opts.EmailDomain,
		TokenTTL:    opts.TokenTTL,
	}
	listingsHandler := &ListingsHandler{Listings: listings}
	offersHandler := &OffersHandler{Offers: offers}
	messagesHandler := &MessagesHandler{Messaging: messaging}

	authMW := AuthMiddleware(opts.JWTSecret, db)

	// Public: signup, login and listing browsing.
	mux.HandleFunc("POST /api/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/listings", listingsHandler.List)
	mux.HandleFunc("GET /api/listings/{id}", listingsHandler.Get)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))

	mux.Handle("POST /api/listings", authMW(http.HandlerFunc(listingsHandler.Create)))
	mux.Handle("DELETE /api/listings/{id}", authMW(http.HandlerFunc(listingsHandler.Delete)))

	mux.Handle("POST /api/offers", authMW(http.HandlerFunc(offersHandler.Create)))
	mux.Handle("GET /api/offers", authMW(http.HandlerFunc(offersHandler.List)))
	mux.Handle("GET /api/offers/{id}", authMW(http.HandlerFunc(offersHandler.Get)))
	mux.Handle("PATCH /api/offers/{id}", authMW(http.HandlerFunc(offersHandler.Update)))
	mux.Handle("DELETE /api/offers/{id}", authMW(http.HandlerFunc(offersHandler.Delete)))

	mux.Handle("POST /api/messages", authMW(http.HandlerFunc(messagesHandler.Send)))
	mux.Handle("GET /api/messages", authMW(http.HandlerFunc(messagesHandler.List)))

	return mux
}
