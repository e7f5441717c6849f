// Package handler exposes the ledger over a JSON HTTP API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mmynk/tripledger/internal/auth"
	"github.com/mmynk/tripledger/internal/middleware"
	"github.com/mmynk/tripledger/internal/service"
)

// Handler holds the services behind the HTTP API.
type Handler struct {
	ledger *service.LedgerService
	auth   *service.AuthService
	jwt    *auth.JWTManager
}

// New creates a Handler.
func New(ledger *service.LedgerService, authSvc *service.AuthService, jwt *auth.JWTManager) *Handler {
	return &Handler{ledger: ledger, auth: authSvc, jwt: jwt}
}

// Routes mounts all API routes. Everything under /api/trips requires a valid
// bearer token; the ledger never sees a request without an authenticated
// identity in its context.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/api/auth/register", h.register)
	r.Post("/api/auth/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwt))
		r.Route("/api/trips", func(r chi.Router) {
			r.Post("/", h.createTrip)
			r.Get("/", h.listTrips)
			r.Route("/{tripID}", func(r chi.Router) {
				r.Get("/", h.getTrip)
				r.Patch("/", h.renameTrip)
				r.Delete("/", h.deleteTrip)
				r.Post("/expenses", h.addExpense)
				r.Get("/expenses", h.listExpenses)
				r.Get("/balances", h.balances)
			})
		})
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
