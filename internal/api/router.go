package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/chipledger/chipledger/internal/services/accounts"
	"github.com/chipledger/chipledger/internal/services/wager"
)

// NewRouter constructs the chi router with all API endpoints registered.
func NewRouter(wagerSvc *wager.Service, accountSvc *accounts.Service) http.Handler {
	h := NewHandler(wagerSvc, accountSvc)
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-User-Id"},
		MaxAge:         86400,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/users", h.RegisterUserHandler)
	r.Get("/user/{userId}/balance", h.GetBalanceHandler)
	r.Post("/user/{userId}/deposit", h.DepositHandler)
	r.Post("/user/{userId}/withdraw", h.WithdrawHandler)
	r.Post("/user/{userId}/adjust", h.AdminAdjustHandler)
	r.Get("/user/{userId}/transactions", h.ListTransactionsHandler)

	r.Post("/wagers", h.CreateWagerHandler)
	r.Get("/wagers/open", h.ListOpenWagersHandler)
	r.Post("/wagers/{wagerId}/accept", h.AcceptWagerHandler)

	return r
}
