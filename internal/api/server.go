package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/chipledger/chipledger/internal/services/accounts"
	"github.com/chipledger/chipledger/internal/services/wager"
)

// NewServer creates and returns a configured *http.Server for the
// wagering API.
func NewServer(port uint16, wagerSvc *wager.Service, accountSvc *accounts.Service) *http.Server {
	mux := NewRouter(wagerSvc, accountSvc)

	addr := fmt.Sprintf(":%d", port)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
