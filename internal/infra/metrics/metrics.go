package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SettlementsTotal counts committed wager settlements by outcome
// ("creator_win" / "opponent_win").
var SettlementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "wager_settlements_total",
	Help: "Committed wager settlements, labeled by outcome.",
}, []string{"outcome"})

type HealthFunc func(ctx context.Context) error

// StartServer runs a small HTTP server exposing /metrics and /healthz,
// separate from the public API port. It returns the server so the caller
// can shut it down gracefully.
func StartServer(port uint16, healthFn HealthFunc) *http.Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		err := healthFn(ctx)
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, "unhealthy: %v", err)

			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		_ = srv.ListenAndServe()
	}()

	return srv
}
