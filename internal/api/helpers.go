package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)

		http.Error(w, `{"error":"internal json encode failure"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// parseIDFromPath reads a positive uint64 path parameter from chi routes
// like GET /user/{userId}/balance or POST /wagers/{wagerId}/accept.
func parseIDFromPath(r *http.Request, name string) (uint64, error) {
	idStr := chi.URLParam(r, name)
	if idStr == "" {
		return 0, fmt.Errorf("missing %s", name)
	}

	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}

	return id, nil
}

// decodeBody decodes a JSON body into dst with a size cap and unknown
// fields disallowed.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("empty body")
		}

		return fmt.Errorf("invalid JSON")
	}

	return nil
}
