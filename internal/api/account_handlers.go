package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/chipledger/chipledger/internal/repos/users"
	"github.com/chipledger/chipledger/internal/services/accounts"
)

type registerRequest struct {
	Username string `json:"username"`
}

type amountRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

type adjustRequest struct {
	Delta       int64  `json:"delta"`
	Description string `json:"description"`
}

type ledgerEntryResponse struct {
	ID          uint64 `json:"id"`
	Kind        string `json:"type"`
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
	Timestamp   int64  `json:"timestamp"`
}

// RegisterUserHandler handles POST /users
func (h *HandlerProvider) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		writeError(w, http.StatusBadRequest, "username required")
		return
	}

	u, err := h.accounts.Register(r.Context(), username)
	if err != nil {
		if errors.Is(err, users.ErrUsernameTaken) {
			writeError(w, http.StatusConflict, "username taken")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user_id":  u.ID,
		"username": u.Username,
		"balance":  u.Balance,
	})
}

// GetBalanceHandler handles GET /user/{userId}/balance
func (h *HandlerProvider) GetBalanceHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDFromPath(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	bal, err := h.accounts.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}

		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id": userID,
		"balance": bal,
	})
}

// DepositHandler handles POST /user/{userId}/deposit
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.accounts.Deposit)
}

// WithdrawHandler handles POST /user/{userId}/withdraw
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	h.applyAmount(w, r, h.accounts.Withdraw)
}

func (h *HandlerProvider) applyAmount(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, userID uint64, amount int64, description string) (int64, error),
) {
	userID, err := parseIDFromPath(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req amountRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	newBalance, err := op(r.Context(), userID, req.Amount, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balance": newBalance})
}

// AdminAdjustHandler handles POST /user/{userId}/adjust
func (h *HandlerProvider) AdminAdjustHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDFromPath(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	var req adjustRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	newBalance, err := h.accounts.AdminAdjust(r.Context(), userID, req.Delta, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balance": newBalance})
}

// ListTransactionsHandler handles GET /user/{userId}/transactions
func (h *HandlerProvider) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDFromPath(r, "userId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid userId in path")
		return
	}

	entries, err := h.accounts.History(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	resp := make([]ledgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, ledgerEntryResponse{
			ID:          e.ID,
			Kind:        string(e.Kind),
			Amount:      e.Amount,
			Description: e.Description,
			Timestamp:   e.CreatedAt.UnixMilli(),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": resp})
}

// writeDomainError maps account-domain errors to statuses. Storage error
// text never reaches the caller.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, accounts.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, users.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient funds")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
