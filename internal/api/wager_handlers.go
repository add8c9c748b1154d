package api

import (
	"errors"
	"net/http"

	"github.com/chipledger/chipledger/internal/repos/users"
	"github.com/chipledger/chipledger/internal/repos/wagers"
	"github.com/chipledger/chipledger/internal/services/accounts"
	"github.com/chipledger/chipledger/internal/services/wager"
)

// HandlerProvider wraps the services and exposes HTTP handlers.
type HandlerProvider struct {
	wagers   *wager.Service
	accounts *accounts.Service
}

// NewHandler returns a new handler provider.
func NewHandler(wagerSvc *wager.Service, accountSvc *accounts.Service) *HandlerProvider {
	return &HandlerProvider{wagers: wagerSvc, accounts: accountSvc}
}

type createWagerRequest struct {
	UserID uint64 `json:"user_id"`
	Amount int64  `json:"amount"`
}

type acceptWagerRequest struct {
	UserID uint64 `json:"user_id"`
	Amount int64  `json:"amount"`
}

type openWagerResponse struct {
	ID        uint64 `json:"id"`
	CreatorID uint64 `json:"creator_id"`
	Creator   string `json:"creator"`
	Amount    int64  `json:"amount"`
}

// CreateWagerHandler handles POST /wagers
func (h *HandlerProvider) CreateWagerHandler(w http.ResponseWriter, r *http.Request) {
	var req createWagerRequest

	err := decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}

	wagerID, err := h.wagers.Create(r.Context(), req.UserID, req.Amount)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"wager_id": wagerID})
}

// ListOpenWagersHandler handles GET /wagers/open
func (h *HandlerProvider) ListOpenWagersHandler(w http.ResponseWriter, r *http.Request) {
	open, err := h.wagers.ListOpen(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]openWagerResponse, 0, len(open))
	for _, ow := range open {
		resp = append(resp, openWagerResponse{
			ID:        ow.ID,
			CreatorID: ow.CreatorID,
			Creator:   ow.CreatorUsername,
			Amount:    ow.Amount,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"wagers": resp})
}

// AcceptWagerHandler handles POST /wagers/{wagerId}/accept
func (h *HandlerProvider) AcceptWagerHandler(w http.ResponseWriter, r *http.Request) {
	wagerID, err := parseIDFromPath(r, "wagerId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid wagerId in path")
		return
	}

	var req acceptWagerRequest

	err = decodeBody(w, r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.UserID == 0 {
		writeError(w, http.StatusBadRequest, "user_id required")
		return
	}

	res, err := h.wagers.Accept(r.Context(), wagerID, req.UserID, req.Amount)
	if err != nil {
		writeWagerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"winner_id":        res.WinnerID,
		"is_winner":        res.IsWinner,
		"creator_username": res.CreatorUsername,
	})
}

// writeWagerError maps wager-domain errors to statuses. Each error kind
// keeps a stable message; storage details stay server-side.
func writeWagerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wager.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "amount must be positive")
	case errors.Is(err, wagers.ErrWagerNotFound):
		writeError(w, http.StatusNotFound, "wager not found")
	case errors.Is(err, users.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, wagers.ErrWagerAlreadySettled):
		writeError(w, http.StatusConflict, "wager already settled")
	case errors.Is(err, wagers.ErrSelfWager):
		writeError(w, http.StatusConflict, "cannot accept own wager")
	case errors.Is(err, users.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient funds")
	case errors.Is(err, wager.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "temporarily unavailable, try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
