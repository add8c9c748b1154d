package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chipledger/chipledger/internal/services/accounts"
	"github.com/chipledger/chipledger/internal/services/wager"
)

// newTestRouter builds the full router over a sqlmock database with no
// expectations: any request that reaches storage fails the test, so
// these cases must be rejected at the handler layer.
func newTestRouter(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRouter(wager.New(db, nil), accounts.New(db)), mock
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandlers_RequestValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{
			name:     "register_empty_body",
			method:   http.MethodPost,
			path:     "/users",
			body:     "",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "register_blank_username",
			method:   http.MethodPost,
			path:     "/users",
			body:     `{"username": "  "}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "register_unknown_field",
			method:   http.MethodPost,
			path:     "/users",
			body:     `{"username": "a", "role": "admin"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "balance_non_numeric_id",
			method:   http.MethodGet,
			path:     "/user/abc/balance",
			body:     "",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "balance_zero_id",
			method:   http.MethodGet,
			path:     "/user/0/balance",
			body:     "",
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "deposit_malformed_json",
			method:   http.MethodPost,
			path:     "/user/1/deposit",
			body:     `{"amount": `,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "deposit_non_positive_amount",
			method:   http.MethodPost,
			path:     "/user/1/deposit",
			body:     `{"amount": 0}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "withdraw_negative_amount",
			method:   http.MethodPost,
			path:     "/user/1/withdraw",
			body:     `{"amount": -10}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "adjust_zero_delta",
			method:   http.MethodPost,
			path:     "/user/1/adjust",
			body:     `{"delta": 0}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "create_wager_missing_user",
			method:   http.MethodPost,
			path:     "/wagers",
			body:     `{"amount": 100}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "create_wager_zero_amount",
			method:   http.MethodPost,
			path:     "/wagers",
			body:     `{"user_id": 1, "amount": 0}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "accept_bad_wager_id",
			method:   http.MethodPost,
			path:     "/wagers/xyz/accept",
			body:     `{"user_id": 2, "amount": 100}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "accept_missing_user",
			method:   http.MethodPost,
			path:     "/wagers/1/accept",
			body:     `{"amount": 100}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "accept_negative_amount",
			method:   http.MethodPost,
			path:     "/wagers/1/accept",
			body:     `{"user_id": 2, "amount": -5}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			router, mock := newTestRouter(t)

			rec := doRequest(t, router, tc.method, tc.path, tc.body)

			assert.Equal(t, tc.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestHandlers_Healthz(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
