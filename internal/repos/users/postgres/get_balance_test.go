package users

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/chipledger/chipledger/internal/infra/pgtestutil"
	"github.com/chipledger/chipledger/internal/repos/users"
)

func TestUsers_GetBalance_TableDriven(t *testing.T) {
	t.Parallel()

	type tc struct {
		name        string
		seed        func(db *sql.DB, t *testing.T)
		userID      uint64
		wantBalance int64
		wantErr     error
	}

	tests := []tc{
		{
			name: "ok_user_exists",
			seed: func(db *sql.DB, t *testing.T) {
				_, err := db.Exec(`INSERT INTO users (id, username, balance) VALUES (1, 'u1', 1000)`)
				if err != nil {
					t.Fatalf("seed user: %v", err)
				}
			},
			userID:      1,
			wantBalance: 1000,
		},
		{
			name:    "error_user_not_found",
			seed:    nil, // no seed -> user missing
			userID:  999,
			wantErr: users.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt // pin
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db, cleanup := pgtestutil.NewTestDB(t)
			defer cleanup()

			if tt.seed != nil {
				tt.seed(db, t)
			}

			repo := New(db)

			gotBalance, err := repo.GetBalance(t.Context(), tt.userID)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if gotBalance != tt.wantBalance {
				t.Fatalf("balance: want %d, got %d", tt.wantBalance, gotBalance)
			}
		})
	}
}

func TestUsers_LockAndGetBalance_NotFound(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)

	tx, err := db.BeginTx(t.Context(), nil)
	if err != nil {
		t.Fatalf("begin tx: %v", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = repo.LockAndGetBalance(tx, 424242)
	if !errors.Is(err, users.ErrUserNotFound) {
		t.Fatalf("want ErrUserNotFound, got %v", err)
	}
}
