package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chipledger/chipledger/internal/repos/users"
)

func (r *usersRepo) GetByID(ctx context.Context, userID uint64) (users.User, error) {
	var u users.User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, balance, created_at
		FROM users
		WHERE id = $1
	`, userID).Scan(&u.ID, &u.Username, &u.Balance, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (r *usersRepo) GetBalance(ctx context.Context, userID uint64) (int64, error) {
	var balance int64

	err := r.db.QueryRowContext(ctx, `
		SELECT balance
		FROM users
		WHERE id = $1
	`, userID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}
