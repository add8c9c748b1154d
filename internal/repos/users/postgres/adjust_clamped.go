package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/chipledger/chipledger/internal/repos/users"
)

// AdjustClamped applies delta but never lets the balance go below zero.
// Used by the administrative adjustment path only; settlements go through
// DecreaseBalance so an overdraft is an error, not a clamp.
func (r *usersRepo) AdjustClamped(tx *sql.Tx, userID uint64, delta int64) (int64, error) {
	var balance int64

	err := tx.QueryRow(`
		UPDATE users
		SET balance = GREATEST(0, balance + $2)
		WHERE id = $1
		RETURNING balance
	`, userID, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, users.ErrUserNotFound
		}

		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	return balance, nil
}
