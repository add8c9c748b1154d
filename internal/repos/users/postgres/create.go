package users

import (
	"context"
	"fmt"

	"github.com/chipledger/chipledger/internal/infra/pgutils"
	"github.com/chipledger/chipledger/internal/repos/users"
)

func (r *usersRepo) Create(ctx context.Context, username string) (uint64, error) {
	var id uint64

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, balance)
		VALUES ($1, 0)
		RETURNING id
	`, username).Scan(&id)
	if err != nil {
		if pgutils.IsUniqueViolation(err) {
			return 0, users.ErrUsernameTaken
		}

		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}
