package wagers

import (
	"context"
	"fmt"
)

func (r *wagersRepo) Create(ctx context.Context, creatorID uint64, amount int64) (uint64, error) {
	var id uint64

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO pvp_wagers (creator_id, creator_amount, status)
		VALUES ($1, $2, 'open')
		RETURNING id
	`, creatorID, amount).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create wager: %w", err)
	}

	return id, nil
}
