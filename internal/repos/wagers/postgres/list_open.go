package wagers

import (
	"context"
	"fmt"

	"github.com/chipledger/chipledger/internal/repos/wagers"
)

func (r *wagersRepo) ListOpen(ctx context.Context) ([]wagers.OpenWager, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT w.id, w.creator_id, u.username, w.creator_amount, w.created_at
		FROM pvp_wagers w
		JOIN users u ON u.id = w.creator_id
		WHERE w.status = 'open'
		ORDER BY w.created_at DESC, w.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list open wagers: %w", err)
	}
	defer rows.Close()

	var open []wagers.OpenWager

	for rows.Next() {
		var w wagers.OpenWager

		err = rows.Scan(&w.ID, &w.CreatorID, &w.CreatorUsername, &w.Amount, &w.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan open wager: %w", err)
		}

		open = append(open, w)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate open wagers: %w", err)
	}

	return open, nil
}
