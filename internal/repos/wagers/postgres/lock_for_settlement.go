package wagers

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/chipledger/chipledger/internal/repos/wagers"
)

// LockForSettlement claims the wager row for the calling transaction.
// The FOR UPDATE lock is the serialization point for concurrent
// acceptances: a second caller blocks here until the first transaction
// commits, then observes status = 'settled'.
func (r *wagersRepo) LockForSettlement(tx *sql.Tx, wagerID uint64) (wagers.ClaimedWager, error) {
	var (
		w      wagers.ClaimedWager
		status string
	)

	err := tx.QueryRow(`
		SELECT w.id, w.creator_id, w.creator_amount, w.status, u.username
		FROM pvp_wagers w
		JOIN users u ON u.id = w.creator_id
		WHERE w.id = $1
		FOR UPDATE OF w
	`, wagerID).Scan(&w.ID, &w.CreatorID, &w.CreatorAmount, &status, &w.CreatorUsername)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return wagers.ClaimedWager{}, wagers.ErrWagerNotFound
		}

		return wagers.ClaimedWager{}, fmt.Errorf("lock wager: %w", err)
	}

	if status != "open" {
		return wagers.ClaimedWager{}, wagers.ErrWagerAlreadySettled
	}

	return w, nil
}
