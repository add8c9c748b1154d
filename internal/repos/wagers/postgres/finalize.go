package wagers

import (
	"database/sql"
	"fmt"

	"github.com/chipledger/chipledger/internal/repos/wagers"
)

func (r *wagersRepo) Finalize(tx *sql.Tx, wagerID, opponentID uint64, opponentAmount int64, winnerID uint64) error {
	res, err := tx.Exec(`
		UPDATE pvp_wagers
		SET status = 'settled',
		    opponent_id = $2,
		    opponent_amount = $3,
		    winner_id = $4
		WHERE id = $1
		  AND status = 'open'
	`, wagerID, opponentID, opponentAmount, winnerID)
	if err != nil {
		return fmt.Errorf("finalize wager: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return wagers.ErrWagerAlreadySettled
	}

	return nil
}
