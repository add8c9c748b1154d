package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/chipledger/chipledger/internal/repos/ledger"
)

var _ ledger.Ledger = (*ledgerRepo)(nil)

type ledgerRepo struct{ db *sql.DB }

func New(db *sql.DB) *ledgerRepo {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Append(tx *sql.Tx, userID uint64, kind ledger.Kind, amount int64, description string, ref uuid.NullUUID) error {
	_, err := tx.Exec(`
		INSERT INTO transactions (user_id, kind, amount, description, settlement_ref)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, string(kind), amount, description, ref)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}

	return nil
}

func (r *ledgerRepo) ListRecent(ctx context.Context, userID uint64, limit int) ([]ledger.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, kind, amount, description, settlement_ref, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []ledger.Entry

	for rows.Next() {
		var e ledger.Entry

		err = rows.Scan(&e.ID, &e.UserID, &e.Kind, &e.Amount, &e.Description, &e.SettlementRef, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}

		entries = append(entries, e)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return entries, nil
}
