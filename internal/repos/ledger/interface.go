package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Kind tags a ledger entry with the event that produced it.
type Kind string

const (
	KindWin        Kind = "win"
	KindLoss       Kind = "loss"
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
)

// Entry is an immutable, append-only record of a balance-affecting event.
// The two legs of one settlement share a SettlementRef.
type Entry struct {
	ID            uint64
	UserID        uint64
	Kind          Kind
	Amount        int64
	Description   string
	SettlementRef uuid.NullUUID
	CreatedAt     time.Time
}

type Ledger interface {
	Append(tx *sql.Tx, userID uint64, kind Kind, amount int64, description string, ref uuid.NullUUID) error
	ListRecent(ctx context.Context, userID uint64, limit int) ([]Entry, error)
}
