package wagers

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrWagerNotFound = errors.New("wager not found")
var ErrWagerAlreadySettled = errors.New("wager already settled")
var ErrSelfWager = errors.New("cannot accept own wager")

// OpenWager is the listing snapshot of a wager still waiting for an
// opponent. It may be stale the moment it is returned: a concurrent
// acceptance can settle the wager right after the read.
type OpenWager struct {
	ID              uint64
	CreatorID       uint64
	CreatorUsername string
	Amount          int64
	CreatedAt       time.Time
}

// ClaimedWager is what LockForSettlement hands to the settlement engine.
// It deliberately carries only the fields an Open wager has; opponent and
// winner fields do not exist until Finalize writes them.
type ClaimedWager struct {
	ID              uint64
	CreatorID       uint64
	CreatorAmount   int64
	CreatorUsername string
}

type Wagers interface {
	Create(ctx context.Context, creatorID uint64, amount int64) (uint64, error)
	ListOpen(ctx context.Context) ([]OpenWager, error)
	LockForSettlement(tx *sql.Tx, wagerID uint64) (ClaimedWager, error)
	Finalize(tx *sql.Tx, wagerID, opponentID uint64, opponentAmount int64, winnerID uint64) error
}
