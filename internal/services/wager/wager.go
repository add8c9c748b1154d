package wager

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/chipledger/chipledger/internal/infra/metrics"
	"github.com/chipledger/chipledger/internal/infra/pgutils"
	"github.com/chipledger/chipledger/internal/repos/ledger"
	pgledger "github.com/chipledger/chipledger/internal/repos/ledger/postgres"
	"github.com/chipledger/chipledger/internal/repos/users"
	pgusers "github.com/chipledger/chipledger/internal/repos/users/postgres"
	"github.com/chipledger/chipledger/internal/repos/wagers"
	pgwagers "github.com/chipledger/chipledger/internal/repos/wagers/postgres"
)

var (
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrUnavailable is returned when a settlement lost a storage-level
	// conflict twice in a row. Nothing was applied; the caller may retry.
	ErrUnavailable = errors.New("settlement temporarily unavailable")
)

// Result is what the accepting side gets back from a settlement.
// IsWinner is from the acceptor's point of view.
type Result struct {
	WagerID         uint64
	WinnerID        uint64
	IsWinner        bool
	CreatorUsername string
}

// Service is the settlement engine. It owns the wager lifecycle:
// creation after an advisory escrow check, and acceptance as one
// failure-atomic unit over both balances, the ledger and the wager row.
type Service struct {
	db     *sql.DB
	users  users.Users
	wagers wagers.Wagers
	ledger ledger.Ledger
	rand   Rand
}

// New builds a Service over db. A nil rnd falls back to math/rand.
func New(db *sql.DB, rnd Rand) *Service {
	if rnd == nil {
		rnd = defaultRand{}
	}

	return &Service{
		db:     db,
		users:  pgusers.New(db),
		wagers: pgwagers.New(db),
		ledger: pgledger.New(db),
		rand:   rnd,
	}
}

// Create opens a new wager after checking the creator can currently
// cover the stake. Funds are not reserved: the check is advisory, and
// acceptance re-validates both sides inside the settlement transaction.
func (s *Service) Create(ctx context.Context, creatorID uint64, amount int64) (uint64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	balance, err := s.users.GetBalance(ctx, creatorID)
	if err != nil {
		return 0, fmt.Errorf("check creator balance: %w", err)
	}

	if balance < amount {
		return 0, users.ErrInsufficientFunds
	}

	id, err := s.wagers.Create(ctx, creatorID, amount)
	if err != nil {
		return 0, fmt.Errorf("create wager: %w", err)
	}

	return id, nil
}

// ListOpen returns a snapshot of wagers waiting for an opponent,
// newest first.
func (s *Service) ListOpen(ctx context.Context) ([]wagers.OpenWager, error) {
	open, err := s.wagers.ListOpen(ctx)
	if err != nil {
		return nil, fmt.Errorf("list open wagers: %w", err)
	}

	return open, nil
}

// Accept settles an open wager against opponentID staking amount.
//
// The whole settlement is one database transaction: claim the wager row,
// lock both participants, re-validate the opponent's balance, draw the
// outcome, move the loser's stake to the winner, append both ledger
// legs and finalize the wager. Any failure rolls everything back, which
// also returns a provisionally claimed wager to Open.
//
// A storage-level serialization conflict is retried exactly once, then
// surfaced as ErrUnavailable.
func (s *Service) Accept(ctx context.Context, wagerID, opponentID uint64, amount int64) (Result, error) {
	if amount <= 0 {
		return Result{}, ErrInvalidAmount
	}

	res, err := s.settle(ctx, wagerID, opponentID, amount)
	if err != nil && pgutils.IsSerializationFailure(err) {
		slog.Warn("settlement hit storage conflict, retrying once",
			"wagerId", wagerID, "error", err)

		res, err = s.settle(ctx, wagerID, opponentID, amount)
		if err != nil && pgutils.IsSerializationFailure(err) {
			return Result{}, ErrUnavailable
		}
	}

	if err != nil {
		return Result{}, err
	}

	outcome := "creator_win"
	if res.IsWinner {
		outcome = "opponent_win"
	}
	metrics.SettlementsTotal.WithLabelValues(outcome).Inc()

	slog.Info("wager settled",
		"wagerId", res.WagerID, "winnerId", res.WinnerID, "opponentId", opponentID)

	return res, nil
}

func (s *Service) settle(ctx context.Context, wagerID, opponentID uint64, opponentAmount int64) (Result, error) {
	var res Result

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// Claim: first transaction to lock the row wins the race;
		// everyone after it sees ErrWagerAlreadySettled.
		w, err := s.wagers.LockForSettlement(tx, wagerID)
		if err != nil {
			return fmt.Errorf("claim wager: %w", err)
		}

		if w.CreatorID == opponentID {
			return wagers.ErrSelfWager
		}

		// Lock both participants in ascending id order so two
		// settlements sharing users cannot deadlock.
		firstID, secondID := w.CreatorID, opponentID
		if firstID > secondID {
			firstID, secondID = secondID, firstID
		}

		balances := make(map[uint64]int64, 2)

		for _, id := range []uint64{firstID, secondID} {
			bal, err := s.users.LockAndGetBalance(tx, id)
			if err != nil {
				return fmt.Errorf("lock participant %d: %w", id, err)
			}

			balances[id] = bal
		}

		// Re-validate the opponent under the lock; creation only checked
		// the creator, and balances may have moved since.
		if balances[opponentID] < opponentAmount {
			return users.ErrInsufficientFunds
		}

		opponentWins := pickWinner(s.rand.Float64(), w.CreatorAmount, opponentAmount)

		winnerID, loserID, loserAmount := w.CreatorID, opponentID, opponentAmount
		if opponentWins {
			winnerID, loserID, loserAmount = opponentID, w.CreatorID, w.CreatorAmount
		}

		// The winner keeps their own stake and gains the loser's, so the
		// only movement is the loser's stake changing hands. The
		// conditional decrement also catches a creator who spent the
		// stake after creating the wager.
		err = s.users.DecreaseBalance(tx, loserID, loserAmount)
		if err != nil {
			return fmt.Errorf("debit loser: %w", err)
		}

		err = s.users.IncreaseBalance(tx, winnerID, loserAmount)
		if err != nil {
			return fmt.Errorf("credit winner: %w", err)
		}

		ref := uuid.NullUUID{UUID: uuid.New(), Valid: true}

		err = s.ledger.Append(tx, winnerID, ledger.KindWin, loserAmount, "pvp wager won", ref)
		if err != nil {
			return fmt.Errorf("append win entry: %w", err)
		}

		err = s.ledger.Append(tx, loserID, ledger.KindLoss, -loserAmount, "pvp wager lost", ref)
		if err != nil {
			return fmt.Errorf("append loss entry: %w", err)
		}

		err = s.wagers.Finalize(tx, wagerID, opponentID, opponentAmount, winnerID)
		if err != nil {
			return fmt.Errorf("finalize wager: %w", err)
		}

		res = Result{
			WagerID:         wagerID,
			WinnerID:        winnerID,
			IsWinner:        winnerID == opponentID,
			CreatorUsername: w.CreatorUsername,
		}

		return nil
	})
	if err != nil {
		return Result{}, err
	}

	return res, nil
}
