package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/chipledger/chipledger/internal/infra/pgutils"
	"github.com/chipledger/chipledger/internal/repos/ledger"
	pgledger "github.com/chipledger/chipledger/internal/repos/ledger/postgres"
	"github.com/chipledger/chipledger/internal/repos/users"
	pgusers "github.com/chipledger/chipledger/internal/repos/users/postgres"
)

var ErrInvalidAmount = errors.New("amount must be positive")

// historyLimit caps the transaction history read, matching the audit
// surface of the ledger: most recent first, at most 50 entries.
const historyLimit = 50

// Service is the account-facing collaborator surface around the wager
// core: registration, balance reads, deposits, withdrawals, history and
// the clamped administrative adjustment.
type Service struct {
	db     *sql.DB
	users  users.Users
	ledger ledger.Ledger
}

func New(db *sql.DB) *Service {
	return &Service{
		db:     db,
		users:  pgusers.New(db),
		ledger: pgledger.New(db),
	}
}

func (s *Service) Register(ctx context.Context, username string) (users.User, error) {
	id, err := s.users.Create(ctx, username)
	if err != nil {
		return users.User{}, fmt.Errorf("register: %w", err)
	}

	return users.User{ID: id, Username: username, Balance: 0}, nil
}

func (s *Service) GetUser(ctx context.Context, userID uint64) (users.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return users.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

// GetBalance returns the user's balance (no locks; suitable for reads).
func (s *Service) GetBalance(ctx context.Context, userID uint64) (int64, error) {
	balance, err := s.users.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w", err)
	}

	return balance, nil
}

// Deposit credits the account and appends the matching ledger leg in one
// transaction.
func (s *Service) Deposit(ctx context.Context, userID uint64, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, err := s.users.LockAndGetBalance(tx, userID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		err = s.users.IncreaseBalance(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}

		err = s.ledger.Append(tx, userID, ledger.KindDeposit, amount, description, uuid.NullUUID{})
		if err != nil {
			return fmt.Errorf("append deposit entry: %w", err)
		}

		newBalance = balance + amount

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("deposit: %w", err)
	}

	return newBalance, nil
}

// Withdraw debits the account if funds cover it, with the ledger leg, in
// one transaction. The balance never goes below zero.
func (s *Service) Withdraw(ctx context.Context, userID uint64, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	var newBalance int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, err := s.users.LockAndGetBalance(tx, userID)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		if balance < amount {
			return users.ErrInsufficientFunds
		}

		err = s.users.DecreaseBalance(tx, userID, amount)
		if err != nil {
			return fmt.Errorf("decrease balance: %w", err)
		}

		err = s.ledger.Append(tx, userID, ledger.KindWithdrawal, -amount, description, uuid.NullUUID{})
		if err != nil {
			return fmt.Errorf("append withdrawal entry: %w", err)
		}

		newBalance = balance - amount

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("withdraw: %w", err)
	}

	return newBalance, nil
}

// History lists the user's most recent ledger entries, newest first.
func (s *Service) History(ctx context.Context, userID uint64) ([]ledger.Entry, error) {
	err := s.checkUserExists(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledger.ListRecent(ctx, userID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}

	return entries, nil
}

// AdminAdjust applies delta clamped at zero and records it as a deposit
// or withdrawal depending on sign. This is the administrative override
// path; it never runs as part of a settlement.
func (s *Service) AdminAdjust(ctx context.Context, userID uint64, delta int64, description string) (int64, error) {
	if delta == 0 {
		return 0, ErrInvalidAmount
	}

	kind := ledger.KindDeposit
	if delta < 0 {
		kind = ledger.KindWithdrawal
	}

	var newBalance int64

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, err := s.users.AdjustClamped(tx, userID, delta)
		if err != nil {
			return fmt.Errorf("adjust balance: %w", err)
		}

		err = s.ledger.Append(tx, userID, kind, delta, description, uuid.NullUUID{})
		if err != nil {
			return fmt.Errorf("append adjustment entry: %w", err)
		}

		newBalance = balance

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("admin adjust: %w", err)
	}

	return newBalance, nil
}

func (s *Service) checkUserExists(ctx context.Context, userID uint64) error {
	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.users.Exists(tx, userID)
	})
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}

	return nil
}
