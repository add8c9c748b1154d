package users

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrUserNotFound = errors.New("user not found")
var ErrUsernameTaken = errors.New("username taken")

type User struct {
	ID        uint64
	Username  string
	Balance   int64
	CreatedAt time.Time
}

type Users interface {
	Create(ctx context.Context, username string) (uint64, error)
	GetByID(ctx context.Context, userID uint64) (User, error)
	GetBalance(ctx context.Context, userID uint64) (int64, error)
	Exists(tx *sql.Tx, userID uint64) error
	LockAndGetBalance(tx *sql.Tx, userID uint64) (int64, error)
	IncreaseBalance(tx *sql.Tx, userID uint64, amount int64) error
	DecreaseBalance(tx *sql.Tx, userID uint64, amount int64) error
	AdjustClamped(tx *sql.Tx, userID uint64, delta int64) (int64, error)
}
