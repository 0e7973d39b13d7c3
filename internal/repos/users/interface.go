package users

import (
	"context"
	"database/sql"
	"errors"
)

var ErrInsufficientFunds = errors.New("insufficient funds")
var ErrUserNotFound = errors.New("user not found")

// User is one ledger row: a cash-like balance in minor units (kopecks)
// and an integer amount of in-game gold. Neither field goes below zero
// through repo operations.
type User struct {
	ID           int64
	Name         string
	BalanceMinor int64
	Gold         int64
}

type Users interface {
	GetOrCreate(tx *sql.Tx, id int64, name string) (User, error)
	Get(ctx context.Context, id int64) (User, error)
	List(ctx context.Context, limit, offset int) ([]User, error)
	Count(ctx context.Context) (int64, error)
	LockAndGet(tx *sql.Tx, id int64) (User, error)
	AddBalance(tx *sql.Tx, id int64, deltaMinor int64) error
	AddGold(tx *sql.Tx, id int64, delta int64) error
	SetValues(tx *sql.Tx, id int64, balanceMinor, gold int64) error
}
