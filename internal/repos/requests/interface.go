package requests

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrRequestNotFound   = errors.New("request not found")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrAlreadyProcessed  = errors.New("request already processed")
)

type Type string

const (
	TypeDepositBalance Type = "deposit_balance"
	TypeDepositGold    Type = "deposit_gold"
	TypeWithdrawGold   Type = "withdraw_gold"
	TypeWithdrawMoney  Type = "withdraw_money"
	TypeSellGold       Type = "sell_gold"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCompleted Status = "completed"
	StatusDisputed  Status = "disputed"
	StatusCancelled Status = "cancelled"
)

// Details is the JSON side note stored next to a request. Fields are
// populated per type: payout for gold withdrawals, phone for money
// withdrawals, proceeds and counterpart for sales.
type Details struct {
	PayoutMinor   int64  `json:"payout_minor,omitempty"`
	ProceedsMinor int64  `json:"proceeds_minor,omitempty"`
	Phone         string `json:"phone,omitempty"`
	CounterpartID int64  `json:"counterpart_id,omitempty"`
}

// Request is the durable audit record of one adjudicated operation.
// Amount is in gold units for gold-denominated types and in balance
// minor units for money-denominated ones. Terminal requests are never
// mutated again.
type Request struct {
	ID        int64
	UserID    int64
	Type      Type
	Amount    int64
	Status    Status
	Details   Details
	CreatedAt time.Time
}

type Requests interface {
	Create(tx *sql.Tx, userID int64, typ Type, amount int64, det Details) (int64, error)
	Get(ctx context.Context, id int64) (Request, error)
	LockAndGet(tx *sql.Tx, id int64) (Request, error)
	ListPending(ctx context.Context, typ Type) ([]Request, error)
	SetStatus(tx *sql.Tx, id int64, next Status) error
	SetAmount(tx *sql.Tx, id int64, amount int64) error
	SetDetails(tx *sql.Tx, id int64, det Details) error
}
