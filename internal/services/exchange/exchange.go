// Package exchange implements the request lifecycle engine: it binds
// request type and status transition to the ledger effect that must
// fire exactly once, and owns the pricing rules. Every operation that
// mutates money runs in a single database transaction; per-user
// serialization comes from the row locks taken inside it.
package exchange

import (
	"database/sql"
	"errors"

	"github.com/avdeyev/goldex/internal/repos/requests"
	pgrequests "github.com/avdeyev/goldex/internal/repos/requests/postgres"
	"github.com/avdeyev/goldex/internal/repos/users"
	pgusers "github.com/avdeyev/goldex/internal/repos/users/postgres"
)

var (
	ErrBelowMinimum     = errors.New("amount below minimum")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrWrongRequestType = errors.New("operation does not apply to this request type")
	ErrNotAccepted      = errors.New("request is not in accepted status")
	ErrNoCounterpart    = errors.New("sale has no assigned buyer")
	ErrNegativeOverride = errors.New("override values must be non-negative")
	ErrSelfDeal         = errors.New("buyer and seller are the same user")
)

type Service struct {
	db      *sql.DB
	users   users.Users
	reqs    requests.Requests
	pricing Pricing
}

func New(dbx *sql.DB, pricing Pricing) *Service {
	return &Service{
		db:      dbx,
		users:   pgusers.New(dbx),
		reqs:    pgrequests.New(dbx),
		pricing: pricing,
	}
}

func (s *Service) Pricing() Pricing { return s.pricing }
