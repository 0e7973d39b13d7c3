package exchange

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avdeyev/goldex/internal/infra/pgutils"
	"github.com/avdeyev/goldex/internal/repos/users"
)

// GetOrCreate registers the user lazily on first interaction.
func (s *Service) GetOrCreate(ctx context.Context, id int64, name string) (users.User, error) {
	var u users.User

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var terr error

		u, terr = s.users.GetOrCreate(tx, id, name)

		return terr
	})
	if err != nil {
		return users.User{}, fmt.Errorf("get or create: %w", err)
	}

	return u, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (users.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return users.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]users.User, int64, error) {
	list, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return list, total, nil
}

// ApplyDelta applies signed balance and gold deltas to one user in a
// single transaction. The user row is locked first, then each delta is
// applied with a non-negativity condition; a delta that would overdraw
// rolls the whole transaction back with ErrInsufficientFunds.
func (s *Service) ApplyDelta(ctx context.Context, userID, balanceDeltaMinor, goldDelta int64) (users.User, error) {
	var u users.User

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		cur, terr := s.users.LockAndGet(tx, userID)
		if terr != nil {
			return fmt.Errorf("lock user: %w", terr)
		}

		if balanceDeltaMinor != 0 {
			terr = s.users.AddBalance(tx, userID, balanceDeltaMinor)
			if terr != nil {
				return fmt.Errorf("apply balance delta: %w", terr)
			}
		}

		if goldDelta != 0 {
			terr = s.users.AddGold(tx, userID, goldDelta)
			if terr != nil {
				return fmt.Errorf("apply gold delta: %w", terr)
			}
		}

		u = cur
		u.BalanceMinor += balanceDeltaMinor
		u.Gold += goldDelta

		return nil
	})
	if err != nil {
		return users.User{}, fmt.Errorf("apply delta: %w", err)
	}

	return u, nil
}

// SetValues is the admin absolute override. Negative values are
// rejected: the ledger floor holds for every write path, corrections
// included.
func (s *Service) SetValues(ctx context.Context, userID, balanceMinor, gold int64) error {
	if balanceMinor < 0 || gold < 0 {
		return ErrNegativeOverride
	}

	err := pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return s.users.SetValues(tx, userID, balanceMinor, gold)
	})
	if err != nil {
		return fmt.Errorf("set values: %w", err)
	}

	return nil
}

// BuyGold is the one instant exchange: no request, no adjudication.
// The balance debit and gold credit land atomically or not at all.
func (s *Service) BuyGold(ctx context.Context, userID, gold int64) (users.User, error) {
	if gold <= 0 {
		return users.User{}, ErrInvalidAmount
	}

	u, err := s.ApplyDelta(ctx, userID, -s.pricing.BuyCost(gold), gold)
	if err != nil {
		return users.User{}, fmt.Errorf("buy gold: %w", err)
	}

	return u, nil
}
