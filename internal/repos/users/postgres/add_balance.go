package users

import (
	"database/sql"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/users"
)

// AddBalance applies a signed delta to the balance. The update is
// conditional on the result staying non-negative; a delta that would
// overdraw affects zero rows and is reported as ErrInsufficientFunds.
// A missing user is treated the same way.
func (r *usersRepo) AddBalance(tx *sql.Tx, id int64, deltaMinor int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = balance + $2
		WHERE id = $1
		  AND balance + $2 >= 0
	`, id, deltaMinor)
	if err != nil {
		return fmt.Errorf("add balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrInsufficientFunds
	}

	return nil
}
