package users

import (
	"database/sql"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/users"
)

// SetValues overwrites both ledger fields. It is the admin override path;
// the values are validated non-negative by the caller and backstopped by
// the table CHECK constraints.
func (r *usersRepo) SetValues(tx *sql.Tx, id int64, balanceMinor, gold int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET balance = $2, gold = $3
		WHERE id = $1
	`, id, balanceMinor, gold)
	if err != nil {
		return fmt.Errorf("set values: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return users.ErrUserNotFound
	}

	return nil
}
