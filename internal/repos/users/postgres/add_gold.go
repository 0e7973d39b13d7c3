package users

import (
	"database/sql"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/users"
)

// AddGold mirrors AddBalance for the gold column.
func (r *usersRepo) AddGold(tx *sql.Tx, id int64, delta int64) error {
	res, err := tx.Exec(`
		UPDATE users
		SET gold = gold + $2
		WHERE id = $1
		  AND gold + $2 >= 0
	`, id, delta)
	if err != nil {
		return fmt.Errorf("add gold: %w", err)
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
