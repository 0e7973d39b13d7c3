package users

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/users"
)

// LockAndGet takes the row lock that serializes all ledger mutations for
// one user. Callers touching two users must lock in ascending id order.
func (r *usersRepo) LockAndGet(tx *sql.Tx, id int64) (users.User, error) {
	var u users.User

	err := tx.QueryRow(`
		SELECT id, name, balance, gold
		FROM users
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&u.ID, &u.Name, &u.BalanceMinor, &u.Gold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("lock/get user: %w", err)
	}

	return u, nil
}
