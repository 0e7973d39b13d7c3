package users

import (
	"database/sql"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/users"
)

// GetOrCreate inserts the user with zero balance and gold on first contact.
// On conflict it refreshes the display name, which drifts on Telegram.
func (r *usersRepo) GetOrCreate(tx *sql.Tx, id int64, name string) (users.User, error) {
	var u users.User

	err := tx.QueryRow(`
		INSERT INTO users (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, balance, gold
	`, id, name).Scan(&u.ID, &u.Name, &u.BalanceMinor, &u.Gold)
	if err != nil {
		return users.User{}, fmt.Errorf("get or create user: %w", err)
	}

	return u, nil
}
