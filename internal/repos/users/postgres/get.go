package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/users"
)

func (r *usersRepo) Get(ctx context.Context, id int64) (users.User, error) {
	var u users.User

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, balance, gold
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.BalanceMinor, &u.Gold)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrUserNotFound
		}

		return users.User{}, fmt.Errorf("get user: %w", err)
	}

	return u, nil
}
