package users

import (
	"context"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/users"
)

func (r *usersRepo) List(ctx context.Context, limit, offset int) ([]users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, balance, gold
		FROM users
		ORDER BY id
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []users.User

	for rows.Next() {
		var u users.User

		err = rows.Scan(&u.ID, &u.Name, &u.BalanceMinor, &u.Gold)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		out = append(out, u)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return out, nil
}

func (r *usersRepo) Count(ctx context.Context) (int64, error) {
	var n int64

	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM users`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}

	return n, nil
}
