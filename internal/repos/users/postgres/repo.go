package users

import (
	"database/sql"

	"github.com/avdeyev/goldex/internal/repos/users"
)

type usersRepo struct{ db *sql.DB }

func New(db *sql.DB) *usersRepo {
	return &usersRepo{db: db}
}

// compile-time interface check
var _ users.Users = (*usersRepo)(nil)
