package requests

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/requests"
)

// SetStatus moves the request along the legal transition graph. The row
// is locked first so concurrent settlers serialize here: the loser of
// the race re-reads the already-applied status and gets
// ErrAlreadyProcessed (same target) or ErrIllegalTransition (terminal
// row), never a second application.
func (r *requestsRepo) SetStatus(tx *sql.Tx, id int64, next requests.Status) error {
	var cur requests.Status

	err := tx.QueryRow(`
		SELECT status
		FROM requests
		WHERE id = $1
		FOR UPDATE
	`, id).Scan(&cur)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return requests.ErrRequestNotFound
		}

		return fmt.Errorf("lock request status: %w", err)
	}

	if cur == next {
		return requests.ErrAlreadyProcessed
	}

	if !requests.CanTransition(cur, next) {
		return requests.ErrIllegalTransition
	}

	_, err = tx.Exec(`
		UPDATE requests
		SET status = $2
		WHERE id = $1
	`, id, next)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	return nil
}
