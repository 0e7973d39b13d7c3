package requests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/requests"
)

const requestColumns = `id, user_id, request_type, amount, status, details, created_at`

func scanRequest(row *sql.Row) (requests.Request, error) {
	var (
		req requests.Request
		raw string
	)

	err := row.Scan(&req.ID, &req.UserID, &req.Type, &req.Amount, &req.Status, &raw, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return requests.Request{}, requests.ErrRequestNotFound
		}

		return requests.Request{}, fmt.Errorf("scan request: %w", err)
	}

	err = unmarshalDetails(raw, &req.Details)
	if err != nil {
		return requests.Request{}, err
	}

	return req, nil
}

func (r *requestsRepo) Get(ctx context.Context, id int64) (requests.Request, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE id = $1
	`, id)

	return scanRequest(row)
}

// LockAndGet locks the request row for the duration of the transaction.
// Settlement reads state through this so the transition check and the
// ledger effect see the same row.
func (r *requestsRepo) LockAndGet(tx *sql.Tx, id int64) (requests.Request, error) {
	row := tx.QueryRow(`
		SELECT `+requestColumns+`
		FROM requests
		WHERE id = $1
		FOR UPDATE
	`, id)

	return scanRequest(row)
}
