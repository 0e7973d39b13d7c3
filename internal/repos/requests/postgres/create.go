package requests

import (
	"database/sql"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/requests"
)

// Create inserts a fresh pending request and returns its id.
func (r *requestsRepo) Create(tx *sql.Tx, userID int64, typ requests.Type, amount int64, det requests.Details) (int64, error) {
	raw, err := marshalDetails(det)
	if err != nil {
		return 0, err
	}

	var id int64

	err = tx.QueryRow(`
		INSERT INTO requests (user_id, request_type, amount, status, details)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, userID, typ, amount, requests.StatusPending, raw).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert request: %w", err)
	}

	return id, nil
}
