package requests

import (
	"context"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/requests"
)

// ListPending returns pending requests in creation (id) order.
// An empty typ matches all types.
func (r *requestsRepo) ListPending(ctx context.Context, typ requests.Type) ([]requests.Request, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+requestColumns+`
		FROM requests
		WHERE status = $1
		  AND ($2 = '' OR request_type = $2)
		ORDER BY id
	`, requests.StatusPending, typ)
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	defer rows.Close()

	var out []requests.Request

	for rows.Next() {
		var (
			req requests.Request
			raw string
		)

		err = rows.Scan(&req.ID, &req.UserID, &req.Type, &req.Amount, &req.Status, &raw, &req.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan request: %w", err)
		}

		err = unmarshalDetails(raw, &req.Details)
		if err != nil {
			return nil, err
		}

		out = append(out, req)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("iterate requests: %w", err)
	}

	return out, nil
}
