package requests

import (
	"database/sql"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/requests"
)

// SetAmount fills in an admin-entered amount. Deposit requests are
// created with amount 0; the amount the admin verified on the payment
// evidence is written here inside the accepting transaction.
func (r *requestsRepo) SetAmount(tx *sql.Tx, id int64, amount int64) error {
	res, err := tx.Exec(`
		UPDATE requests
		SET amount = $2
		WHERE id = $1
	`, id, amount)
	if err != nil {
		return fmt.Errorf("set amount: %w", err)
	}

	return checkFound(res)
}

func (r *requestsRepo) SetDetails(tx *sql.Tx, id int64, det requests.Details) error {
	raw, err := marshalDetails(det)
	if err != nil {
		return err
	}

	res, err := tx.Exec(`
		UPDATE requests
		SET details = $2
		WHERE id = $1
	`, id, raw)
	if err != nil {
		return fmt.Errorf("set details: %w", err)
	}

	return checkFound(res)
}

func checkFound(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return requests.ErrRequestNotFound
	}

	return nil
}
