package requests

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/avdeyev/goldex/internal/repos/requests"
)

type requestsRepo struct{ db *sql.DB }

func New(db *sql.DB) *requestsRepo {
	return &requestsRepo{db: db}
}

var _ requests.Requests = (*requestsRepo)(nil)

func marshalDetails(det requests.Details) (string, error) {
	raw, err := json.Marshal(det)
	if err != nil {
		return "", fmt.Errorf("marshal details: %w", err)
	}

	return string(raw), nil
}

func unmarshalDetails(raw string, det *requests.Details) error {
	if raw == "" {
		return nil
	}

	err := json.Unmarshal([]byte(raw), det)
	if err != nil {
		return fmt.Errorf("unmarshal details: %w", err)
	}

	return nil
}
