// Package store persists the screening audit trail in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"medscreen-gateway/internal/models"
)

// Screening is one audit row: what was submitted and what came back.
type Screening struct {
	ID          string           `json:"id"`
	Condition   string           `json:"condition"`
	Payload     json.RawMessage  `json:"payload,omitempty"`
	RiskLevel   models.RiskLevel `json:"riskLevel"`
	Probability int              `json:"probability"`
	Diagnosis   string           `json:"diagnosis,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

type ScreeningStore struct {
	db *sql.DB
}

func NewScreeningStore(db *sql.DB) *ScreeningStore {
	return &ScreeningStore{db: db}
}

// Insert records a completed screening.
func (s *ScreeningStore) Insert(ctx context.Context, scr *Screening) error {
	payload := scr.Payload
	if payload == nil {
		payload = json.RawMessage("{}")
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO screenings (id, condition, payload, risk_level, probability, diagnosis, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		scr.ID, scr.Condition, []byte(payload), string(scr.RiskLevel),
		scr.Probability, scr.Diagnosis, scr.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert screening: %w", err)
	}
	return nil
}

// Recent returns the latest screenings across all conditions.
func (s *ScreeningStore) Recent(ctx context.Context, limit int) ([]Screening, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, condition, risk_level, probability, diagnosis, created_at
		 FROM screenings ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent screenings: %w", err)
	}
	defer rows.Close()

	return scanScreenings(rows)
}

// RecentByCondition returns the latest screenings for one condition.
func (s *ScreeningStore) RecentByCondition(ctx context.Context, condition string, limit int) ([]Screening, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, condition, risk_level, probability, diagnosis, created_at
		 FROM screenings WHERE condition = $1 ORDER BY created_at DESC LIMIT $2`,
		condition, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query screenings for %s: %w", condition, err)
	}
	defer rows.Close()

	return scanScreenings(rows)
}

func scanScreenings(rows *sql.Rows) ([]Screening, error) {
	var out []Screening
	for rows.Next() {
		var scr Screening
		var risk string
		if err := rows.Scan(&scr.ID, &scr.Condition, &risk, &scr.Probability,
			&scr.Diagnosis, &scr.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan screening row: %w", err)
		}
		scr.RiskLevel = models.RiskLevel(risk)
		out = append(out, scr)
	}
	return out, rows.Err()
}
