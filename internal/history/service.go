// Package history records ranking runs in Postgres so players can review
// which recommendations they were given and when.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/towerscope/towerscope/pkg/advisor"
)

// Service provides rank-run persistence backed by Postgres.
type Service struct {
	db *sql.DB
}

// Run is one recorded ranking invocation.
type Run struct {
	ID              string          `json:"id"`
	ProfileID       string          `json:"profile_id"`
	ProfileName     string          `json:"profile_name"`
	Strategy        string          `json:"strategy"`
	StrategyVersion string          `json:"strategy_version"`
	Coins           int64           `json:"coins"`
	ResultCount     int             `json:"result_count"`
	TopUpgradeID    *string         `json:"top_upgrade_id,omitempty"`
	Results         json.RawMessage `json:"results"`
	CreatedAt       time.Time       `json:"created_at"`
}

// NewService creates a new history Service.
func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

// RecordRun stores the outcome of one ranking invocation.
func (s *Service) RecordRun(ctx context.Context, profileID, profileName string, strategy advisor.Strategy, coins int64, results []advisor.RankedUpgrade) (*Run, error) {
	payload, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("marshal results: %w", err)
	}

	var top *string
	if len(results) > 0 {
		top = &results[0].UpgradeID
	}

	r := &Run{}
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO rank_runs (profile_id, profile_name, strategy, strategy_version, coins, result_count, top_upgrade_id, results)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, profile_id, profile_name, strategy, strategy_version, coins, result_count, top_upgrade_id, results, created_at`,
		profileID, profileName, strategy.Name(), strategy.Version(), coins, len(results), top, payload,
	).Scan(&r.ID, &r.ProfileID, &r.ProfileName, &r.Strategy, &r.StrategyVersion, &r.Coins, &r.ResultCount, &r.TopUpgradeID, &r.Results, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	return r, nil
}

// ListRuns returns runs for a profile, newest first, up to limit.
func (s *Service) ListRuns(ctx context.Context, profileID string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile_id, profile_name, strategy, strategy_version, coins, result_count, top_upgrade_id, results, created_at
		 FROM rank_runs WHERE profile_id = $1 ORDER BY created_at DESC LIMIT $2`,
		profileID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.ProfileID, &r.ProfileName, &r.Strategy, &r.StrategyVersion, &r.Coins, &r.ResultCount, &r.TopUpgradeID, &r.Results, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun returns a single run by id.
func (s *Service) GetRun(ctx context.Context, runID string) (*Run, error) {
	r := &Run{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, profile_id, profile_name, strategy, strategy_version, coins, result_count, top_upgrade_id, results, created_at
		 FROM rank_runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &r.ProfileID, &r.ProfileName, &r.Strategy, &r.StrategyVersion, &r.Coins, &r.ResultCount, &r.TopUpgradeID, &r.Results, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return r, nil
}
