// Package history persists prediction runs so past forecasts can be compared
// against actual results later.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/yourusername/keiba-predictor/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS prediction_runs (
	run_id        TEXT PRIMARY KEY,
	race_name     TEXT NOT NULL,
	race_date     TEXT NOT NULL DEFAULT '',
	venue         TEXT NOT NULL DEFAULT '',
	pace_forecast TEXT NOT NULL DEFAULT '',
	top_pick      TEXT NOT NULL DEFAULT '',
	strategy      TEXT NOT NULL DEFAULT '',
	total_bet     TEXT NOT NULL DEFAULT '',
	result_json   TEXT NOT NULL,
	created_at    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prediction_runs_race ON prediction_runs (race_name, race_date);`

// Record is one persisted prediction run.
type Record struct {
	RunID        string
	RaceName     string
	RaceDate     string
	Venue        string
	PaceForecast string
	TopPick      string
	Strategy     string
	TotalBet     string
	CreatedAt    time.Time
}

// Store is the sqlite-backed prediction history.
type Store struct {
	db     *sql.DB
	logger *logrus.Logger
}

// Open opens the history database at path, creating the schema when needed.
func Open(ctx context.Context, path string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure history schema: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save persists one prediction run. The full evaluation result is stored as
// JSON next to the summary columns.
func (s *Store) Save(ctx context.Context, runID string, race *models.RaceInfo, result *models.EvaluationResult, plan *models.BettingPlan, at time.Time) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to encode evaluation result: %w", err)
	}

	topPick := ""
	if len(result.AbilityResults) > 0 {
		topPick = result.AbilityResults[0].Name
	}
	strategy, totalBet := "", ""
	if plan != nil {
		strategy = plan.Strategy
		totalBet = plan.TotalBet.StringFixed(0)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO prediction_runs
		 (run_id, race_name, race_date, venue, pace_forecast, top_pick, strategy, total_bet, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID, race.Name, race.Date, race.Venue, string(result.PaceAnalysis.Pace),
		topPick, strategy, totalBet, string(resultJSON), at.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save prediction run: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"race":   race.Name,
	}).Debug("Prediction run saved")
	return nil
}

// List returns the most recent runs, newest first.
func (s *Store) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, race_name, race_date, venue, pace_forecast, top_pick, strategy, total_bet, created_at
		 FROM prediction_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction runs: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var createdAt string
		if err := rows.Scan(&r.RunID, &r.RaceName, &r.RaceDate, &r.Venue, &r.PaceForecast,
			&r.TopPick, &r.Strategy, &r.TotalBet, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction run: %w", err)
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Load returns the stored evaluation result for a run.
func (s *Store) Load(ctx context.Context, runID string) (*models.EvaluationResult, error) {
	var resultJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT result_json FROM prediction_runs WHERE run_id = ?", runID).Scan(&resultJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: run %s", models.ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction run: %w", err)
	}

	result := &models.EvaluationResult{}
	if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
		return nil, fmt.Errorf("failed to decode stored result: %w", err)
	}
	return result, nil
}
