// Package darkhorse loads the curated longshot table into memory and serves
// lookups during evaluation.
package darkhorse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/yourusername/keiba-predictor/internal/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS dark_horses (
	horse_name        TEXT PRIMARY KEY,
	evaluation_score  REAL NOT NULL,
	evaluation_reason TEXT NOT NULL DEFAULT '',
	updated_at        TEXT NOT NULL DEFAULT (datetime('now'))
);`

// Store is the dark-horse lookup collaborator. The table is read fully into
// memory before the first evaluation; lookups never touch the database, so
// no locking is needed during scoring.
type Store struct {
	records map[string]models.DarkHorseRecord
	lookups *cache.Cache
	logger  *logrus.Logger
}

// Open loads the dark-horse table from the embedded database at path. A
// missing or unreadable database is not fatal: the store stays empty and
// scoring falls back to odds buckets.
func Open(ctx context.Context, path string, logger *logrus.Logger) (*Store, error) {
	if logger == nil {
		logger = logrus.New()
	}
	store := &Store{
		records: make(map[string]models.DarkHorseRecord),
		lookups: cache.New(time.Hour, 2*time.Hour),
		logger:  logger,
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		logger.WithError(err).Warn("Dark-horse store unavailable, using odds fallback")
		return store, nil
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT horse_name, evaluation_score, evaluation_reason FROM dark_horses")
	if err != nil {
		logger.WithError(err).Warn("Dark-horse table unreadable, using odds fallback")
		return store, nil
	}
	defer rows.Close()

	for rows.Next() {
		var record models.DarkHorseRecord
		if err := rows.Scan(&record.HorseName, &record.EvaluationScore, &record.EvaluationReason); err != nil {
			logger.WithError(err).Warn("Skipping malformed dark-horse row")
			continue
		}
		store.records[record.HorseName] = record
	}
	if err := rows.Err(); err != nil {
		logger.WithError(err).Warn("Dark-horse scan incomplete")
	}

	logger.WithField("entries", len(store.records)).Info("Dark-horse store loaded")
	return store, nil
}

// NewFromRecords builds an in-memory store, mainly for tests.
func NewFromRecords(records []models.DarkHorseRecord) *Store {
	store := &Store{
		records: make(map[string]models.DarkHorseRecord, len(records)),
		lookups: cache.New(time.Hour, 2*time.Hour),
		logger:  logrus.New(),
	}
	for _, record := range records {
		store.records[record.HorseName] = record
	}
	return store
}

// Search returns the record for a horse, or nil when not curated.
func (s *Store) Search(name string) *models.DarkHorseRecord {
	if cached, found := s.lookups.Get(name); found {
		if record, ok := cached.(*models.DarkHorseRecord); ok {
			return record
		}
		return nil
	}

	var result *models.DarkHorseRecord
	if record, ok := s.records[name]; ok {
		result = &record
	}
	s.lookups.Set(name, result, cache.DefaultExpiration)
	return result
}

// Len returns the number of curated entries.
func (s *Store) Len() int {
	return len(s.records)
}

// Upsert writes an entry into the database at path, creating the table when
// needed. Used by the management CLI, never during evaluation.
func Upsert(ctx context.Context, path string, record models.DarkHorseRecord) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open dark-horse db: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure dark-horse schema: %w", err)
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO dark_horses (horse_name, evaluation_score, evaluation_reason, updated_at)
		 VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(horse_name) DO UPDATE SET
		   evaluation_score = excluded.evaluation_score,
		   evaluation_reason = excluded.evaluation_reason,
		   updated_at = excluded.updated_at`,
		record.HorseName, record.EvaluationScore, record.EvaluationReason)
	if err != nil {
		return fmt.Errorf("failed to upsert dark-horse entry: %w", err)
	}
	return nil
}

// All returns every curated record, for the management CLI listing.
func All(ctx context.Context, path string) ([]models.DarkHorseRecord, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dark-horse db: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, "SELECT horse_name, evaluation_score, evaluation_reason FROM dark_horses ORDER BY horse_name")
	if err != nil {
		return nil, fmt.Errorf("failed to query dark-horse table: %w", err)
	}
	defer rows.Close()

	var records []models.DarkHorseRecord
	for rows.Next() {
		var record models.DarkHorseRecord
		if err := rows.Scan(&record.HorseName, &record.EvaluationScore, &record.EvaluationReason); err != nil {
			return nil, fmt.Errorf("failed to scan dark-horse row: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
