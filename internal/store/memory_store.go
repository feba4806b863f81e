// Package store implements the shared memory/context store on SQLite.
// Records are append-only and keyed by lead identity; concurrent pipeline
// runs share one store with no application-level locking beyond the
// database handle itself.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"leadbrain/internal/logging"
)

// MemoryRecord is the distilled summary persisted per terminal run.
type MemoryRecord struct {
	ID           int64     `json:"id"`
	LeadID       string    `json:"lead_id"`
	LeadName     string    `json:"lead_name"`
	Company      string    `json:"company"`
	PrimaryTrait string    `json:"primary_trait"`
	Traits       []string  `json:"traits"`
	Angle        string    `json:"angle"`
	QualityScore float64   `json:"quality_score"`
	FinalStatus  string    `json:"final_status"`
	CreatedAt    time.Time `json:"created_at"`
}

// MemoryStore persists campaign memory records in SQLite.
type MemoryStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	dbPath string
}

// NewMemoryStore opens (creating if needed) the SQLite database at path.
func NewMemoryStore(path string) (*MemoryStore, error) {
	logging.Store("Initializing memory store at %s", path)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logging.StoreDebug("Failed to set sqlite busy_timeout: %v", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logging.StoreDebug("Failed to set sqlite journal_mode=WAL: %v", err)
	}

	s := &MemoryStore{db: db, dbPath: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MemoryStore) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS campaign_memory (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		lead_id TEXT NOT NULL,
		lead_name TEXT NOT NULL DEFAULT '',
		company TEXT NOT NULL DEFAULT '',
		primary_trait TEXT NOT NULL DEFAULT '',
		traits TEXT NOT NULL DEFAULT '[]',
		angle TEXT NOT NULL DEFAULT '',
		quality_score REAL NOT NULL DEFAULT 0,
		final_status TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_campaign_memory_lead
		ON campaign_memory(lead_id, created_at DESC);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to migrate memory store: %w", err)
	}
	return nil
}

// Append inserts a new memory record for a lead. Records are never
// updated in place; history accumulates per lead.
func (s *MemoryStore) Append(ctx context.Context, rec MemoryRecord) error {
	if rec.LeadID == "" {
		return fmt.Errorf("lead id is required")
	}
	traitsJSON, err := json.Marshal(rec.Traits)
	if err != nil {
		return fmt.Errorf("failed to encode traits: %w", err)
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO campaign_memory
		(lead_id, lead_name, company, primary_trait, traits, angle, quality_score, final_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.LeadID, rec.LeadName, rec.Company, rec.PrimaryTrait, string(traitsJSON),
		rec.Angle, rec.QualityScore, rec.FinalStatus, createdAt)
	if err != nil {
		return fmt.Errorf("failed to append memory record: %w", err)
	}
	logging.StoreDebug("appended memory record for lead %s (status=%s)", rec.LeadID, rec.FinalStatus)
	return nil
}

// Latest returns the most recent record for a lead, or nil when the lead
// has no history.
func (s *MemoryStore) Latest(ctx context.Context, leadID string) (*MemoryRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row := s.db.QueryRowContext(ctx, `
		SELECT id, lead_id, lead_name, company, primary_trait, traits, angle, quality_score, final_status, created_at
		FROM campaign_memory WHERE lead_id = ?
		ORDER BY created_at DESC, id DESC LIMIT 1`, leadID)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load memory record: %w", err)
	}
	return rec, nil
}

// History returns up to limit records for a lead, newest first.
func (s *MemoryStore) History(ctx context.Context, leadID string, limit int) ([]MemoryRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, lead_id, lead_name, company, primary_trait, traits, angle, quality_score, final_status, created_at
		FROM campaign_memory WHERE lead_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ?`, leadID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query memory history: %w", err)
	}
	defer rows.Close()

	var records []MemoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan memory record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Close releases the database handle.
func (s *MemoryStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*MemoryRecord, error) {
	var rec MemoryRecord
	var traitsJSON string
	if err := row.Scan(&rec.ID, &rec.LeadID, &rec.LeadName, &rec.Company, &rec.PrimaryTrait,
		&traitsJSON, &rec.Angle, &rec.QualityScore, &rec.FinalStatus, &rec.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(traitsJSON), &rec.Traits); err != nil {
		// Corrupt trait payloads are tolerated; the record is still usable.
		logging.StoreWarn("corrupt traits payload for record %d: %v", rec.ID, err)
		rec.Traits = nil
	}
	return &rec, nil
}
