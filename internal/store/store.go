// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store keeps extracted party records in a SQLite database with a
// full-text index over the Nepali text fields, so several extraction runs
// can be merged, searched, and exported for the database import.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/pdiddy/ecn-parties/internal/extract"
	"github.com/pdiddy/ecn-parties/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "parties.db"

	// timeLayout sorts lexically in time order.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ErrUnchanged is returned by Ingest when the records file has the same
// modification time as the last run that ingested it.
var ErrUnchanged = errors.New("records file unchanged since last ingest")

// Store manages the party database.
type Store struct {
	db         *sql.DB
	dataDir    string
	maxResults int
	log        *zap.Logger
}

// NewStore opens or creates dataDir/index/parties.db and its schema.
func NewStore(cfg types.StoreConfig, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}

	dbDir := filepath.Join(cfg.DataDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dbDir, dbFile)+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, dataDir: cfg.DataDir, maxResults: maxResults, log: log}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS parties (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			key TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			registration_number TEXT,
			name_nepali TEXT,
			headquarters TEXT,
			leadership_info TEXT,
			symbol_name_nepali TEXT,
			province TEXT,
			district TEXT,
			is_major INTEGER NOT NULL DEFAULT 0,
			verification_status TEXT NOT NULL,
			page INTEGER,
			row_index INTEGER,
			record TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parties_source ON parties(source)`,
		`CREATE INDEX IF NOT EXISTS idx_parties_province ON parties(province)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			file_mod_time TEXT NOT NULL,
			parties INTEGER NOT NULL,
			ingested_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='parties_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	// Devanagari vowel signs and the virama are combining marks, so the
	// tokenizer must treat M* as word characters.
	ftsStatements := []string{
		`CREATE VIRTUAL TABLE parties_fts USING fts5(
			name_nepali, headquarters, leadership_info, symbol_name_nepali,
			content=parties, content_rowid=rowid,
			tokenize="unicode61 categories 'L* M* N* Co'"
		)`,
		`CREATE TRIGGER parties_ai AFTER INSERT ON parties BEGIN
			INSERT INTO parties_fts(rowid, name_nepali, headquarters, leadership_info, symbol_name_nepali)
			VALUES (new.rowid, new.name_nepali, new.headquarters, new.leadership_info, new.symbol_name_nepali);
		END`,
		`CREATE TRIGGER parties_ad AFTER DELETE ON parties BEGIN
			INSERT INTO parties_fts(parties_fts, rowid, name_nepali, headquarters, leadership_info, symbol_name_nepali)
			VALUES ('delete', old.rowid, old.name_nepali, old.headquarters, old.leadership_info, old.symbol_name_nepali);
		END`,
		`CREATE TRIGGER parties_au AFTER UPDATE ON parties BEGIN
			INSERT INTO parties_fts(parties_fts, rowid, name_nepali, headquarters, leadership_info, symbol_name_nepali)
			VALUES ('delete', old.rowid, old.name_nepali, old.headquarters, old.leadership_info, old.symbol_name_nepali);
			INSERT INTO parties_fts(rowid, name_nepali, headquarters, leadership_info, symbol_name_nepali)
			VALUES (new.rowid, new.name_nepali, new.headquarters, new.leadership_info, new.symbol_name_nepali);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// IngestSummary reports one Ingest call.
type IngestSummary struct {
	RunID    string
	Source   string
	Inserted int
	Replaced int
	Removed  int
}

// Total returns the number of records written.
func (s IngestSummary) Total() int {
	return s.Inserted + s.Replaced
}

// Ingest loads a records file written by the extract stage and replaces
// every party previously ingested from the same file. It returns
// ErrUnchanged when the file has not been modified since its last ingest.
func (s *Store) Ingest(ctx context.Context, path string, w io.Writer) (IngestSummary, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	summary := IngestSummary{Source: abs}

	info, err := os.Stat(abs)
	if err != nil {
		return summary, fmt.Errorf("reading %s: %w", path, err)
	}
	modTime := info.ModTime().UTC().Format(timeLayout)

	var lastModTime string
	err = s.db.QueryRowContext(ctx,
		`SELECT file_mod_time FROM runs WHERE source = ? ORDER BY ingested_at DESC, rowid DESC LIMIT 1`, abs,
	).Scan(&lastModTime)
	switch {
	case err == nil && lastModTime == modTime:
		fmt.Fprintf(w, "skipped %s\n", path)
		return summary, ErrUnchanged
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return summary, fmt.Errorf("looking up last run: %w", err)
	}

	parties, err := extract.LoadParties(abs)
	if err != nil {
		return summary, err
	}

	summary.RunID = uuid.NewString()
	if err := s.ingestFile(ctx, &summary, parties, modTime); err != nil {
		return summary, err
	}

	s.log.Info("ingested records",
		zap.String("run", summary.RunID),
		zap.String("source", abs),
		zap.Int("inserted", summary.Inserted),
		zap.Int("replaced", summary.Replaced),
		zap.Int("removed", summary.Removed),
	)
	fmt.Fprintf(w, "ingested %s (run %s)\n", path, summary.RunID)
	fmt.Fprintf(w, "\ninserted: %d, replaced: %d, removed: %d\n",
		summary.Inserted, summary.Replaced, summary.Removed)
	return summary, nil
}

func (s *Store) ingestFile(ctx context.Context, summary *IngestSummary, parties []types.Party, modTime string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM parties WHERE source = ?`, summary.Source)
	if err != nil {
		return fmt.Errorf("deleting previous records: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		summary.Removed = int(n)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO parties (key, source, registration_number, name_nepali, headquarters,
			leadership_info, symbol_name_nepali, province, district, is_major,
			verification_status, page, row_index, record)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
			source=excluded.source, registration_number=excluded.registration_number,
			name_nepali=excluded.name_nepali, headquarters=excluded.headquarters,
			leadership_info=excluded.leadership_info, symbol_name_nepali=excluded.symbol_name_nepali,
			province=excluded.province, district=excluded.district, is_major=excluded.is_major,
			verification_status=excluded.verification_status, page=excluded.page,
			row_index=excluded.row_index, record=excluded.record`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	seen := make(map[string]bool, len(parties))
	for _, p := range parties {
		record, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encoding party %s: %w", p.Key(), err)
		}

		key := p.Key()
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM parties WHERE key = ?`, key).Scan(&exists); err != nil {
			return fmt.Errorf("checking party %s: %w", key, err)
		}

		_, err = stmt.ExecContext(ctx,
			key, summary.Source, p.RegistrationNumber, p.NameNepali, p.Headquarters,
			p.LeadershipInfo, p.SymbolNameNepali, p.Province, p.District, p.IsMajorParty,
			string(p.VerificationStatus), p.PageNumber, p.RowIndex, string(record),
		)
		if err != nil {
			return fmt.Errorf("inserting party %s: %w", key, err)
		}

		if exists > 0 || seen[key] {
			summary.Replaced++
			s.log.Debug("party replaced", zap.String("key", key))
		} else {
			summary.Inserted++
		}
		seen[key] = true
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, source, file_mod_time, parties, ingested_at) VALUES (?, ?, ?, ?, ?)`,
		summary.RunID, summary.Source, modTime, summary.Total(), time.Now().UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}

	return tx.Commit()
}

// Run is one recorded Ingest call.
type Run struct {
	ID          string
	Source      string
	FileModTime string
	Parties     int
	IngestedAt  string
}

// Runs lists ingest runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, file_mod_time, parties, ingested_at FROM runs ORDER BY ingested_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.FileModTime, &r.Parties, &r.IngestedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
