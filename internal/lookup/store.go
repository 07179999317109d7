// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lookup indexes converted JSON databases in SQLite so single
// records can be fetched by database name and key.
package lookup

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/masterdata/internal/convert"
	"github.com/pdiddy/masterdata/internal/encode"
	"github.com/pdiddy/masterdata/pkg/types"
)

const dbFile = "lookup.db"

// Store manages the lookup index database.
type Store struct {
	db          *sql.DB
	databaseDir string
	enc         *encode.Encoder
}

// NewStore opens or creates the index at cfg.IndexDir/lookup.db and creates
// the schema if it does not exist.
func NewStore(cfg types.LookupConfig) (*Store, error) {
	indexDir := cfg.IndexDir
	if indexDir == "" {
		indexDir = types.DefaultIndexDir
	}
	databaseDir := cfg.DatabaseDir
	if databaseDir == "" {
		databaseDir = types.DefaultDatabaseDir
	}

	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(indexDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:          db,
		databaseDir: databaseDir,
		enc:         encode.New(encode.WithIndent("")),
	}

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
		`CREATE TABLE IF NOT EXISTS databases (
			name TEXT PRIMARY KEY,
			source_path TEXT NOT NULL,
			file_mod_time TEXT NOT NULL,
			entries INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS entries (
			db_name TEXT NOT NULL REFERENCES databases(name) ON DELETE CASCADE,
			entry_key TEXT NOT NULL,
			position INTEGER NOT NULL,
			record TEXT NOT NULL,
			PRIMARY KEY (db_name, entry_key)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_position ON entries(db_name, position)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// IngestSummary holds counts from an indexing run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
	// Removed counts indexed databases whose file no longer exists.
	Removed int
}

// Total returns the number of database files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest indexes every *.json database in the database directory. Files
// whose modification time matches the last run are skipped. Databases
// whose file is gone are dropped from the index.
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(s.databaseDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading database directory %s: %w", s.databaseDir, err)
	}

	var summary IngestSummary
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		seen[name] = true
		filePath := filepath.Join(s.databaseDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM databases WHERE name = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		doc, err := convert.Load(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestDatabase(ctx, name, filePath, modTime, doc); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d entries)\n", name, doc.Len())
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d entries)\n", name, doc.Len())
			summary.Indexed++
		}
	}

	removed, err := s.prune(ctx, seen)
	if err != nil {
		return summary, err
	}
	for _, name := range removed {
		fmt.Fprintf(w, "removed %s\n", name)
	}
	summary.Removed = len(removed)

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d, removed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed, summary.Removed)

	return summary, nil
}

// prune deletes every indexed database not in seen and returns the removed
// names in order.
func (s *Store) prune(ctx context.Context, seen map[string]bool) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM databases ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing indexed databases: %w", err)
	}
	var stale []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning database name: %w", err)
		}
		if !seen[name] {
			stale = append(stale, name)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing indexed databases: %w", err)
	}

	for _, name := range stale {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("beginning transaction: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE db_name = ?`, name); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("deleting entries of %s: %w", name, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM databases WHERE name = ?`, name); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("deleting database %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing removal of %s: %w", name, err)
		}
	}
	return stale, nil
}

func (s *Store) ingestDatabase(ctx context.Context, name, path, modTime string, doc types.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO databases (name, source_path, file_mod_time, entries) VALUES (?, ?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET
			source_path=excluded.source_path, file_mod_time=excluded.file_mod_time,
			entries=excluded.entries`,
		name, path, modTime, doc.Len(),
	)
	if err != nil {
		return fmt.Errorf("upserting database: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE db_name = ?`, name); err != nil {
		return fmt.Errorf("deleting old entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (db_name, entry_key, position, record) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	position := 0
	for pair := doc.Oldest(); pair != nil; pair = pair.Next() {
		record, err := s.enc.Compact(pair.Value)
		if err != nil {
			return fmt.Errorf("encoding entry %s: %w", pair.Key, err)
		}
		if _, err := stmt.ExecContext(ctx, name, pair.Key, position, string(record)); err != nil {
			return fmt.Errorf("inserting entry %s: %w", pair.Key, err)
		}
		position++
	}

	return tx.Commit()
}
