// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a database or key is not indexed.
var ErrNotFound = errors.New("not found")

// DatabaseInfo describes one indexed database.
type DatabaseInfo struct {
	Name       string `json:"name"`
	SourcePath string `json:"source_path"`
	Entries    int    `json:"entries"`
}

// Get returns the record stored under key in database as compact JSON.
func (s *Store) Get(ctx context.Context, database, key string) (json.RawMessage, error) {
	var record string
	err := s.db.QueryRowContext(ctx,
		`SELECT record FROM entries WHERE db_name = ? AND entry_key = ?`, database, key,
	).Scan(&record)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, database, key)
	}
	if err != nil {
		return nil, fmt.Errorf("querying entry: %w", err)
	}
	return json.RawMessage(record), nil
}

// Keys returns the keys of database in document order.
func (s *Store) Keys(ctx context.Context, database string) ([]string, error) {
	if _, err := s.database(ctx, database); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT entry_key FROM entries WHERE db_name = ? ORDER BY position`, database)
	if err != nil {
		return nil, fmt.Errorf("querying keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// Databases lists indexed databases by name.
func (s *Store) Databases(ctx context.Context) ([]DatabaseInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, source_path, entries FROM databases ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying databases: %w", err)
	}
	defer rows.Close()

	var out []DatabaseInfo
	for rows.Next() {
		var d DatabaseInfo
		if err := rows.Scan(&d.Name, &d.SourcePath, &d.Entries); err != nil {
			return nil, fmt.Errorf("scanning database: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) database(ctx context.Context, name string) (DatabaseInfo, error) {
	d := DatabaseInfo{Name: name}
	err := s.db.QueryRowContext(ctx,
		`SELECT source_path, entries FROM databases WHERE name = ?`, name,
	).Scan(&d.SourcePath, &d.Entries)
	if errors.Is(err, sql.ErrNoRows) {
		return d, fmt.Errorf("%w: database %s", ErrNotFound, name)
	}
	if err != nil {
		return d, fmt.Errorf("querying database: %w", err)
	}
	return d, nil
}
