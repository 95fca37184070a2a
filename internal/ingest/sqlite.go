package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"execlink/internal/records"
)

// SQLiteSource reads records from a SQLite database file.
type SQLiteSource struct {
	path  string
	table string
}

// NewSQLiteSource builds a source for the given database file. An empty table
// name enables discovery over common executive table names.
func NewSQLiteSource(path, table string) *SQLiteSource {
	return &SQLiteSource{path: path, table: table}
}

func (s *SQLiteSource) Name() string {
	return "sqlite:" + s.path
}

func (s *SQLiteSource) Fetch(ctx context.Context) ([]records.Record, error) {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite source: %w", err)
	}
	defer func() { _ = db.Close() }()

	table, err := s.resolveTable(ctx, db)
	if err != nil {
		return nil, err
	}
	return fetchTable(ctx, db, table, quoteIdent(table))
}

func (s *SQLiteSource) resolveTable(ctx context.Context, db *sql.DB) (string, error) {
	tables := candidateTables
	if s.table != "" {
		tables = append([]string{s.table}, candidateTables...)
	}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type='table' AND name = ?`, table,
		).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("probe table %s: %w", table, err)
		}
		return name, nil
	}
	return "", fmt.Errorf("no executive table found in %s", s.path)
}
