package ingest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"

	"execlink/internal/records"
)

// MySQLSource reads records from an upstream MySQL database. Tunnel
// management is external; the DSN points at whatever port is forwarded.
type MySQLSource struct {
	dsn   string
	table string
}

// NewMySQLSource builds a source for the given DSN. An empty table name
// enables discovery over common executive table names.
func NewMySQLSource(dsn, table string) *MySQLSource {
	return &MySQLSource{dsn: dsn, table: table}
}

func (s *MySQLSource) Name() string {
	return "mysql"
}

func (s *MySQLSource) Fetch(ctx context.Context) ([]records.Record, error) {
	db, err := sql.Open("mysql", s.dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql source: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connect mysql source: %w", err)
	}

	table, err := s.resolveTable(ctx, db)
	if err != nil {
		return nil, err
	}
	return fetchTable(ctx, db, table, quoteIdentMySQL(table))
}

func (s *MySQLSource) resolveTable(ctx context.Context, db *sql.DB) (string, error) {
	tables := candidateTables
	if s.table != "" {
		tables = append([]string{s.table}, candidateTables...)
	}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, `SHOW TABLES LIKE ?`, table).Scan(&name)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("probe table %s: %w", table, err)
		}
		return name, nil
	}
	return "", errors.New("no executive table found in mysql source")
}
