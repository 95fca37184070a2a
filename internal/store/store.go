package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"execlink/internal/config"
	"execlink/internal/match"
)

// Store manages run persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// ErrInvalidTransition indicates a cluster status change that the review
// lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid cluster status transition")

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the run database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, "execlink.db"))
}

// OpenPath opens the run database at an explicit location.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// CreateRun inserts a new run in the created state.
func (s *Store) CreateRun(ctx context.Context, recordCount int) (*Run, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	id := uuid.NewString()

	if _, err := s.execWithRetry(
		ctx,
		`INSERT INTO runs (id, status, record_count, cluster_count, error_message, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		RunStatusCreated,
		recordCount,
		0,
		nil,
		timestamp,
		timestamp,
	); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}

	return s.RunByID(ctx, id)
}

// UpdateRun persists changes to an existing run.
func (s *Store) UpdateRun(ctx context.Context, run *Run) error {
	if run == nil {
		return errors.New("run is nil")
	}
	run.UpdatedAt = time.Now().UTC()

	res, err := s.execWithRetry(
		ctx,
		`UPDATE runs SET status = ?, record_count = ?, cluster_count = ?, error_message = ?, updated_at = ?
         WHERE id = ?`,
		run.Status,
		run.RecordCount,
		run.ClusterCount,
		nullableString(run.ErrorMessage),
		run.UpdatedAt.Format(time.RFC3339Nano),
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("run %s not found", run.ID)
	}
	return nil
}

// RunByID fetches a run by identifier.
func (s *Store) RunByID(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// LatestRun returns the most recently created run, or nil when the database is empty.
func (s *Store) LatestRun(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}

// SaveClusters persists the grouping result for a run in one transaction and
// moves the run to the grouped state.
func (s *Store) SaveClusters(ctx context.Context, runID string, clusters []*match.Cluster) error {
	ctx = ensureContext(ctx)
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clusters tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, cluster := range clusters {
		row, err := NewClusterRow(runID, cluster)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO clusters (run_id, group_no, display_name, tier, status, confidence, members_json, created_at, updated_at, decided_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			row.RunID,
			row.GroupNo,
			row.DisplayName,
			row.Tier,
			row.Status,
			row.Confidence,
			row.MembersJSON,
			timestamp,
			timestamp,
			nil,
		); err != nil {
			return fmt.Errorf("insert cluster %d: %w", row.GroupNo, err)
		}
	}

	if _, err := tx.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, cluster_count = ?, updated_at = ? WHERE id = ?`,
		RunStatusGrouped,
		len(clusters),
		timestamp,
		runID,
	); err != nil {
		return fmt.Errorf("mark run grouped: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clusters: %w", err)
	}
	return nil
}

// ClustersByRun returns all clusters of a run ordered by group number.
func (s *Store) ClustersByRun(ctx context.Context, runID string) ([]ClusterRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+clusterColumns+` FROM clusters WHERE run_id = ? ORDER BY group_no`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query clusters: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectClusters(rows)
}

// PendingClusters returns the clusters of a run still awaiting a review decision.
func (s *Store) PendingClusters(ctx context.Context, runID string) ([]ClusterRow, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+clusterColumns+` FROM clusters WHERE run_id = ? AND status = ? ORDER BY group_no`,
		runID,
		match.StatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("query pending clusters: %w", err)
	}
	defer func() { _ = rows.Close() }()
	return collectClusters(rows)
}

// UpdateClusterStatus records a review decision for one cluster. Only pending
// clusters may move, and only to confirmed or rejected.
func (s *Store) UpdateClusterStatus(ctx context.Context, runID string, groupNo int64, status match.Status) error {
	if status != match.StatusConfirmed && status != match.StatusRejected {
		return fmt.Errorf("%w: cannot set status %q", ErrInvalidTransition, status)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)

	res, err := s.execWithRetry(
		ctx,
		`UPDATE clusters SET status = ?, decided_at = ?, updated_at = ?
         WHERE run_id = ? AND group_no = ? AND status = ?`,
		status,
		now,
		now,
		runID,
		groupNo,
		match.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("update cluster status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: cluster %d of run %s is not pending", ErrInvalidTransition, groupNo, runID)
	}
	return nil
}

// Counts aggregates the cluster statuses of a run.
func (s *Store) Counts(ctx context.Context, runID string) (StatusCounts, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT status, tier, COUNT(1) FROM clusters WHERE run_id = ? GROUP BY status, tier`,
		runID,
	)
	if err != nil {
		return StatusCounts{}, fmt.Errorf("count clusters: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts StatusCounts
	for rows.Next() {
		var (
			statusStr string
			tierStr   string
			n         int
		)
		if err := rows.Scan(&statusStr, &tierStr, &n); err != nil {
			return StatusCounts{}, fmt.Errorf("scan counts: %w", err)
		}
		counts.Total += n
		switch match.Status(statusStr) {
		case match.StatusPending:
			counts.Pending += n
		case match.StatusConfirmed:
			counts.Confirmed += n
		case match.StatusRejected:
			counts.Rejected += n
		case match.StatusAutoApproved:
			counts.AutoApproved += n
		}
		if match.Tier(tierStr) == match.TierNoGroup {
			counts.NoGroup += n
		}
	}
	if err := rows.Err(); err != nil {
		return StatusCounts{}, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

// Clear removes all runs and clusters.
func (s *Store) Clear(ctx context.Context) error {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clusters`); err != nil {
		return fmt.Errorf("clear clusters: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM runs`); err != nil {
		return fmt.Errorf("clear runs: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear: %w", err)
	}
	return nil
}
