package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"execlink/internal/match"
)

const runColumns = "id, status, record_count, cluster_count, error_message, created_at, updated_at"

const clusterColumns = "id, run_id, group_no, display_name, tier, status, confidence, members_json, created_at, updated_at, decided_at"

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		id           string
		statusStr    string
		recordCount  int
		clusterCount int
		errorMessage sql.NullString
		createdRaw   string
		updatedRaw   string
	)
	if err := scanner.Scan(&id, &statusStr, &recordCount, &clusterCount, &errorMessage, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}

	run := &Run{
		ID:           id,
		Status:       RunStatus(statusStr),
		RecordCount:  recordCount,
		ClusterCount: clusterCount,
		ErrorMessage: errorMessage.String,
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		run.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		run.UpdatedAt = updated
	}
	return run, nil
}

func scanCluster(scanner interface{ Scan(dest ...any) error }) (ClusterRow, error) {
	var (
		row        ClusterRow
		tierStr    string
		statusStr  string
		createdRaw string
		updatedRaw string
		decidedRaw sql.NullString
	)
	if err := scanner.Scan(
		&row.ID,
		&row.RunID,
		&row.GroupNo,
		&row.DisplayName,
		&tierStr,
		&statusStr,
		&row.Confidence,
		&row.MembersJSON,
		&createdRaw,
		&updatedRaw,
		&decidedRaw,
	); err != nil {
		return ClusterRow{}, err
	}

	row.Tier = match.Tier(tierStr)
	row.Status = match.Status(statusStr)
	if created, err := parseTimeString(createdRaw); err == nil {
		row.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		row.UpdatedAt = updated
	}
	if decidedRaw.Valid {
		if decided, err := parseTimeString(decidedRaw.String); err == nil {
			row.DecidedAt = &decided
		}
	}
	return row, nil
}

func collectClusters(rows *sql.Rows) ([]ClusterRow, error) {
	var result []ClusterRow
	for rows.Next() {
		row, err := scanCluster(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cluster: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clusters: %w", err)
	}
	return result, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}
