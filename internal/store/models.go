package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"execlink/internal/match"
	"execlink/internal/records"
)

// RunStatus represents the lifecycle of a pipeline run.
type RunStatus string

const (
	RunStatusCreated        RunStatus = "created"
	RunStatusGrouped        RunStatus = "grouped"
	RunStatusAwaitingReview RunStatus = "awaiting_review"
	RunStatusCompleted      RunStatus = "completed"
	RunStatusFailed         RunStatus = "failed"
)

var runStatusSet = map[RunStatus]struct{}{
	RunStatusCreated:        {},
	RunStatusGrouped:        {},
	RunStatusAwaitingReview: {},
	RunStatusCompleted:      {},
	RunStatusFailed:         {},
}

// ParseRunStatus converts a string into a known RunStatus.
func ParseRunStatus(value string) (RunStatus, bool) {
	normalized := RunStatus(strings.ToLower(strings.TrimSpace(value)))
	_, ok := runStatusSet[normalized]
	return normalized, ok
}

// Run represents one pipeline pass persisted in SQLite.
type Run struct {
	ID           string
	Status       RunStatus
	RecordCount  int
	ClusterCount int
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ClusterRow is the persisted form of a match.Cluster within a run.
type ClusterRow struct {
	ID          int64
	RunID       string
	GroupNo     int64
	DisplayName string
	Tier        match.Tier
	Status      match.Status
	Confidence  float64
	MembersJSON string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DecidedAt   *time.Time
}

// NewClusterRow serializes a cluster for persistence.
func NewClusterRow(runID string, cluster *match.Cluster) (ClusterRow, error) {
	members, err := json.Marshal(cluster.Members)
	if err != nil {
		return ClusterRow{}, fmt.Errorf("marshal cluster members: %w", err)
	}
	return ClusterRow{
		RunID:       runID,
		GroupNo:     cluster.ID,
		DisplayName: cluster.DisplayName(),
		Tier:        cluster.Tier,
		Status:      cluster.Status,
		Confidence:  cluster.Confidence,
		MembersJSON: string(members),
	}, nil
}

// Cluster reconstructs the in-memory cluster, rederiving the company and
// title unions from the stored members.
func (r ClusterRow) Cluster() (*match.Cluster, error) {
	var members []records.Record
	if err := json.Unmarshal([]byte(r.MembersJSON), &members); err != nil {
		return nil, fmt.Errorf("unmarshal cluster members: %w", err)
	}
	cluster := &match.Cluster{
		ID:         r.GroupNo,
		Members:    members,
		Confidence: r.Confidence,
		Tier:       r.Tier,
		Status:     r.Status,
	}
	cluster.Derive()
	return cluster, nil
}

// StatusCounts aggregates cluster counts for one run.
type StatusCounts struct {
	Total        int
	Pending      int
	Confirmed    int
	Rejected     int
	AutoApproved int
	NoGroup      int
}
