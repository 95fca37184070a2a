package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"execlink/internal/match"
)

// Info heads the artifact so a reviewer can tell batches apart.
type Info struct {
	Timestamp    string `json:"timestamp"`
	RunID        string `json:"run_id,omitempty"`
	TotalGroups  int    `json:"total_groups"`
	TotalRecords int    `json:"total_records"`
	ReviewType   string `json:"review_type"`
}

// GroupEntry is one uncertain group in the artifact.
type GroupEntry struct {
	GroupID     int64         `json:"group_id"`
	Confidence  float64       `json:"confidence"`
	RecordCount int           `json:"record_count"`
	Companies   []string      `json:"companies"`
	PersonName  string        `json:"person_name"`
	Records     []RecordEntry `json:"records"`
}

// RecordEntry is one raw record inside a group.
type RecordEntry struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Title   string `json:"title"`
	Company string `json:"company"`
	Address string `json:"address"`
}

// Artifact is the full review document.
type Artifact struct {
	Info   Info         `json:"export_info"`
	Groups []GroupEntry `json:"groups"`
}

// BuildArtifact assembles the artifact from the needs-review subset of the
// given clusters. Other tiers are left out on purpose: auto-accepted groups
// need no human eyes and singles carry no grouping decision.
func BuildArtifact(runID string, clusters []*match.Cluster, now time.Time) Artifact {
	artifact := Artifact{
		Info: Info{
			Timestamp:  now.Format(time.RFC3339),
			RunID:      runID,
			ReviewType: "uncertain_executive_matches",
		},
		Groups: []GroupEntry{},
	}
	for _, cluster := range clusters {
		if cluster.Tier != match.TierNeedsReview {
			continue
		}
		entry := GroupEntry{
			GroupID:     cluster.ID,
			Confidence:  cluster.Confidence,
			RecordCount: cluster.Size(),
			Companies:   cluster.Companies,
			PersonName:  cluster.DisplayName(),
		}
		for _, member := range cluster.Members {
			entry.Records = append(entry.Records, RecordEntry{
				ID:      member.ID,
				Name:    member.Name,
				Title:   member.Title,
				Company: member.Company,
				Address: member.Address,
			})
		}
		artifact.Info.TotalGroups++
		artifact.Info.TotalRecords += cluster.Size()
		artifact.Groups = append(artifact.Groups, entry)
	}
	return artifact
}

// Write stores the artifact under dir with a timestamped name and returns
// the absolute file path.
func Write(dir string, artifact Artifact, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create review dir: %w", err)
	}

	payload, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal review artifact: %w", err)
	}

	name := fmt.Sprintf("executive_review_%s.json", now.Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write review artifact: %w", err)
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return absolute, nil
}
