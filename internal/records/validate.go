package records

import (
	"fmt"
	"strings"
)

// Problem describes a record rejected during batch validation.
type Problem struct {
	RecordID string
	Reason   string
}

func (p Problem) String() string {
	if p.RecordID == "" {
		return p.Reason
	}
	return fmt.Sprintf("record %s: %s", p.RecordID, p.Reason)
}

// ValidateBatch filters a batch down to usable records. Records with a
// missing or duplicate identifier are rejected and reported; they never
// participate in scoring. The surviving slice preserves input order.
func ValidateBatch(batch []Record) ([]Record, []Problem) {
	valid := make([]Record, 0, len(batch))
	var problems []Problem
	seen := make(map[string]struct{}, len(batch))

	for _, rec := range batch {
		id := strings.TrimSpace(rec.ID)
		if id == "" {
			problems = append(problems, Problem{Reason: "missing identifier"})
			continue
		}
		if _, dup := seen[id]; dup {
			problems = append(problems, Problem{RecordID: id, Reason: "duplicate identifier"})
			continue
		}
		seen[id] = struct{}{}
		rec.ID = id
		valid = append(valid, rec)
	}
	return valid, problems
}
