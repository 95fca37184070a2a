package canonical

import (
	"testing"
	"time"

	"execlink/internal/match"
	"execlink/internal/records"
)

func approvedCluster(status match.Status, members ...records.Record) *match.Cluster {
	cluster := &match.Cluster{
		ID:      1,
		Members: members,
		Tier:    match.TierNeedsReview,
		Status:  status,
	}
	seen := make(map[string]struct{})
	for _, member := range members {
		if member.Company == "" {
			continue
		}
		if _, ok := seen[member.Company]; ok {
			continue
		}
		seen[member.Company] = struct{}{}
		cluster.Companies = append(cluster.Companies, member.Company)
	}
	return cluster
}

func TestBuildSkipsUnapprovedClusters(t *testing.T) {
	for _, status := range []match.Status{match.StatusPending, match.StatusRejected} {
		persons, links := Build([]*match.Cluster{
			approvedCluster(status, records.Record{ID: "1", Name: "John Smith", Company: "Acme"}),
		}, time.Now())
		if len(persons) != 0 || len(links) != 0 {
			t.Errorf("status %v should produce no output, got %d persons %d links", status, len(persons), len(links))
		}
	}
}

func TestBuildOnePersonPerClusterOneLinkPerCompany(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cluster := approvedCluster(match.StatusConfirmed,
		records.Record{ID: "1", Name: "John Smith", Title: "CEO", Company: "tesla", Address: "1 Main St"},
		records.Record{ID: "2", Name: "John Smith", Title: "Chairman", Company: "spacex"},
		records.Record{ID: "3", Name: "J. Smith", Title: "CEO", Company: "tesla"},
	)

	persons, links := Build([]*match.Cluster{cluster}, now)
	if len(persons) != 1 {
		t.Fatalf("persons = %d, want 1", len(persons))
	}
	person := persons[0]
	if person.GroupedFrom != 3 {
		t.Errorf("GroupedFrom = %d, want 3", person.GroupedFrom)
	}
	if len(person.Variations) != 3 {
		t.Errorf("Variations = %d, want every member preserved", len(person.Variations))
	}
	if len(links) != len(person.Companies) {
		t.Fatalf("links = %d, want one per company (%d)", len(links), len(person.Companies))
	}
	for _, link := range links {
		if link.PersonKey != person.PersonKey {
			t.Errorf("link person key = %q, want %q", link.PersonKey, person.PersonKey)
		}
		if !link.LinkedAt.Equal(now) {
			t.Errorf("LinkedAt = %v, want build time %v", link.LinkedAt, now)
		}
	}
}

func TestRepresentativeNameMostFrequent(t *testing.T) {
	persons, _ := Build([]*match.Cluster{approvedCluster(match.StatusAutoApproved,
		records.Record{ID: "1", Name: "J. Smith", Company: "Acme"},
		records.Record{ID: "2", Name: "John Smith", Company: "Acme"},
		records.Record{ID: "3", Name: "John Smith", Company: "Beta"},
	)}, time.Now())
	if persons[0].Name != "John Smith" {
		t.Errorf("Name = %q, want most frequent exact string", persons[0].Name)
	}
	if persons[0].PersonKey != "john_smith" {
		t.Errorf("PersonKey = %q, want john_smith", persons[0].PersonKey)
	}
}

func TestRepresentativeNameTieBreaks(t *testing.T) {
	// Equal frequency: longest string wins.
	persons, _ := Build([]*match.Cluster{approvedCluster(match.StatusConfirmed,
		records.Record{ID: "2", Name: "J. Smith", Company: "Acme"},
		records.Record{ID: "1", Name: "John A. Smith", Company: "Acme"},
	)}, time.Now())
	if persons[0].Name != "John A. Smith" {
		t.Errorf("Name = %q, want longest on frequency tie", persons[0].Name)
	}

	// Equal frequency and length: lowest record id wins.
	persons, _ = Build([]*match.Cluster{approvedCluster(match.StatusConfirmed,
		records.Record{ID: "9", Name: "Jon Smith", Company: "Acme"},
		records.Record{ID: "4", Name: "Joe Smith", Company: "Acme"},
	)}, time.Now())
	if persons[0].Name != "Joe Smith" {
		t.Errorf("Name = %q, want record with lowest id on full tie", persons[0].Name)
	}
}

func TestBuildFallsBackToAnyAddress(t *testing.T) {
	persons, _ := Build([]*match.Cluster{approvedCluster(match.StatusConfirmed,
		records.Record{ID: "1", Name: "John Smith", Company: "Acme"},
		records.Record{ID: "2", Name: "John Smith", Company: "Acme", Address: "1 Main St"},
		records.Record{ID: "3", Name: "J. Smith", Company: "Acme"},
	)}, time.Now())
	if persons[0].Address != "1 Main St" {
		t.Errorf("Address = %q, want fallback to first non-empty member address", persons[0].Address)
	}
}
