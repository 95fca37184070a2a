package match

import (
	"testing"

	"execlink/internal/records"
)

func testRecords(ids ...string) []records.Record {
	recs := make([]records.Record, len(ids))
	for i, id := range ids {
		recs[i] = records.Record{ID: id, Name: "Person " + id, Company: "Company " + id}
	}
	return recs
}

func pairScores(totals map[[2]string]float64) []PairScore {
	scores := make([]PairScore, 0, len(totals))
	for key, total := range totals {
		scores = append(scores, PairScore{A: key[0], B: key[1], Total: total})
	}
	return scores
}

func clusterByMember(t *testing.T, clusters []*Cluster, id string) *Cluster {
	t.Helper()
	for _, cluster := range clusters {
		for _, member := range cluster.Members {
			if member.ID == id {
				return cluster
			}
		}
	}
	t.Fatalf("no cluster contains record %s", id)
	return nil
}

func TestGroupScoredTransitiveChainWeakestLink(t *testing.T) {
	recs := testRecords("a", "b", "c")
	scores := pairScores(map[[2]string]float64{
		{"a", "b"}: 0.80,
		{"b", "c"}: 0.80,
		{"a", "c"}: 0.60,
	})

	clusters := GroupScored(DefaultPolicy(), recs, scores)
	if len(clusters) != 1 {
		t.Fatalf("expected one cluster via transitive closure, got %d", len(clusters))
	}
	cluster := clusters[0]
	if cluster.Size() != 3 {
		t.Fatalf("cluster size = %d, want 3", cluster.Size())
	}
	if cluster.Confidence != 0.60 {
		t.Errorf("Confidence = %v, want weakest-link 0.60", cluster.Confidence)
	}
	if cluster.Tier != TierNoGroup {
		t.Errorf("Tier = %v, want %v for chained-but-weak cluster", cluster.Tier, TierNoGroup)
	}
}

func TestGroupScoredTierBoundaries(t *testing.T) {
	tests := []struct {
		name       string
		total      float64
		wantTier   Tier
		wantStatus Status
	}{
		{"above auto accept", 0.86, TierAutoAccept, StatusAutoApproved},
		{"exactly auto accept boundary", 0.85, TierNeedsReview, StatusPending},
		{"exactly min threshold", 0.75, TierNeedsReview, StatusPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs := testRecords("a", "b")
			scores := pairScores(map[[2]string]float64{{"a", "b"}: tt.total})

			clusters := GroupScored(DefaultPolicy(), recs, scores)
			if len(clusters) != 1 {
				t.Fatalf("expected 1 cluster, got %d", len(clusters))
			}
			if clusters[0].Tier != tt.wantTier {
				t.Errorf("Tier = %v, want %v", clusters[0].Tier, tt.wantTier)
			}
			if clusters[0].Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", clusters[0].Status, tt.wantStatus)
			}
		})
	}
}

func TestGroupScoredBelowThresholdStaysSingleton(t *testing.T) {
	recs := testRecords("a", "b")
	scores := pairScores(map[[2]string]float64{{"a", "b"}: 0.7499})

	clusters := GroupScored(DefaultPolicy(), recs, scores)
	if len(clusters) != 2 {
		t.Fatalf("expected 2 singletons, got %d clusters", len(clusters))
	}
	for _, cluster := range clusters {
		if cluster.Size() != 1 || cluster.Tier != TierNoGroup {
			t.Errorf("cluster %v: size=%d tier=%v, want singleton NoGroup", cluster.MemberIDs(), cluster.Size(), cluster.Tier)
		}
	}
}

func TestGroupScoredPartitionInvariant(t *testing.T) {
	recs := testRecords("a", "b", "c", "d", "e")
	scores := pairScores(map[[2]string]float64{
		{"a", "b"}: 0.90,
		{"c", "d"}: 0.78,
	})

	clusters := GroupScored(DefaultPolicy(), recs, scores)

	seen := make(map[string]int)
	for _, cluster := range clusters {
		for _, member := range cluster.Members {
			seen[member.ID]++
		}
	}
	if len(seen) != len(recs) {
		t.Fatalf("partition covers %d records, want %d", len(seen), len(recs))
	}
	for id, count := range seen {
		if count != 1 {
			t.Errorf("record %s appears in %d clusters, want exactly 1", id, count)
		}
	}
}

func TestGroupScoredDeterministicUnderReordering(t *testing.T) {
	scores := pairScores(map[[2]string]float64{
		{"a", "b"}: 0.80,
		{"b", "c"}: 0.80,
		{"d", "e"}: 0.90,
	})

	forward := GroupScored(DefaultPolicy(), testRecords("a", "b", "c", "d", "e"), scores)
	reversed := GroupScored(DefaultPolicy(), testRecords("e", "d", "c", "b", "a"), scores)

	if len(forward) != len(reversed) {
		t.Fatalf("cluster count differs: %d vs %d", len(forward), len(reversed))
	}
	for i := range forward {
		f, r := forward[i], reversed[i]
		if f.ID != r.ID || f.Tier != r.Tier || f.Confidence != r.Confidence {
			t.Errorf("cluster %d differs: %+v vs %+v", i, f, r)
		}
		fids, rids := f.MemberIDs(), r.MemberIDs()
		if len(fids) != len(rids) {
			t.Fatalf("cluster %d member counts differ", i)
		}
		for j := range fids {
			if fids[j] != rids[j] {
				t.Errorf("cluster %d member %d: %s vs %s", i, j, fids[j], rids[j])
			}
		}
	}
}

func TestGroupEndToEndDuplicatePair(t *testing.T) {
	recs := []records.Record{
		{ID: "1", Name: "John A. Smith", Title: "CEO", Address: "1 Main St", Company: "Acme"},
		{ID: "2", Name: "John Smith", Title: "CEO", Address: "1 Main St", Company: "Acme"},
		{ID: "3", Name: "Mary Garcia", Title: "CFO", Address: "500 Elm Ave", Company: "Beta Corp"},
	}

	clusters := Group(DefaultPolicy(), recs)

	pair := clusterByMember(t, clusters, "1")
	if pair.Size() != 2 {
		t.Fatalf("expected records 1 and 2 grouped, got members %v", pair.MemberIDs())
	}
	if pair.Tier == TierNoGroup {
		t.Errorf("near-identical pair tiered NoGroup (confidence %v)", pair.Confidence)
	}
	if len(pair.Companies) != 1 || pair.Companies[0] != "Acme" {
		t.Errorf("Companies = %v, want [Acme] with original casing", pair.Companies)
	}

	single := clusterByMember(t, clusters, "3")
	if single.Size() != 1 || single.Tier != TierNoGroup {
		t.Errorf("unrelated record should be a NoGroup singleton, got %+v", single)
	}
}

func TestSingleton(t *testing.T) {
	cluster := Singleton(records.Record{ID: "9", Name: "Solo Person", Company: "Acme"})
	if cluster.Tier != TierNoGroup || cluster.Status != StatusNone {
		t.Errorf("Singleton tier/status = %v/%v", cluster.Tier, cluster.Status)
	}
	if len(cluster.Companies) != 1 {
		t.Errorf("Companies = %v, want derived single company", cluster.Companies)
	}
}

func TestAbbreviatedNameSharedAddressAutoAccepts(t *testing.T) {
	policy := DefaultPolicy()
	a := records.Record{ID: "1", Name: "John A. Smith", Title: "CEO", Address: "1 Main St", Company: "Acme"}
	b := records.Record{ID: "2", Name: "J. Smith", Title: "Chief Executive Officer", Address: "1 Main St", Company: "Acme"}

	score := Score(policy, a, b)
	if score.Components.Name != 1 {
		t.Errorf("Name component = %v, want 1 for abbreviated given name", score.Components.Name)
	}
	if score.Components.Title <= 0.5 || score.Components.Title >= 1 {
		t.Errorf("Title component = %v, want moderate for acronym expansion", score.Components.Title)
	}
	if score.Total <= policy.AutoAcceptThreshold {
		t.Fatalf("Total = %v, want above auto-accept threshold %v", score.Total, policy.AutoAcceptThreshold)
	}

	clusters := Group(policy, []records.Record{a, b})
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want one merged cluster", len(clusters))
	}
	cluster := clusters[0]
	if cluster.Size() != 2 || cluster.Tier != TierAutoAccept || cluster.Status != StatusAutoApproved {
		t.Errorf("cluster = size %d tier %v status %v, want auto-accepted pair", cluster.Size(), cluster.Tier, cluster.Status)
	}
	if len(cluster.Companies) != 1 || cluster.Companies[0] != "Acme" {
		t.Errorf("Companies = %v, want [Acme]", cluster.Companies)
	}
}

func TestDifferentCompanyAndAddressNeedsReview(t *testing.T) {
	policy := DefaultPolicy()
	a := records.Record{ID: "1", Name: "John A. Smith", Title: "CEO", Address: "1 Main St", Company: "Acme"}
	b := records.Record{ID: "2", Name: "J. Smith", Title: "Chief Executive Officer", Address: "2 Maple St", Company: "Beta Corp"}

	score := Score(policy, a, b)
	if score.Total < policy.MinGroupThreshold || score.Total > policy.AutoAcceptThreshold {
		t.Fatalf("Total = %v, want inside review band [%v, %v]",
			score.Total, policy.MinGroupThreshold, policy.AutoAcceptThreshold)
	}

	clusters := Group(policy, []records.Record{a, b})
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want one candidate cluster", len(clusters))
	}
	cluster := clusters[0]
	if cluster.Tier != TierNeedsReview || cluster.Status != StatusPending {
		t.Errorf("cluster tier/status = %v/%v, want pending review", cluster.Tier, cluster.Status)
	}
	if len(cluster.Companies) != 2 {
		t.Errorf("Companies = %v, want both companies retained", cluster.Companies)
	}
}
