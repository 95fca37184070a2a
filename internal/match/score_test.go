package match

import (
	"math"
	"testing"

	"execlink/internal/records"
)

func TestDefaultPolicyWeightSum(t *testing.T) {
	if sum := DefaultPolicy().WeightSum(); math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("weight sum = %v, want 1.0", sum)
	}
}

func TestPolicyNormalizedRepairsBadValues(t *testing.T) {
	p := Policy{MinGroupThreshold: -1, AutoAcceptThreshold: 2, MissingFieldScore: 5}.Normalized()
	d := DefaultPolicy()
	if p.MinGroupThreshold != d.MinGroupThreshold {
		t.Errorf("MinGroupThreshold = %v, want default %v", p.MinGroupThreshold, d.MinGroupThreshold)
	}
	if p.AutoAcceptThreshold != d.AutoAcceptThreshold {
		t.Errorf("AutoAcceptThreshold = %v, want default %v", p.AutoAcceptThreshold, d.AutoAcceptThreshold)
	}
	if p.MissingFieldScore != d.MissingFieldScore {
		t.Errorf("MissingFieldScore = %v, want default %v", p.MissingFieldScore, d.MissingFieldScore)
	}
	if p.NameWeight != d.NameWeight {
		t.Errorf("NameWeight = %v, want default %v", p.NameWeight, d.NameWeight)
	}
}

func TestScoreIdenticalRecords(t *testing.T) {
	rec := records.Record{ID: "1", Name: "John Smith", Title: "CEO", Address: "1 Main St", Company: "Acme"}
	other := rec
	other.ID = "2"

	score := Score(DefaultPolicy(), rec, other)
	if score.Total != 1 {
		t.Errorf("Total = %v, want 1", score.Total)
	}
	if score.Components.Name != 1 || score.Components.Company != 1 {
		t.Errorf("components = %+v, want all 1", score.Components)
	}
}

func TestScoreSymmetry(t *testing.T) {
	a := records.Record{ID: "1", Name: "John A. Smith", Title: "CEO", Address: "1 Main St", Company: "Acme"}
	b := records.Record{ID: "2", Name: "J. Smith", Title: "Chief Executive Officer", Address: "1 Main Street", Company: "Acme Corp"}

	ab := Score(DefaultPolicy(), a, b)
	ba := Score(DefaultPolicy(), b, a)
	if ab.Total != ba.Total {
		t.Errorf("Score not symmetric: %v vs %v", ab.Total, ba.Total)
	}
	if ab.Components != ba.Components {
		t.Errorf("components not symmetric: %+v vs %+v", ab.Components, ba.Components)
	}
}

func TestScoreMissingFieldIsNeutral(t *testing.T) {
	policy := DefaultPolicy()
	a := records.Record{ID: "1", Name: "John Smith", Address: "1 Main St"}
	b := records.Record{ID: "2", Name: "John Smith"}

	score := Score(policy, a, b)
	if score.Components.Address != policy.MissingFieldScore {
		t.Errorf("Address component = %v, want neutral %v", score.Components.Address, policy.MissingFieldScore)
	}
	if score.Components.Title != policy.MissingFieldScore {
		t.Errorf("Title component = %v, want neutral %v", score.Components.Title, policy.MissingFieldScore)
	}
}

func TestScoreAllFieldsBlank(t *testing.T) {
	policy := DefaultPolicy()
	score := Score(policy, records.Record{ID: "1"}, records.Record{ID: "2"})
	if math.Abs(score.Total-policy.MissingFieldScore) > 1e-9 {
		t.Errorf("Total = %v, want %v for fully blank records", score.Total, policy.MissingFieldScore)
	}
}

func TestScoreRanksMatchingPairHigher(t *testing.T) {
	policy := DefaultPolicy()
	base := records.Record{ID: "1", Name: "John A. Smith", Title: "CEO", Address: "1 Main St", Company: "Acme"}
	variant := records.Record{ID: "2", Name: "J. Smith", Title: "Chief Executive Officer", Address: "1 Main St", Company: "Acme"}
	unrelated := records.Record{ID: "3", Name: "Mary Garcia", Title: "CFO", Address: "500 Elm Ave", Company: "Beta Corp"}

	matching := Score(policy, base, variant)
	mismatch := Score(policy, base, unrelated)

	if matching.Components.Address != 1 || matching.Components.Company != 1 {
		t.Errorf("exact address/company should score 1, got %+v", matching.Components)
	}
	if matching.Total <= mismatch.Total {
		t.Errorf("matching pair (%v) should outrank unrelated pair (%v)", matching.Total, mismatch.Total)
	}
	if mismatch.Total >= policy.MinGroupThreshold {
		t.Errorf("unrelated pair score %v should stay below grouping threshold", mismatch.Total)
	}
}

func TestScoreRangeClamped(t *testing.T) {
	recs := []records.Record{
		{ID: "1", Name: "John Smith", Title: "CEO", Address: "1 Main St", Company: "Acme"},
		{ID: "2"},
		{ID: "3", Name: "Mary Garcia"},
	}
	for i := range recs {
		for j := i + 1; j < len(recs); j++ {
			score := Score(DefaultPolicy(), recs[i], recs[j])
			if score.Total < 0 || score.Total > 1 {
				t.Errorf("Score(%s,%s).Total = %v, out of [0,1]", recs[i].ID, recs[j].ID, score.Total)
			}
		}
	}
}
