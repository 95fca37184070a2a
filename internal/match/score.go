package match

import (
	"math"
	"strings"

	"execlink/internal/records"
	"execlink/internal/textutil"
)

// ComponentScores holds the per-attribute similarity values of a pair.
type ComponentScores struct {
	Name    float64 `json:"name"`
	Address float64 `json:"address"`
	Title   float64 `json:"title"`
	Company float64 `json:"company"`
}

// PairScore is the weighted similarity between two records. Scores are
// symmetric: Score(a, b) and Score(b, a) produce the same Total.
type PairScore struct {
	A          string          `json:"a"`
	B          string          `json:"b"`
	Components ComponentScores `json:"components"`
	Total      float64         `json:"total"`
}

// Score computes the weighted similarity between two records under the given
// policy. It is pure, never fails, and is defined for all inputs including
// records with blank fields.
func Score(policy Policy, a, b records.Record) PairScore {
	policy = policy.Normalized()

	components := ComponentScores{
		Name:    attributeScore(policy, a.Name, b.Name, textutil.NameRatio),
		Address: attributeScore(policy, a.Address, b.Address, textutil.TokenSortRatio),
		Title:   attributeScore(policy, a.Title, b.Title, textutil.TitleRatio),
		Company: attributeScore(policy, a.Company, b.Company, textutil.Ratio),
	}

	total := components.Name*policy.NameWeight +
		components.Address*policy.AddressWeight +
		components.Title*policy.TitleWeight +
		components.Company*policy.CompanyWeight
	if total < 0 {
		total = 0
	}
	if total > 1 {
		total = 1
	}

	return PairScore{A: a.ID, B: b.ID, Components: components, Total: total}
}

// attributeScore applies the missing-field policy and degrades to a
// case-insensitive exact comparison when the fuzzy ratio cannot be computed.
func attributeScore(policy Policy, a, b string, ratio func(string, string) float64) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return policy.MissingFieldScore
	}
	v := ratio(a, b)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		if textutil.ExactFold(a, b) {
			return 1
		}
		return 0
	}
	return v
}
