package match

import (
	"strings"

	"execlink/internal/records"
	"execlink/internal/textutil"
)

// Tier classifies a cluster's confidence and governs whether human review
// is required.
type Tier string

const (
	TierAutoAccept  Tier = "auto_accept"
	TierNeedsReview Tier = "needs_review"
	TierNoGroup     Tier = "no_group"
)

// Status tracks the review lifecycle of a cluster.
type Status string

const (
	// StatusNone marks NoGroup clusters that sit outside the review
	// lifecycle entirely.
	StatusNone         Status = "none"
	StatusPending      Status = "pending"
	StatusConfirmed    Status = "confirmed"
	StatusRejected     Status = "rejected"
	StatusAutoApproved Status = "auto_approved"
)

var statusSet = map[Status]struct{}{
	StatusNone:         {},
	StatusPending:      {},
	StatusConfirmed:    {},
	StatusRejected:     {},
	StatusAutoApproved: {},
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[normalized]
	return normalized, ok
}

// ParseTier converts a string into a known Tier.
func ParseTier(value string) (Tier, bool) {
	normalized := Tier(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case TierAutoAccept, TierNeedsReview, TierNoGroup:
		return normalized, true
	}
	return normalized, false
}

// Cluster is a maximal set of records believed to represent one person.
// Members are kept sorted by record ID so cluster contents are reproducible
// regardless of input ordering.
type Cluster struct {
	ID         int64
	Members    []records.Record
	Companies  []string
	Titles     []string
	Confidence float64
	Tier       Tier
	Status     Status
}

// DisplayName returns the normalized name of the first member, used for
// presentation before a canonical record exists.
func (c *Cluster) DisplayName() string {
	for _, member := range c.Members {
		if name := textutil.Normalize(member.Name); name != "" {
			return name
		}
	}
	return ""
}

// MemberIDs returns the sorted record identifiers of the cluster.
func (c *Cluster) MemberIDs() []string {
	ids := make([]string, len(c.Members))
	for i, member := range c.Members {
		ids[i] = member.ID
	}
	return ids
}

// Size returns the number of member records.
func (c *Cluster) Size() int {
	return len(c.Members)
}

// Resolved reports whether the cluster has a terminal review status.
func (c *Cluster) Resolved() bool {
	return c.Status != StatusPending
}

// Derive populates the Companies and Titles unions, de-duplicated by
// normalized form but keeping the original text, ordered by first occurrence
// across the sorted members.
func (c *Cluster) Derive() {
	c.Companies = c.Companies[:0]
	c.Titles = c.Titles[:0]
	seenCompanies := make(map[string]struct{})
	seenTitles := make(map[string]struct{})
	for _, member := range c.Members {
		if company := strings.TrimSpace(member.Company); company != "" {
			key := textutil.Normalize(company)
			if _, ok := seenCompanies[key]; !ok {
				seenCompanies[key] = struct{}{}
				c.Companies = append(c.Companies, company)
			}
		}
		if title := strings.TrimSpace(member.Title); title != "" {
			key := textutil.Normalize(title)
			if _, ok := seenTitles[key]; !ok {
				seenTitles[key] = struct{}{}
				c.Titles = append(c.Titles, title)
			}
		}
	}
}
