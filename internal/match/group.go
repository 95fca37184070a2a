package match

import (
	"sort"

	"execlink/internal/records"
)

// Group scores every unordered pair of records and partitions the input into
// person clusters. Every input record lands in exactly one cluster; records
// with no candidate edge become NoGroup singletons.
func Group(policy Policy, recs []records.Record) []*Cluster {
	return GroupScored(policy, recs, ScoreAll(policy, recs))
}

// ScoreAll computes pair scores for all unordered record pairs. Pairwise
// scoring is O(n²) and is the dominant cost of a run; the expected batch
// size is hundreds of records, not millions.
func ScoreAll(policy Policy, recs []records.Record) []PairScore {
	scores := make([]PairScore, 0, len(recs)*(len(recs)-1)/2)
	for i := range recs {
		for j := i + 1; j < len(recs); j++ {
			scores = append(scores, Score(policy, recs[i], recs[j]))
		}
	}
	return scores
}

// GroupScored partitions records using precomputed pair scores. Connectivity
// uses union-find over edges sorted by record ID, so the resulting partition
// is independent of input ordering. Cluster confidence is the minimum
// pairwise score across all member pairs, including pairs below the edge
// threshold that were only joined transitively.
func GroupScored(policy Policy, recs []records.Record, scores []PairScore) []*Cluster {
	policy = policy.Normalized()

	sorted := make([]records.Record, len(recs))
	copy(sorted, recs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	index := make(map[string]int, len(sorted))
	for i, rec := range sorted {
		index[rec.ID] = i
	}

	totals := make(map[[2]string]float64, len(scores))
	edges := make([]PairScore, 0, len(scores))
	for _, score := range scores {
		totals[pairKey(score.A, score.B)] = score.Total
		if score.Total >= policy.MinGroupThreshold {
			edges = append(edges, score)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		ki, kj := pairKey(edges[i].A, edges[i].B), pairKey(edges[j].A, edges[j].B)
		if ki[0] != kj[0] {
			return ki[0] < kj[0]
		}
		return ki[1] < kj[1]
	})

	uf := newUnionFind(len(sorted))
	for _, edge := range edges {
		a, okA := index[edge.A]
		b, okB := index[edge.B]
		if okA && okB {
			uf.union(a, b)
		}
	}

	componentMembers := make(map[int][]records.Record)
	for i, rec := range sorted {
		root := uf.find(i)
		componentMembers[root] = append(componentMembers[root], rec)
	}

	clusters := make([]*Cluster, 0, len(componentMembers))
	for _, members := range componentMembers {
		cluster := &Cluster{Members: members, Status: StatusPending}
		cluster.Confidence = minPairScore(members, totals)
		cluster.Derive()
		applyTier(policy, cluster)
		clusters = append(clusters, cluster)
	}

	// Members within each component are already ID-sorted; order clusters by
	// their lowest member ID and number them so repeat runs agree.
	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Members[0].ID < clusters[j].Members[0].ID
	})
	for i, cluster := range clusters {
		cluster.ID = int64(i + 1)
	}
	return clusters
}

// Singleton wraps one record in a NoGroup cluster. Used both for unmatched
// records and for re-emitting members of a rejected cluster.
func Singleton(rec records.Record) *Cluster {
	cluster := &Cluster{
		Members: []records.Record{rec},
		Tier:    TierNoGroup,
		Status:  StatusNone,
	}
	cluster.Derive()
	return cluster
}

// applyTier assigns the confidence tier and, for auto-accepted clusters, the
// terminal status. Singletons are never tiered above NoGroup.
func applyTier(policy Policy, cluster *Cluster) {
	if cluster.Size() < 2 {
		cluster.Tier = TierNoGroup
		cluster.Status = StatusNone
		return
	}
	switch {
	case cluster.Confidence > policy.AutoAcceptThreshold:
		cluster.Tier = TierAutoAccept
		cluster.Status = StatusAutoApproved
	case cluster.Confidence >= policy.MinGroupThreshold:
		cluster.Tier = TierNeedsReview
	default:
		// Transitively chained members whose weakest pair fell below the
		// grouping threshold. The chain stays intact for traceability but is
		// never auto-accepted or offered for review.
		cluster.Tier = TierNoGroup
		cluster.Status = StatusNone
	}
}

func minPairScore(members []records.Record, totals map[[2]string]float64) float64 {
	if len(members) < 2 {
		return 0
	}
	minScore := 1.0
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if total, ok := totals[pairKey(members[i].ID, members[j].ID)]; ok && total < minScore {
				minScore = total
			}
		}
	}
	return minScore
}

func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}

type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(size int) *unionFind {
	uf := &unionFind{parent: make([]int, size), rank: make([]int, size)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(v int) int {
	for uf.parent[v] != v {
		uf.parent[v] = uf.parent[uf.parent[v]]
		v = uf.parent[v]
	}
	return v
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.rank[ra] < uf.rank[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	if uf.rank[ra] == uf.rank[rb] {
		uf.rank[ra]++
	}
}
