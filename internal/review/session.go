package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"execlink/internal/match"
)

// Decision is a reviewer's answer for one cluster.
type Decision string

const (
	DecisionConfirm Decision = "confirm"
	DecisionReject  Decision = "reject"
	DecisionSkip    Decision = "skip"
)

// ParseDecision maps free-form reviewer input onto a Decision. Anything
// outside the known answers is treated as Skip so ambiguous input can never
// approve a cluster.
func ParseDecision(value string) Decision {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "y", "confirm":
		return DecisionConfirm
	case "no", "n", "reject":
		return DecisionReject
	default:
		return DecisionSkip
	}
}

// Reviewer supplies a synchronous decision for one cluster. Ask blocks until
// the reviewer answers; an error aborts the session.
type Reviewer interface {
	Ask(ctx context.Context, cluster *match.Cluster) (Decision, error)
}

// Recorder receives committed decisions as they happen so partial progress
// survives an aborted session.
type Recorder interface {
	RecordDecision(ctx context.Context, cluster *match.Cluster, decision Decision) error
}

// Outcome summarizes a completed (or aborted) session pass.
type Outcome struct {
	Confirmed []*match.Cluster
	Rejected  []*match.Cluster
	// Dissolved holds the NoGroup singletons re-emitted from rejected
	// clusters, preserving every member record.
	Dissolved []*match.Cluster
	// Unresolved holds clusters still Pending after the bounded retry pass.
	Unresolved []*match.Cluster
}

// Session is a single-operator state machine over Pending clusters.
type Session struct {
	reviewer Reviewer
	recorder Recorder
	logger   *slog.Logger
}

// NewSession builds a session. The recorder may be nil when decisions do not
// need to be persisted.
func NewSession(reviewer Reviewer, recorder Recorder, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{reviewer: reviewer, recorder: recorder, logger: logger}
}

// Run walks the Pending clusters sequentially. Skipped clusters are requeued
// for one extra attempt at the end of the pass; clusters still Pending after
// that are returned as unresolved. A reviewer error stops the session and
// returns the progress committed so far alongside the error.
func (s *Session) Run(ctx context.Context, clusters []*match.Cluster) (Outcome, error) {
	var outcome Outcome
	if s.reviewer == nil {
		outcome.Unresolved = pendingOnly(clusters)
		return outcome, nil
	}

	queue := pendingOnly(clusters)
	retried := make(map[int64]bool, len(queue))

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			outcome.Unresolved = append(outcome.Unresolved, queue...)
			return outcome, err
		}
		cluster := queue[0]
		queue = queue[1:]

		decision, err := s.reviewer.Ask(ctx, cluster)
		if err != nil {
			outcome.Unresolved = append(outcome.Unresolved, cluster)
			outcome.Unresolved = append(outcome.Unresolved, queue...)
			return outcome, fmt.Errorf("review cluster %d: %w", cluster.ID, err)
		}

		switch decision {
		case DecisionConfirm:
			cluster.Status = match.StatusConfirmed
			if err := s.record(ctx, cluster, decision); err != nil {
				return outcome, err
			}
			outcome.Confirmed = append(outcome.Confirmed, cluster)
			s.logger.Info("cluster confirmed",
				slog.Int64("cluster", cluster.ID),
				slog.Int("members", cluster.Size()),
				slog.Int("companies", len(cluster.Companies)))
		case DecisionReject:
			cluster.Status = match.StatusRejected
			if err := s.record(ctx, cluster, decision); err != nil {
				return outcome, err
			}
			outcome.Rejected = append(outcome.Rejected, cluster)
			for _, member := range cluster.Members {
				outcome.Dissolved = append(outcome.Dissolved, match.Singleton(member))
			}
			s.logger.Info("cluster rejected and dissolved",
				slog.Int64("cluster", cluster.ID),
				slog.Int("members", cluster.Size()))
		default:
			// Skip keeps the cluster Pending. One bounded requeue per run
			// avoids an operator looping forever on the same cluster.
			if retried[cluster.ID] {
				outcome.Unresolved = append(outcome.Unresolved, cluster)
				s.logger.Info("cluster left unresolved", slog.Int64("cluster", cluster.ID))
				continue
			}
			retried[cluster.ID] = true
			queue = append(queue, cluster)
			s.logger.Debug("cluster skipped, requeued", slog.Int64("cluster", cluster.ID))
		}
	}

	return outcome, nil
}

func (s *Session) record(ctx context.Context, cluster *match.Cluster, decision Decision) error {
	if s.recorder == nil {
		return nil
	}
	if err := s.recorder.RecordDecision(ctx, cluster, decision); err != nil {
		return fmt.Errorf("record decision for cluster %d: %w", cluster.ID, err)
	}
	return nil
}

func pendingOnly(clusters []*match.Cluster) []*match.Cluster {
	queue := make([]*match.Cluster, 0, len(clusters))
	for _, cluster := range clusters {
		if cluster.Tier == match.TierNeedsReview && cluster.Status == match.StatusPending {
			queue = append(queue, cluster)
		}
	}
	return queue
}
