package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"execlink/internal/canonical"
	"execlink/internal/config"
	"execlink/internal/export"
	"execlink/internal/ingest"
	"execlink/internal/logging"
	"execlink/internal/match"
	"execlink/internal/notifications"
	"execlink/internal/records"
	"execlink/internal/review"
	"execlink/internal/sink"
	"execlink/internal/store"
)

// ErrLocked indicates another pass holds the exclusive run lock.
var ErrLocked = errors.New("another execlink pass is already running")

// ErrNoRun indicates a resume was requested but no run exists.
var ErrNoRun = errors.New("no run found")

// Summary reports what one pass did.
type Summary struct {
	RunID        string
	Records      int
	Dropped      int
	Clusters     int
	AutoAccepted int
	NeedsReview  int
	NoGroup      int
	Confirmed    int
	Rejected     int
	Unresolved   int
	ArtifactPath string
	Upload       sink.Result
	Completed    bool
	Duration     time.Duration
}

// Pipeline wires the run stages together.
type Pipeline struct {
	cfg      *config.Config
	store    *store.Store
	source   ingest.Source
	sink     sink.Sink
	notifier notifications.Service
	reviewer review.Reviewer
	logger   *slog.Logger

	lockPath string
	now      func() time.Time
}

// New constructs a pipeline. The reviewer may be nil for non-interactive
// passes; uncertain groups then stay pending for a later resume.
func New(cfg *config.Config, st *store.Store, source ingest.Source, snk sink.Sink, notifier notifications.Service, reviewer review.Reviewer, logger *slog.Logger) (*Pipeline, error) {
	if cfg == nil || st == nil || source == nil || snk == nil {
		return nil, errors.New("pipeline requires config, store, source, and sink")
	}
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		cfg:      cfg,
		store:    st,
		source:   source,
		sink:     snk,
		notifier: notifier,
		reviewer: reviewer,
		logger:   logger.With(slog.String(logging.FieldComponent, "pipeline")),
		lockPath: filepath.Join(cfg.Paths.DataDir, "execlink.lock"),
		now:      time.Now,
	}, nil
}

func policyFromConfig(cfg *config.Config) match.Policy {
	return match.Policy{
		NameWeight:          cfg.Matching.NameWeight,
		AddressWeight:       cfg.Matching.AddressWeight,
		TitleWeight:         cfg.Matching.TitleWeight,
		CompanyWeight:       cfg.Matching.CompanyWeight,
		MinGroupThreshold:   cfg.Matching.MinGroupThreshold,
		AutoAcceptThreshold: cfg.Matching.AutoAcceptThreshold,
		MissingFieldScore:   cfg.Matching.MissingFieldScore,
	}.Normalized()
}

func (p *Pipeline) acquireLock() (*flock.Flock, error) {
	lock := flock.New(p.lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return lock, nil
}

// Run executes a complete pass from ingest to sink.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	lock, err := p.acquireLock()
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	started := p.now()
	summary := &Summary{}

	batch, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	valid, problems := records.ValidateBatch(batch)
	summary.Records = len(valid)
	summary.Dropped = len(problems)
	for _, problem := range problems {
		p.logger.Warn("record dropped", slog.String("record", problem.RecordID), slog.String("reason", problem.Reason))
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("source %s yielded no usable records", p.source.Name())
	}

	run, err := p.store.CreateRun(ctx, len(valid))
	if err != nil {
		return nil, err
	}
	summary.RunID = run.ID
	ctx = logging.WithRunID(ctx, run.ID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run started", slog.String("source", p.source.Name()), slog.Int("records", len(valid)))

	if err := p.notifier.NotifyRunStarted(ctx, p.source.Name(), len(valid)); err != nil {
		logger.Warn("run-started notification failed", slog.Any("error", err))
	}

	clusters := match.Group(policyFromConfig(p.cfg), valid)
	summary.Clusters = len(clusters)
	for _, cluster := range clusters {
		switch cluster.Tier {
		case match.TierAutoAccept:
			summary.AutoAccepted++
		case match.TierNeedsReview:
			summary.NeedsReview++
		default:
			summary.NoGroup++
		}
	}
	logger.Info("grouping complete",
		slog.Int("clusters", len(clusters)),
		slog.Int("auto_accepted", summary.AutoAccepted),
		slog.Int("needs_review", summary.NeedsReview),
		slog.Int("no_group", summary.NoGroup))

	if err := p.store.SaveClusters(ctx, run.ID, clusters); err != nil {
		p.failRun(ctx, run, err)
		return summary, err
	}

	if summary.NeedsReview > 0 {
		artifact := export.BuildArtifact(run.ID, clusters, p.now())
		path, err := export.Write(p.cfg.Paths.ReviewDir, artifact, p.now())
		if err != nil {
			logger.Warn("review artifact not written", slog.Any("error", err))
		} else {
			summary.ArtifactPath = path
			logger.Info("review artifact written", slog.String("path", path))
			if p.cfg.Review.OpenArtifact {
				if err := export.OpenInViewer(ctx, path); err != nil {
					logger.Debug("viewer not opened", slog.Any("error", err))
				}
			}
		}
		if err := p.notifier.NotifyReviewNeeded(ctx, summary.NeedsReview); err != nil {
			logger.Warn("review notification failed", slog.Any("error", err))
		}
	}

	if err := p.reviewAndFinish(ctx, run, clusters, summary, logger); err != nil {
		return summary, err
	}
	summary.Duration = p.now().Sub(started)
	return summary, nil
}

// Resume picks up the review of an earlier run. An empty runID targets the
// most recent run.
func (p *Pipeline) Resume(ctx context.Context, runID string) (*Summary, error) {
	if err := p.cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	lock, err := p.acquireLock()
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Unlock() }()

	started := p.now()

	var run *store.Run
	if runID == "" {
		run, err = p.store.LatestRun(ctx)
	} else {
		run, err = p.store.RunByID(ctx, runID)
	}
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrNoRun
	}
	if run.Status == store.RunStatusCompleted {
		return nil, fmt.Errorf("run %s is already completed", run.ID)
	}

	rows, err := p.store.ClustersByRun(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	clusters := make([]*match.Cluster, 0, len(rows))
	for _, row := range rows {
		cluster, err := row.Cluster()
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, cluster)
	}

	summary := &Summary{RunID: run.ID, Records: run.RecordCount, Clusters: len(clusters)}
	for _, cluster := range clusters {
		if cluster.Tier == match.TierNeedsReview && cluster.Status == match.StatusPending {
			summary.NeedsReview++
		}
	}
	ctx = logging.WithRunID(ctx, run.ID)
	logger := logging.WithContext(ctx, p.logger)
	logger.Info("run resumed", slog.Int("pending", summary.NeedsReview))

	if err := p.reviewAndFinish(ctx, run, clusters, summary, logger); err != nil {
		return summary, err
	}
	summary.Duration = p.now().Sub(started)
	return summary, nil
}

// reviewAndFinish walks the pending clusters, then either completes the run
// by writing canonical output or parks it in awaiting_review when pending
// clusters remain.
func (p *Pipeline) reviewAndFinish(ctx context.Context, run *store.Run, clusters []*match.Cluster, summary *Summary, logger *slog.Logger) error {
	session := review.NewSession(p.reviewer, &storeRecorder{store: p.store, runID: run.ID}, logger)
	outcome, err := session.Run(ctx, clusters)
	summary.Confirmed = len(outcome.Confirmed)
	summary.Rejected = len(outcome.Rejected)
	summary.Unresolved = len(outcome.Unresolved)
	if err != nil {
		p.parkRun(ctx, run, logger)
		return fmt.Errorf("review session: %w", err)
	}

	if summary.Unresolved > 0 {
		p.parkRun(ctx, run, logger)
		logger.Info("run awaiting review", slog.Int("unresolved", summary.Unresolved))
		return nil
	}

	// Rejected clusters dissolve into singletons; they carry no canonical
	// output but stay visible in the summary.
	final := make([]*match.Cluster, 0, len(clusters)+len(outcome.Dissolved))
	final = append(final, clusters...)
	final = append(final, outcome.Dissolved...)

	persons, links := canonical.Build(final, p.now().UTC())
	result, err := p.sink.Upload(ctx, persons, links)
	summary.Upload = result
	if err != nil {
		p.failRun(ctx, run, err)
		if notifyErr := p.notifier.NotifyError(ctx, err, "sink"); notifyErr != nil {
			logger.Warn("error notification failed", slog.Any("error", notifyErr))
		}
		return fmt.Errorf("upload canonical output: %w", err)
	}
	for _, failure := range result.Failures {
		logger.Warn("record not uploaded", slog.String("detail", failure))
	}

	run.Status = store.RunStatusCompleted
	run.ErrorMessage = ""
	if err := p.store.UpdateRun(ctx, run); err != nil {
		return err
	}
	summary.Completed = true
	logger.Info("run completed",
		slog.Int("persons", result.Persons),
		slog.Int("links", result.Links),
		slog.Int("rejected", summary.Rejected))

	if err := p.notifier.NotifyRunCompleted(ctx, result.Persons, summary.Rejected, p.now().Sub(run.CreatedAt)); err != nil {
		logger.Warn("run-completed notification failed", slog.Any("error", err))
	}
	return nil
}

func (p *Pipeline) parkRun(ctx context.Context, run *store.Run, logger *slog.Logger) {
	run.Status = store.RunStatusAwaitingReview
	if err := p.store.UpdateRun(ctx, run); err != nil {
		logger.Warn("run status not updated", slog.Any("error", err))
	}
}

func (p *Pipeline) failRun(ctx context.Context, run *store.Run, cause error) {
	run.Status = store.RunStatusFailed
	run.ErrorMessage = cause.Error()
	if err := p.store.UpdateRun(ctx, run); err != nil {
		p.logger.Warn("run status not updated", slog.Any("error", err))
	}
}

// storeRecorder commits review decisions to the run store as they happen.
type storeRecorder struct {
	store *store.Store
	runID string
}

func (r *storeRecorder) RecordDecision(ctx context.Context, cluster *match.Cluster, decision review.Decision) error {
	switch decision {
	case review.DecisionConfirm:
		return r.store.UpdateClusterStatus(ctx, r.runID, cluster.ID, match.StatusConfirmed)
	case review.DecisionReject:
		return r.store.UpdateClusterStatus(ctx, r.runID, cluster.ID, match.StatusRejected)
	default:
		return nil
	}
}
