package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"catalog-mirror/core/reconcile"
	"catalog-mirror/core/remote"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSyncInProgress is returned when a run is requested while another one is active.
var ErrSyncInProgress = errors.New("a catalog sync is already running")

// ErrUnauthorized is returned when the remote API rejects the configured credentials.
var ErrUnauthorized = errors.New("remote API credentials rejected")

// Options configures a Syncer.
type Options struct {
	// ArtistIDs is the configured list of artists whose offers are mirrored.
	ArtistIDs []int64
	// CredentialsSet is false when the remote username or key is missing.
	CredentialsSet bool
	// GlobalSweep selects the single end-of-run stray sweep instead of per-artist sweeps.
	GlobalSweep bool
}

// RunOptions configures one orchestrated run.
type RunOptions struct {
	// ArtistIDs overrides the configured artists for the item sync.
	ArtistIDs []int64
	// Observer receives page progress events.
	Observer reconcile.Observer
}

// Syncer mirrors the remote catalog into the local database.
// At most one orchestrated run executes at a time per Syncer.
type Syncer struct {
	db     *gorm.DB
	client remote.Client
	logger *zap.Logger
	opts   Options

	mu      sync.Mutex
	running atomic.Bool
	hooks   []func(reconcile.Scope)
	flusher Flusher
}

// Flusher persists data gathered during a run, such as storage snapshots.
// Discard is called before a run starts; Flush only after a successful one.
type Flusher interface {
	Flush(ctx context.Context) error
	Discard()
}

// New creates a Syncer.
func New(db *gorm.DB, client remote.Client, logger *zap.Logger, opts Options) *Syncer {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Syncer{db: db, client: client, logger: logger, opts: opts}
	if f, ok := client.(Flusher); ok {
		s.flusher = f
	}
	return s
}

// OnComplete registers a hook called after every run that changed the mirror.
func (s *Syncer) OnComplete(hook func(reconcile.Scope)) {
	s.hooks = append(s.hooks, hook)
}

// Running reports whether a run is in progress.
func (s *Syncer) Running() bool {
	return s.running.Load()
}

// Run executes the requested scope. ScopeAll runs artists, then items, then orders.
// The run is skipped without error when credentials are missing, skipped with ErrUnauthorized
// when the remote API rejects them, and skipped with the probe error on any other failure.
func (s *Syncer) Run(ctx context.Context, scope reconcile.Scope, opts RunOptions) (*reconcile.Report, error) {
	if !s.mu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer s.mu.Unlock()
	s.running.Store(true)
	defer s.running.Store(false)

	run := reconcile.NewRun(opts.Observer)
	report := &reconcile.Report{RunID: run.ID}
	log := s.logger.With(zap.String("run_id", run.ID), zap.String("scope", string(scope)))
	defer func() { report.Duration = time.Since(run.StartedAt) }()

	if !s.opts.CredentialsSet {
		report.Skipped = true
		report.Reason = "remote API credentials are not configured"
		log.Warn("Catalog sync skipped", zap.String("reason", report.Reason))
		return report, nil
	}

	if err := s.client.CheckAuth(ctx); err != nil {
		report.Skipped = true
		if remote.IsUnauthorized(err) {
			report.Reason = "remote API rejected the configured credentials"
			log.Error("Catalog sync skipped, credentials rejected", zap.Error(err))
			return report, fmt.Errorf("%w: %w", ErrUnauthorized, err)
		}
		report.Reason = err.Error()
		log.Error("Catalog sync skipped, authorization probe failed", zap.Error(err))
		return report, fmt.Errorf("authorization probe failed: %w", err)
	}

	if s.flusher != nil {
		s.flusher.Discard()
	}

	var steps []reconcile.Scope
	if scope == reconcile.ScopeAll {
		steps = []reconcile.Scope{reconcile.ScopeArtists, reconcile.ScopeItems, reconcile.ScopeOrders}
	} else {
		steps = []reconcile.Scope{scope}
	}

	log.Info("Catalog sync started")
	for _, step := range steps {
		var (
			res reconcile.Result
			err error
		)
		switch step {
		case reconcile.ScopeArtists:
			res, err = s.SyncArtists(ctx, run)
		case reconcile.ScopeItems:
			res, err = s.SyncItems(ctx, run, opts.ArtistIDs)
		case reconcile.ScopeOrders:
			res, err = s.SyncOrders(ctx, run)
		default:
			return report, fmt.Errorf("unknown sync scope %q", step)
		}
		report.Results = append(report.Results, res)
		s.notifyHooks(step)

		if err != nil {
			log.Error("Catalog sync aborted", zap.String("step", string(step)), zap.Error(err))
			return report, err
		}

		if err := PutSetting(ctx, s.db, lastSyncKey(step), run.Watermark.Format(time.RFC3339)); err != nil {
			return report, err
		}
	}

	if scope == reconcile.ScopeAll {
		if err := PutSetting(ctx, s.db, SettingLastFullSync, run.Watermark.Format(time.RFC3339)); err != nil {
			return report, err
		}
	}

	if s.flusher != nil {
		if err := s.flusher.Flush(ctx); err != nil {
			log.Warn("Failed to write catalog snapshot", zap.Error(err))
		}
	}

	log.Info("Catalog sync finished", zap.Duration("duration", time.Since(run.StartedAt)))
	return report, nil
}

func (s *Syncer) notifyHooks(scope reconcile.Scope) {
	for _, hook := range s.hooks {
		hook(scope)
	}
}

// pageLoop fetches pages 1..totalPages, where totalPages comes from the first response.
func pageLoop(ctx context.Context, fetch func(page int) (total int, err error)) (int, error) {
	total := 1
	pages := 0
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return pages, err
		}
		t, err := fetch(page)
		if err != nil {
			return pages, err
		}
		pages++
		if page == 1 {
			total = t
		}
	}
	return pages, nil
}
