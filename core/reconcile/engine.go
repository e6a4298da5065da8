package reconcile

import (
	"context"
	"errors"
	"time"

	"freight-relay/core/apperr"
	"freight-relay/core/metrics"
	"freight-relay/core/normalize"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const passKey = "sync-pass"

// Engine runs sync passes from TM into the store.
type Engine struct {
	source   Source
	gateway  Gateway
	archiver Archiver
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string

	sf singleflight.Group
}

// Option customizes an Engine.
type Option func(*Engine)

// WithArchiver stores every pass report through a.
func WithArchiver(a Archiver) Option {
	return func(e *Engine) { e.archiver = a }
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an engine over the given source and gateway.
func NewEngine(source Source, gateway Gateway, opts ...Option) *Engine {
	e := &Engine{
		source:  source,
		gateway: gateway,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// RunSyncPass pulls master and enrichment data from TM and merges it into the store.
//
// At most one pass runs at a time; a caller arriving while a pass is in flight
// waits for it and receives its result with Shared set. Record-level failures
// are collected on the result. Only a failure to fetch the master feed fails
// the pass itself. A pass is shared, so it keeps running when the caller that
// started it goes away; request timeouts are bounded by the TM client timeout.
func (e *Engine) RunSyncPass(ctx context.Context) (*PassResult, error) {
	passCtx := context.WithoutCancel(ctx)
	v, err, shared := e.sf.Do(passKey, func() (any, error) {
		return e.runPass(passCtx)
	})
	if err != nil {
		return nil, err
	}
	res := *v.(*PassResult)
	res.Shared = shared
	return &res, nil
}

func (e *Engine) runPass(ctx context.Context) (*PassResult, error) {
	result := &PassResult{
		ID:        e.newID(),
		StartedAt: e.now().UTC(),
		Failures:  []RecordFailure{},
	}
	log := e.logger.With(zap.String("pass_id", result.ID))
	log.Info("Sync pass started")

	if err := e.syncMaster(ctx, result, log); err != nil {
		result.FinishedAt = e.now().UTC()
		metrics.SyncPassesTotal.WithLabelValues("failed").Inc()
		metrics.SyncPassDuration.Observe(result.Duration().Seconds())
		log.Error("Sync pass failed", zap.Error(err))
		return nil, err
	}
	e.syncEnrichment(ctx, result, log)

	result.FinishedAt = e.now().UTC()
	metrics.SyncPassesTotal.WithLabelValues("success").Inc()
	metrics.SyncPassDuration.Observe(result.Duration().Seconds())

	log.Info("Sync pass completed",
		zap.Int("fetched", result.Fetched),
		zap.Int("processed", result.Processed),
		zap.Int("enriched", result.Enriched),
		zap.Int("skipped", result.Skipped),
		zap.Int("failures", len(result.Failures)),
		zap.Duration("duration", result.Duration()),
	)

	if e.archiver != nil {
		if err := e.archiver.Archive(ctx, result); err != nil {
			log.Warn("Failed to archive sync pass report", zap.Error(err))
		}
	}
	return result, nil
}

// syncMaster is stage 1: upsert every master snapshot.
func (e *Engine) syncMaster(ctx context.Context, result *PassResult, log *zap.Logger) error {
	orders, err := e.source.FetchFreightOrders(ctx)
	if err != nil {
		return asUpstream("TM fetch freight orders", err)
	}
	result.Fetched = len(orders)
	log.Info("TM freight orders fetched", zap.Int("count", len(orders)))

	syncedAt := e.now().UTC()
	for _, fo := range orders {
		rec := ToMasterRecord(fo)
		if rec.FoID == "" {
			e.recordFailure(result, log, StageMaster, fo.FoID, apperr.Validation("FoId", "empty identifier"))
			continue
		}
		if err := e.gateway.Upsert(ctx, rec, syncedAt); err != nil {
			e.recordFailure(result, log, StageMaster, rec.FoID, err)
			continue
		}
		result.Processed++
		metrics.SyncRecordsTotal.WithLabelValues(string(StageMaster), "ok").Inc()
		log.Debug("Freight order synced",
			zap.String("fo_id", rec.FoID),
			zap.String("status", string(rec.Status)),
		)
	}
	return nil
}

// syncEnrichment is stage 2: update-only merge of enrichment snapshots.
// Its failures never undo stage 1.
func (e *Engine) syncEnrichment(ctx context.Context, result *PassResult, log *zap.Logger) {
	rows, err := e.source.FetchEnrichments(ctx)
	if err != nil {
		result.EnrichmentError = err.Error()
		log.Warn("Enrichment feed unavailable, master data kept", zap.Error(err))
		return
	}
	result.EnrichmentFetched = len(rows)

	syncedAt := e.now().UTC()
	for _, row := range rows {
		enr := ToEnrichment(row)
		if enr.FoID == "" {
			e.recordFailure(result, log, StageEnrichment, row.FoID, apperr.Validation("FoId", "empty identifier"))
			continue
		}
		updated, err := e.gateway.ApplyEnrichment(ctx, enr, syncedAt)
		if err != nil {
			e.recordFailure(result, log, StageEnrichment, enr.FoID, err)
			continue
		}
		if !updated {
			result.Skipped++
			metrics.SyncRecordsTotal.WithLabelValues(string(StageEnrichment), "skipped").Inc()
			log.Debug("No freight order for enrichment, skipped", zap.String("fo_id", enr.FoID))
			continue
		}
		result.Enriched++
		metrics.SyncRecordsTotal.WithLabelValues(string(StageEnrichment), "ok").Inc()
	}
}

func (e *Engine) recordFailure(result *PassResult, log *zap.Logger, stage Stage, foID string, err error) {
	result.fail(stage, foID, err)
	metrics.SyncRecordsTotal.WithLabelValues(string(stage), "failed").Inc()
	log.Error("Sync record failed",
		zap.String("stage", string(stage)),
		zap.String("fo_id", foID),
		zap.Error(err),
	)
}

// EnrichOrder refreshes the enrichment of a single order. It reports false
// when TM has no enrichment row or the order is not in the store.
func (e *Engine) EnrichOrder(ctx context.Context, foID string) (bool, error) {
	normalized := normalize.NormalizeOrderIdentifier(foID)
	if normalized == "" {
		return false, apperr.MissingFields("FoId")
	}

	row, err := e.source.FetchEnrichment(ctx, normalize.PadOrderIdentifier(normalized))
	if err != nil {
		return false, asUpstream("TM fetch enrichment", err)
	}
	if row == nil {
		e.logger.Info("No enrichment data in TM", zap.String("fo_id", normalized))
		return false, nil
	}

	enr := ToEnrichment(*row)
	enr.FoID = normalized
	updated, err := e.gateway.ApplyEnrichment(ctx, enr, e.now().UTC())
	if err != nil {
		return false, err
	}
	if !updated {
		e.logger.Info("No freight order for enrichment, skipped", zap.String("fo_id", normalized))
	}
	return updated, nil
}

func asUpstream(op string, err error) error {
	var upstream *apperr.UpstreamError
	if errors.As(err, &upstream) {
		return err
	}
	return &apperr.UpstreamError{Op: op, Err: err}
}
