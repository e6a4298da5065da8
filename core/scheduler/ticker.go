package scheduler

import (
	"context"
	"fmt"
	"time"

	"freight-relay/core/reconcile"

	"go.uber.org/zap"
)

// PassRunner runs one sync pass. *reconcile.Engine implements it.
type PassRunner interface {
	RunSyncPass(ctx context.Context) (*reconcile.PassResult, error)
}

// Ticker runs sync passes in process on a fixed interval.
type Ticker struct {
	runner     PassRunner
	interval   time.Duration
	runOnStart bool
	logger     *zap.Logger
}

// NewTicker creates an in-process scheduler.
func NewTicker(runner PassRunner, cfg Config, logger *zap.Logger) *Ticker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ticker{
		runner:     runner,
		interval:   cfg.Every(),
		runOnStart: cfg.RunOnStart,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled. A pass that fails or panics is logged
// and the next tick proceeds as usual.
func (t *Ticker) Run(ctx context.Context) {
	t.logger.Info("Sync scheduler started", zap.Duration("interval", t.interval))
	defer t.logger.Info("Sync scheduler stopped")

	if t.runOnStart {
		t.runOnce(ctx)
	}

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.runOnce(ctx)
		}
	}
}

func (t *Ticker) runOnce(ctx context.Context) {
	if err := runPass(ctx, t.runner, t.logger); err != nil {
		t.logger.Error("TM sync failed", zap.Error(err))
	}
}

// runPass runs one pass and turns a panic into an error.
func runPass(ctx context.Context, runner PassRunner, logger *zap.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync pass panicked: %v", r)
		}
	}()

	result, err := runner.RunSyncPass(ctx)
	if err != nil {
		return err
	}
	logger.Info("TM sync completed",
		zap.String("pass_id", result.ID),
		zap.Int("processed", result.Processed),
		zap.Int("failures", len(result.Failures)),
		zap.Bool("shared", result.Shared),
	)
	return nil
}
