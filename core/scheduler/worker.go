package scheduler

import (
	"context"
	"fmt"

	"freight-relay/core/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker runs the sync pass and on-demand tasks through asynq.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	redis     asynq.RedisClientOpt
	cfg       Config
	queue     string
	logger    *zap.Logger
}

// NewWorker creates an asynq worker and periodic scheduler.
func NewWorker(qcfg queue.Config, cfg Config, logger *zap.Logger) *Worker {
	if logger == nil {
		logger = zap.NewNop()
	}
	opt := queue.RedisOpt(qcfg)
	scfg := queue.ServerConfig(qcfg)
	scfg.Logger = logger.Sugar()

	w := &Worker{
		server:    asynq.NewServer(opt, scfg),
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{Logger: logger.Sugar()}),
		mux:       asynq.NewServeMux(),
		redis:     opt,
		cfg:       cfg,
		queue:     queue.QueueName(qcfg),
		logger:    logger,
	}
	w.mux.Use(Recover(logger))
	return w
}

// Handle registers a task handler.
func (w *Worker) Handle(taskType string, h asynq.HandlerFunc) {
	w.mux.HandleFunc(taskType, h)
}

// HandleSyncPass registers the sync pass task.
func (w *Worker) HandleSyncPass(runner PassRunner) {
	w.Handle(queue.TaskSyncPass, SyncPassHandler(runner, w.logger))
}

// Start starts processing and registers the periodic sync pass.
func (w *Worker) Start() error {
	spec := "disabled"
	if w.cfg.Enabled {
		spec = fmt.Sprintf("@every %s", w.cfg.Every())
		if _, err := w.scheduler.Register(spec, queue.NewSyncPassTask(), asynq.Queue(w.queue), asynq.MaxRetry(0)); err != nil {
			return fmt.Errorf("register periodic sync pass: %w", err)
		}
	}
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("start queue worker: %w", err)
	}
	if err := w.scheduler.Start(); err != nil {
		w.server.Shutdown()
		return fmt.Errorf("start queue scheduler: %w", err)
	}
	if w.cfg.Enabled && w.cfg.RunOnStart {
		client := asynq.NewClient(w.redis)
		defer client.Close()
		if _, err := client.Enqueue(queue.NewSyncPassTask(), asynq.Queue(w.queue), asynq.MaxRetry(0)); err != nil {
			w.logger.Warn("Failed to enqueue initial sync pass", zap.Error(err))
		}
	}
	w.logger.Info("Queue worker started", zap.String("queue", w.queue), zap.String("sync_spec", spec))
	return nil
}

// Shutdown stops the scheduler and waits for running tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

// SyncPassHandler adapts a PassRunner to an asynq handler.
func SyncPassHandler(runner PassRunner, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, _ *asynq.Task) error {
		if err := runPass(ctx, runner, logger); err != nil {
			logger.Error("TM sync failed", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return nil
	}
}

// Recover turns handler panics into task failures.
func Recover(logger *zap.Logger) asynq.MiddlewareFunc {
	return func(next asynq.Handler) asynq.Handler {
		return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) (err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Task panicked", zap.String("type", t.Type()), zap.Any("panic", r))
					err = fmt.Errorf("%w: task %s panicked: %v", asynq.SkipRetry, t.Type(), r)
				}
			}()
			return next.ProcessTask(ctx, t)
		})
	}
}
