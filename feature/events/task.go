package events

import (
	"context"
	"errors"
	"fmt"

	"freight-relay/core/apperr"
	"freight-relay/core/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// SyncTaskHandler handles queue.TaskSyncOrderEvents. Transient TM failures
// are returned for asynq to retry; everything else is logged and dropped.
func (i *Intake) SyncTaskHandler() asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		payload, err := queue.ParseSyncOrderEventsPayload(t)
		if err != nil {
			i.logger.Error("Invalid event sync task", zap.Error(err))
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}

		res, err := i.SyncEventsForOrder(ctx, payload.FoID)
		if err != nil {
			var upstream *apperr.UpstreamError
			retry := errors.As(err, &upstream) && upstream.Retryable()
			i.logger.Error("Event sync task failed",
				zap.String("fo_id", payload.FoID),
				zap.Bool("retry", retry),
				zap.Error(err))
			if retry {
				return err
			}
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		i.logger.Debug("Event sync task completed", zap.String("fo_id", res.FoID), zap.Int("stored", len(res.Events)))
		return nil
	}
}
