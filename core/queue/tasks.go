package queue

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// TaskSyncPass runs one reconciliation pass.
	TaskSyncPass = "freight:sync_pass"
	// TaskSyncOrderEvents pulls the TM event feed of one order into the store.
	TaskSyncOrderEvents = "freight:sync_order_events"
)

// SyncOrderEventsPayload is the payload of TaskSyncOrderEvents.
type SyncOrderEventsPayload struct {
	FoID string `json:"fo_id"`
}

// NewSyncPassTask creates a sync pass task.
func NewSyncPassTask() *asynq.Task {
	return asynq.NewTask(TaskSyncPass, nil)
}

// NewSyncOrderEventsTask creates an event sync task for one order.
func NewSyncOrderEventsTask(payload SyncOrderEventsPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSyncOrderEvents, body), nil
}

// ParseSyncOrderEventsPayload decodes the payload of an event sync task.
func ParseSyncOrderEventsPayload(task *asynq.Task) (SyncOrderEventsPayload, error) {
	var payload SyncOrderEventsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("decode %s payload: %w", task.Type(), err)
	}
	return payload, nil
}
