// Package queue defines the asynq tasks of the relay and a thin client to enqueue them.
//
// Two task types exist. freight:sync_pass is registered as a periodic task by the
// scheduler and runs one reconciliation pass. freight:sync_order_events is
// enqueued on demand and pulls the TM event feed of one order.
package queue
