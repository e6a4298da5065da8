// Package scheduler triggers sync passes on a fixed cadence.
//
// Ticker runs passes inside the HTTP process. Worker hands them to asynq
// instead: the pass becomes the periodic freight:sync_pass task and the same
// worker serves on-demand tasks such as freight:sync_order_events. Only one
// of the two is started, depending on queue.enabled.
//
// A failing or panicking pass is logged and never takes the process down.
package scheduler
