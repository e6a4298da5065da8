// Package events records tracking events for freight orders.
//
// Two paths write events. SKY pushes single events, delays, proofs of
// delivery and unloading reports; each push appends one row and, unless
// tm.forward_events is off, is forwarded to TM. The TM event feed of an
// order is pulled on demand; those rows are deduplicated on
// (fo_id, stop_id, event, actual_reported_time) by a conditional insert,
// so pulling the same feed twice stores each event once.
//
// A delay is forwarded before it is recorded, so a delay TM refuses is not
// stored. Every other submission is recorded first and stays recorded when
// forwarding fails.
//
// # HTTP Endpoints
//
//   - POST /event, /delay, /pod, /unloading : SKY submissions.
//   - GET /events?foId= : Pulls the TM feed and returns the stored view.
//   - GET /events/stored?foId= : Returns the stored view only.
//   - POST /events/sync/:foId : Queues a feed pull, or runs it inline without a queue.
package events
