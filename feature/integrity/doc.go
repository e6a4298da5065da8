// Package integrity checks that the relay's infrastructure matches what the code expects.
//
// # Checks Provided
//
//   - Schema: every mapped column of freight_orders and tracking_events exists with a compatible type.
//   - Storage: the pass report bucket exists when archiving is enabled.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check.
//   - GET /integrity/storage : Runs the storage check (supports ?fix=true).
package integrity
