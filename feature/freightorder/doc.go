// Package freightorder stores reconciled freight orders and serves them over HTTP.
//
// The Gateway implements reconcile.Gateway on top of gorm. Master upserts
// are a single INSERT ... ON CONFLICT statement that rewrites only the
// master columns, so enrichment data written earlier survives. Enrichment
// is update-only: an enrichment for an unknown order changes nothing.
//
// # HTTP Endpoints
//
//   - GET /freight-orders/:foId : Reads one stored order.
//   - POST /freight-orders/sync : Runs a sync pass, or joins the running one.
//   - POST /freight-orders/:foId/enrich : Refreshes the enrichment of one order.
package freightorder
