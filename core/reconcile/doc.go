// Package reconcile keeps the store in step with TM.
//
// A sync pass runs in two stages keyed independently:
//
//  1. Master data. Every SearchFOSet snapshot is normalized (identifier,
//     embedded stop history, derived status) and upserted by its normalized
//     identifier. An order can appear here before TM has enrichment data for it.
//
//  2. Enrichment. SkyPlusFieldsSet rows are applied update-only. A row whose
//     order is not in the store is skipped, never inserted, so enrichment data
//     alone cannot fabricate an incomplete order.
//
// A failing record is logged with its identifier, collected on the PassResult
// and never aborts the pass. Nothing is retried within a pass; the next
// scheduled pass re-processes the same idempotent records.
//
// Passes never overlap. The Engine guards RunSyncPass with a singleflight group,
// so a caller that arrives during a pass waits for it and shares its result.
//
// # Usage
//
//	engine := reconcile.NewEngine(tmClient, freightorder.NewGateway(db),
//	    reconcile.WithLogger(logger),
//	    reconcile.WithArchiver(reconcile.NewStorageArchiver(storageClient, bucket)),
//	)
//	result, err := engine.RunSyncPass(ctx)
package reconcile
