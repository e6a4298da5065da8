package reconcile

import (
	"context"
	"time"

	"freight-relay/core/normalize"
	"freight-relay/core/tm"
)

// Source is the TM side of a sync pass. *tm.Client implements it.
type Source interface {
	FetchFreightOrders(ctx context.Context) ([]tm.FreightOrder, error)
	FetchEnrichments(ctx context.Context) ([]tm.Enrichment, error)
	FetchEnrichment(ctx context.Context, foID normalize.PaddedID) (*tm.Enrichment, error)
}

// Gateway is the store side of a sync pass.
type Gateway interface {
	// Upsert inserts or updates the master columns of one order in a single
	// atomic statement and stamps LastUpdated with syncedAt.
	Upsert(ctx context.Context, rec MasterRecord, syncedAt time.Time) error

	// ApplyEnrichment updates an existing order. It never inserts and reports
	// false when no order matches.
	ApplyEnrichment(ctx context.Context, e Enrichment, syncedAt time.Time) (bool, error)
}

// Archiver stores the report of a finished pass.
type Archiver interface {
	Archive(ctx context.Context, result *PassResult) error
}
