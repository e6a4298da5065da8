package reconcile

import (
	"time"

	"freight-relay/core/normalize"

	"github.com/shopspring/decimal"
)

// Stage names one half of a sync pass.
type Stage string

const (
	// StageMaster upserts freight order master data.
	StageMaster Stage = "master"
	// StageEnrichment applies update-only cargo and planning data.
	StageEnrichment Stage = "enrichment"
)

// UnknownStop is stored as the current stop of an order without stop history.
const UnknownStop = "UNKNOWN"

// MasterRecord is the store-ready form of a TM freight order snapshot.
type MasterRecord struct {
	// FoID is the normalized identifier.
	FoID string
	// Current is the last entry of the stop history, or a zero event with
	// StopID UnknownStop when the history is empty.
	Current       normalize.StopEvent
	Status        normalize.Status
	LicenseNumber string
}

// Enrichment is the store-ready form of a TM enrichment snapshot.
type Enrichment struct {
	// FoID is the normalized identifier.
	FoID               string
	CargoQuantity      decimal.NullDecimal
	CargoQuantityUom   string
	CargoVolume        decimal.NullDecimal
	CargoVolumeUom     string
	CargoWeight        decimal.NullDecimal
	CargoWeightUom     string
	ExecutionStatus    string
	PlannedArrivalAt   *time.Time
	PlannedDepartureAt *time.Time
}

// RecordFailure describes one record a pass could not merge.
type RecordFailure struct {
	FoID  string `json:"fo_id"`
	Stage Stage  `json:"stage"`
	Error string `json:"error"`
}

// PassResult summarizes one sync pass.
type PassResult struct {
	// ID identifies the pass in logs and in the archived report.
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Fetched is the number of master snapshots TM returned.
	Fetched int `json:"fetched"`
	// Processed is the number of master records merged successfully.
	Processed int `json:"processed"`

	// EnrichmentFetched is the number of enrichment snapshots TM returned.
	EnrichmentFetched int `json:"enrichment_fetched"`
	// Enriched is the number of existing orders the enrichment stage updated.
	Enriched int `json:"enriched"`
	// Skipped counts enrichment snapshots without a matching order.
	Skipped int `json:"skipped"`
	// EnrichmentError is set when the enrichment feed could not be fetched.
	EnrichmentError string `json:"enrichment_error,omitempty"`

	Failures []RecordFailure `json:"failures"`

	// Shared is true when the caller joined a pass started by someone else.
	Shared bool `json:"-"`
}

// Duration returns how long the pass took.
func (r *PassResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *PassResult) fail(stage Stage, foID string, err error) {
	r.Failures = append(r.Failures, RecordFailure{FoID: foID, Stage: stage, Error: err.Error()})
}
