package tm

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// FreightOrder is one row of SearchFOSet.
type FreightOrder struct {
	FoID          string `json:"FoId"`
	FinalInfo     string `json:"FinalInfo"`
	LicenseNumber string `json:"LicenseNumber"`
}

// Enrichment is one row of SkyPlusFieldsSet. Cargo metrics arrive as numbers
// or decimal strings depending on the TM release.
type Enrichment struct {
	FoID               string `json:"FoId"`
	CargoQuantity      any    `json:"CargoQuantity"`
	CargoQuantityUom   string `json:"CargoQuantityUom"`
	CargoVolume        any    `json:"CargoVolume"`
	CargoVolumeUom     string `json:"CargoVolumeUom"`
	CargoWeight        any    `json:"CargoWeight"`
	CargoWeightUom     string `json:"CargoWeightUom"`
	ExecutionStatus    string `json:"ExecutionStatus"`
	PlannedArrivalAt   string `json:"PlannedArrivalAt"`
	PlannedDepartureAt string `json:"PlannedDepartureAt"`
}

// ReportedEvent is one row of EventsReportingSet.
type ReportedEvent struct {
	FoID          string          `json:"FoId"`
	StopID        string          `json:"StopId"`
	Event         string          `json:"Event"`
	Action        string          `json:"Action"`
	EventCode     string          `json:"EventCode"`
	EvtReasonCode string          `json:"EvtReasonCode"`
	Description   string          `json:"Description"`
	ETA           string          `json:"ETA"`
	Discrepency   string          `json:"Discrepency"`
	Items         json.RawMessage `json:"Items"`
	Timestamp     string          `json:"Timestamp"`
	PlannedTime   string          `json:"PlannedTime"`
	Latitude      any             `json:"Latitude"`
	Longitude     any             `json:"Longitude"`
	Location      string          `json:"Location"`
}

// EventSubmission is posted to EventsReportingSet.
type EventSubmission struct {
	FoID      string              `json:"FoId"`
	Action    string              `json:"Action"`
	StopID    string              `json:"StopId"`
	Latitude  decimal.NullDecimal `json:"Latitude"`
	Longitude decimal.NullDecimal `json:"Longitude"`
}

// DelaySubmission is posted to DelaySet. ETA keeps the fixed 14 digit format.
type DelaySubmission struct {
	FoID          string `json:"FoId"`
	StopID        string `json:"StopId"`
	ETA           string `json:"ETA"`
	RefEvent      string `json:"RefEvent"`
	EventCode     string `json:"EventCode"`
	EvtReasonCode string `json:"EvtReasonCode"`
	Description   string `json:"Description"`
}

// ProofOfDeliverySubmission is posted to ProofOfDeliverySet.
type ProofOfDeliverySubmission struct {
	FoID        string `json:"FoId"`
	StopID      string `json:"StopId"`
	Discrepency string `json:"Discrepency"`
	Items       string `json:"Items"`
}

// UnloadingSubmission is posted to UnloadingSet.
type UnloadingSubmission struct {
	FoID      string              `json:"FoId"`
	StopID    string              `json:"StopId"`
	Latitude  decimal.NullDecimal `json:"Latitude"`
	Longitude decimal.NullDecimal `json:"Longitude"`
}
