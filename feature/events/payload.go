package events

import (
	"encoding/json"
	"strings"

	"freight-relay/feature/events/models"
)

// EventPayload is a single event pushed by SKY. Coordinates arrive as
// numbers or strings.
type EventPayload struct {
	FoID          string          `json:"FoId"`
	Action        string          `json:"Action"`
	Event         string          `json:"Event"`
	StopID        string          `json:"StopId"`
	EventCode     string          `json:"EventCode"`
	EvtReasonCode string          `json:"EvtReasonCode"`
	Description   string          `json:"Description"`
	ETA           string          `json:"ETA"`
	Discrepency   string          `json:"Discrepency"`
	Items         json.RawMessage `json:"Items" swaggertype:"string"`
	Location      string          `json:"Location"`
	Latitude      any             `json:"Latitude" swaggertype:"number"`
	Longitude     any             `json:"Longitude" swaggertype:"number"`
}

// DelayPayload reports a new ETA for a stop.
type DelayPayload struct {
	FoID          string `json:"FoId"`
	StopID        string `json:"StopId"`
	ETA           string `json:"ETA"`
	RefEvent      string `json:"RefEvent"`
	EventCode     string `json:"EventCode"`
	EvtReasonCode string `json:"EvtReasonCode"`
	Description   string `json:"Description"`
	Latitude      any    `json:"Latitude" swaggertype:"number"`
	Longitude     any    `json:"Longitude" swaggertype:"number"`
}

// ProofOfDeliveryPayload confirms delivery at a stop.
type ProofOfDeliveryPayload struct {
	FoID        string          `json:"FoId"`
	StopID      string          `json:"StopId"`
	Discrepency string          `json:"Discrepency"`
	Items       json.RawMessage `json:"Items" swaggertype:"string"`
}

// UnloadingPayload reports unloading at a stop.
type UnloadingPayload struct {
	FoID      string `json:"FoId"`
	StopID    string `json:"StopId"`
	Latitude  any    `json:"Latitude" swaggertype:"number"`
	Longitude any    `json:"Longitude" swaggertype:"number"`
}

// SubmitResult is the stored event plus the TM answer, when forwarded.
type SubmitResult struct {
	Event *models.TrackingEvent `json:"event"`
	TM    json.RawMessage       `json:"tm,omitempty" swaggertype:"object"`
}

// SyncResult is the outcome of pulling one order's TM event feed.
type SyncResult struct {
	FoID       string `json:"fo_id"`
	Fetched    int    `json:"fetched"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
	Rejected   int    `json:"rejected"`
	Failed     int    `json:"failed"`
	// Events is the stored view of the order, read back after the sync.
	Events []models.TrackingEvent `json:"events"`
}

// itemsText flattens an Items value to text. A JSON string is unquoted;
// anything else is kept as its JSON encoding.
func itemsText(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	return s
}
