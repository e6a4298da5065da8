package normalize

import (
	"encoding/json"
	"strings"

	"freight-relay/core/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EmptyEventLog is the literal TM sends when an order has no stop history.
const EmptyEventLog = "[]"

// StopEvent is one entry of the stop history embedded in a freight order master record.
type StopEvent struct {
	StopID       string
	StopSeqPos   string
	Event        string
	LocationType string
	LocID        string
	LocationName string
	Street       string
	PostalCode   string
	City         string
	Region       string
	Country      string
	Latitude     decimal.NullDecimal
	Longitude    decimal.NullDecimal
}

// rawStopEvent mirrors TM's field names. Coordinates arrive as numbers or strings.
type rawStopEvent struct {
	StopID       any `json:"stopid"`
	StopSeqPos   any `json:"stopseqpos"`
	Event        any `json:"event"`
	LocationType any `json:"typeLoc"`
	LocID        any `json:"locid"`
	Name         any `json:"name1"`
	Street       any `json:"street"`
	PostalCode   any `json:"postCode1"`
	City         any `json:"city1"`
	Region       any `json:"region"`
	Country      any `json:"country"`
	Latitude     any `json:"latitude"`
	Longitude    any `json:"longitude"`
}

// ParseEmbeddedEventLog decodes the serialized stop history of a master record.
// It never fails: undecodable input is logged and yields an empty list.
func ParseEmbeddedEventLog(raw string) []StopEvent {
	s := strings.TrimSpace(raw)
	if s == "" || s == EmptyEventLog {
		return []StopEvent{}
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var items []rawStopEvent
	if err := dec.Decode(&items); err != nil {
		zap.L().Warn("Ignoring malformed embedded event log", zap.Error(err), zap.Int("length", len(s)))
		return []StopEvent{}
	}

	events := make([]StopEvent, 0, len(items))
	for _, it := range items {
		events = append(events, StopEvent{
			StopID:       utils.ToString(it.StopID),
			StopSeqPos:   utils.ToString(it.StopSeqPos),
			Event:        utils.ToString(it.Event),
			LocationType: utils.ToString(it.LocationType),
			LocID:        utils.ToString(it.LocID),
			LocationName: utils.ToString(it.Name),
			Street:       utils.ToString(it.Street),
			PostalCode:   utils.ToString(it.PostalCode),
			City:         utils.ToString(it.City),
			Region:       utils.ToString(it.Region),
			Country:      utils.ToString(it.Country),
			Latitude:     utils.ToDecimal(it.Latitude),
			Longitude:    utils.ToDecimal(it.Longitude),
		})
	}
	return events
}

// LastStopEvent returns the most recent entry of the log, if any.
func LastStopEvent(events []StopEvent) (StopEvent, bool) {
	if len(events) == 0 {
		return StopEvent{}, false
	}
	return events[len(events)-1], true
}
