package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	tests := []struct {
		name   string
		events []StopEvent
		want   Status
	}{
		{"NoEvents", nil, StatusPlanned},
		{"EmptyList", []StopEvent{}, StatusPlanned},
		{"LastStopArrival", []StopEvent{{StopSeqPos: "F", Event: "DEPARTURE"}, {StopSeqPos: "L", Event: "ARRIVAL"}}, StatusDelivered},
		{"FirstStopDeparture", []StopEvent{{StopSeqPos: "1", Event: "DEPARTURE"}}, StatusInTransit},
		{"LastStopDeparture", []StopEvent{{StopSeqPos: "L", Event: "DEPARTURE"}}, StatusInTransit},
		{"ArrivalNotLastStop", []StopEvent{{StopSeqPos: "2", Event: "ARRIVAL"}}, StatusInTransit},
		{"OnlyLastEntryCounts", []StopEvent{{StopSeqPos: "L", Event: "ARRIVAL"}, {StopSeqPos: "2", Event: "DELAY"}}, StatusInTransit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.events))
		})
	}
}

func TestDeriveStatus_FromEventLog(t *testing.T) {
	assert.Equal(t, StatusDelivered, DeriveStatus(ParseEmbeddedEventLog(`[{"stopseqpos":"L","event":"ARRIVAL"}]`)))
	assert.Equal(t, StatusInTransit, DeriveStatus(ParseEmbeddedEventLog(`[{"stopseqpos":"1","event":"DEPARTURE"}]`)))
	assert.Equal(t, StatusPlanned, DeriveStatus(ParseEmbeddedEventLog(`[]`)))
}
