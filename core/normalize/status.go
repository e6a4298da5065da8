package normalize

// Status is the derived shipment status of a freight order.
type Status string

const (
	StatusPlanned   Status = "Planned"
	StatusInTransit Status = "In Transit"
	StatusDelivered Status = "Delivered"
)

const (
	// LastStopMarker is the stop sequence position TM gives the final stop.
	LastStopMarker = "L"
	// EventArrival is TM's arrival event type.
	EventArrival = "ARRIVAL"
)

// DeriveStatus maps a stop history to a status using only its last entry.
func DeriveStatus(events []StopEvent) Status {
	last, ok := LastStopEvent(events)
	if !ok {
		return StatusPlanned
	}
	if last.StopSeqPos == LastStopMarker && last.Event == EventArrival {
		return StatusDelivered
	}
	return StatusInTransit
}
