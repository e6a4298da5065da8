package reconcile

import (
	"freight-relay/core/normalize"
	"freight-relay/core/tm"
	"freight-relay/core/utils"
)

const (
	coordinateScale = 10
	cargoScale      = 3
)

// ToMasterRecord folds a TM snapshot into the record the store keeps.
func ToMasterRecord(fo tm.FreightOrder) MasterRecord {
	events := normalize.ParseEmbeddedEventLog(fo.FinalInfo)

	current, ok := normalize.LastStopEvent(events)
	if !ok || current.StopID == "" {
		current.StopID = UnknownStop
	}
	current.Latitude = utils.RoundDecimal(current.Latitude, coordinateScale)
	current.Longitude = utils.RoundDecimal(current.Longitude, coordinateScale)

	return MasterRecord{
		FoID:          normalize.NormalizeOrderIdentifier(fo.FoID),
		Current:       current,
		Status:        normalize.DeriveStatus(events),
		LicenseNumber: fo.LicenseNumber,
	}
}

// ToEnrichment converts a TM enrichment row. Unparseable numbers and
// timestamps become NULL.
func ToEnrichment(e tm.Enrichment) Enrichment {
	return Enrichment{
		FoID:               normalize.NormalizeOrderIdentifier(e.FoID),
		CargoQuantity:      utils.RoundDecimal(utils.ToDecimal(e.CargoQuantity), cargoScale),
		CargoQuantityUom:   e.CargoQuantityUom,
		CargoVolume:        utils.RoundDecimal(utils.ToDecimal(e.CargoVolume), cargoScale),
		CargoVolumeUom:     e.CargoVolumeUom,
		CargoWeight:        utils.RoundDecimal(utils.ToDecimal(e.CargoWeight), cargoScale),
		CargoWeightUom:     e.CargoWeightUom,
		ExecutionStatus:    e.ExecutionStatus,
		PlannedArrivalAt:   normalize.ParseFixedTimestamp(e.PlannedArrivalAt),
		PlannedDepartureAt: normalize.ParseFixedTimestamp(e.PlannedDepartureAt),
	}
}
