package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FreightOrder is one row of freight_orders, keyed by the normalized identifier.
// Master columns come from SearchFOSet, enrichment columns from SkyPlusFieldsSet.
type FreightOrder struct {
	FoID string `gorm:"column:fo_id;type:varchar(40);primaryKey" json:"fo_id"`

	// Current stop, taken from the last entry of the stop history.
	StopID       string              `gorm:"column:stop_id;type:varchar(64)" json:"stop_id"`
	StopSeqPos   *string             `gorm:"column:stop_seq_pos;type:varchar(8)" json:"stop_seq_pos"`
	Event        *string             `gorm:"column:event;type:varchar(40)" json:"event"`
	LocationType *string             `gorm:"column:location_type;type:varchar(40)" json:"location_type"`
	LocID        *string             `gorm:"column:loc_id;type:varchar(64)" json:"loc_id"`
	LocationName *string             `gorm:"column:location_name;type:varchar(255)" json:"location_name"`
	Street       *string             `gorm:"column:street;type:varchar(255)" json:"street"`
	PostalCode   *string             `gorm:"column:postal_code;type:varchar(20)" json:"postal_code"`
	City         *string             `gorm:"column:city;type:varchar(120)" json:"city"`
	Region       *string             `gorm:"column:region;type:varchar(40)" json:"region"`
	Country      *string             `gorm:"column:country;type:varchar(8)" json:"country"`
	Latitude     decimal.NullDecimal `gorm:"column:latitude;type:decimal(18,10)" json:"latitude"`
	Longitude    decimal.NullDecimal `gorm:"column:longitude;type:decimal(18,10)" json:"longitude"`
	EventTime    *time.Time          `gorm:"column:event_time" json:"event_time"`

	LicenseNumber *string `gorm:"column:license_number;type:varchar(40)" json:"license_number"`
	Status        string  `gorm:"column:status;type:varchar(20);not null" json:"status"`
	LastEvent     *string `gorm:"column:last_event;type:varchar(40)" json:"last_event"`
	LastEventCity *string `gorm:"column:last_event_city;type:varchar(120)" json:"last_event_city"`

	// Enrichment, written by the update-only stage only.
	CargoQuantity      decimal.NullDecimal `gorm:"column:cargo_quantity;type:decimal(18,3)" json:"cargo_quantity"`
	CargoQuantityUom   *string             `gorm:"column:cargo_quantity_uom;type:varchar(8)" json:"cargo_quantity_uom"`
	CargoVolume        decimal.NullDecimal `gorm:"column:cargo_volume;type:decimal(18,3)" json:"cargo_volume"`
	CargoVolumeUom     *string             `gorm:"column:cargo_volume_uom;type:varchar(8)" json:"cargo_volume_uom"`
	CargoWeight        decimal.NullDecimal `gorm:"column:cargo_weight;type:decimal(18,3)" json:"cargo_weight"`
	CargoWeightUom     *string             `gorm:"column:cargo_weight_uom;type:varchar(8)" json:"cargo_weight_uom"`
	ExecutionStatus    *string             `gorm:"column:execution_status;type:varchar(40)" json:"execution_status"`
	PlannedArrivalAt   *time.Time          `gorm:"column:planned_arrival_at" json:"planned_arrival_at"`
	PlannedDepartureAt *time.Time          `gorm:"column:planned_departure_at" json:"planned_departure_at"`

	LastUpdated time.Time `gorm:"column:last_updated;not null" json:"last_updated"`
}

// TableName returns the table name.
func (FreightOrder) TableName() string {
	return "freight_orders"
}
