package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrackingEvent is one row of tracking_events. Rows synced from TM are unique
// on (fo_id, stop_id, event, actual_reported_time). Pushed rows carry no
// reported time and are never deduplicated.
type TrackingEvent struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FoID   string `gorm:"column:fo_id;type:varchar(40);not null;uniqueIndex:ux_tracking_events_key,priority:1" json:"fo_id"`
	StopID string `gorm:"column:stop_id;type:varchar(64);not null;uniqueIndex:ux_tracking_events_key,priority:2" json:"stop_id"`
	Event  string `gorm:"column:event;type:varchar(40);not null;uniqueIndex:ux_tracking_events_key,priority:3" json:"event"`

	Action        *string    `gorm:"column:action;type:varchar(40)" json:"action"`
	EventCode     *string    `gorm:"column:event_code;type:varchar(40)" json:"event_code"`
	EvtReasonCode *string    `gorm:"column:evt_reason_code;type:varchar(40)" json:"evt_reason_code"`
	Description   *string    `gorm:"column:description;type:varchar(255)" json:"description"`
	ETA           *time.Time `gorm:"column:eta" json:"eta"`
	Discrepency   *string    `gorm:"column:discrepency;type:varchar(255)" json:"discrepency"`
	Items         *string    `gorm:"column:items;type:text" json:"items"`

	Latitude  decimal.NullDecimal `gorm:"column:latitude;type:decimal(18,10)" json:"latitude"`
	Longitude decimal.NullDecimal `gorm:"column:longitude;type:decimal(18,10)" json:"longitude"`
	Location  *string             `gorm:"column:location;type:varchar(255)" json:"location"`

	PlannedTime        *time.Time `gorm:"column:planned_time" json:"planned_time"`
	ActualReportedTime *time.Time `gorm:"column:actual_reported_time;uniqueIndex:ux_tracking_events_key,priority:4" json:"actual_reported_time"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
}

// TableName returns the table name.
func (TrackingEvent) TableName() string {
	return "tracking_events"
}
