package freightorder

import (
	"context"
	"errors"
	"time"

	"freight-relay/core/apperr"
	"freight-relay/core/normalize"
	"freight-relay/core/reconcile"
	"freight-relay/core/utils"
	"freight-relay/feature/freightorder/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// masterColumns are overwritten on every upsert. Enrichment columns are absent on purpose.
var masterColumns = []string{
	"stop_id", "stop_seq_pos", "event", "location_type", "loc_id", "location_name",
	"street", "postal_code", "city", "region", "country", "latitude", "longitude",
	"event_time", "license_number", "status", "last_event", "last_event_city", "last_updated",
}

// Gateway persists freight orders with gorm. It implements reconcile.Gateway.
type Gateway struct {
	db *gorm.DB
}

// NewGateway creates a gateway over db.
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// Upsert inserts the order or overwrites its master columns in one statement.
func (g *Gateway) Upsert(ctx context.Context, rec reconcile.MasterRecord, syncedAt time.Time) error {
	row := masterRow(rec, syncedAt)
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "fo_id"}},
		DoUpdates: clause.AssignmentColumns(masterColumns),
	}).Create(&row).Error
	return apperr.Persistence("upsert freight order", rec.FoID, err)
}

// ApplyEnrichment updates the enrichment columns of an existing order.
func (g *Gateway) ApplyEnrichment(ctx context.Context, e reconcile.Enrichment, syncedAt time.Time) (bool, error) {
	res := g.db.WithContext(ctx).
		Model(&models.FreightOrder{}).
		Where("fo_id = ?", e.FoID).
		Updates(map[string]any{
			"cargo_quantity":       e.CargoQuantity,
			"cargo_quantity_uom":   utils.NullIfEmpty(e.CargoQuantityUom),
			"cargo_volume":         e.CargoVolume,
			"cargo_volume_uom":     utils.NullIfEmpty(e.CargoVolumeUom),
			"cargo_weight":         e.CargoWeight,
			"cargo_weight_uom":     utils.NullIfEmpty(e.CargoWeightUom),
			"execution_status":     utils.NullIfEmpty(e.ExecutionStatus),
			"planned_arrival_at":   e.PlannedArrivalAt,
			"planned_departure_at": e.PlannedDepartureAt,
			"last_updated":         syncedAt,
		})
	if res.Error != nil {
		return false, apperr.Persistence("apply enrichment", e.FoID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Get reads one order by identifier, padded or not.
func (g *Gateway) Get(ctx context.Context, foID string) (*models.FreightOrder, error) {
	id := normalize.NormalizeOrderIdentifier(foID)
	if id == "" {
		return nil, apperr.MissingFields("foId")
	}

	var row models.FreightOrder
	err := g.db.WithContext(ctx).Where("fo_id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Persistence("get freight order", id, err)
	}
	return &row, nil
}

func masterRow(rec reconcile.MasterRecord, syncedAt time.Time) models.FreightOrder {
	cur := rec.Current
	eventTime := syncedAt
	return models.FreightOrder{
		FoID:          rec.FoID,
		StopID:        cur.StopID,
		StopSeqPos:    utils.NullIfEmpty(cur.StopSeqPos),
		Event:         utils.NullIfEmpty(cur.Event),
		LocationType:  utils.NullIfEmpty(cur.LocationType),
		LocID:         utils.NullIfEmpty(cur.LocID),
		LocationName:  utils.NullIfEmpty(cur.LocationName),
		Street:        utils.NullIfEmpty(cur.Street),
		PostalCode:    utils.NullIfEmpty(cur.PostalCode),
		City:          utils.NullIfEmpty(cur.City),
		Region:        utils.NullIfEmpty(cur.Region),
		Country:       utils.NullIfEmpty(cur.Country),
		Latitude:      cur.Latitude,
		Longitude:     cur.Longitude,
		EventTime:     &eventTime,
		LicenseNumber: utils.NullIfEmpty(rec.LicenseNumber),
		Status:        string(rec.Status),
		LastEvent:     utils.NullIfEmpty(cur.Event),
		LastEventCity: utils.NullIfEmpty(cur.City),
		LastUpdated:   syncedAt,
	}
}
