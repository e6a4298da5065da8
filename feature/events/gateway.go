package events

import (
	"context"

	"freight-relay/core/apperr"
	"freight-relay/feature/events/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway persists tracking events with gorm.
type Gateway struct {
	db *gorm.DB
}

// NewGateway creates a gateway over db.
func NewGateway(db *gorm.DB) *Gateway {
	return &Gateway{db: db}
}

// Insert appends ev.
func (g *Gateway) Insert(ctx context.Context, ev *models.TrackingEvent) error {
	err := g.db.WithContext(ctx).Create(ev).Error
	return apperr.Persistence("insert tracking event", ev.FoID, err)
}

// InsertIfAbsent inserts ev unless a row with the same key exists, and
// reports whether a row was written. The check and the insert are one statement.
func (g *Gateway) InsertIfAbsent(ctx context.Context, ev *models.TrackingEvent) (bool, error) {
	res := g.db.WithContext(ctx).Clauses(g.skipDuplicate()).Create(ev)
	if res.Error != nil {
		return false, apperr.Persistence("insert tracking event", ev.FoID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ListByOrder returns the stored events of one order, oldest report first.
// Rows without a reported time come last.
func (g *Gateway) ListByOrder(ctx context.Context, foID string) ([]models.TrackingEvent, error) {
	var rows []models.TrackingEvent
	err := g.db.WithContext(ctx).
		Where("fo_id = ?", foID).
		Order("actual_reported_time IS NULL, actual_reported_time ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Persistence("list tracking events", foID, err)
	}
	return rows, nil
}

// skipDuplicate picks the conflict clause for the dialect. MySQL renders
// DO NOTHING as a self-assignment, which reports a found row under
// clientFoundRows, so it gets INSERT IGNORE instead.
func (g *Gateway) skipDuplicate() clause.Expression {
	if g.db.Dialector.Name() == "mysql" {
		return clause.Insert{Modifier: "IGNORE"}
	}
	return clause.OnConflict{DoNothing: true}
}
