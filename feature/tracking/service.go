package tracking

import (
	"context"

	"freight-relay/core/apperr"
	"freight-relay/core/metrics"
	"freight-relay/core/normalize"

	"go.uber.org/zap"
)

// Service passes live positions from SKY to the UI.
type Service struct {
	store  LocationStore
	logger *zap.Logger
}

// NewService creates a new tracking service.
func NewService(store LocationStore, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Record validates and stores one position.
func (s *Service) Record(ctx context.Context, p LocationPayload) (Point, error) {
	point, err := p.ToPoint()
	if err != nil {
		return Point{}, err
	}
	if err := s.store.Push(ctx, point); err != nil {
		return Point{}, err
	}
	metrics.TrackingPointsTotal.Inc()
	return point, nil
}

// Latest returns the last position of an order, or nil.
func (s *Service) Latest(ctx context.Context, foID string) (*Point, error) {
	id := normalize.NormalizeOrderIdentifier(foID)
	if id == "" {
		return nil, apperr.MissingFields("FoId")
	}
	return s.store.Latest(ctx, id)
}

// History returns up to limit recent positions, oldest first.
func (s *Service) History(ctx context.Context, foID string, limit int) ([]Point, error) {
	id := normalize.NormalizeOrderIdentifier(foID)
	if id == "" {
		return nil, apperr.MissingFields("FoId")
	}
	return s.store.History(ctx, id, ClampLimit(limit))
}
