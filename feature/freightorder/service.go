package freightorder

import (
	"context"

	"freight-relay/core/reconcile"
	"freight-relay/feature/freightorder/models"

	"go.uber.org/zap"
)

// Syncer runs reconciliation work. *reconcile.Engine implements it.
type Syncer interface {
	RunSyncPass(ctx context.Context) (*reconcile.PassResult, error)
	EnrichOrder(ctx context.Context, foID string) (bool, error)
}

// Service exposes freight orders and on-demand syncs.
type Service struct {
	gateway *Gateway
	syncer  Syncer
	logger  *zap.Logger
}

// NewService creates a new freight order service.
func NewService(gateway *Gateway, syncer Syncer, logger *zap.Logger) *Service {
	return &Service{gateway: gateway, syncer: syncer, logger: logger}
}

// GetOrder reads one order from the store.
func (s *Service) GetOrder(ctx context.Context, foID string) (*models.FreightOrder, error) {
	return s.gateway.Get(ctx, foID)
}

// RunSync triggers a sync pass, or joins the one in flight.
func (s *Service) RunSync(ctx context.Context) (*reconcile.PassResult, error) {
	return s.syncer.RunSyncPass(ctx)
}

// Enrich refreshes the enrichment of one order.
func (s *Service) Enrich(ctx context.Context, foID string) (bool, error) {
	return s.syncer.EnrichOrder(ctx, foID)
}
