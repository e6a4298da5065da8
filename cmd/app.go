package cmd

import (
	"context"
	"fmt"

	"freight-relay/core/config"
	"freight-relay/core/database"
	"freight-relay/core/logger"
	"freight-relay/core/reconcile"
	"freight-relay/core/storage"
	"freight-relay/core/tm"
	"freight-relay/feature/events"
	eventmodels "freight-relay/feature/events/models"
	"freight-relay/feature/freightorder"
	ordermodels "freight-relay/feature/freightorder/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// relayModels are the tables the relay owns.
var relayModels = []any{&ordermodels.FreightOrder{}, &eventmodels.TrackingEvent{}}

// relay holds the components shared by every command.
type relay struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	client  *tm.Client
	orders  *freightorder.Gateway
	engine  *reconcile.Engine
	intake  *events.Intake
	archive storage.Client
}

// bootstrap loads the configuration and connects the store. Only an
// unreachable store is fatal; TM is contacted lazily.
func bootstrap(ctx context.Context) (*relay, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database connection required: %w", err)
	}
	logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver), zap.String("name", cfg.Database.Name))

	if cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(relayModels...); err != nil {
			return nil, fmt.Errorf("failed to migrate schema: %w", err)
		}
		logg.Info("Schema migrated")
	}

	a := &relay{cfg: cfg, logger: logg, db: db}
	a.client = tm.NewClient(cfg.TM, tm.WithLogger(logg))
	a.orders = freightorder.NewGateway(db)

	opts := []reconcile.Option{reconcile.WithLogger(logg)}
	if cfg.Storage.Enabled {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to create storage client: %w", err)
		}
		if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
			logg.Warn("Pass report bucket unavailable, reports may not be archived", zap.Error(err))
		}
		a.archive = client
		opts = append(opts, reconcile.WithArchiver(reconcile.NewStorageArchiver(client, cfg.Storage.Bucket)))
	}
	a.engine = reconcile.NewEngine(a.client, a.orders, opts...)

	a.intake = events.NewIntake(events.NewGateway(db), a.client,
		events.WithLogger(logg),
		events.WithForwarding(cfg.TM.ForwardEvents))

	return a, nil
}

// close releases the database connection and flushes the logger.
func (a *relay) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.logger.Sync()
}
