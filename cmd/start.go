package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"freight-relay/core/cache"
	"freight-relay/core/config"
	"freight-relay/core/loader"
	"freight-relay/core/logger"
	"freight-relay/core/metrics"
	"freight-relay/core/middleware/rayid"
	"freight-relay/core/queue"
	"freight-relay/core/scheduler"
	"freight-relay/feature/events"
	"freight-relay/feature/freightorder"
	"freight-relay/feature/integrity"
	"freight-relay/feature/tracking"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "freight-relay/docs/swagger"
)

// @title Freight Relay API
// @version 1.0
// @description Relay between SAP TM freight orders, driver apps and live tracking.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the freight relay server",
	Long:  `Starts the HTTP server, the periodic TM sync and all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// 1. Configuration, logger and store
		a, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer a.close()
		logg := a.logger
		cfg := a.cfg
		metrics.Register()

		// 2. Live tracking cache
		locations, err := newLocationStore(ctx, cfg)
		if err != nil {
			logg.Fatal("Failed to create tracking store", zap.Error(err))
		}

		// 3. Task queue
		tasks := queue.NewClient(cfg.Queue)
		defer tasks.Close()

		// 4. Fiber app
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             cfg.Server.BodyLimit(),
		})

		// RayID first to trace everything
		app.Use(rayid.New())
		app.Use(cors.New(cors.Config{
			AllowOrigins: joinOrigins(cfg.Server.Origins()),
			AllowHeaders: "Origin, Content-Type, Accept, " + rayid.Header,
		}))
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/swagger/*", swagger.HandlerDefault)
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		api := app.Group("/api")
		api.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// 5. Features
		mgr := loader.NewManager(logg)
		mgr.Register(freightorder.NewFeature(a.orders, a.engine, logg))
		mgr.Register(events.NewFeature(a.intake, tasks, logg))
		mgr.Register(tracking.NewFeature(locations, logg))
		mgr.Register(integrity.NewFeature(a.db, relayModels, a.archive, cfg.Storage, logg))
		if err := mgr.LoadAll(api); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Periodic sync
		var worker *scheduler.Worker
		switch {
		case cfg.Queue.Enabled:
			worker = scheduler.NewWorker(cfg.Queue, cfg.Scheduler, logg)
			worker.HandleSyncPass(a.engine)
			worker.Handle(queue.TaskSyncOrderEvents, a.intake.SyncTaskHandler())
			if err := worker.Start(); err != nil {
				logg.Fatal("Failed to start queue worker", zap.Error(err))
			}
		case cfg.Scheduler.Enabled:
			go scheduler.NewTicker(a.engine, cfg.Scheduler, logg).Run(ctx)
		default:
			logg.Info("Periodic TM sync disabled")
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		cancel()
		if worker != nil {
			worker.Shutdown()
		}
		_ = app.Shutdown()
	},
}

// newLocationStore builds the tracking backend selected by configuration.
func newLocationStore(ctx context.Context, cfg *config.Config) (tracking.LocationStore, error) {
	switch cfg.Tracking.Backend {
	case "", "memory":
		return tracking.NewMemoryStore(cfg.Tracking.MaxPoints, cfg.Tracking.MaxOrders), nil
	case "redis":
		client, err := cache.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return tracking.NewRedisStore(client, cfg.Redis.Prefix, cfg.Tracking.MaxPoints), nil
	default:
		return nil, fmt.Errorf("unknown tracking backend %q", cfg.Tracking.Backend)
	}
}

func joinOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ",")
}

func init() {
	RootCmd.AddCommand(startCmd)
}
