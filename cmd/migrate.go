package cmd

import (
	"fmt"

	"freight-relay/core/config"
	"freight-relay/core/database"
	"freight-relay/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the relay tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the freight tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		defer logg.Sync()

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("database connection required: %w", err)
		}

		if err := db.AutoMigrate(relayModels...); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
		logg.Info("Schema migrated", zap.String("driver", cfg.Database.Driver), zap.Int("tables", len(relayModels)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
