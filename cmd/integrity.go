package cmd

import (
	"context"
	"fmt"

	"freight-relay/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the store and archive",
	Long:  `Checks that the freight tables match the models and that the pass report bucket exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the freight tables against the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the pass report bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, storageCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
}

func runIntegrityChecks(ctx context.Context, runSchema, runStorage bool) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	logg := a.logger

	svc := integrity.NewService(a.db, relayModels, a.archive, a.cfg.Storage, logg)

	if runSchema {
		logg.Info("Checking schema integrity...", zap.String("driver", a.cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if report.Matched {
			logg.Info("Schema matches the models.")
		} else {
			logg.Warn("Schema mismatches found")
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runStorage {
		logg.Info("Checking pass report bucket...")
		report, err := svc.CheckStorage(ctx, fixFlag)
		if err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}
		switch {
		case !report.Enabled:
			logg.Info("Pass report archiving is disabled.")
		case report.Created:
			logg.Info("Bucket created.", zap.String("bucket", report.Bucket))
		case report.Exists:
			logg.Info("Bucket is present.", zap.String("bucket", report.Bucket))
		default:
			logg.Warn("Bucket is missing. Run with --fix to create it.", zap.String("bucket", report.Bucket))
		}
	}
	return nil
}
