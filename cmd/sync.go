package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"freight-relay/core/metrics"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var foIDFlag string

// syncCmd groups the one-shot TM synchronisation commands.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run TM synchronisation once",
	Long:  `Runs a sync pass, an order event sync or a single order enrichment and prints the result as JSON.`,
}

var syncPassCmd = &cobra.Command{
	Use:   "pass",
	Short: "Run one freight order sync pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		metrics.Register()

		result, err := a.engine.RunSyncPass(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync pass failed: %w", err)
		}
		a.logger.Info("Sync pass completed",
			zap.String("id", result.ID),
			zap.Int("processed", result.Processed),
			zap.Int("enriched", result.Enriched),
			zap.Int("failures", len(result.Failures)),
			zap.Duration("duration", result.Duration()),
		)
		return printJSON(result)
	},
}

var syncEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Pull reported events of one freight order from TM",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.intake.SyncEventsForOrder(cmd.Context(), foIDFlag)
		if err != nil {
			return fmt.Errorf("event sync failed: %w", err)
		}
		return printJSON(result)
	},
}

var syncEnrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Refresh the enrichment fields of one freight order",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		updated, err := a.engine.EnrichOrder(cmd.Context(), foIDFlag)
		if err != nil {
			return fmt.Errorf("enrichment failed: %w", err)
		}
		return printJSON(map[string]any{"fo_id": foIDFlag, "updated": updated})
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	RootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncPassCmd, syncEventsCmd, syncEnrichCmd)

	for _, c := range []*cobra.Command{syncEventsCmd, syncEnrichCmd} {
		c.Flags().StringVar(&foIDFlag, "fo-id", "", "Freight order id")
		_ = c.MarkFlagRequired("fo-id")
	}
}
