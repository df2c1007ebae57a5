package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/selhaddad/sakanalert/internal/config"
	"github.com/selhaddad/sakanalert/internal/engine"
	"github.com/selhaddad/sakanalert/internal/store"
	"github.com/selhaddad/sakanalert/pkg/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one matching run locally and exit",
	Long: "Connects to the database directly and runs the matching pipeline once,\n" +
		"without starting the API server. Useful for cron-based deployments and\n" +
		"debugging.",
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	st, err := store.NewPostgresStore(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer st.Close()

	notifier, err := buildNotifier(cfg, log)
	if err != nil {
		return fmt.Errorf("building notifier: %w", err)
	}

	summary, err := engine.New(st, notifier, log, cfg.Matching).RunMatching(ctx)
	if err != nil {
		return fmt.Errorf("matching run: %w", err)
	}

	if summary.Skipped {
		printf("Matching run skipped: another instance holds the run lock.\n")
		return nil
	}

	printf("Matching run %s completed: %d alerts, %d listings, %d notifications.\n",
		summary.RunID,
		summary.AlertsProcessed,
		summary.ListingsChecked,
		summary.NotificationsGenerated,
	)
	return nil
}
