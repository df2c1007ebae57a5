package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func triggerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Trigger a matching run on a running server",
		Long:  "Asks a running sakanalert server to execute one matching run immediately.",
		Example: `  sakanalert trigger
  sakanalert trigger --server http://alerts.internal:8080`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			result, err := c.TriggerMatchRun(context.Background())
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(result)
			}

			if !result.Success {
				fmt.Println(result.Message)
				return nil
			}

			printf("Matching run completed: %d alerts, %d listings, %d notifications.\n",
				result.AlertsProcessed,
				result.PropertiesChecked,
				result.NotificationsGenerated,
			)
			return nil
		},
	}
}

func runsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent matching runs",
		Example: `  sakanalert runs
  sakanalert runs --limit 50 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			runs, err := c.ListMatchRuns(context.Background(), limit)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(runs)
			}
			if len(runs) == 0 {
				fmt.Println("No matching runs recorded.")
				return nil
			}
			return printRunsTable(runs)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of runs to return")

	return cmd
}
