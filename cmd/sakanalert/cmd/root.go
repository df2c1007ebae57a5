// Package cmd implements the CLI commands for sakanalert.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apiclient "github.com/selhaddad/sakanalert/internal/api/client"
)

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   "sakanalert",
		Short: "Real-estate alert matching and notification service",
		Long: "sakanalert matches saved property-search alerts against newly ingested\n" +
			"listings and delivers push notifications. The same binary runs the API\n" +
			"server with its scheduler and acts as a CLI client against a running\n" +
			"instance.",
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().
		StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.PersistentFlags().
		String("server", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().
		String("output", "table", "output format (table, json)")

	cobra.CheckErr(viper.BindPFlag("server", rootCmd.PersistentFlags().Lookup("server")))
	cobra.CheckErr(viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output")))

	rootCmd.AddCommand(versionCommand())
	rootCmd.AddCommand(alertsCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(triggerCmd())
}

func initConfig() {
	viper.SetEnvPrefix("SAKANALERT")
	viper.AutomaticEnv()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newClient() *apiclient.Client {
	return apiclient.New(viper.GetString("server"))
}

func jsonOutput() bool {
	return viper.GetString("output") == "json"
}

func printf(format string, args ...any) {
	fmt.Fprintf(os.Stdout, format, args...)
}
