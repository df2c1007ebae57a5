package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	domain "github.com/selhaddad/sakanalert/pkg/types"
)

func alertsCmd() *cobra.Command {
	alertsRoot := &cobra.Command{
		Use:   "alerts",
		Short: "Manage alerts",
		Long: "Manage saved property-search alerts: the filters a user's new-listing\n" +
			"notifications are matched against.",
	}

	alertsRoot.AddCommand(
		alertListCmd(),
		alertGetCmd(),
		alertCreateCmd(),
		alertActivateCmd(),
		alertDeactivateCmd(),
		alertDeleteCmd(),
	)

	return alertsRoot
}

func alertListCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's alerts",
		Example: `  sakanalert alerts list --user user-123
  sakanalert alerts list --user user-123 --output json`,
		RunE: func(_ *cobra.Command, _ []string) error {
			c := newClient()
			alerts, err := c.ListAlerts(context.Background(), userID)
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(alerts)
			}
			if len(alerts) == 0 {
				fmt.Println("No alerts found.")
				return nil
			}
			return printAlertTable(alerts)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owning user ID")
	cobra.CheckErr(cmd.MarkFlagRequired("user"))

	return cmd
}

func alertGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show alert details",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			c := newClient()
			a, err := c.GetAlert(context.Background(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(a)
			}
			return printAlertDetail(a)
		},
	}
}

func alertCreateCmd() *cobra.Command {
	var (
		userID   string
		name     string
		location string
		status   string
		propType string
		priceMin float64
		priceMax float64
		bedrooms int
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an alert",
		Example: `  sakanalert alerts create --user user-123 --name "Casa apartments" \
    --location casablanca --type apartment --price-max 1200000`,
		RunE: func(_ *cobra.Command, _ []string) error {
			filters := domain.DefaultFilters()
			filters.Location = location
			if status != "" {
				filters.Status = domain.ListingStatus(status)
			}
			if propType != "" {
				filters.Type = domain.PropertyType(propType)
			}
			filters.PriceMin = priceMin
			if priceMax > 0 {
				filters.PriceMax = priceMax
			}
			filters.BedroomsMin = bedrooms
			filters.Normalize()

			c := newClient()
			created, err := c.CreateAlert(context.Background(), &domain.Alert{
				UserID:   userID,
				Name:     name,
				Filters:  filters,
				IsActive: true,
			})
			if err != nil {
				return err
			}
			if jsonOutput() {
				return outputJSON(created)
			}

			printf("Alert %s created.\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owning user ID")
	cmd.Flags().StringVar(&name, "name", "", "alert name")
	cmd.Flags().StringVar(&location, "location", "", "location text to match")
	cmd.Flags().StringVar(&status, "status", "", "transaction type (for_sale, for_rent)")
	cmd.Flags().StringVar(&propType, "type", "", "property type (apartment, house, land, commercial)")
	cmd.Flags().Float64Var(&priceMin, "price-min", 0, "minimum price")
	cmd.Flags().Float64Var(&priceMax, "price-max", 0, "maximum price")
	cmd.Flags().IntVar(&bedrooms, "bedrooms", 0, "minimum bedrooms")
	cobra.CheckErr(cmd.MarkFlagRequired("user"))
	cobra.CheckErr(cmd.MarkFlagRequired("name"))

	return cmd
}

func alertActivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "activate <id>",
		Short: "Activate an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().SetAlertActive(context.Background(), args[0], true); err != nil {
				return err
			}
			printf("Alert %s activated.\n", args[0])
			return nil
		},
	}
}

func alertDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate <id>",
		Short: "Deactivate an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().SetAlertActive(context.Background(), args[0], false); err != nil {
				return err
			}
			printf("Alert %s deactivated.\n", args[0])
			return nil
		},
	}
}

func alertDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an alert",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if err := newClient().DeleteAlert(context.Background(), args[0]); err != nil {
				return err
			}
			printf("Alert %s deleted.\n", args[0])
			return nil
		},
	}
}
