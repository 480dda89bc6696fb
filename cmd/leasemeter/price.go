package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/langchou/leasemeter/internal/cli"
)

var priceCmd = &cobra.Command{
	Use:   "price [station]",
	Short: "Show today's fuel price for a station",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPrice,
}

func init() {
	rootCmd.AddCommand(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	var station string
	if len(args) == 1 {
		station = args[0]
	} else {
		station = a.lease.Settings(cmd.Context(), a.vehicleID).FuelStationID
	}
	if station == "" {
		return fmt.Errorf("no station given and %s has no fuel station configured", a.vehicleID)
	}

	price, err := a.fuel.CurrentPrice(cmd.Context(), station, a.now)
	if err != nil {
		return err
	}

	fmt.Printf("  Station %s: %s %s\n", station, cli.FormatPrice(price.Price),
		cli.RenderMuted("(recorded "+cli.FormatDate(price.RecordedAt)+")"))
	return nil
}
