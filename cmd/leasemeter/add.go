package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/langchou/leasemeter/internal/cli"
	"github.com/langchou/leasemeter/internal/config"
	"github.com/langchou/leasemeter/internal/service"
)

var (
	flagDate string
	flagNote string
)

var addCmd = &cobra.Command{
	Use:   "add <miles>",
	Short: "Record an odometer reading",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

func init() {
	addCmd.Flags().StringVar(&flagDate, "date", "", "Reading date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&flagNote, "note", "", "Optional note")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	miles, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: miles must be a whole number", service.ErrValidation)
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	date := flagDate
	if date == "" {
		date = a.now.Format(config.DateLayout)
	}
	in := service.ReadingInput{Date: date, Miles: &miles}
	if flagNote != "" {
		in.Note = &flagNote
	}

	reading, err := a.lease.AddReading(cmd.Context(), a.vehicleID, in)
	if err != nil {
		return err
	}

	fmt.Printf("  Recorded %s on %s for %s\n",
		cli.FormatMiles(float64(reading.Miles)), cli.FormatDate(reading.Date), a.vehicleID)

	d := a.lease.Dashboard(cmd.Context(), a.session())
	fmt.Printf("  Balance %s (%s)\n", cli.FormatSignedMiles(d.Allowance.Balance), cli.RenderTier(d.Allowance.AlertTier))
	return nil
}
