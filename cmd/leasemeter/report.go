package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/langchou/leasemeter/internal/cli"
	"github.com/langchou/leasemeter/internal/service"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render the mileage dashboard",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()
	warnIfUnconfigured(a)

	d := a.lease.Dashboard(cmd.Context(), a.session())
	fmt.Print(renderDashboard(d))
	return nil
}

func renderDashboard(d service.Dashboard) string {
	out := "\n" + cli.RenderTitle(fmt.Sprintf("LEASE MILEAGE  %s  %s", d.VehicleID, cli.FormatDate(d.GeneratedAt))) + "\n\n"

	al := d.Allowance
	rows := [][]string{
		{"Lease", fmt.Sprintf("%s → %s", cli.FormatDate(d.Config.LeaseStart), cli.FormatDate(d.Config.LeaseEnd))},
		{"Annual allowance", cli.FormatMiles(d.Config.AnnualAllowanceMiles)},
		{"Days into lease", cli.FormatNumber(int64(al.DaysIntoLease))},
		{"---"},
		{"Miles driven", cli.FormatMiles(float64(al.TotalMilesDriven))},
		{"Allowance to date", cli.FormatMiles(al.AllowanceToDate)},
		{"Balance", cli.FormatSignedMiles(al.Balance)},
		{"Over by", cli.FormatPercent(al.BalancePercent)},
		{"Status", cli.RenderTier(al.AlertTier)},
	}
	if d.Pace != nil {
		rows = append(rows,
			[]string{"---"},
			[]string{"30-day pace", cli.FormatPace(d.Pace.ThirtyDay)},
			[]string{"90-day pace", cli.FormatPace(d.Pace.NinetyDay)},
			[]string{"Lifetime pace", cli.FormatPace(d.Pace.Lifetime)},
			[]string{"Blended pace", cli.FormatPace(d.Pace.Blended)},
		)
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Days remaining", cli.FormatNumber(int64(d.Outlook.DaysRemaining))},
		[]string{"Projected at end", cli.FormatMiles(d.Outlook.ProjectedMilesAtEnd)},
		[]string{"Projected overage", cli.FormatMiles(d.Outlook.ProjectedOverageMiles)},
	)
	if d.Outlook.ProjectedOverageCost != nil {
		rows = append(rows, []string{"Overage cost", cli.FormatCost(*d.Outlook.ProjectedOverageCost)})
	}
	out += cli.RenderTable(cli.Table{Title: "Allowance", Headers: []string{"Metric", "Value"}, Rows: rows}) + "\n"

	horizons := make([][]string, 0, len(d.Horizons))
	for _, h := range d.Horizons {
		horizons = append(horizons, []string{
			h.Label,
			cli.FormatMiles(h.ProjectedMiles),
			cli.FormatMiles(h.ProjectedAllowance),
			cli.FormatSignedMiles(h.ProjectedMiles - h.ProjectedAllowance),
		})
	}
	out += cli.RenderTable(cli.Table{
		Title:   "Forecast (blended pace)",
		Headers: []string{"Horizon", "Projected", "Allowance", "Difference"},
		Rows:    horizons,
	}) + "\n"

	weeks := make([][]string, 0, len(d.Projection.Weeks))
	for _, w := range d.Projection.Weeks {
		weeks = append(weeks, []string{cli.FormatDate(w.WeekStart), cli.FormatMiles(w.Miles), cli.FormatMiles(w.Allowance)})
	}
	out += cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Next weeks (trend over %d weeks)", d.Projection.WeeksUsed),
		Headers: []string{"Week of", "Projected", "Allowance"},
		Rows:    weeks,
	}) + "\n"

	fuel := make([][]string, 0, len(d.Fuel.Windows))
	for _, w := range d.Fuel.Windows {
		fuel = append(fuel, []string{
			fmt.Sprintf("%dd", w.Days),
			cli.FormatMiles(float64(w.Miles)),
			cli.FormatCost(w.Spent),
			cli.FormatCost(w.Forecast),
		})
	}
	out += cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Fuel (%.0f mpg, latest %s)", d.Fuel.MPG, cli.FormatPrice(d.Fuel.LatestPrice)),
		Headers: []string{"Window", "Miles", "Spent", "Next"},
		Rows:    fuel,
	}) + "\n"

	if d.TripImpact.UpcomingTrips > 0 {
		out += fmt.Sprintf("  %d upcoming trips, %s planned: available %s → %s\n",
			d.TripImpact.UpcomingTrips,
			cli.FormatMiles(float64(d.TripImpact.TripMiles)),
			cli.FormatSignedMiles(d.TripImpact.Available),
			cli.FormatSignedMiles(d.TripImpact.ProjectedAvailable))
	}
	if d.Config.IsDefault {
		out += cli.RenderMuted("  Using default lease settings") + "\n"
	}
	return out
}
