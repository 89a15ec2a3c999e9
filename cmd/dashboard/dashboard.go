// Package dashboard implements the dashboard command
package dashboard

import (
	"aptfee/cmd/root"
	"aptfee/internal/apperror"
	"aptfee/internal/period"

	"github.com/spf13/cobra"
)

var (
	at       string
	dayMonth string
	format   string
)

// Cmd represents the dashboard command
var Cmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show household, fee and revenue figures for a month",
	Long: `Show household and fee counts, payment counts by status, revenue by
fee, the monthly revenue trend and daily totals for the month containing the
reference date.`,
	RunE: dashboardFunc,
}

func init() {
	Cmd.Flags().StringVar(&at, "at", "", "Reference date (default: now)")
	Cmd.Flags().StringVar(&dayMonth, "day-month", "", "Month for daily totals, YYYY-MM (default: reference month)")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json or csv")
}

func dashboardFunc(cmd *cobra.Command, args []string) error {
	outFormat, err := root.OutputFormat(format)
	if err != nil {
		return err
	}
	ref, err := root.ReferenceTime(at)
	if err != nil {
		return err
	}

	app := root.App()
	var days period.Month
	if dayMonth != "" {
		m, ok := app.GetNormalizer().FromString(dayMonth)
		if !ok {
			return &apperror.ValidationError{Field: "day-month", Reason: "expected YYYY-MM"}
		}
		days = m
	}

	snap, err := app.GetService().Dashboard(cmd.Context(), ref, days)
	if err != nil {
		return err
	}
	return app.GetGenerator().Dashboard(cmd.OutOrStdout(), snap, outFormat)
}
