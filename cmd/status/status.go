// Package status implements the household fee status command
package status

import (
	"aptfee/cmd/root"
	"aptfee/internal/validation"

	"github.com/spf13/cobra"
)

var (
	householdID string
	at          string
	format      string
)

// Cmd represents the status command
var Cmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current and last month status of every fee for a household",
	Long: `Show, for every active fee, whether the household has paid it for the
current month and the month before. A missing payment for the current month
is pending; for the previous month it is overdue once the fee has started.`,
	RunE: statusFunc,
}

func init() {
	Cmd.Flags().StringVar(&householdID, "household", "", "Household ID")
	Cmd.Flags().StringVar(&at, "at", "", "Reference date (default: now)")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json or csv")
	_ = Cmd.MarkFlagRequired("household")
}

func statusFunc(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidID("household", householdID); err != nil {
		return err
	}
	outFormat, err := root.OutputFormat(format)
	if err != nil {
		return err
	}
	ref, err := root.ReferenceTime(at)
	if err != nil {
		return err
	}

	app := root.App()
	hs, err := app.GetService().FeeStatus(cmd.Context(), householdID, ref)
	if err != nil {
		return err
	}
	return app.GetGenerator().HouseholdStatus(cmd.OutOrStdout(), hs, outFormat)
}
