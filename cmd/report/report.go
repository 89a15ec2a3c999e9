// Package report implements the revenue report command
package report

import (
	"fmt"

	"aptfee/cmd/root"
	"aptfee/internal/logging"

	"github.com/spf13/cobra"
)

var (
	at     string
	months int
	format string
	output string
)

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Write a revenue report",
	Long: `Write the revenue report for the months ending at the reference date:
total, revenue by fee, the monthly trend, daily totals and totals by payment
method and fee type.`,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVar(&at, "at", "", "Reference date (default: now)")
	Cmd.Flags().IntVarP(&months, "months", "m", 0, "Number of months in the trend (default: engine.trend_months)")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json or csv")
	Cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	if months < 0 {
		return fmt.Errorf("--months must be positive, got %d", months)
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
	summary, err := app.GetService().Revenue(cmd.Context(), ref, months)
	if err != nil {
		return err
	}

	w, err := root.Output(cmd, output)
	if err != nil {
		return err
	}
	if err := app.GetGenerator().Revenue(w, summary, outFormat); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close report output: %w", err)
	}

	if output != "" {
		root.Log.Info("Report written",
			logging.Field{Key: logging.FieldFile, Value: output},
			logging.Field{Key: logging.FieldFormat, Value: outFormat})
	}
	return nil
}
