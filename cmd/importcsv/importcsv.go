// Package importcsv implements the CSV import command
package importcsv

import (
	"context"
	"fmt"

	"aptfee/cmd/root"
	"aptfee/internal/importer"
	"aptfee/internal/validation"

	"github.com/spf13/cobra"
)

var (
	feesFile       string
	householdsFile string
	paymentsFile   string
	format         string
)

// Cmd represents the import command
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import households, fees and payments from CSV files",
	Long: `Import households, fees and payments from CSV files, in that order.
Rows that cannot be parsed are rejected and reported; malformed dates are
stored empty. Paid payments that would duplicate an existing one for the
same fee, household and month are skipped.`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVar(&householdsFile, "households", "", "Households CSV file")
	Cmd.Flags().StringVar(&feesFile, "fees", "", "Fees CSV file")
	Cmd.Flags().StringVar(&paymentsFile, "payments", "", "Payments CSV file")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json or csv")
	Cmd.MarkFlagsOneRequired("households", "fees", "payments")
}

type step struct {
	path string
	run  func(context.Context, string) (*importer.Result, error)
}

func importFunc(cmd *cobra.Command, args []string) error {
	outFormat, err := root.OutputFormat(format)
	if err != nil {
		return err
	}

	app := root.App()
	im := app.GetImporter()
	steps := []step{
		{householdsFile, im.ImportHouseholds},
		{feesFile, im.ImportFees},
		{paymentsFile, im.ImportPayments},
	}

	var results []*importer.Result
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		if err := validation.IsValidInputFile(s.path, ".csv"); err != nil {
			return err
		}
		res, err := s.run(cmd.Context(), s.path)
		if err != nil {
			return fmt.Errorf("import of %s failed: %w", s.path, err)
		}
		results = append(results, res)
	}
	return app.GetGenerator().Imports(cmd.OutOrStdout(), results, outFormat)
}
