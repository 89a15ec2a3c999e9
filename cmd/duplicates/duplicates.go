// Package duplicates implements the duplicate payment listing command
package duplicates

import (
	"aptfee/cmd/root"

	"github.com/spf13/cobra"
)

var format string

// Cmd represents the duplicates command
var Cmd = &cobra.Command{
	Use:   "duplicates",
	Short: "List fees paid more than once for the same household and month",
	RunE:  duplicatesFunc,
}

func init() {
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: text, json or csv")
}

func duplicatesFunc(cmd *cobra.Command, args []string) error {
	outFormat, err := root.OutputFormat(format)
	if err != nil {
		return err
	}

	app := root.App()
	dups, err := app.GetService().Duplicates(cmd.Context())
	if err != nil {
		return err
	}
	return app.GetGenerator().Duplicates(cmd.OutOrStdout(), dups, outFormat)
}
