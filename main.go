package main

import (
	"errors"
	"fmt"
	"os"

	"aptfee/cmd/dashboard"
	"aptfee/cmd/duplicates"
	"aptfee/cmd/importcsv"
	"aptfee/cmd/report"
	"aptfee/cmd/root"
	"aptfee/cmd/status"
	"aptfee/internal/apperror"
	"aptfee/internal/config"
)

func init() {
	// Load environment variables silently first, so APTFEE_* values from
	// .env reach viper.
	_, _ = config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(status.Cmd)
	root.Cmd.AddCommand(dashboard.Cmd)
	root.Cmd.AddCommand(report.Cmd)
	root.Cmd.AddCommand(importcsv.Cmd)
	root.Cmd.AddCommand(duplicates.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, userMessage(err))
		os.Exit(1)
	}
}

// userMessage hides the cause of load failures from the terminal; the log
// already carries it.
func userMessage(err error) string {
	var loadErr *apperror.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.UserMessage()
	}
	return err.Error()
}
