// Package root contains the root command for the application
package root

import (
	"fmt"
	"io"
	"os"
	"time"

	"aptfee/internal/apperror"
	"aptfee/internal/config"
	"aptfee/internal/container"
	"aptfee/internal/fileutils"
	"aptfee/internal/logging"
	"aptfee/internal/validation"

	"github.com/spf13/cobra"
)

// GlobalFlags holds the persistent flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	Timezone   string
	Database   string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.Discard()

	// SharedFlags are the persistent flags of the root command
	SharedFlags = GlobalFlags{}

	app *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "aptfee",
		Short: "Apartment fee and payment reconciliation",
		Long: `aptfee reconciles the fees of an apartment building against recorded
payments. It reports per-household fee status for the current and previous
month, builds revenue dashboards and imports fees, households and payments
from CSV.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVar(&SharedFlags.ConfigFile, "config", "", "Config file (default: ./config.yaml, .aptfee/ or $HOME/.aptfee/)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Timezone, "timezone", "", "IANA time zone used to truncate dates to months")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Database, "db", "", "SQLite database path")

	// PersistentPostRunE is skipped when a command fails.
	cobra.OnFinalize(func() { _ = teardown(nil, nil) })
}

// setup loads configuration, applies flag overrides and wires the container.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig(SharedFlags.ConfigFile)
	if err != nil {
		return err
	}
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.Timezone != "" {
		cfg.Engine.Timezone = SharedFlags.Timezone
	}
	if SharedFlags.Database != "" {
		cfg.Database.Backend = config.BackendSQLite
		cfg.Database.Path = SharedFlags.Database
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	app = c
	Log = c.GetLogger()
	warnPermissive(SharedFlags.ConfigFile)
	Log.Debug("Command starting", logging.Field{Key: logging.FieldOperation, Value: cmd.Name()})
	return nil
}

// warnPermissive flags a config file readable by everyone.
func warnPermissive(path string) {
	if path == "" {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if err := validation.IsValidFilePermissions(info.Mode().Perm()); err != nil {
		Log.Warn("Config file permissions", logging.Field{Key: logging.FieldFile, Value: path}, logging.Field{Key: logging.FieldError, Value: err.Error()})
	}
}

func teardown(cmd *cobra.Command, args []string) error {
	if app == nil {
		return nil
	}
	err := app.Close()
	app = nil
	return err
}

// App returns the container built for the running command.
func App() *container.Container {
	return app
}

// ReferenceTime parses the --at value in the engine's time zone. An empty
// value means now.
func ReferenceTime(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	t, ok := app.GetNormalizer().Parse(value)
	if !ok {
		return time.Time{}, &apperror.ValidationError{Field: "at", Reason: fmt.Sprintf("unrecognized date %q", value)}
	}
	return t, nil
}

// OutputFormat returns the --format value, or the configured default.
func OutputFormat(value string) (string, error) {
	if value == "" {
		value = app.GetConfig().Report.Format
	}
	if err := validation.IsValidOutputFormat(value); err != nil {
		return "", err
	}
	return value, nil
}

// Output opens the report destination: path when set, the command's stdout
// otherwise.
func Output(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	return fileutils.OutputWriter(path, cmd.OutOrStdout())
}
