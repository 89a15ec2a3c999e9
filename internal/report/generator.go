// Package report renders engine results as text, JSON or CSV.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"aptfee/internal/dashboard"
	"aptfee/internal/feestatus"
	"aptfee/internal/importer"
	"aptfee/internal/labels"
	"aptfee/internal/logging"
	"aptfee/internal/revenue"
	"aptfee/internal/service"
	"aptfee/internal/validation"

	"github.com/gocarina/gocsv"
)

// Generator writes results in one of the supported output formats. Display
// names in text output go through the label table; JSON and CSV keep the
// raw stored values.
type Generator struct {
	labels    labels.Table
	delimiter rune
	logger    logging.Logger
}

// NewGenerator creates a Generator. A zero delimiter means comma.
func NewGenerator(tbl labels.Table, delimiter rune, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.Discard()
	}
	if delimiter == 0 {
		delimiter = ','
	}
	return &Generator{
		labels:    tbl,
		delimiter: delimiter,
		logger:    logger.WithField(logging.FieldComponent, "report"),
	}
}

// renderer bundles the three renditions of one result.
type renderer struct {
	text func(io.Writer) error
	json func() any
	csv  func() any
}

func (g *Generator) render(w io.Writer, format, what string, r renderer) error {
	if err := validation.IsValidOutputFormat(format); err != nil {
		return err
	}

	var err error
	switch format {
	case validation.FormatJSON:
		err = g.writeJSON(w, r.json())
	case validation.FormatCSV:
		err = g.writeCSV(w, r.csv())
	default:
		err = r.text(w)
	}
	if err != nil {
		g.logger.WithError(err).WithFields(
			logging.Field{Key: logging.FieldFormat, Value: format},
			logging.Field{Key: logging.FieldOperation, Value: what},
		).Error("Failed to render report")
		return fmt.Errorf("failed to render %s as %s: %w", what, format, err)
	}
	return nil
}

func (g *Generator) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (g *Generator) writeCSV(w io.Writer, rows any) error {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.delimiter
	return gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter))
}

// HouseholdStatus renders the per-fee status list of one household.
func (g *Generator) HouseholdStatus(w io.Writer, hs *service.HouseholdStatus, format string) error {
	return g.render(w, format, "status", renderer{
		text: func(w io.Writer) error { return g.statusText(w, hs) },
		json: func() any { return toHouseholdStatusJSON(hs) },
		csv:  func() any { return statusRows(hs) },
	})
}

// Dashboard renders a dashboard snapshot.
func (g *Generator) Dashboard(w io.Writer, s *dashboard.Snapshot, format string) error {
	return g.render(w, format, "dashboard", renderer{
		text: func(w io.Writer) error { return g.dashboardText(w, s) },
		json: func() any { return toSnapshotJSON(s) },
		csv:  func() any { return dashboardRows(s) },
	})
}

// Revenue renders a revenue summary on its own.
func (g *Generator) Revenue(w io.Writer, s revenue.Summary, format string) error {
	return g.render(w, format, "revenue", renderer{
		text: func(w io.Writer) error { return g.revenueText(w, s) },
		json: func() any { return toSummaryJSON(s) },
		csv:  func() any { return summaryRows(s) },
	})
}

// Duplicates renders groups of paid payments sharing a fee, household and
// period.
func (g *Generator) Duplicates(w io.Writer, dups []feestatus.Duplicate, format string) error {
	return g.render(w, format, "duplicates", renderer{
		text: func(w io.Writer) error { return g.duplicatesText(w, dups) },
		json: func() any { return toDuplicatesJSON(dups) },
		csv:  func() any { return duplicateRows(dups) },
	})
}

// Imports renders the outcome of CSV imports.
func (g *Generator) Imports(w io.Writer, results []*importer.Result, format string) error {
	return g.render(w, format, "import", renderer{
		text: func(w io.Writer) error { return g.importsText(w, results) },
		json: func() any { return toImportJSON(results) },
		csv:  func() any { return importRows(results) },
	})
}
