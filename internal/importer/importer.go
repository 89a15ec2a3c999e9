// Package importer loads households, fees and payments from CSV files into
// a store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aptfee/internal/apperror"
	"aptfee/internal/currencyutils"
	"aptfee/internal/logging"
	"aptfee/internal/models"
	"aptfee/internal/period"
	"aptfee/internal/store"
)

// Result summarizes one imported file.
type Result struct {
	File       string  `json:"file"`
	Read       int     `json:"read"`
	Inserted   int     `json:"inserted"`
	Duplicates int     `json:"duplicates"`
	Rejected   int     `json:"rejected"`
	Errors     []error `json:"-"`
}

// Importer converts CSV rows to models and inserts them. Rows that cannot be
// converted are rejected with an *apperror.ImportError and the import goes
// on. Malformed dates are not errors: they become nil with a warning.
type Importer struct {
	store      store.Store
	normalizer *period.Normalizer
	delimiter  rune
	logger     logging.Logger
}

// New creates an Importer.
func New(s store.Store, normalizer *period.Normalizer, delimiter rune, logger logging.Logger) *Importer {
	if normalizer == nil {
		normalizer = period.NewNormalizer(nil)
	}
	if delimiter == 0 {
		delimiter = ','
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Importer{
		store:      s,
		normalizer: normalizer,
		delimiter:  delimiter,
		logger:     logger.WithField(logging.FieldComponent, logging.ComponentImporter),
	}
}

// rowNumber converts a zero-based data row index to its line in the file.
func rowNumber(i int) int {
	return i + 2
}

// ImportHouseholds reads and inserts households from path.
func (im *Importer) ImportHouseholds(ctx context.Context, path string) (*Result, error) {
	rows, err := ReadCSVFile[HouseholdRow](path, im.delimiter)
	if err != nil {
		return nil, err
	}
	res := &Result{File: path, Read: len(rows)}
	for i, row := range rows {
		h := models.Household{
			ID:              strings.TrimSpace(row.ID),
			ApartmentNumber: strings.TrimSpace(row.ApartmentNumber),
			HeadResidentID:  strings.TrimSpace(row.HeadResidentID),
		}
		if h.ApartmentNumber == "" {
			im.reject(res, i, "apartment_number", row.ApartmentNumber, errors.New("required"))
			continue
		}
		active, err := parseActive(row.Active)
		if err != nil {
			im.reject(res, i, "active", row.Active, err)
			continue
		}
		h.Active = active
		if err := im.store.InsertHousehold(ctx, &h); err != nil {
			im.reject(res, i, "apartment_number", h.ApartmentNumber, err)
			continue
		}
		res.Inserted++
	}
	im.logResult(res)
	return res, nil
}

// ImportFees reads and inserts fee definitions from path.
func (im *Importer) ImportFees(ctx context.Context, path string) (*Result, error) {
	rows, err := ReadCSVFile[FeeRow](path, im.delimiter)
	if err != nil {
		return nil, err
	}
	res := &Result{File: path, Read: len(rows)}
	for i, row := range rows {
		f := models.Fee{
			ID:      strings.TrimSpace(row.ID),
			Code:    strings.TrimSpace(row.Code),
			Name:    strings.TrimSpace(row.Name),
			FeeType: models.FeeType(strings.ToLower(strings.TrimSpace(row.FeeType))),
		}
		if f.Name == "" {
			im.reject(res, i, "name", row.Name, errors.New("required"))
			continue
		}
		amount, err := currencyutils.ParseAmount(row.Amount)
		if err != nil {
			im.reject(res, i, "amount", row.Amount, err)
			continue
		}
		f.Amount = amount
		active, err := parseActive(row.Active)
		if err != nil {
			im.reject(res, i, "active", row.Active, err)
			continue
		}
		f.Active = active
		f.StartDate = im.date(path, i, "start_date", row.StartDate)
		f.EndDate = im.date(path, i, "end_date", row.EndDate)

		if err := im.store.InsertFee(ctx, &f); err != nil {
			im.reject(res, i, "id", f.ID, err)
			continue
		}
		res.Inserted++
	}
	im.logResult(res)
	return res, nil
}

// ImportPayments reads and inserts payments from path. Paid payments that
// collide with an existing one for the same fee, household and period are
// counted as duplicates and skipped.
func (im *Importer) ImportPayments(ctx context.Context, path string) (*Result, error) {
	rows, err := ReadCSVFile[PaymentRow](path, im.delimiter)
	if err != nil {
		return nil, err
	}
	res := &Result{File: path, Read: len(rows)}
	for i, row := range rows {
		p := models.Payment{
			ID:          strings.TrimSpace(row.ID),
			FeeID:       strings.TrimSpace(row.FeeID),
			HouseholdID: strings.TrimSpace(row.HouseholdID),
			Status:      models.PaymentStatus(strings.ToLower(strings.TrimSpace(row.Status))),
			Method:      strings.TrimSpace(row.Method),
			Note:        row.Note,
		}
		if !p.Status.Valid() {
			im.reject(res, i, "status", row.Status, fmt.Errorf("must be one of paid, pending, overdue"))
			continue
		}
		amount, err := currencyutils.ParseAmount(row.Amount)
		if err != nil {
			im.reject(res, i, "amount", row.Amount, err)
			continue
		}
		p.Amount = amount
		p.PaymentDate = im.date(path, i, "payment_date", row.PaymentDate)
		p.Period = im.date(path, i, "period", row.Period)

		err = im.store.InsertPayment(ctx, &p)
		switch {
		case errors.Is(err, apperror.ErrDuplicatePayment):
			res.Duplicates++
			im.logger.Warn("Skipping duplicate paid payment",
				logging.Field{Key: logging.FieldFile, Value: path},
				logging.Field{Key: logging.FieldRow, Value: rowNumber(i)},
				logging.Field{Key: logging.FieldError, Value: err.Error()})
		case err != nil:
			im.reject(res, i, "payment", p.ID, err)
		default:
			res.Inserted++
		}
	}
	im.logResult(res)
	return res, nil
}

// date parses a CSV date cell. Empty cells are nil without a warning.
func (im *Importer) date(path string, i int, field, value string) *time.Time {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	t, ok := im.normalizer.Parse(value)
	if !ok {
		im.logger.Warn("Unparseable date, leaving it empty",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldRow, Value: rowNumber(i)},
			logging.Field{Key: "field", Value: field},
			logging.Field{Key: "value", Value: value})
		return nil
	}
	return &t
}

func (im *Importer) reject(res *Result, i int, field, value string, err error) {
	ierr := &apperror.ImportError{File: res.File, Row: rowNumber(i), Field: field, Value: value, Err: err}
	res.Rejected++
	res.Errors = append(res.Errors, ierr)
	im.logger.WithError(ierr).Warn("Rejected row",
		logging.Field{Key: logging.FieldFile, Value: res.File},
		logging.Field{Key: logging.FieldRow, Value: ierr.Row})
}

func (im *Importer) logResult(res *Result) {
	im.logger.Info("Import finished",
		logging.Field{Key: logging.FieldFile, Value: res.File},
		logging.Field{Key: logging.FieldCount, Value: res.Inserted},
		logging.Field{Key: "duplicates", Value: res.Duplicates},
		logging.Field{Key: "rejected", Value: res.Rejected})
}

// parseActive reads an active flag. Empty means active.
func parseActive(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return true, nil
	case "yes", "y", "x":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}
