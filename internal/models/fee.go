// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"aptfee/internal/period"

	"github.com/shopspring/decimal"
)

// FeeType tags a fee definition (mandatory, voluntary, parking, ...).
type FeeType string

// Fee is a billable charge definition applied to every active household.
type Fee struct {
	ID        string          `json:"id" yaml:"id"`
	Code      string          `json:"code" yaml:"code"`
	Name      string          `json:"name" yaml:"name"`
	Amount    decimal.Decimal `json:"amount" yaml:"amount"`
	FeeType   FeeType         `json:"feeType" yaml:"fee_type"`
	StartDate *time.Time      `json:"startDate,omitempty" yaml:"start_date,omitempty"`
	EndDate   *time.Time      `json:"endDate,omitempty" yaml:"end_date,omitempty"`
	Active    bool            `json:"active" yaml:"active"`
}

// HasStartDate reports whether the fee carries a usable start date. A fee
// without one is never billable.
func (f Fee) HasStartDate() bool {
	return f.StartDate != nil && !f.StartDate.IsZero()
}

// EndedBy reports whether the fee's end date is on or before instant t.
func (f Fee) EndedBy(t time.Time) bool {
	return f.EndDate != nil && !f.EndDate.IsZero() && !f.EndDate.After(t)
}

// BillableIn reports whether the fee is owed for month m: it started in m
// or earlier and had not ended by the first instant of m. Months are taken
// in loc.
func (f Fee) BillableIn(m period.Month, loc *time.Location) bool {
	if !f.HasStartDate() {
		return false
	}
	if period.NewNormalizer(loc).MonthOf(*f.StartDate).After(m) {
		return false
	}
	return !f.EndedBy(m.StartIn(loc))
}
