// Package feestatus classifies each fee of a household as paid, pending,
// overdue or not applicable for the current and the previous billing month.
package feestatus

import (
	"aptfee/internal/models"

	"github.com/shopspring/decimal"
)

// Status is the classification of one fee for one billing month.
type Status string

// Fee statuses. Overdue is only ever produced for the previous month.
const (
	StatusPaid          Status = "paid"
	StatusPending       Status = "pending"
	StatusOverdue       Status = "overdue"
	StatusNotApplicable Status = "not_applicable"
)

// FeeStatus is the resolved state of one fee for a household.
type FeeStatus struct {
	FeeID               string
	Name                string
	FeeType             models.FeeType
	Amount              decimal.Decimal
	CurrentMonthStatus  Status
	LastMonthStatus     Status
	CurrentMonthPayment *models.Payment
	LastMonthPayment    *models.Payment
}

// Counts tallies statuses over a resolved list.
type Counts map[Status]int

// CountCurrent tallies the current-month status of every entry.
func CountCurrent(statuses []FeeStatus) Counts {
	c := Counts{}
	for _, s := range statuses {
		c[s.CurrentMonthStatus]++
	}
	return c
}

// CountLast tallies the last-month status of every entry.
func CountLast(statuses []FeeStatus) Counts {
	c := Counts{}
	for _, s := range statuses {
		c[s.LastMonthStatus]++
	}
	return c
}
