package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus is the collection state recorded on a payment.
type PaymentStatus string

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentPending, PaymentOverdue:
		return true
	}
	return false
}

// Payment is one collection record of a fee for a household.
//
// PaymentDate is nil when the payment was never made. Period is the
// first-of-month the payment is attributed to; records created before the
// field existed leave it nil and are attributed by PaymentDate instead.
type Payment struct {
	ID          string          `json:"id"`
	FeeID       string          `json:"feeId"`
	HouseholdID string          `json:"householdId"`
	Amount      decimal.Decimal `json:"amount"`
	Status      PaymentStatus   `json:"status"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty"`
	Period      *time.Time      `json:"period,omitempty"`
	Method      string          `json:"method,omitempty"`
	Note        string          `json:"note,omitempty"`
}

// IsPaid returns true if the payment carries the paid status
func (p Payment) IsPaid() bool {
	return p.Status == PaymentPaid
}

// FilterPaid returns the paid payments of ps, preserving order.
func FilterPaid(ps []Payment) []Payment {
	paid := make([]Payment, 0, len(ps))
	for _, p := range ps {
		if p.IsPaid() {
			paid = append(paid, p)
		}
	}
	return paid
}

// FeeIndex maps fee IDs to fees for lookups during aggregation.
func FeeIndex(fees []Fee) map[string]Fee {
	idx := make(map[string]Fee, len(fees))
	for _, f := range fees {
		idx[f.ID] = f
	}
	return idx
}
