// Package store provides the payment record store the reconciliation engine
// reads from: households, fee definitions and payments.
package store

import (
	"context"
	"fmt"
	"time"

	"aptfee/internal/apperror"
	"aptfee/internal/models"
	"aptfee/internal/period"

	"github.com/google/uuid"
)

// Store is the persistence contract. Implementations must be safe for
// concurrent reads.
type Store interface {
	// GetHousehold returns apperror.ErrNotFound when id is unknown.
	GetHousehold(ctx context.Context, id string) (models.Household, error)
	CountHouseholds(ctx context.Context, activeOnly bool) (int, error)
	// ListFees returns fees in insertion order.
	ListFees(ctx context.Context, activeOnly bool) ([]models.Fee, error)
	// FindPayments returns matching payments in insertion order.
	FindPayments(ctx context.Context, filter PaymentFilter) ([]models.Payment, error)

	// Insert methods assign a UUID when the ID is empty.
	InsertFee(ctx context.Context, fee *models.Fee) error
	InsertHousehold(ctx context.Context, household *models.Household) error
	// InsertPayment returns apperror.ErrDuplicatePayment when a paid
	// payment already exists for the same fee, household and period. The
	// check is not transactional.
	InsertPayment(ctx context.Context, payment *models.Payment) error

	Close() error
}

// PaymentFilter narrows FindPayments. Zero fields do not filter. PaidFrom is
// inclusive and PaidTo exclusive; when either is set, payments without a
// payment date are excluded.
type PaymentFilter struct {
	HouseholdID string
	FeeID       string
	Status      models.PaymentStatus
	PaidFrom    *time.Time
	PaidTo      *time.Time
	// Undated keeps only payments with no readable payment date.
	Undated bool
}

// Match reports whether p satisfies the filter.
func (f PaymentFilter) Match(p models.Payment) bool {
	if f.HouseholdID != "" && p.HouseholdID != f.HouseholdID {
		return false
	}
	if f.FeeID != "" && p.FeeID != f.FeeID {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	undated := p.PaymentDate == nil || p.PaymentDate.IsZero()
	if f.Undated && !undated {
		return false
	}
	if f.PaidFrom == nil && f.PaidTo == nil {
		return true
	}
	if undated {
		return false
	}
	if f.PaidFrom != nil && p.PaymentDate.Before(*f.PaidFrom) {
		return false
	}
	if f.PaidTo != nil && !p.PaymentDate.Before(*f.PaidTo) {
		return false
	}
	return true
}

// PaidUndated returns a filter for paid payments without a payment date.
func PaidUndated() PaymentFilter {
	return PaymentFilter{Status: models.PaymentPaid, Undated: true}
}

// PaidBetween returns a filter for paid payments dated in [from, to).
func PaidBetween(from, to time.Time) PaymentFilter {
	return PaymentFilter{Status: models.PaymentPaid, PaidFrom: &from, PaidTo: &to}
}

func newID() string {
	return uuid.NewString()
}

// duplicateOf returns the first paid payment in existing that shares the
// fee, household and attributed period of p.
func duplicateOf(n *period.Normalizer, existing []models.Payment, p models.Payment) (models.Payment, bool) {
	if !p.IsPaid() {
		return models.Payment{}, false
	}
	attr := n.Attribute(p.Period, p.PaymentDate)
	if !attr.Known() {
		return models.Payment{}, false
	}
	for _, e := range existing {
		if !e.IsPaid() || e.FeeID != p.FeeID || e.HouseholdID != p.HouseholdID {
			continue
		}
		if n.Attribute(e.Period, e.PaymentDate).In(attr.Month) {
			return e, true
		}
	}
	return models.Payment{}, false
}

func duplicateError(n *period.Normalizer, p models.Payment, existing models.Payment) error {
	return fmt.Errorf("payment %s for fee %s, household %s, period %s conflicts with %s: %w",
		p.ID, p.FeeID, p.HouseholdID,
		n.Attribute(p.Period, p.PaymentDate).Month, existing.ID,
		apperror.ErrDuplicatePayment)
}

func validatePayment(p *models.Payment) error {
	if p.FeeID == "" {
		return &apperror.ValidationError{Field: "feeId", Reason: "required"}
	}
	if p.HouseholdID == "" {
		return &apperror.ValidationError{Field: "householdId", Reason: "required"}
	}
	if !p.Status.Valid() {
		return &apperror.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown status %q", p.Status)}
	}
	return nil
}
