package feestatus

import (
	"aptfee/internal/models"
	"aptfee/internal/period"
)

// Duplicate is a (fee, household, period) key carrying more than one paid
// payment. Payments are listed in input order; the first is the one the
// resolver matches.
type Duplicate struct {
	FeeID       string           `json:"feeId"`
	HouseholdID string           `json:"householdId"`
	Period      period.Month     `json:"-"`
	PeriodKey   string           `json:"period"`
	Payments    []models.Payment `json:"payments"`
}

type dupKey struct {
	fee, household string
	month          period.Month
}

// FindDuplicates lists every key with more than one paid payment, ordered
// by first occurrence. Payments with an unknown period are skipped.
func FindDuplicates(payments []models.Payment, normalizer *period.Normalizer) []Duplicate {
	if normalizer == nil {
		normalizer = period.NewNormalizer(nil)
	}

	groups := make(map[dupKey][]models.Payment)
	var order []dupKey
	for _, p := range payments {
		if !p.IsPaid() {
			continue
		}
		attr := normalizer.Attribute(p.Period, p.PaymentDate)
		if !attr.Known() {
			continue
		}
		k := dupKey{fee: p.FeeID, household: p.HouseholdID, month: attr.Month}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], p)
	}

	var dups []Duplicate
	for _, k := range order {
		if len(groups[k]) < 2 {
			continue
		}
		dups = append(dups, Duplicate{
			FeeID:       k.fee,
			HouseholdID: k.household,
			Period:      k.month,
			PeriodKey:   k.month.String(),
			Payments:    groups[k],
		})
	}
	return dups
}
