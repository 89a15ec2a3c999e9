package feestatus

import (
	"aptfee/internal/logging"
	"aptfee/internal/models"
	"aptfee/internal/period"
)

// Resolver matches a household's payments against its fees. It performs no
// I/O and holds no per-request state, so one Resolver serves concurrent
// requests.
type Resolver struct {
	normalizer *period.Normalizer
	logger     logging.Logger
}

// NewResolver creates a Resolver. A nil normalizer means UTC and a nil
// logger discards output.
func NewResolver(normalizer *period.Normalizer, logger logging.Logger) *Resolver {
	if normalizer == nil {
		normalizer = period.NewNormalizer(nil)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Resolver{
		normalizer: normalizer,
		logger:     logger.WithField(logging.FieldComponent, logging.ComponentResolver),
	}
}

// Resolve returns one FeeStatus per fee, in fee order.
//
// payments must belong to household; the resolver does not check foreign
// keys. Only payments with status paid and a known period can settle a
// window. Pending and overdue records are ignored, so a fee with only those
// reads as pending or overdue exactly as if no record existed. Within a
// window the first paid payment in input order wins. When several qualify a
// warning is logged and the others are ignored.
func (r *Resolver) Resolve(household models.Household, fees []models.Fee, payments []models.Payment, ref period.Reference) []FeeStatus {
	attributions := make([]period.Attribution, len(payments))
	for i := range payments {
		attributions[i] = r.normalizer.Attribute(payments[i].Period, payments[i].PaymentDate)
	}

	statuses := make([]FeeStatus, 0, len(fees))
	for _, fee := range fees {
		current := r.match(household, fee, payments, attributions, ref.Current)
		last := r.match(household, fee, payments, attributions, ref.Last)

		st := FeeStatus{
			FeeID:               fee.ID,
			Name:                fee.Name,
			FeeType:             fee.FeeType,
			Amount:              fee.Amount,
			CurrentMonthStatus:  StatusPending,
			CurrentMonthPayment: current,
			LastMonthPayment:    last,
		}
		if current != nil {
			st.CurrentMonthStatus = StatusPaid
		}
		switch {
		case last != nil:
			st.LastMonthStatus = StatusPaid
		case r.owed(fee, ref.Last):
			st.LastMonthStatus = StatusOverdue
		default:
			st.LastMonthStatus = StatusNotApplicable
		}
		statuses = append(statuses, st)
	}

	r.logger.Debug("Resolved fee statuses",
		logging.Field{Key: logging.FieldHouseholdID, Value: household.ID},
		logging.Field{Key: logging.FieldPeriod, Value: ref.Current.String()},
		logging.Field{Key: logging.FieldCount, Value: len(statuses)})
	return statuses
}

func (r *Resolver) match(household models.Household, fee models.Fee, payments []models.Payment, attributions []period.Attribution, window period.Month) *models.Payment {
	var found *models.Payment
	candidates := 0
	for i := range payments {
		p := payments[i]
		if p.FeeID != fee.ID || !p.IsPaid() || !attributions[i].In(window) {
			continue
		}
		candidates++
		if found == nil {
			found = &p
		}
	}

	if candidates > 1 {
		r.logger.Warn("Multiple paid payments for one period, using the first",
			logging.Field{Key: logging.FieldHouseholdID, Value: household.ID},
			logging.Field{Key: logging.FieldFeeID, Value: fee.ID},
			logging.Field{Key: logging.FieldPeriod, Value: window.String()},
			logging.Field{Key: logging.FieldPaymentID, Value: found.ID},
			logging.Field{Key: logging.FieldCount, Value: candidates})
	}
	return found
}

// owed reports whether an unpaid fee was due in month last: its start date
// is on or before the last day of that month and it had not ended when the
// month began.
func (r *Resolver) owed(fee models.Fee, last period.Month) bool {
	return fee.BillableIn(last, r.normalizer.Location())
}
