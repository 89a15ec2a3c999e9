package feestatus

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"aptfee/internal/logging"
	"aptfee/internal/models"
	"aptfee/internal/period"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func newFee(id string, amount int64, start *time.Time) models.Fee {
	return models.Fee{
		ID:        id,
		Name:      "Fee " + id,
		FeeType:   models.FeeTypeMandatory,
		Amount:    decimal.NewFromInt(amount),
		StartDate: start,
		Active:    true,
	}
}

func paid(id, feeID string, amount int64, paymentDate, periodStart *time.Time) models.Payment {
	return models.Payment{
		ID:          id,
		FeeID:       feeID,
		HouseholdID: "hh-1",
		Amount:      decimal.NewFromInt(amount),
		Status:      models.PaymentPaid,
		PaymentDate: paymentDate,
		Period:      periodStart,
	}
}

var household = models.Household{ID: "hh-1", ApartmentNumber: "A-101", Active: true}

func setup() (*Resolver, *period.Normalizer, *logging.MockLogger) {
	n := period.NewNormalizer(time.UTC)
	logger := logging.NewMockLogger()
	return NewResolver(n, logger), n, logger
}

func TestResolve_CurrentMonthExplicitPeriod(t *testing.T) {
	r, n, _ := setup()
	ref := n.Reference(time.Date(2024, time.March, 15, 10, 0, 0, 0, time.UTC))
	fee := newFee("mgmt", 500000, date(2023, time.January, 1))
	payments := []models.Payment{
		paid("p1", "mgmt", 500000, date(2024, time.March, 3), date(2024, time.March, 1)),
	}

	got := r.Resolve(household, []models.Fee{fee}, payments, ref)

	require.Len(t, got, 1)
	assert.Equal(t, StatusPaid, got[0].CurrentMonthStatus)
	require.NotNil(t, got[0].CurrentMonthPayment)
	assert.True(t, got[0].CurrentMonthPayment.Amount.Equal(decimal.NewFromInt(500000)))
	assert.Equal(t, StatusOverdue, got[0].LastMonthStatus)
	assert.Nil(t, got[0].LastMonthPayment)
	assert.Equal(t, "mgmt", got[0].FeeID)
	assert.Equal(t, models.FeeTypeMandatory, got[0].FeeType)
}

func TestResolve_LastMonthStatus(t *testing.T) {
	at := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		fee      models.Fee
		payments []models.Payment
		want     Status
	}{
		{
			name: "started in 2023 with no payments is overdue",
			fee:  newFee("f", 100, date(2023, time.January, 1)),
			want: StatusOverdue,
		},
		{
			name: "starting next month is not applicable",
			fee:  newFee("f", 100, date(2024, time.July, 1)),
			want: StatusNotApplicable,
		},
		{
			name: "starting this month is not applicable",
			fee:  newFee("f", 100, date(2024, time.June, 1)),
			want: StatusNotApplicable,
		},
		{
			name: "starting on the last day of last month is overdue",
			fee:  newFee("f", 100, date(2024, time.May, 31)),
			want: StatusOverdue,
		},
		{
			name: "missing start date is never overdue",
			fee:  newFee("f", 100, nil),
			want: StatusNotApplicable,
		},
		{
			name: "ended before last month is not applicable",
			fee: func() models.Fee {
				f := newFee("f", 100, date(2023, time.January, 1))
				f.EndDate = date(2024, time.May, 1)
				return f
			}(),
			want: StatusNotApplicable,
		},
		{
			name: "ending during last month is still overdue",
			fee: func() models.Fee {
				f := newFee("f", 100, date(2023, time.January, 1))
				f.EndDate = date(2024, time.May, 20)
				return f
			}(),
			want: StatusOverdue,
		},
		{
			name:     "legacy payment dated last month is paid",
			fee:      newFee("f", 100, date(2023, time.January, 1)),
			payments: []models.Payment{paid("p", "f", 100, date(2024, time.May, 2), nil)},
			want:     StatusPaid,
		},
		{
			name: "pending payment does not count",
			fee:  newFee("f", 100, date(2023, time.January, 1)),
			payments: []models.Payment{{
				ID: "p", FeeID: "f", HouseholdID: "hh-1", Status: models.PaymentPending,
				Period: date(2024, time.May, 1),
			}},
			want: StatusOverdue,
		},
		{
			name:     "payment for another fee does not count",
			fee:      newFee("f", 100, date(2023, time.January, 1)),
			payments: []models.Payment{paid("p", "other", 100, nil, date(2024, time.May, 1))},
			want:     StatusOverdue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, n, _ := setup()
			got := r.Resolve(household, []models.Fee{tt.fee}, tt.payments, n.Reference(at))
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].LastMonthStatus)
		})
	}
}

func TestResolve_CurrentMonthNeverOverdue(t *testing.T) {
	r, n, _ := setup()
	fees := []models.Fee{
		newFee("a", 100, date(2020, time.January, 1)),
		newFee("b", 100, nil),
		newFee("c", 100, date(2030, time.January, 1)),
	}

	got := r.Resolve(household, fees, nil, n.Reference(time.Date(2024, time.February, 29, 23, 59, 0, 0, time.UTC)))

	require.Len(t, got, 3)
	for _, st := range got {
		assert.Equal(t, StatusPending, st.CurrentMonthStatus, st.FeeID)
		assert.Nil(t, st.CurrentMonthPayment)
	}
}

func TestResolve_PreservesFeeOrder(t *testing.T) {
	r, n, _ := setup()
	fees := []models.Fee{newFee("z", 1, nil), newFee("a", 1, nil), newFee("m", 1, nil)}

	got := r.Resolve(household, fees, nil, n.Reference(time.Now()))

	ids := make([]string, len(got))
	for i, st := range got {
		ids[i] = st.FeeID
	}
	assert.Equal(t, []string{"z", "a", "m"}, ids)
}

func TestResolve_LegacyAndExplicitAlternatives(t *testing.T) {
	r, n, logger := setup()
	ref := n.Reference(time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC))
	fee := newFee("svc", 250000, date(2023, time.June, 1))
	legacy := paid("legacy", "svc", 250000, date(2024, time.April, 5), nil)
	explicit := paid("explicit", "svc", 250000, date(2024, time.March, 28), date(2024, time.April, 1))

	for _, payments := range [][]models.Payment{
		{legacy, explicit},
		{explicit, legacy},
	} {
		logger.Clear()
		got := r.Resolve(household, []models.Fee{fee}, payments, ref)

		require.Len(t, got, 1)
		assert.Equal(t, StatusPaid, got[0].CurrentMonthStatus)
		require.NotNil(t, got[0].CurrentMonthPayment)
		assert.Contains(t, []string{"legacy", "explicit"}, got[0].CurrentMonthPayment.ID)
		assert.Equal(t, payments[0].ID, got[0].CurrentMonthPayment.ID)
		assert.Len(t, logger.GetEntriesByLevel("WARN"), 1)
	}
}

func TestResolve_ExplicitPeriodOverridesPaymentDate(t *testing.T) {
	r, n, _ := setup()
	ref := n.Reference(time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC))
	fee := newFee("svc", 100, date(2023, time.June, 1))
	// Paid in April for March.
	payments := []models.Payment{paid("p", "svc", 100, date(2024, time.April, 2), date(2024, time.March, 1))}

	got := r.Resolve(household, []models.Fee{fee}, payments, ref)

	assert.Equal(t, StatusPending, got[0].CurrentMonthStatus)
	assert.Equal(t, StatusPaid, got[0].LastMonthStatus)
}

func TestResolve_UnknownPeriodExcluded(t *testing.T) {
	r, n, _ := setup()
	ref := n.Reference(time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC))
	fee := newFee("svc", 100, date(2023, time.June, 1))
	payments := []models.Payment{paid("p", "svc", 100, nil, nil)}

	got := r.Resolve(household, []models.Fee{fee}, payments, ref)

	assert.Equal(t, StatusPending, got[0].CurrentMonthStatus)
	assert.Equal(t, StatusOverdue, got[0].LastMonthStatus)
}

func TestResolve_OnlyPaidPaymentsMatch(t *testing.T) {
	at := time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC)
	unpaid := func(id string, status models.PaymentStatus) models.Payment {
		p := paid(id, "svc", 100, date(2024, time.April, 3), date(2024, time.April, 1))
		p.Status = status
		return p
	}
	tests := []struct {
		name     string
		payments []models.Payment
		want     Status
		wantID   string
	}{
		{"pending", []models.Payment{unpaid("p", models.PaymentPending)}, StatusPending, ""},
		{"overdue", []models.Payment{unpaid("p", models.PaymentOverdue)}, StatusPending, ""},
		{"blank status", []models.Payment{unpaid("p", "")}, StatusPending, ""},
		{"paid after pending", []models.Payment{unpaid("p1", models.PaymentPending), paid("p2", "svc", 100, nil, date(2024, time.April, 1))}, StatusPaid, "p2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, n, logger := setup()
			got := r.Resolve(household, []models.Fee{newFee("svc", 100, date(2023, time.June, 1))}, tt.payments, n.Reference(at))

			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].CurrentMonthStatus)
			if tt.wantID == "" {
				assert.Nil(t, got[0].CurrentMonthPayment)
			} else {
				require.NotNil(t, got[0].CurrentMonthPayment)
				assert.Equal(t, tt.wantID, got[0].CurrentMonthPayment.ID)
			}
			assert.Empty(t, logger.GetEntriesByLevel("WARN"), "unpaid records are not candidates")
		})
	}
}

func TestResolve_MatchedPaymentIsACopy(t *testing.T) {
	r, n, _ := setup()
	ref := n.Reference(time.Date(2024, time.April, 20, 0, 0, 0, 0, time.UTC))
	payments := []models.Payment{paid("p", "svc", 100, nil, date(2024, time.April, 1))}

	got := r.Resolve(household, []models.Fee{newFee("svc", 100, nil)}, payments, ref)
	got[0].CurrentMonthPayment.Note = "edited"

	assert.Empty(t, payments[0].Note)
}

func TestResolve_FixedLocationAtMonthBoundary(t *testing.T) {
	ict := time.FixedZone("ICT", 7*60*60)
	r := NewResolver(period.NewNormalizer(ict), nil)
	n := period.NewNormalizer(ict)

	// 2024-03-31 20:00 UTC is already April 1st in ICT.
	ref := n.Reference(time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC))
	paidAt := time.Date(2024, time.March, 31, 18, 0, 0, 0, time.UTC)
	payments := []models.Payment{paid("p", "svc", 100, &paidAt, nil)}

	got := r.Resolve(household, []models.Fee{newFee("svc", 100, date(2023, time.January, 1))}, payments, ref)

	assert.Equal(t, period.NewMonth(2024, time.April), ref.Current)
	assert.Equal(t, StatusPaid, got[0].CurrentMonthStatus)
}

// Property: with no payments, every fee is pending this month and overdue or
// not applicable last month depending only on its start date.
func TestResolve_ZeroPaymentsProperty(t *testing.T) {
	r, n, _ := setup()
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		at := time.Date(2020+rng.Intn(6), time.Month(1+rng.Intn(12)), 1+rng.Intn(28), rng.Intn(24), 0, 0, 0, time.UTC)
		ref := n.Reference(at)

		var start *time.Time
		if rng.Intn(5) > 0 {
			start = date(2019+rng.Intn(8), time.Month(1+rng.Intn(12)), 1+rng.Intn(28))
		}
		fee := newFee(fmt.Sprintf("f%d", i), int64(rng.Intn(1000000)), start)

		got := r.Resolve(household, []models.Fee{fee}, nil, ref)
		require.Len(t, got, 1)
		assert.Equal(t, StatusPending, got[0].CurrentMonthStatus)

		want := StatusNotApplicable
		if start != nil && !n.MonthOf(*start).After(ref.Last) {
			want = StatusOverdue
		}
		assert.Equal(t, want, got[0].LastMonthStatus, "at=%s start=%v", at, start)
	}
}

func TestCounts(t *testing.T) {
	statuses := []FeeStatus{
		{CurrentMonthStatus: StatusPaid, LastMonthStatus: StatusOverdue},
		{CurrentMonthStatus: StatusPending, LastMonthStatus: StatusOverdue},
		{CurrentMonthStatus: StatusPending, LastMonthStatus: StatusNotApplicable},
	}

	assert.Equal(t, Counts{StatusPaid: 1, StatusPending: 2}, CountCurrent(statuses))
	assert.Equal(t, Counts{StatusOverdue: 2, StatusNotApplicable: 1}, CountLast(statuses))
}
