// Package revenue aggregates paid payments into totals, per-category and
// per-key breakdowns, a rolling monthly trend and day-of-month buckets.
//
// All sums use decimal arithmetic. Functions never fail: an empty input
// yields zero-valued aggregates.
package revenue

import (
	"aptfee/internal/labels"
	"aptfee/internal/logging"
	"aptfee/internal/models"
	"aptfee/internal/period"

	"github.com/shopspring/decimal"
)

// DefaultTrendMonths is the trend length used when none is configured.
const DefaultTrendMonths = 6

// Config holds the aggregator settings.
type Config struct {
	TrendMonths int
	Labels      labels.Table
}

// Bucket is a count and a sum of payment amounts.
type Bucket struct {
	Count  int
	Amount decimal.Decimal
}

func (b Bucket) add(amount decimal.Decimal) Bucket {
	return Bucket{Count: b.Count + 1, Amount: b.Amount.Add(amount)}
}

// Trend is a fixed-length series of monthly totals, oldest first.
type Trend struct {
	Months []period.Month
	Labels []string
	Data   []decimal.Decimal
}

// Sum returns the total over every bucket of the trend.
func (t Trend) Sum() decimal.Decimal {
	sum := decimal.Zero
	for _, v := range t.Data {
		sum = sum.Add(v)
	}
	return sum
}

// Summary is the full set of aggregates for a dashboard or report.
type Summary struct {
	PaidCount  int
	Total      decimal.Decimal
	ByCategory map[string]decimal.Decimal
	Trend      Trend
	DayMonth   period.Month
	ByDay      map[int]Bucket
	ByMethod   map[string]Bucket
	ByFeeType  map[string]Bucket
}

// Aggregator computes revenue aggregates with a fixed configuration.
type Aggregator struct {
	cfg        Config
	normalizer *period.Normalizer
	logger     logging.Logger
}

// NewAggregator creates an Aggregator. A non-positive TrendMonths falls back
// to DefaultTrendMonths.
func NewAggregator(cfg Config, normalizer *period.Normalizer, logger logging.Logger) *Aggregator {
	if cfg.TrendMonths <= 0 {
		cfg.TrendMonths = DefaultTrendMonths
	}
	if normalizer == nil {
		normalizer = period.NewNormalizer(nil)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Aggregator{
		cfg:        cfg,
		normalizer: normalizer,
		logger:     logger.WithField(logging.FieldComponent, logging.ComponentAggregator),
	}
}

// TrendMonths returns the configured trend length.
func (a *Aggregator) TrendMonths() int {
	return a.cfg.TrendMonths
}

// WithTrendMonths returns a copy of a with a different trend length. A
// non-positive n keeps the current one.
func (a *Aggregator) WithTrendMonths(n int) *Aggregator {
	if n <= 0 || n == a.cfg.TrendMonths {
		return a
	}
	cp := *a
	cp.cfg.TrendMonths = n
	return &cp
}

// TrendWindow returns the first and last month of the trend ending at end.
func (a *Aggregator) TrendWindow(end period.Month) (period.Month, period.Month) {
	return end.AddMonths(1 - a.cfg.TrendMonths), end
}

// Total sums the amount of every payment.
func Total(payments []models.Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum
}

// ByCategory sums payments per fee display name. The fee name goes through
// the label table; a payment whose fee is not in fees is keyed by its raw
// fee ID. Categories that total zero are left out.
func (a *Aggregator) ByCategory(payments []models.Payment, fees []models.Fee) map[string]decimal.Decimal {
	idx := models.FeeIndex(fees)
	out := make(map[string]decimal.Decimal)
	for _, p := range payments {
		key := p.FeeID
		if fee, ok := idx[p.FeeID]; ok {
			key = a.cfg.Labels.FeeName(fee.Name)
		}
		if cur, ok := out[key]; ok {
			out[key] = cur.Add(p.Amount)
		} else {
			out[key] = p.Amount
		}
	}
	for k, v := range out {
		if v.IsZero() {
			delete(out, k)
		}
	}
	return out
}

// MonthlyTrend returns exactly TrendMonths buckets ending at end, each
// holding the sum of payments whose payment date falls in that month.
// Payments without a payment date are not placed in any bucket.
func (a *Aggregator) MonthlyTrend(payments []models.Payment, end period.Month) Trend {
	months := period.Range(end, a.cfg.TrendMonths)
	trend := Trend{
		Months: months,
		Labels: make([]string, len(months)),
		Data:   make([]decimal.Decimal, len(months)),
	}
	slot := make(map[period.Month]int, len(months))
	for i, m := range months {
		trend.Labels[i] = m.Label()
		trend.Data[i] = decimal.Zero
		slot[m] = i
	}

	for _, p := range payments {
		if p.PaymentDate == nil {
			continue
		}
		if i, ok := slot[a.normalizer.MonthOf(*p.PaymentDate)]; ok {
			trend.Data[i] = trend.Data[i].Add(p.Amount)
		}
	}
	return trend
}

// ByDay buckets payments dated in month m by day of month. Only days with
// at least one payment appear.
func (a *Aggregator) ByDay(payments []models.Payment, m period.Month) map[int]Bucket {
	out := make(map[int]Bucket)
	loc := a.normalizer.Location()
	for _, p := range payments {
		if p.PaymentDate == nil || !a.normalizer.Contains(m, *p.PaymentDate) {
			continue
		}
		day := p.PaymentDate.In(loc).Day()
		out[day] = out[day].add(p.Amount)
	}
	return out
}

// GroupBy counts and sums payments per key.
func GroupBy(payments []models.Payment, key func(models.Payment) string) map[string]Bucket {
	out := make(map[string]Bucket)
	for _, p := range payments {
		k := key(p)
		out[k] = out[k].add(p.Amount)
	}
	return out
}

// ByMethod groups payments by their raw payment method.
func ByMethod(payments []models.Payment) map[string]Bucket {
	return GroupBy(payments, func(p models.Payment) string { return p.Method })
}

// ByFeeType groups payments by the raw type of their fee. Payments whose
// fee is unknown share the empty key.
func ByFeeType(payments []models.Payment, fees []models.Fee) map[string]Bucket {
	idx := models.FeeIndex(fees)
	return GroupBy(payments, func(p models.Payment) string {
		return string(idx[p.FeeID].FeeType)
	})
}

// Summarize filters payments down to paid ones and computes every
// aggregate. The trend ends at ref; day buckets cover dayMonth, or ref when
// dayMonth is zero.
func (a *Aggregator) Summarize(payments []models.Payment, fees []models.Fee, ref, dayMonth period.Month) Summary {
	paid := models.FilterPaid(payments)
	if dayMonth.IsZero() {
		dayMonth = ref
	}

	s := Summary{
		PaidCount:  len(paid),
		Total:      Total(paid),
		ByCategory: a.ByCategory(paid, fees),
		Trend:      a.MonthlyTrend(paid, ref),
		DayMonth:   dayMonth,
		ByDay:      a.ByDay(paid, dayMonth),
		ByMethod:   ByMethod(paid),
		ByFeeType:  ByFeeType(paid, fees),
	}

	a.logger.Debug("Summarized revenue",
		logging.Field{Key: logging.FieldCount, Value: s.PaidCount},
		logging.Field{Key: logging.FieldWindow, Value: ref.String()})
	return s
}
