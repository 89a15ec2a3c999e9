// Package dashboard composes store counts, payment status counts and revenue
// aggregates into one snapshot.
package dashboard

import (
	"context"
	"time"

	"aptfee/internal/logging"
	"aptfee/internal/models"
	"aptfee/internal/period"
	"aptfee/internal/revenue"
	"aptfee/internal/store"

	"golang.org/x/sync/errgroup"
)

// Snapshot is everything the dashboard shows for one reference instant.
type Snapshot struct {
	At               time.Time                    `json:"at"`
	Month            period.Month                 `json:"-"`
	Households       int                          `json:"households"`
	ActiveHouseholds int                          `json:"activeHouseholds"`
	ActiveFees       int                          `json:"activeFees"`
	PaymentsByStatus map[models.PaymentStatus]int `json:"paymentsByStatus"`
	Revenue          revenue.Summary              `json:"revenue"`
}

// Composer builds snapshots from a store.
type Composer struct {
	store      store.Store
	normalizer *period.Normalizer
	aggregator *revenue.Aggregator
	logger     logging.Logger
}

// NewComposer creates a Composer.
func NewComposer(s store.Store, normalizer *period.Normalizer, aggregator *revenue.Aggregator, logger logging.Logger) *Composer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Composer{
		store:      s,
		normalizer: normalizer,
		aggregator: aggregator,
		logger:     logger.WithField(logging.FieldComponent, logging.ComponentDashboard),
	}
}

// WithTrendMonths returns a Composer whose revenue trend spans n months.
func (c *Composer) WithTrendMonths(n int) *Composer {
	agg := c.aggregator.WithTrendMonths(n)
	if agg == c.aggregator {
		return c
	}
	cp := *c
	cp.aggregator = agg
	return &cp
}

// Snapshot loads what it needs concurrently and aggregates it for the month
// containing at. Revenue totals cover the trend window ending at that month,
// including paid payments without a payment date whose billing period falls
// in the window.
// Day buckets cover dayMonth, or the reference month when dayMonth is zero.
// Any failed read fails the whole snapshot.
func (c *Composer) Snapshot(ctx context.Context, at time.Time, dayMonth period.Month) (*Snapshot, error) {
	started := time.Now()
	ref := c.normalizer.Reference(at)
	if dayMonth.IsZero() {
		dayMonth = ref.Current
	}
	first, last := c.aggregator.TrendWindow(ref.Current)
	from, to := c.normalizer.Span(first, last)
	dayOutside := dayMonth.Before(first) || dayMonth.After(last)

	var (
		snap     = &Snapshot{At: at, Month: ref.Current}
		fees     []models.Fee
		paid     []models.Payment
		undated  []models.Payment
		dayPaid  []models.Payment
		statuses []models.Payment
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.store.CountHouseholds(gctx, false)
		snap.Households = n
		return err
	})
	g.Go(func() error {
		n, err := c.store.CountHouseholds(gctx, true)
		snap.ActiveHouseholds = n
		return err
	})
	g.Go(func() error {
		var err error
		fees, err = c.store.ListFees(gctx, false)
		return err
	})
	g.Go(func() error {
		var err error
		paid, err = c.store.FindPayments(gctx, store.PaidBetween(from, to))
		return err
	})
	g.Go(func() error {
		var err error
		undated, err = c.store.FindPayments(gctx, store.PaidUndated())
		return err
	})
	if dayOutside {
		g.Go(func() error {
			var err error
			dayFrom, dayTo := c.normalizer.Bounds(dayMonth)
			dayPaid, err = c.store.FindPayments(gctx, store.PaidBetween(dayFrom, dayTo))
			return err
		})
	}
	g.Go(func() error {
		var err error
		statuses, err = c.store.FindPayments(gctx, store.PaymentFilter{})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, f := range fees {
		if f.Active {
			snap.ActiveFees++
		}
	}
	snap.PaymentsByStatus = countByStatus(statuses)
	// Undated payments count toward totals by their billing period. They have
	// no place in the trend or day buckets, which are keyed by payment date.
	for _, p := range undated {
		a := c.normalizer.Attribute(p.Period, nil)
		if a.Known() && !a.Month.Before(first) && !a.Month.After(last) {
			paid = append(paid, p)
		}
	}
	snap.Revenue = c.aggregator.Summarize(paid, fees, ref.Current, dayMonth)
	if dayOutside {
		snap.Revenue.ByDay = c.aggregator.ByDay(dayPaid, dayMonth)
	}

	c.logger.Info("Dashboard snapshot built",
		logging.Field{Key: logging.FieldPeriod, Value: ref.Current.String()},
		logging.Field{Key: logging.FieldCount, Value: snap.Revenue.PaidCount},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(started).Milliseconds()})
	return snap, nil
}

func countByStatus(payments []models.Payment) map[models.PaymentStatus]int {
	out := map[models.PaymentStatus]int{
		models.PaymentPaid:    0,
		models.PaymentPending: 0,
		models.PaymentOverdue: 0,
	}
	for _, p := range payments {
		out[p.Status]++
	}
	return out
}
