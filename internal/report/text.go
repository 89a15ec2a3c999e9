package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"aptfee/internal/currencyutils"
	"aptfee/internal/dashboard"
	"aptfee/internal/dateutils"
	"aptfee/internal/feestatus"
	"aptfee/internal/importer"
	"aptfee/internal/models"
	"aptfee/internal/revenue"
	"aptfee/internal/service"
)

// table is a tabwriter whose first write error sticks, so renderers can
// print row after row and check once at flush.
type table struct {
	tw  *tabwriter.Writer
	err error
}

func newTable(w io.Writer) *table {
	return &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
}

func (t *table) row(format string, args ...any) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.tw, format+"\n", args...)
}

func (t *table) flush() error {
	if t.err != nil {
		return t.err
	}
	return t.tw.Flush()
}

func (g *Generator) statusText(w io.Writer, hs *service.HouseholdStatus) error {
	t := newTable(w)
	t.row("Household %s (%s)\tperiod %s", hs.Household.ApartmentNumber, hs.Household.ID, hs.Period)
	t.row("")
	t.row("FEE\tTYPE\tAMOUNT\tCURRENT\tLAST")
	for _, fs := range hs.Fees {
		t.row("%s\t%s\t%s\t%s\t%s",
			g.labels.FeeName(fs.Name),
			g.labels.FeeType(string(fs.FeeType)),
			currencyutils.FormatVND(fs.Amount),
			fs.CurrentMonthStatus,
			fs.LastMonthStatus,
		)
	}
	if len(hs.Fees) == 0 {
		t.row("(no active fees)")
	}
	return t.flush()
}

func (g *Generator) dashboardText(w io.Writer, s *dashboard.Snapshot) error {
	t := newTable(w)
	t.row("Dashboard\t%s", s.Month.Label())
	t.row("Households\t%d (%d active)", s.Households, s.ActiveHouseholds)
	t.row("Active fees\t%d", s.ActiveFees)
	t.row("Payments\tpaid %d, pending %d, overdue %d",
		s.PaymentsByStatus[models.PaymentPaid],
		s.PaymentsByStatus[models.PaymentPending],
		s.PaymentsByStatus[models.PaymentOverdue],
	)
	t.row("")
	if err := t.flush(); err != nil {
		return err
	}
	return g.revenueText(w, s.Revenue)
}

func (g *Generator) revenueText(w io.Writer, s revenue.Summary) error {
	t := newTable(w)
	t.row("Total revenue\t%s\t(%d paid)", currencyutils.FormatVND(s.Total), s.PaidCount)

	t.row("")
	t.row("BY FEE\tAMOUNT")
	for _, e := range SortCategories(s.ByCategory) {
		t.row("%s\t%s", g.labels.FeeName(e.Key), currencyutils.FormatVND(e.Total))
	}

	t.row("")
	t.row("MONTH\tAMOUNT")
	for i, label := range s.Trend.Labels {
		t.row("%s\t%s", label, currencyutils.FormatVND(s.Trend.Data[i]))
	}

	if len(s.ByDay) > 0 {
		t.row("")
		t.row("DAY\tCOUNT\tAMOUNT")
		for _, d := range SortDays(s.ByDay) {
			b := s.ByDay[d]
			t.row("%s\t%d\t%s", dayLabel(s, d), b.Count, currencyutils.FormatVND(b.Amount))
		}
	}

	t.row("")
	t.row("METHOD\tCOUNT\tAMOUNT")
	for _, e := range SortBuckets(s.ByMethod) {
		key := e.Key
		if key == "" {
			key = "-"
		}
		t.row("%s\t%d\t%s", key, e.Count, currencyutils.FormatVND(e.Total))
	}

	t.row("")
	t.row("FEE TYPE\tCOUNT\tAMOUNT")
	for _, e := range SortBuckets(s.ByFeeType) {
		key := g.labels.FeeType(e.Key)
		if key == "" {
			key = "-"
		}
		t.row("%s\t%d\t%s", key, e.Count, currencyutils.FormatVND(e.Total))
	}
	return t.flush()
}

func (g *Generator) duplicatesText(w io.Writer, dups []feestatus.Duplicate) error {
	t := newTable(w)
	if len(dups) == 0 {
		t.row("No duplicate payments found")
		return t.flush()
	}
	t.row("FEE\tHOUSEHOLD\tPERIOD\tPAYMENT\tAMOUNT\tPAID ON")
	for _, d := range dups {
		for _, p := range d.Payments {
			t.row("%s\t%s\t%s\t%s\t%s\t%s",
				d.FeeID, d.HouseholdID, d.PeriodKey, p.ID,
				currencyutils.FormatVND(p.Amount),
				dateutils.FormatOptional(p.PaymentDate),
			)
		}
	}
	return t.flush()
}

func (g *Generator) importsText(w io.Writer, results []*importer.Result) error {
	t := newTable(w)
	t.row("FILE\tREAD\tINSERTED\tDUPLICATES\tREJECTED")
	for _, r := range results {
		t.row("%s\t%d\t%d\t%d\t%d", r.File, r.Read, r.Inserted, r.Duplicates, r.Rejected)
	}
	for _, r := range results {
		for _, err := range r.Errors {
			t.row("  %s", err)
		}
	}
	return t.flush()
}
