package report

import (
	"strconv"

	"aptfee/internal/dashboard"
	"aptfee/internal/dateutils"
	"aptfee/internal/feestatus"
	"aptfee/internal/importer"
	"aptfee/internal/models"
	"aptfee/internal/revenue"
	"aptfee/internal/service"
)

type statusRow struct {
	HouseholdID      string `csv:"household_id"`
	Period           string `csv:"period"`
	FeeID            string `csv:"fee_id"`
	Name             string `csv:"name"`
	FeeType          string `csv:"fee_type"`
	Amount           string `csv:"amount"`
	CurrentStatus    string `csv:"current_month_status"`
	LastStatus       string `csv:"last_month_status"`
	CurrentPaymentID string `csv:"current_month_payment"`
	LastPaymentID    string `csv:"last_month_payment"`
}

func paymentID(p *models.Payment) string {
	if p == nil {
		return ""
	}
	return p.ID
}

func statusRows(hs *service.HouseholdStatus) []statusRow {
	rows := make([]statusRow, 0, len(hs.Fees))
	for _, fs := range hs.Fees {
		rows = append(rows, statusRow{
			HouseholdID:      hs.Household.ID,
			Period:           hs.Period,
			FeeID:            fs.FeeID,
			Name:             fs.Name,
			FeeType:          string(fs.FeeType),
			Amount:           fs.Amount.String(),
			CurrentStatus:    string(fs.CurrentMonthStatus),
			LastStatus:       string(fs.LastMonthStatus),
			CurrentPaymentID: paymentID(fs.CurrentMonthPayment),
			LastPaymentID:    paymentID(fs.LastMonthPayment),
		})
	}
	return rows
}

// metricRow is the long format shared by the summary exports: one row per
// (section, key) pair.
type metricRow struct {
	Section string `csv:"section"`
	Key     string `csv:"key"`
	Count   string `csv:"count"`
	Amount  string `csv:"amount"`
}

func summaryRows(s revenue.Summary) []metricRow {
	rows := []metricRow{{
		Section: "total",
		Key:     "revenue",
		Count:   strconv.Itoa(s.PaidCount),
		Amount:  s.Total.String(),
	}}
	for _, e := range SortCategories(s.ByCategory) {
		rows = append(rows, metricRow{Section: "category", Key: e.Key, Amount: e.Total.String()})
	}
	for i, label := range s.Trend.Labels {
		rows = append(rows, metricRow{Section: "month", Key: label, Amount: s.Trend.Data[i].String()})
	}
	for _, d := range SortDays(s.ByDay) {
		b := s.ByDay[d]
		rows = append(rows, metricRow{
			Section: "day",
			Key:     dayLabel(s, d),
			Count:   strconv.Itoa(b.Count),
			Amount:  b.Amount.String(),
		})
	}
	for _, e := range SortBuckets(s.ByMethod) {
		rows = append(rows, metricRow{Section: "method", Key: e.Key, Count: strconv.Itoa(e.Count), Amount: e.Total.String()})
	}
	for _, e := range SortBuckets(s.ByFeeType) {
		rows = append(rows, metricRow{Section: "fee_type", Key: e.Key, Count: strconv.Itoa(e.Count), Amount: e.Total.String()})
	}
	return rows
}

func dashboardRows(s *dashboard.Snapshot) []metricRow {
	rows := []metricRow{
		{Section: "households", Key: "total", Count: strconv.Itoa(s.Households)},
		{Section: "households", Key: "active", Count: strconv.Itoa(s.ActiveHouseholds)},
		{Section: "fees", Key: "active", Count: strconv.Itoa(s.ActiveFees)},
	}
	for _, st := range []models.PaymentStatus{models.PaymentPaid, models.PaymentPending, models.PaymentOverdue} {
		rows = append(rows, metricRow{Section: "payments", Key: string(st), Count: strconv.Itoa(s.PaymentsByStatus[st])})
	}
	return append(rows, summaryRows(s.Revenue)...)
}

type duplicateRow struct {
	FeeID       string `csv:"fee_id"`
	HouseholdID string `csv:"household_id"`
	Period      string `csv:"period"`
	PaymentID   string `csv:"payment_id"`
	Amount      string `csv:"amount"`
	PaymentDate string `csv:"payment_date"`
}

func duplicateRows(dups []feestatus.Duplicate) []duplicateRow {
	rows := make([]duplicateRow, 0, len(dups))
	for _, d := range dups {
		for _, p := range d.Payments {
			rows = append(rows, duplicateRow{
				FeeID:       d.FeeID,
				HouseholdID: d.HouseholdID,
				Period:      d.PeriodKey,
				PaymentID:   p.ID,
				Amount:      p.Amount.String(),
				PaymentDate: dateutils.FormatOptional(p.PaymentDate),
			})
		}
	}
	return rows
}

type importRow struct {
	File       string `csv:"file"`
	Read       int    `csv:"read"`
	Inserted   int    `csv:"inserted"`
	Duplicates int    `csv:"duplicates"`
	Rejected   int    `csv:"rejected"`
}

func importRows(results []*importer.Result) []importRow {
	rows := make([]importRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, importRow{
			File:       r.File,
			Read:       r.Read,
			Inserted:   r.Inserted,
			Duplicates: r.Duplicates,
			Rejected:   r.Rejected,
		})
	}
	return rows
}
