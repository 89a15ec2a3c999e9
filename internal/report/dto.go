package report

import (
	"encoding/json"
	"strconv"
	"time"

	"aptfee/internal/dashboard"
	"aptfee/internal/dateutils"
	"aptfee/internal/feestatus"
	"aptfee/internal/importer"
	"aptfee/internal/models"
	"aptfee/internal/revenue"
	"aptfee/internal/service"

	"github.com/shopspring/decimal"
)

// number renders an amount as a JSON number carrying the exact decimal.
func number(d decimal.Decimal) json.Number {
	return json.Number(d.String())
}

type paymentJSON struct {
	ID          string      `json:"id"`
	FeeID       string      `json:"feeId"`
	HouseholdID string      `json:"householdId"`
	Amount      json.Number `json:"amount"`
	Status      string      `json:"status"`
	PaymentDate string      `json:"paymentDate,omitempty"`
	Period      string      `json:"period,omitempty"`
	Method      string      `json:"method,omitempty"`
	Note        string      `json:"note,omitempty"`
}

func toPaymentJSON(p *models.Payment) *paymentJSON {
	if p == nil {
		return nil
	}
	return &paymentJSON{
		ID:          p.ID,
		FeeID:       p.FeeID,
		HouseholdID: p.HouseholdID,
		Amount:      number(p.Amount),
		Status:      string(p.Status),
		PaymentDate: formatInstant(p.PaymentDate),
		Period:      formatInstant(p.Period),
		Method:      p.Method,
		Note:        p.Note,
	}
}

func formatInstant(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

type feeStatusJSON struct {
	FeeID               string       `json:"feeId"`
	Name                string       `json:"name"`
	FeeType             string       `json:"feeType"`
	Amount              json.Number  `json:"amount"`
	CurrentMonthStatus  string       `json:"currentMonthStatus"`
	LastMonthStatus     string       `json:"lastMonthStatus"`
	CurrentMonthPayment *paymentJSON `json:"currentMonthPayment"`
	LastMonthPayment    *paymentJSON `json:"lastMonthPayment"`
}

type householdStatusJSON struct {
	HouseholdID     string          `json:"householdId"`
	ApartmentNumber string          `json:"apartmentNumber"`
	Period          string          `json:"period"`
	Fees            []feeStatusJSON `json:"fees"`
}

func toHouseholdStatusJSON(hs *service.HouseholdStatus) householdStatusJSON {
	out := householdStatusJSON{
		HouseholdID:     hs.Household.ID,
		ApartmentNumber: hs.Household.ApartmentNumber,
		Period:          hs.Period,
		Fees:            make([]feeStatusJSON, 0, len(hs.Fees)),
	}
	for _, fs := range hs.Fees {
		out.Fees = append(out.Fees, feeStatusJSON{
			FeeID:               fs.FeeID,
			Name:                fs.Name,
			FeeType:             string(fs.FeeType),
			Amount:              number(fs.Amount),
			CurrentMonthStatus:  string(fs.CurrentMonthStatus),
			LastMonthStatus:     string(fs.LastMonthStatus),
			CurrentMonthPayment: toPaymentJSON(fs.CurrentMonthPayment),
			LastMonthPayment:    toPaymentJSON(fs.LastMonthPayment),
		})
	}
	return out
}

type keyedJSON struct {
	Key   string      `json:"key"`
	Total json.Number `json:"total"`
	Count int         `json:"count"`
}

func toKeyedJSON(entries []KeyedTotal) []keyedJSON {
	out := make([]keyedJSON, 0, len(entries))
	for _, e := range entries {
		out = append(out, keyedJSON{Key: e.Key, Total: number(e.Total), Count: e.Count})
	}
	return out
}

type dayJSON struct {
	Count  int         `json:"count"`
	Amount json.Number `json:"amount"`
}

type trendJSON struct {
	Labels []string      `json:"labels"`
	Data   []json.Number `json:"data"`
}

type summaryJSON struct {
	TotalRevenue      json.Number            `json:"totalRevenue"`
	PaidCount         int                    `json:"paidCount"`
	RevenueByCategory map[string]json.Number `json:"revenueByCategory"`
	MonthlyTrend      trendJSON              `json:"monthlyTrend"`
	DayMonth          string                 `json:"dayMonth"`
	TotalsByDay       map[string]dayJSON     `json:"totalsByDay"`
	TotalsByMethod    []keyedJSON            `json:"totalsByMethod"`
	TotalsByFeeType   []keyedJSON            `json:"totalsByFeeType"`
}

func toSummaryJSON(s revenue.Summary) summaryJSON {
	out := summaryJSON{
		TotalRevenue:      number(s.Total),
		PaidCount:         s.PaidCount,
		RevenueByCategory: make(map[string]json.Number, len(s.ByCategory)),
		MonthlyTrend: trendJSON{
			Labels: append([]string{}, s.Trend.Labels...),
			Data:   make([]json.Number, len(s.Trend.Data)),
		},
		DayMonth:        s.DayMonth.String(),
		TotalsByDay:     make(map[string]dayJSON, len(s.ByDay)),
		TotalsByMethod:  toKeyedJSON(SortBuckets(s.ByMethod)),
		TotalsByFeeType: toKeyedJSON(SortBuckets(s.ByFeeType)),
	}
	for k, v := range s.ByCategory {
		out.RevenueByCategory[k] = number(v)
	}
	for i, v := range s.Trend.Data {
		out.MonthlyTrend.Data[i] = number(v)
	}
	for d, b := range s.ByDay {
		out.TotalsByDay[strconv.Itoa(d)] = dayJSON{Count: b.Count, Amount: number(b.Amount)}
	}
	return out
}

type snapshotJSON struct {
	At               string         `json:"at"`
	Period           string         `json:"period"`
	Households       int            `json:"households"`
	ActiveHouseholds int            `json:"activeHouseholds"`
	ActiveFees       int            `json:"activeFees"`
	PaymentsByStatus map[string]int `json:"paymentsByStatus"`
	summaryJSON
}

func toSnapshotJSON(s *dashboard.Snapshot) snapshotJSON {
	byStatus := make(map[string]int, len(s.PaymentsByStatus))
	for k, v := range s.PaymentsByStatus {
		byStatus[string(k)] = v
	}
	return snapshotJSON{
		At:               s.At.Format(time.RFC3339),
		Period:           s.Month.String(),
		Households:       s.Households,
		ActiveHouseholds: s.ActiveHouseholds,
		ActiveFees:       s.ActiveFees,
		PaymentsByStatus: byStatus,
		summaryJSON:      toSummaryJSON(s.Revenue),
	}
}

type duplicateJSON struct {
	FeeID       string        `json:"feeId"`
	HouseholdID string        `json:"householdId"`
	Period      string        `json:"period"`
	Payments    []paymentJSON `json:"payments"`
}

func toDuplicatesJSON(dups []feestatus.Duplicate) []duplicateJSON {
	out := make([]duplicateJSON, 0, len(dups))
	for _, d := range dups {
		dj := duplicateJSON{FeeID: d.FeeID, HouseholdID: d.HouseholdID, Period: d.PeriodKey}
		for i := range d.Payments {
			dj.Payments = append(dj.Payments, *toPaymentJSON(&d.Payments[i]))
		}
		out = append(out, dj)
	}
	return out
}

type importJSON struct {
	File       string   `json:"file"`
	Read       int      `json:"read"`
	Inserted   int      `json:"inserted"`
	Duplicates int      `json:"duplicates"`
	Rejected   int      `json:"rejected"`
	Errors     []string `json:"errors,omitempty"`
}

func toImportJSON(results []*importer.Result) []importJSON {
	out := make([]importJSON, 0, len(results))
	for _, r := range results {
		ij := importJSON{File: r.File, Read: r.Read, Inserted: r.Inserted, Duplicates: r.Duplicates, Rejected: r.Rejected}
		for _, err := range r.Errors {
			ij.Errors = append(ij.Errors, err.Error())
		}
		out = append(out, ij)
	}
	return out
}

// dayLabel renders a day bucket as an ISO date within month m.
func dayLabel(s revenue.Summary, day int) string {
	return dateutils.ToISODate(s.DayMonth.Start().AddDate(0, 0, day-1))
}
