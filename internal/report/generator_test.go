package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"aptfee/internal/dashboard"
	"aptfee/internal/feestatus"
	"aptfee/internal/importer"
	"aptfee/internal/labels"
	"aptfee/internal/logging"
	"aptfee/internal/models"
	"aptfee/internal/period"
	"aptfee/internal/revenue"
	"aptfee/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vnd(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func timePtr(t time.Time) *time.Time { return &t }

func jsonKeys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func sampleStatus() *service.HouseholdStatus {
	paidOn := time.Date(2024, time.March, 5, 3, 0, 0, 0, time.UTC)
	return &service.HouseholdStatus{
		Household: models.Household{ID: "h1", ApartmentNumber: "A-101", Active: true},
		Period:    "2024-03",
		Fees: []feestatus.FeeStatus{
			{
				FeeID:              "f1",
				Name:               "Management fee",
				FeeType:            "mandatory",
				Amount:             vnd(1500000),
				CurrentMonthStatus: feestatus.StatusPaid,
				LastMonthStatus:    feestatus.StatusOverdue,
				CurrentMonthPayment: &models.Payment{
					ID: "p1", FeeID: "f1", HouseholdID: "h1", Amount: vnd(1500000),
					Status: models.PaymentPaid, PaymentDate: timePtr(paidOn),
				},
			},
			{
				FeeID:              "f2",
				Name:               "Parking fee",
				FeeType:            "parking",
				Amount:             vnd(120000),
				CurrentMonthStatus: feestatus.StatusPending,
				LastMonthStatus:    feestatus.StatusNotApplicable,
			},
		},
	}
}

func sampleSummary() revenue.Summary {
	return revenue.Summary{
		PaidCount:  3,
		Total:      vnd(1740000),
		ByCategory: map[string]decimal.Decimal{"Management fee": vnd(1500000), "Parking fee": vnd(240000)},
		Trend: revenue.Trend{
			Labels: []string{"02/2024", "03/2024"},
			Data:   []decimal.Decimal{vnd(120000), vnd(1620000)},
		},
		DayMonth: period.NewMonth(2024, time.March),
		ByDay: map[int]revenue.Bucket{
			5: {Count: 2, Amount: vnd(1620000)},
		},
		ByMethod: map[string]revenue.Bucket{
			"cash":     {Count: 1, Amount: vnd(120000)},
			"transfer": {Count: 2, Amount: vnd(1620000)},
		},
		ByFeeType: map[string]revenue.Bucket{
			"mandatory": {Count: 1, Amount: vnd(1500000)},
			"parking":   {Count: 2, Amount: vnd(240000)},
		},
	}
}

func TestSortBuckets(t *testing.T) {
	got := SortBuckets(map[string]revenue.Bucket{
		"b":    {Count: 1, Amount: vnd(100)},
		"a":    {Count: 4, Amount: vnd(100)},
		"cash": {Count: 2, Amount: vnd(500)},
		"":     {Count: 1, Amount: vnd(1)},
	})

	keys := make([]string, len(got))
	for i, e := range got {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"cash", "a", "b", ""}, keys)
	assert.Equal(t, 4, got[1].Count)
	assert.Empty(t, SortBuckets(nil))
}

func TestSortCategories(t *testing.T) {
	got := SortCategories(map[string]decimal.Decimal{
		"Water fee":      vnd(10),
		"Management fee": vnd(30),
		"Parking fee":    vnd(10),
	})

	require.Len(t, got, 3)
	assert.Equal(t, "Management fee", got[0].Key)
	assert.Equal(t, "Parking fee", got[1].Key)
	assert.Equal(t, "Water fee", got[2].Key)
}

func TestSortDays(t *testing.T) {
	assert.Equal(t, []int{1, 9, 30}, SortDays(map[int]revenue.Bucket{30: {}, 1: {}, 9: {}}))
}

func TestUnsupportedFormat(t *testing.T) {
	g := NewGenerator(labels.Identity(), ',', nil)
	var buf bytes.Buffer

	err := g.HouseholdStatus(&buf, sampleStatus(), "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "xml")
	assert.Zero(t, buf.Len())
}

func TestHouseholdStatusJSON(t *testing.T) {
	g := NewGenerator(labels.Default(), ',', nil)
	var buf bytes.Buffer
	require.NoError(t, g.HouseholdStatus(&buf, sampleStatus(), "json"))

	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))

	assert.Equal(t, "h1", out["householdId"])
	assert.Equal(t, "2024-03", out["period"])
	fees := out["fees"].([]any)
	require.Len(t, fees, 2)

	first := fees[0].(map[string]any)
	assert.ElementsMatch(t, []string{
		"feeId", "name", "feeType", "amount", "currentMonthStatus",
		"lastMonthStatus", "currentMonthPayment", "lastMonthPayment",
	}, jsonKeys(first))
	assert.Equal(t, json.Number("1500000"), first["amount"])
	assert.Equal(t, "Management fee", first["name"], "JSON keeps stored names")
	assert.Equal(t, "paid", first["currentMonthStatus"])
	assert.Equal(t, "overdue", first["lastMonthStatus"])
	payment := first["currentMonthPayment"].(map[string]any)
	assert.Equal(t, "p1", payment["id"])
	assert.Equal(t, "2024-03-05T03:00:00Z", payment["paymentDate"])
	assert.Nil(t, first["lastMonthPayment"])

	second := fees[1].(map[string]any)
	assert.Equal(t, "not_applicable", second["lastMonthStatus"])
	assert.Nil(t, second["currentMonthPayment"])
}

func TestHouseholdStatusText(t *testing.T) {
	g := NewGenerator(labels.Default(), ',', nil)
	var buf bytes.Buffer
	require.NoError(t, g.HouseholdStatus(&buf, sampleStatus(), "text"))

	out := buf.String()
	assert.Contains(t, out, "A-101")
	assert.Contains(t, out, "Phí quản lý")
	assert.Contains(t, out, "Gửi xe")
	assert.Contains(t, out, "1.500.000 ₫")
	assert.Contains(t, out, "not_applicable")
}

func TestHouseholdStatusTextWithoutFees(t *testing.T) {
	g := NewGenerator(labels.Identity(), ',', nil)
	var buf bytes.Buffer
	hs := &service.HouseholdStatus{Household: models.Household{ID: "h9"}, Period: "2024-03"}

	require.NoError(t, g.HouseholdStatus(&buf, hs, "text"))
	assert.Contains(t, buf.String(), "(no active fees)")
}

func TestHouseholdStatusCSV(t *testing.T) {
	g := NewGenerator(labels.Identity(), ';', nil)
	var buf bytes.Buffer
	require.NoError(t, g.HouseholdStatus(&buf, sampleStatus(), "csv"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "household_id;period;fee_id;name;fee_type;amount;current_month_status;last_month_status;current_month_payment;last_month_payment", lines[0])
	assert.Equal(t, "h1;2024-03;f1;Management fee;mandatory;1500000;paid;overdue;p1;", lines[1])
	assert.Equal(t, "h1;2024-03;f2;Parking fee;parking;120000;pending;not_applicable;;", lines[2])
}

func TestRevenueCSV(t *testing.T) {
	g := NewGenerator(labels.Identity(), ',', nil)
	var buf bytes.Buffer
	require.NoError(t, g.Revenue(&buf, sampleSummary(), "csv"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"section,key,count,amount",
		"total,revenue,3,1740000",
		"category,Management fee,,1500000",
		"category,Parking fee,,240000",
		"month,02/2024,,120000",
		"month,03/2024,,1620000",
		"day,2024-03-05,2,1620000",
		"method,transfer,2,1620000",
		"method,cash,1,120000",
		"fee_type,mandatory,1,1500000",
		"fee_type,parking,2,240000",
	}, lines)
}

func TestRevenueJSON(t *testing.T) {
	g := NewGenerator(labels.Identity(), ',', nil)
	var buf bytes.Buffer
	require.NoError(t, g.Revenue(&buf, sampleSummary(), "json"))

	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))

	assert.ElementsMatch(t, []string{
		"totalRevenue", "paidCount", "revenueByCategory", "monthlyTrend",
		"dayMonth", "totalsByDay", "totalsByMethod", "totalsByFeeType",
	}, jsonKeys(out))
	assert.Equal(t, json.Number("1740000"), out["totalRevenue"])
	assert.Equal(t, json.Number("3"), out["paidCount"])
	assert.Equal(t, "2024-03", out["dayMonth"])

	byCategory := out["revenueByCategory"].(map[string]any)
	assert.Equal(t, json.Number("240000"), byCategory["Parking fee"])

	trend := out["monthlyTrend"].(map[string]any)
	assert.ElementsMatch(t, []string{"labels", "data"}, jsonKeys(trend))
	assert.Equal(t, []any{"02/2024", "03/2024"}, trend["labels"])
	assert.Equal(t, []any{json.Number("120000"), json.Number("1620000")}, trend["data"])

	byDay := out["totalsByDay"].(map[string]any)
	day := byDay["5"].(map[string]any)
	assert.Equal(t, json.Number("2"), day["count"])

	methods := out["totalsByMethod"].([]any)
	require.Len(t, methods, 2)
	assert.Equal(t, "transfer", methods[0].(map[string]any)["key"])
}

func TestRevenueText(t *testing.T) {
	g := NewGenerator(labels.Default(), ',', nil)
	var buf bytes.Buffer
	require.NoError(t, g.Revenue(&buf, sampleSummary(), "text"))

	out := buf.String()
	assert.Contains(t, out, "1.740.000 ₫")
	assert.Contains(t, out, "Phí gửi xe")
	assert.Contains(t, out, "03/2024")
	assert.Contains(t, out, "2024-03-05")
	assert.Contains(t, out, "Bắt buộc")
	assert.Less(t, strings.Index(out, "transfer"), strings.Index(out, "cash"))
}

func TestDashboardJSON(t *testing.T) {
	g := NewGenerator(labels.Identity(), ',', nil)
	snap := &dashboard.Snapshot{
		At:               time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC),
		Month:            period.NewMonth(2024, time.March),
		Households:       10,
		ActiveHouseholds: 8,
		ActiveFees:       3,
		PaymentsByStatus: map[models.PaymentStatus]int{models.PaymentPaid: 3, models.PaymentPending: 1},
		Revenue:          sampleSummary(),
	}
	var buf bytes.Buffer
	require.NoError(t, g.Dashboard(&buf, snap, "json"))

	dec := json.NewDecoder(&buf)
	dec.UseNumber()
	var out map[string]any
	require.NoError(t, dec.Decode(&out))

	assert.Equal(t, "2024-03", out["period"])
	assert.Equal(t, json.Number("8"), out["activeHouseholds"])
	assert.Equal(t, json.Number("1740000"), out["totalRevenue"], "summary fields are inlined")
	byStatus := out["paymentsByStatus"].(map[string]any)
	assert.Equal(t, json.Number("3"), byStatus["paid"])
}

func TestDashboardTextAndCSV(t *testing.T) {
	g := NewGenerator(labels.Identity(), ',', nil)
	snap := &dashboard.Snapshot{
		Month:            period.NewMonth(2024, time.March),
		Households:       2,
		ActiveHouseholds: 1,
		PaymentsByStatus: map[models.PaymentStatus]int{models.PaymentOverdue: 4},
		Revenue:          revenue.Summary{DayMonth: period.NewMonth(2024, time.March)},
	}

	var text bytes.Buffer
	require.NoError(t, g.Dashboard(&text, snap, "text"))
	assert.Contains(t, text.String(), "03/2024")
	assert.Contains(t, text.String(), "overdue 4")
	assert.Contains(t, text.String(), "0 ₫")

	var csvOut bytes.Buffer
	require.NoError(t, g.Dashboard(&csvOut, snap, "csv"))
	assert.Contains(t, csvOut.String(), "households,active,1,\n")
	assert.Contains(t, csvOut.String(), "payments,overdue,4,\n")
	assert.Contains(t, csvOut.String(), "total,revenue,0,0\n")
}

func TestDuplicates(t *testing.T) {
	g := NewGenerator(labels.Identity(), ',', nil)
	dups := []feestatus.Duplicate{{
		FeeID:       "f1",
		HouseholdID: "h1",
		Period:      period.NewMonth(2024, time.March),
		PeriodKey:   "2024-03",
		Payments: []models.Payment{
			{ID: "p1", Amount: vnd(100), Status: models.PaymentPaid},
			{ID: "p2", Amount: vnd(100), Status: models.PaymentPaid},
		},
	}}

	var empty bytes.Buffer
	require.NoError(t, g.Duplicates(&empty, nil, "text"))
	assert.Contains(t, empty.String(), "No duplicate payments found")

	var csvOut bytes.Buffer
	require.NoError(t, g.Duplicates(&csvOut, dups, "csv"))
	lines := strings.Split(strings.TrimSpace(csvOut.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "f1,h1,2024-03,p2,100,", lines[2])

	var jsonOut bytes.Buffer
	require.NoError(t, g.Duplicates(&jsonOut, dups, "json"))
	var out []map[string]any
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "2024-03", out[0]["period"])
	assert.Len(t, out[0]["payments"], 2)
}

func TestImports(t *testing.T) {
	g := NewGenerator(labels.Identity(), ',', nil)
	results := []*importer.Result{
		{File: "fees.csv", Read: 3, Inserted: 2, Rejected: 1, Errors: []error{errors.New("fees.csv:4: bad amount")}},
		{File: "payments.csv", Read: 5, Inserted: 4, Duplicates: 1},
	}

	var text bytes.Buffer
	require.NoError(t, g.Imports(&text, results, "text"))
	assert.Contains(t, text.String(), "fees.csv:4: bad amount")

	var csvOut bytes.Buffer
	require.NoError(t, g.Imports(&csvOut, results, "csv"))
	assert.Contains(t, csvOut.String(), "payments.csv,5,4,1,0")

	var jsonOut bytes.Buffer
	require.NoError(t, g.Imports(&jsonOut, results, "json"))
	var out []map[string]any
	require.NoError(t, json.Unmarshal(jsonOut.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, []any{"fees.csv:4: bad amount"}, out[0]["errors"])
	assert.NotContains(t, out[1], "errors")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRenderErrorIsLogged(t *testing.T) {
	logger := logging.NewMockLogger()
	g := NewGenerator(labels.Identity(), ',', logger)

	err := g.HouseholdStatus(failingWriter{}, sampleStatus(), "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, logger.HasEntry("ERROR", "Failed to render report"))
}
