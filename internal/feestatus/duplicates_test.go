package feestatus

import (
	"testing"
	"time"

	"aptfee/internal/models"
	"aptfee/internal/period"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindDuplicates(t *testing.T) {
	n := period.NewNormalizer(time.UTC)
	payments := []models.Payment{
		paid("a", "svc", 100, date(2024, time.April, 5), nil),
		paid("b", "svc", 100, nil, date(2024, time.April, 1)),
		paid("c", "svc", 100, nil, date(2024, time.March, 1)),
		paid("d", "mgmt", 100, nil, date(2024, time.April, 1)),
		paid("e", "svc", 100, nil, nil),
		{ID: "f", FeeID: "svc", HouseholdID: "hh-1", Status: models.PaymentPending, Period: date(2024, time.April, 1)},
	}
	other := paid("g", "svc", 100, nil, date(2024, time.April, 1))
	other.HouseholdID = "hh-2"
	payments = append(payments, other)

	dups := FindDuplicates(payments, n)

	require.Len(t, dups, 1)
	assert.Equal(t, "svc", dups[0].FeeID)
	assert.Equal(t, "hh-1", dups[0].HouseholdID)
	assert.Equal(t, "2024-04", dups[0].PeriodKey)
	require.Len(t, dups[0].Payments, 2)
	assert.Equal(t, "a", dups[0].Payments[0].ID)
	assert.Equal(t, "b", dups[0].Payments[1].ID)
}

func TestFindDuplicates_None(t *testing.T) {
	assert.Empty(t, FindDuplicates(nil, nil))
}
