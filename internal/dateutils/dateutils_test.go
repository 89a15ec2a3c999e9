package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateInLocation(t *testing.T) {
	hcm := time.FixedZone("ICT", 7*3600)

	tests := []struct {
		name      string
		dateStr   string
		loc       *time.Location
		expectOk  bool
		expectY   int
		expectM   time.Month
		expectD   int
		expectLoc *time.Location
	}{
		{"ISO date", "2024-03-05", time.UTC, true, 2024, time.March, 5, time.UTC},
		{"ISO date in fixed zone", "2024-03-01", hcm, true, 2024, time.March, 1, hcm},
		{"RFC3339 converted into zone", "2024-02-29T17:00:00Z", hcm, true, 2024, time.March, 1, hcm},
		{"RFC3339 millis", "2024-02-29T17:00:00.000Z", hcm, true, 2024, time.March, 1, hcm},
		{"year-month", "2024-03", time.UTC, true, 2024, time.March, 1, time.UTC},
		{"slash european", "15/01/2023", time.UTC, true, 2023, time.January, 15, time.UTC},
		{"dotted european", "15.01.2023", time.UTC, true, 2023, time.January, 15, time.UTC},
		{"full timestamp", "2023-01-15 10:30:45", time.UTC, true, 2023, time.January, 15, time.UTC},
		{"surrounding spaces", "  2023-01-15 ", time.UTC, true, 2023, time.January, 15, time.UTC},
		{"nil location means UTC", "2023-01-15", nil, true, 2023, time.January, 15, time.UTC},
		{"invalid", "not a date", time.UTC, false, 0, 0, 0, nil},
		{"out of range day", "2023-02-31", time.UTC, false, 0, 0, 0, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDateInLocation(tc.dateStr, tc.loc)
			if !tc.expectOk {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectY, got.Year())
			assert.Equal(t, tc.expectM, got.Month())
			assert.Equal(t, tc.expectD, got.Day())
			assert.Equal(t, tc.expectLoc, got.Location())
		})
	}
}

func TestParseDateInLocation_Empty(t *testing.T) {
	got, err := ParseDateInLocation("  ", time.UTC)
	assert.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestFormatting(t *testing.T) {
	testDate := time.Date(2023, time.January, 15, 10, 30, 0, 0, time.UTC)

	assert.Equal(t, "2023-01-15", ToISODate(testDate))
	assert.Equal(t, "", ToISODate(time.Time{}))
	assert.Equal(t, "", FormatOptional(nil))
	assert.Equal(t, "2023-01-15", FormatOptional(&testDate))
}
