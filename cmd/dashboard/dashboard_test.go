package dashboard_test

import (
	"testing"

	"aptfee/cmd/dashboard"

	"github.com/stretchr/testify/assert"
)

func TestDashboardCommand(t *testing.T) {
	assert.Equal(t, "dashboard", dashboard.Cmd.Use)
	assert.NotNil(t, dashboard.Cmd.RunE)

	for _, name := range []string{"at", "day-month", "format"} {
		assert.NotNil(t, dashboard.Cmd.Flags().Lookup(name), name)
	}
	assert.Contains(t, dashboard.Cmd.Flags().Lookup("day-month").Usage, "YYYY-MM")
}
