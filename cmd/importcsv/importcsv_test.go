package importcsv_test

import (
	"testing"

	"aptfee/cmd/importcsv"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportCommand(t *testing.T) {
	assert.Equal(t, "import", importcsv.Cmd.Use)
	assert.Contains(t, importcsv.Cmd.Long, "in that order")

	for _, name := range []string{"households", "fees", "payments"} {
		flag := importcsv.Cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Contains(t, flag.Usage, "CSV")
	}
}
