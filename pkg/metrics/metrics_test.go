package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	before := testutil.ToFloat64(ListingsProcessed.WithLabelValues("profit"))
	ListingsProcessed.WithLabelValues("profit").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ListingsProcessed.WithLabelValues("profit")))

	path := filepath.Join(t.TempDir(), "arbitrage.prom")
	require.NoError(t, WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `listings_processed_total{outcome="profit"}`)
}
