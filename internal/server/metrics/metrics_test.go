package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, m prometheus.Metric) float64 {
	t.Helper()
	var out dto.Metric
	require.NoError(t, m.Write(&out))
	switch {
	case out.Counter != nil:
		return out.Counter.GetValue()
	case out.Gauge != nil:
		return out.Gauge.GetValue()
	case out.Histogram != nil:
		return float64(out.Histogram.GetSampleCount())
	}
	t.Fatalf("unsupported metric %v", m.Desc())
	return 0
}

func TestMustRegister_Idempotent(t *testing.T) {
	MustRegister()
	assert.NotPanics(t, MustRegister)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
}

func TestObserveRequest(t *testing.T) {
	MustRegister()

	counter := httpRequests.WithLabelValues("/entries", "GET", "200")
	before := value(t, counter)
	ObserveRequest("/entries", "GET", 200, 15*time.Millisecond)
	ObserveRequest("/entries", "GET", 200, 5*time.Millisecond)
	assert.Equal(t, before+2, value(t, counter))

	ObserveRequest("  ", "GET", 400, time.Millisecond)
	assert.GreaterOrEqual(t, value(t, httpRequests.WithLabelValues("unmatched", "GET", "400")), 1.0)
}

func TestRecordPublish(t *testing.T) {
	MustRegister()

	ok := publishTotal.WithLabelValues("ok")
	failed := publishTotal.WithLabelValues("error")
	okBefore, errBefore := value(t, ok), value(t, failed)

	RecordPublish(nil, 7)
	RecordPublish(errors.New("boom"), 99)

	assert.Equal(t, okBefore+1, value(t, ok))
	assert.Equal(t, errBefore+1, value(t, failed))
	assert.Equal(t, 7.0, value(t, publishedEntries))
}

func TestRecordAssetCleanup(t *testing.T) {
	MustRegister()

	before := value(t, assetDeleteErrors)
	RecordAssetCleanup(true)
	RecordAssetCleanup(false)
	assert.Equal(t, before+1, value(t, assetDeleteErrors))
}

func TestNormalizeLabel(t *testing.T) {
	assert.Equal(t, "x", normalizeLabel(" x ", "f"))
	assert.Equal(t, "f", normalizeLabel("", "f"))
}
