package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorders(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.RecordRollup("DAILY", "success", 12, time.Second)
	m.RecordRollup("DAILY", "failed", 0, time.Second)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RollupJobsTotal.WithLabelValues("DAILY", "success")))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.RollupRowsUpserted.WithLabelValues("DAILY")))

	m.RecordHealthCheck("success", 3)
	m.RecordHealthCheck("failed", 0)
	// a failed poll keeps the last known gauge
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ScreensDown))

	m.RecordAlert("slack", "failed")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AlertsDispatched.WithLabelValues("slack", "failed")))

	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StatsCache.WithLabelValues("miss")))

	m.RecordExport("success", 5)
	m.RecordExport("no_data", 0)
	assert.Equal(t, 5.0, testutil.ToFloat64(m.ExportedRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExportsTotal.WithLabelValues("no_data")))

	m.IncHTTPRequestsInFlight()
	m.IncHTTPRequestsInFlight()
	m.DecHTTPRequestsInFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsInFlight))
}

func TestRegistriesAreIndependent(t *testing.T) {
	assert.NotPanics(t, func() {
		NewWithRegistry(prometheus.NewRegistry())
		NewWithRegistry(prometheus.NewRegistry())
	})
}
