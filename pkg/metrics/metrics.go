package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Roll-up metrics
	RollupJobsTotal    *prometheus.CounterVec
	RollupJobDuration  *prometheus.HistogramVec
	RollupRowsUpserted *prometheus.CounterVec

	// Screen health metrics
	HealthChecksTotal *prometheus.CounterVec
	ScreensDown       prometheus.Gauge
	ScreenTransitions *prometheus.CounterVec
	AlertsDispatched  *prometheus.CounterVec

	// External API metrics
	ExternalAPICalls    *prometheus.CounterVec
	ExternalAPIDuration *prometheus.HistogramVec
	ExternalAPIFailures *prometheus.CounterVec

	// Stats computations
	StatsComputed *prometheus.CounterVec
	StatsCache    *prometheus.CounterVec

	// Summary export
	ExportsTotal    *prometheus.CounterVec
	ExportedRecords prometheus.Counter
}

// New registers every collector on the default registry
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		HTTPRequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
		),

		RollupJobsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollup_jobs_total",
				Help: "Total number of period roll-up runs",
			},
			[]string{"period", "status"},
		),

		RollupJobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "rollup_job_duration_seconds",
				Help:    "Period roll-up duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
			[]string{"period"},
		),

		RollupRowsUpserted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rollup_rows_upserted_total",
				Help: "Total number of period summary rows written",
			},
			[]string{"period"},
		),

		HealthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screen_health_checks_total",
				Help: "Total number of screen health polls",
			},
			[]string{"status"},
		),

		ScreensDown: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "screens_down",
				Help: "Number of screens classified DOWN by the last poll",
			},
		),

		ScreenTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screen_transitions_total",
				Help: "Total number of screen status transitions",
			},
			[]string{"direction"},
		),

		AlertsDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alerts_dispatched_total",
				Help: "Total number of alert messages sent per channel",
			},
			[]string{"channel", "status"},
		),

		ExternalAPICalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_calls_total",
				Help: "Total number of external API calls",
			},
			[]string{"api", "status"},
		),

		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "external_api_duration_seconds",
				Help:    "External API call duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"api"},
		),

		ExternalAPIFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "external_api_failures_total",
				Help: "Total number of external API failures",
			},
			[]string{"api", "error_type"},
		),

		StatsComputed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ad_stats_computed_total",
				Help: "Total number of ad stats computations",
			},
			[]string{"mode", "scope"},
		),

		StatsCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ad_stats_cache_lookups_total",
				Help: "Total number of lifetime stats cache lookups",
			},
			[]string{"result"},
		),

		ExportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "summary_exports_total",
				Help: "Total number of summary export runs",
			},
			[]string{"status"},
		),

		ExportedRecords: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "summary_exported_records_total",
				Help: "Total number of summary rows pushed to the export sink",
			},
		),
	}
}

// HTTP request metrics
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// Roll-up run metrics
func (m *Metrics) RecordRollup(period, status string, rows int, duration time.Duration) {
	m.RollupJobsTotal.WithLabelValues(period, status).Inc()
	m.RollupJobDuration.WithLabelValues(period).Observe(duration.Seconds())
	if rows > 0 {
		m.RollupRowsUpserted.WithLabelValues(period).Add(float64(rows))
	}
}

// Health poll metrics
func (m *Metrics) RecordHealthCheck(status string, down int) {
	m.HealthChecksTotal.WithLabelValues(status).Inc()
	if status == "success" {
		m.ScreensDown.Set(float64(down))
	}
}

func (m *Metrics) RecordTransition(direction string) {
	m.ScreenTransitions.WithLabelValues(direction).Inc()
}

func (m *Metrics) RecordAlert(channel, status string) {
	m.AlertsDispatched.WithLabelValues(channel, status).Inc()
}

// External API call metrics
func (m *Metrics) RecordExternalAPICall(api, status string, duration time.Duration) {
	m.ExternalAPICalls.WithLabelValues(api, status).Inc()
	m.ExternalAPIDuration.WithLabelValues(api).Observe(duration.Seconds())
}

// External API failure metrics
func (m *Metrics) RecordExternalAPIFailure(api, errorType string) {
	m.ExternalAPIFailures.WithLabelValues(api, errorType).Inc()
}

func (m *Metrics) RecordStats(mode, scope string) {
	m.StatsComputed.WithLabelValues(mode, scope).Inc()
}

func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.StatsCache.WithLabelValues(result).Inc()
}

// Export run metrics
func (m *Metrics) RecordExport(status string, records int) {
	m.ExportsTotal.WithLabelValues(status).Inc()
	if records > 0 {
		m.ExportedRecords.Add(float64(records))
	}
}

// HTTP requests in flight counter
func (m *Metrics) IncHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// HTTP requests in flight counter
func (m *Metrics) DecHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
