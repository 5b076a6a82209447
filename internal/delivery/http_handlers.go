package delivery

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"signagestats/internal/domain"
	"signagestats/internal/usecase"
	"signagestats/pkg/clock"
	"signagestats/pkg/logger"

	"github.com/gin-gonic/gin"
)

// handles HTTP requests
type HTTPHandlers struct {
	reports *usecase.ReportService
	rollups *usecase.RollupService
	health  *usecase.HealthMonitor
	export  *usecase.ExportService
	now     func() time.Time
	logger  *logger.Logger
}

func NewHTTPHandlers(
	reports *usecase.ReportService,
	rollups *usecase.RollupService,
	health *usecase.HealthMonitor,
	export *usecase.ExportService,
	logger *logger.Logger,
) *HTTPHandlers {
	return &HTTPHandlers{
		reports: reports,
		rollups: rollups,
		health:  health,
		export:  export,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the time source used for default dates
func (h *HTTPHandlers) WithClock(now func() time.Time) *HTTPHandlers {
	h.now = now
	return h
}

// HealthCheck returns the health status of the service
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "healthy",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"service":    "signage-stats",
		"version":    "1.0.0",
		"request_id": c.GetString("request_id"),
	})
}

// GetAPIInfo lists the v1 endpoints
func (h *HTTPHandlers) GetAPIInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"api_version": "v1",
		"service":     "Signage Stats",
		"description": "Airtime statistics, period roll-ups and screen health for digital signage ads",
		"endpoints": gin.H{
			"ads":            "GET /api/v1/ads",
			"ad_stats":       "GET /api/v1/ads/:id/stats?day=YYYY-MM-DD&mode=actual|estimated",
			"ad_range_stats": "GET /api/v1/ads/:id/stats/range?from=YYYY-MM-DD&to=YYYY-MM-DD&mode=actual|estimated",
			"screen_health":  "GET /api/v1/screens/health",
			"period_report":  "GET /api/v1/reports/:period?from=YYYY-MM-DD&to=YYYY-MM-DD",
			"lifetime":       "GET /api/v1/reports/lifetime?from=YYYY-MM-DD",
			"run_daily":      "POST /api/v1/reports/run/daily?day=YYYY-MM-DD",
			"run_weekly":     "POST /api/v1/reports/run/weekly?from=YYYY-MM-DD&to=YYYY-MM-DD",
			"run_monthly":    "POST /api/v1/reports/run/monthly?from=YYYY-MM-DD&to=YYYY-MM-DD",
			"export":         "POST /api/v1/export/run?date=YYYY-MM-DD",
		},
		"request_id": c.GetString("request_id"),
	})
}

// ListAds returns every ad grouped by status
func (h *HTTPHandlers) ListAds(c *gin.Context) {
	list, err := h.reports.ListAds(c.Request.Context(), h.now())
	if err != nil {
		h.fail(c, err, "Failed to list ads")
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetAdStats returns lifetime plus day/week/month stats around ?day
func (h *HTTPHandlers) GetAdStats(c *gin.Context) {
	adID, ok := h.adID(c)
	if !ok {
		return
	}
	mode, ok := h.mode(c)
	if !ok {
		return
	}
	day, ok := h.dateParam(c, "day", clock.DateOnly(h.now()))
	if !ok {
		return
	}

	report, err := h.reports.AdReport(c.Request.Context(), adID, day, mode)
	if err != nil {
		h.fail(c, err, "Failed to compute ad stats")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetAdRangeStats returns per-screen stats for [from, to]
func (h *HTTPHandlers) GetAdRangeStats(c *gin.Context) {
	adID, ok := h.adID(c)
	if !ok {
		return
	}
	mode, ok := h.mode(c)
	if !ok {
		return
	}
	from, to, ok := h.requiredRange(c)
	if !ok {
		return
	}

	report, err := h.reports.RangeReport(c.Request.Context(), adID, from, to, mode)
	if err != nil {
		h.fail(c, err, "Failed to compute range stats")
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetScreenHealth runs a health poll and returns per-screen status
func (h *HTTPHandlers) GetScreenHealth(c *gin.Context) {
	screens, err := h.health.Check(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to check screen health")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"screens":    screens,
		"request_id": c.GetString("request_id"),
	})
}

// GetPeriodReport serves stored summary rows, or lifetime DAILY totals for period "lifetime"
func (h *HTTPHandlers) GetPeriodReport(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Param("period") == "lifetime" {
		var since *time.Time
		if c.Query("from") != "" {
			from, ok := h.dateParam(c, "from", time.Time{})
			if !ok {
				return
			}
			since = &from
		}

		totals, err := h.reports.DailyTotals(ctx, since)
		if err != nil {
			h.fail(c, err, "Failed to read lifetime totals")
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": totals, "count": len(totals)})
		return
	}

	period, err := domain.ParsePeriodType(c.Param("period"))
	if err != nil {
		h.badRequest(c, "Invalid period", "Period must be one of daily, weekly, monthly, lifetime")
		return
	}
	from, to, ok := h.requiredRange(c)
	if !ok {
		return
	}

	rows, err := h.reports.PeriodRows(ctx, period, from, to)
	if err != nil {
		h.fail(c, err, "Failed to read period summaries")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"period": period,
		"from":   from.Format(clock.DateLayout),
		"to":     to.Format(clock.DateLayout),
		"data":   rows,
		"count":  len(rows),
	})
}

// RunDaily triggers the DAILY roll-up, yesterday by default
func (h *HTTPHandlers) RunDaily(c *gin.Context) {
	day, ok := h.dateParam(c, "day", clock.DateOnly(h.now()).AddDate(0, 0, -1))
	if !ok {
		return
	}

	rows, err := h.rollups.AggregateDaily(c.Request.Context(), day)
	if err != nil {
		h.fail(c, err, "Daily roll-up failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Daily roll-up completed successfully",
		"day":        day.Format(clock.DateLayout),
		"rows":       rows,
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) RunWeekly(c *gin.Context) {
	h.runPeriod(c, domain.PeriodWeekly, h.rollups.AggregateWeekly)
}

func (h *HTTPHandlers) RunMonthly(c *gin.Context) {
	h.runPeriod(c, domain.PeriodMonthly, h.rollups.AggregateMonthly)
}

func (h *HTTPHandlers) runPeriod(c *gin.Context, period domain.PeriodType, run func(ctx context.Context, from, to time.Time) (int, error)) {
	from, to, ok := h.requiredRange(c)
	if !ok {
		return
	}

	rows, err := run(c.Request.Context(), from, to)
	if err != nil {
		h.fail(c, err, "Period roll-up failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Period roll-up completed successfully",
		"period":     period,
		"from":       from.Format(clock.DateLayout),
		"to":         to.Format(clock.DateLayout),
		"rows":       rows,
		"request_id": c.GetString("request_id"),
	})
}

// ExportRun exports the DAILY rows of ?date
func (h *HTTPHandlers) ExportRun(c *gin.Context) {
	if c.Query("date") == "" {
		h.badRequest(c, "Missing required parameter", "Date parameter is required (YYYY-MM-DD format)")
		return
	}
	date, ok := h.dateParam(c, "date", time.Time{})
	if !ok {
		return
	}

	records, err := h.export.ExportDaily(c.Request.Context(), date)
	if err != nil {
		h.fail(c, err, "Export failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":    "Export completed successfully",
		"date":       date.Format(clock.DateLayout),
		"records":    records,
		"request_id": c.GetString("request_id"),
	})
}

func (h *HTTPHandlers) adID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		h.badRequest(c, "Invalid ad id", "Ad id must be a positive integer")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandlers) mode(c *gin.Context) (domain.StatsMode, bool) {
	mode, err := domain.ParseStatsMode(c.Query("mode"))
	if err != nil {
		h.badRequest(c, "Invalid mode", "Mode must be actual or estimated")
		return "", false
	}
	return mode, true
}

// dateParam parses a YYYY-MM-DD query parameter, def when absent
func (h *HTTPHandlers) dateParam(c *gin.Context, name string, def time.Time) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	d, err := clock.ParseDate(raw)
	if err != nil {
		h.badRequest(c, "Invalid date format", name+" must be in YYYY-MM-DD format")
		return time.Time{}, false
	}
	return d, true
}

func (h *HTTPHandlers) requiredRange(c *gin.Context) (time.Time, time.Time, bool) {
	if c.Query("from") == "" || c.Query("to") == "" {
		h.badRequest(c, "Missing required parameter", "from and to are required (YYYY-MM-DD format)")
		return time.Time{}, time.Time{}, false
	}
	from, ok := h.dateParam(c, "from", time.Time{})
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := h.dateParam(c, "to", time.Time{})
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *HTTPHandlers) badRequest(c *gin.Context, title, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":      title,
		"message":    message,
		"request_id": c.GetString("request_id"),
	})
}

// fail maps domain errors to status codes and logs server-side failures
func (h *HTTPHandlers) fail(c *gin.Context, err error, title string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAdNotFound), errors.Is(err, domain.ErrNoData):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidMode), errors.Is(err, domain.ErrInvalidPeriod), errors.Is(err, domain.ErrInvalidRange):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrSinkDisabled):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		h.logger.WithContext(c.Request.Context()).WithError(err).Error(title)
	}

	c.JSON(status, gin.H{
		"error":      title,
		"message":    err.Error(),
		"request_id": c.GetString("request_id"),
	})
}
