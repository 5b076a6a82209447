package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RequestID adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)

		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Logger emits one structured line per request, at Warn for 5xx responses
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		entry := log.WithContext(c.Request.Context()).WithFields(map[string]any{
			"status":     status,
			"latency":    time.Since(start),
			"client_ip":  c.ClientIP(),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"route":      c.FullPath(),
			"user_agent": c.Request.UserAgent(),
		})
		if errs := c.Errors.String(); errs != "" {
			entry = entry.WithField("error", errs)
		}

		if status >= http.StatusInternalServerError {
			entry.Warn("HTTP Request")
			return
		}
		entry.Info("HTTP Request")
	}
}

// Panic recovery middleware
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		requestID := c.GetString("request_id")

		log.WithFields(map[string]any{
			"request_id": requestID,
			"error":      recovered,
			"path":       c.Request.URL.Path,
			"method":     c.Request.Method,
		}).Error("Panic recovered")

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "Internal server error",
			"request_id": requestID,
		})
	})
}

// Timeout bounds the request context; handlers pass it to every store and webhook call
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.IncHTTPRequestsInFlight()
		defer m.DecHTTPRequestsInFlight()

		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.RecordHTTPRequest(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func PrometheusHandler() gin.HandlerFunc {
	handler := promhttp.Handler()

	return func(c *gin.Context) {
		handler.ServeHTTP(c.Writer, c.Request)
	}
}
