package infrastructure

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/clock"
	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"

	"golang.org/x/time/rate"
)

var ErrRateLimited = errors.New("rate limited by remote")

// HTTPClient posts JSON payloads to outbound webhooks with client-side rate limiting
type HTTPClient struct {
	client      *http.Client
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter
}

func NewHTTPClient(timeout time.Duration, limit rate.Limit, burst int, logger *logger.Logger, metrics *metrics.Metrics) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(limit, burst),
	}
}

// PostJSON sends payload to url and fails on any non-2xx status
func (c *HTTPClient) PostJSON(ctx context.Context, api, url string, payload []byte, headers map[string]string) error {
	start := time.Now()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		c.metrics.RecordExternalAPIFailure(api, "rate_limit")
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		c.metrics.RecordExternalAPIFailure(api, "request_creation")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordExternalAPIFailure(api, "network_error")
		return fmt.Errorf("failed to post to %s: %w", api, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	duration := time.Since(start)

	if resp.StatusCode == http.StatusTooManyRequests {
		c.metrics.RecordExternalAPICall(api, "rate_limited", duration)
		return fmt.Errorf("%s returned status %d: %w", api, resp.StatusCode, ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.RecordExternalAPICall(api, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return fmt.Errorf("%s returned status %d", api, resp.StatusCode)
	}

	c.metrics.RecordExternalAPICall(api, "success", duration)
	return nil
}

// ExportSink implements domain.ExportClient over a signed webhook
type ExportSink struct {
	http       *HTTPClient
	sinkURL    string
	sinkSecret string
	logger     *logger.Logger
}

func NewExportSink(client *HTTPClient, sinkURL, sinkSecret string, logger *logger.Logger) *ExportSink {
	return &ExportSink{
		http:       client,
		sinkURL:    sinkURL,
		sinkSecret: sinkSecret,
		logger:     logger,
	}
}

type exportRecord struct {
	Date     string `json:"date"`
	Period   string `json:"period_type"`
	AdID     int64  `json:"ad_id"`
	ScreenID int64  `json:"screen_id"`
	Plays    int64  `json:"plays"`
	Seconds  int64  `json:"seconds"`
}

func (s *ExportSink) Export(ctx context.Context, rows []domain.PeriodSummary, date time.Time) error {
	if s.sinkURL == "" {
		return domain.ErrSinkDisabled
	}

	start := time.Now()

	records := make([]exportRecord, len(rows))
	for i, r := range rows {
		records[i] = exportRecord{
			Date:     r.PeriodStart.Format(clock.DateLayout),
			Period:   string(r.PeriodType),
			AdID:     r.AdID,
			ScreenID: r.ScreenID,
			Plays:    r.Plays,
			Seconds:  r.Seconds,
		}
	}

	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal export data: %w", err)
	}

	headers := map[string]string{}
	if s.sinkSecret != "" {
		headers["X-Signature"] = Sign(s.sinkSecret, payload)
	}

	if err := s.http.PostJSON(ctx, "sink", s.sinkURL, payload, headers); err != nil {
		return fmt.Errorf("failed to export data: %w", err)
	}

	s.logger.WithContext(ctx).WithFields(map[string]any{
		"url":      s.sinkURL,
		"duration": time.Since(start),
		"records":  len(rows),
		"date":     date.Format(clock.DateLayout),
	}).Info("Successfully exported data")

	return nil
}

// Sign returns the hex HMAC-SHA256 of payload
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}
