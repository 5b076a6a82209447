package infrastructure

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSign(t *testing.T) {
	// HMAC-SHA256("key", "The quick brown fox jumps over the lazy dog")
	assert.Equal(t,
		"f7bc83f430538424b13298e6aa6fb143ef4d59a14946175997479dbc2d1a3cd8",
		Sign("key", []byte("The quick brown fox jumps over the lazy dog")),
	)
}

func TestExportSink_Export(t *testing.T) {
	var (
		mu        sync.Mutex
		body      []byte
		signature string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		body, signature = data, r.Header.Get("X-Signature")
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	received := func() ([]byte, string) {
		mu.Lock()
		defer mu.Unlock()
		return body, signature
	}

	day, _ := time.Parse("2006-01-02", "2025-03-10")
	rows := []domain.PeriodSummary{
		{PeriodType: domain.PeriodDaily, PeriodStart: day, PeriodEnd: day, AdID: 1, ScreenID: 7, Plays: 2, Seconds: 20},
	}

	t.Run("signed payload", func(t *testing.T) {
		sink := NewExportSink(testClient(), server.URL, "s3cret", logger.NoOp())
		require.NoError(t, sink.Export(context.Background(), rows, day))
		body, signature := received()

		var records []map[string]any
		require.NoError(t, json.Unmarshal(body, &records))
		require.Len(t, records, 1)
		assert.Equal(t, "2025-03-10", records[0]["date"])
		assert.Equal(t, "DAILY", records[0]["period_type"])
		assert.Equal(t, float64(20), records[0]["seconds"])
		assert.Equal(t, Sign("s3cret", body), signature)
	})

	t.Run("no secret, no signature", func(t *testing.T) {
		sink := NewExportSink(testClient(), server.URL, "", logger.NoOp())
		require.NoError(t, sink.Export(context.Background(), rows, day))
		_, signature := received()
		assert.Empty(t, signature)
	})

	t.Run("no url", func(t *testing.T) {
		sink := NewExportSink(testClient(), "", "", logger.NoOp())
		assert.ErrorIs(t, sink.Export(context.Background(), rows, day), domain.ErrSinkDisabled)
	})
}

func TestExportSink_RejectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewExportSink(testClient(), server.URL, "", logger.NoOp())
	err := sink.Export(context.Background(), nil, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
