package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/logger"
	"signagestats/pkg/metrics"
)

const lastSeenLayout = "2006-01-02 15:04:05"

// StatusStore keeps the last known status of every screen for the process lifetime
type StatusStore struct {
	mu       sync.RWMutex
	statuses map[int64]domain.ScreenStatus
}

func NewStatusStore() *StatusStore {
	return &StatusStore{statuses: make(map[int64]domain.ScreenStatus)}
}

// Record stores status and returns the previous one, seen is false on first observation
func (s *StatusStore) Record(screenID int64, status domain.ScreenStatus) (prev domain.ScreenStatus, seen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, seen = s.statuses[screenID]
	s.statuses[screenID] = status
	return prev, seen
}

func (s *StatusStore) Snapshot() map[int64]domain.ScreenStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[int64]domain.ScreenStatus, len(s.statuses))
	for id, status := range s.statuses {
		out[id] = status
	}
	return out
}

// ClassifyScreen is DOWN when the screen was never seen or is silent for longer than timeout
func ClassifyScreen(lastSeen *time.Time, now time.Time, timeout time.Duration) domain.ScreenStatus {
	if lastSeen == nil || now.Sub(*lastSeen) > timeout {
		return domain.ScreenDown
	}
	return domain.ScreenOK
}

// HealthMonitor polls screen activity and alerts on status transitions
type HealthMonitor struct {
	events        domain.EventRepository
	notifiers     []domain.Notifier
	store         *StatusStore
	timeout       time.Duration
	notifyTimeout time.Duration
	now           func() time.Time
	cycle         sync.Mutex
	logger        *logger.Logger
	metrics       *metrics.Metrics
}

func NewHealthMonitor(
	events domain.EventRepository,
	notifiers []domain.Notifier,
	store *StatusStore,
	timeout time.Duration,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HealthMonitor {
	return &HealthMonitor{
		events:        events,
		notifiers:     notifiers,
		store:         store,
		timeout:       timeout,
		notifyTimeout: 10 * time.Second,
		now:           time.Now,
		logger:        logger,
		metrics:       metrics,
	}
}

// WithClock replaces the time source, used by tests
func (m *HealthMonitor) WithClock(now func() time.Time) *HealthMonitor {
	m.now = now
	return m
}

// Check runs one poll cycle. Overlapping calls are serialized.
func (m *HealthMonitor) Check(ctx context.Context) ([]domain.ScreenHealth, error) {
	m.cycle.Lock()
	defer m.cycle.Unlock()

	log := m.logger.WithContext(ctx)

	seen, err := m.events.LastSeenByScreen(ctx)
	if err != nil {
		m.metrics.RecordHealthCheck("failed", 0)
		return nil, fmt.Errorf("failed to load screen activity: %w", err)
	}

	now := m.now()
	var down, recovered []string
	result := make([]domain.ScreenHealth, 0, len(seen))
	downCount := 0

	for _, s := range seen {
		name := domain.ScreenLabel(s.ScreenID, s.ScreenName)
		status := ClassifyScreen(s.LastSeen, now, m.timeout)
		if status == domain.ScreenDown {
			downCount++
		}

		prev, ok := m.store.Record(s.ScreenID, status)
		if !ok || prev != status {
			switch status {
			case domain.ScreenDown:
				down = append(down, downEntry(name, s.LastSeen))
				m.metrics.RecordTransition("down")
			case domain.ScreenOK:
				if ok && prev == domain.ScreenDown {
					recovered = append(recovered, name)
					m.metrics.RecordTransition("recovered")
				}
			}
		}

		result = append(result, domain.ScreenHealth{
			ScreenID:   s.ScreenID,
			ScreenName: name,
			LastSeen:   s.LastSeen,
			Status:     status,
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ScreenID < result[j].ScreenID
	})

	if len(down) > 0 {
		m.dispatch(ctx, domain.Alert{Kind: domain.AlertDown, Entries: down})
	}
	if len(recovered) > 0 {
		m.dispatch(ctx, domain.Alert{Kind: domain.AlertRecovered, Entries: recovered})
	}

	m.metrics.RecordHealthCheck("success", downCount)

	log.WithFields(map[string]any{
		"screens":   len(result),
		"down":      downCount,
		"new_down":  len(down),
		"recovered": len(recovered),
	}).Info("Screen health check completed")

	return result, nil
}

// dispatch sends the alert to every channel concurrently; failures are logged and dropped
func (m *HealthMonitor) dispatch(ctx context.Context, alert domain.Alert) {
	log := m.logger.WithContext(ctx)

	var wg sync.WaitGroup
	for _, n := range m.notifiers {
		n := n
		wg.Add(1)
		go func() {
			defer wg.Done()
			notifyCtx, cancel := context.WithTimeout(ctx, m.notifyTimeout)
			defer cancel()

			if err := n.Notify(notifyCtx, alert); err != nil {
				m.metrics.RecordAlert(n.Name(), "failed")
				log.WithError(err).WithFields(map[string]any{
					"channel": n.Name(),
					"kind":    alert.Kind,
				}).Error("Failed to dispatch screen alert")
				return
			}
			m.metrics.RecordAlert(n.Name(), "success")
		}()
	}
	wg.Wait()
}

func downEntry(name string, lastSeen *time.Time) string {
	if lastSeen == nil {
		return name + " - Never"
	}
	return name + " - " + lastSeen.Format(lastSeenLayout)
}
