package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"signagestats/internal/domain"
	"signagestats/pkg/logger"

	"golang.org/x/time/rate"
)

// DiscordNotifier posts alerts to a Discord webhook
type DiscordNotifier struct {
	http       *HTTPClient
	webhookURL string
	logger     *logger.Logger
}

func NewDiscordNotifier(client *HTTPClient, webhookURL string, logger *logger.Logger) *DiscordNotifier {
	return &DiscordNotifier{http: client, webhookURL: webhookURL, logger: logger}
}

func (n *DiscordNotifier) Name() string { return "discord" }

func (n *DiscordNotifier) Notify(ctx context.Context, alert domain.Alert) error {
	payload, err := json.Marshal(map[string]string{"content": FormatDiscord(alert)})
	if err != nil {
		return fmt.Errorf("failed to marshal discord message: %w", err)
	}

	err = n.http.PostJSON(ctx, n.Name(), n.webhookURL, payload, nil)
	if errors.Is(err, ErrRateLimited) {
		n.logger.WithContext(ctx).WithField("kind", alert.Kind).Warn("Discord webhook rate-limited")
	}
	return err
}

// SlackNotifier posts alerts to a Slack incoming webhook, at most once per interval
type SlackNotifier struct {
	http       *HTTPClient
	webhookURL string
	limiter    *rate.Limiter
	logger     *logger.Logger
}

func NewSlackNotifier(client *HTTPClient, webhookURL string, minInterval time.Duration, logger *logger.Logger) *SlackNotifier {
	return &SlackNotifier{
		http:       client,
		webhookURL: webhookURL,
		limiter:    rate.NewLimiter(rate.Every(minInterval), 1),
		logger:     logger,
	}
}

func (n *SlackNotifier) Name() string { return "slack" }

type slackMessage struct {
	Text      string `json:"text"`
	Username  string `json:"username"`
	IconEmoji string `json:"icon_emoji"`
}

func (n *SlackNotifier) Notify(ctx context.Context, alert domain.Alert) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("slack send interval: %w", err)
	}

	payload, err := json.Marshal(slackMessage{
		Text:      FormatSlack(alert),
		Username:  "Screen Monitor",
		IconEmoji: ":computer:",
	})
	if err != nil {
		return fmt.Errorf("failed to marshal slack message: %w", err)
	}

	return n.http.PostJSON(ctx, n.Name(), n.webhookURL, payload, nil)
}

func FormatDiscord(alert domain.Alert) string {
	header := fmt.Sprintf("✅ **SCREENS RECOVERED** (%d)", len(alert.Entries))
	if alert.Kind == domain.AlertDown {
		header = fmt.Sprintf("⚠ **SCREENS DOWN** (%d)", len(alert.Entries))
	}
	return withBullets(header, alert.Entries)
}

func FormatSlack(alert domain.Alert) string {
	header := fmt.Sprintf("✅ *SCREENS RECOVERED* (%d)", len(alert.Entries))
	if alert.Kind == domain.AlertDown {
		header = fmt.Sprintf("⚠️ *SCREENS DOWN* (%d)", len(alert.Entries))
	}
	return withBullets(header, alert.Entries)
}

func withBullets(header string, entries []string) string {
	var b strings.Builder
	b.WriteString(header)
	for _, e := range entries {
		b.WriteString("\n• ")
		b.WriteString(e)
	}
	return b.String()
}
