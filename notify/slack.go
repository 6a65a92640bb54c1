// Package notify sends Slack webhook notifications for completed and failed
// runs. Delivery is fire-and-forget: failures are logged and never propagate,
// because a broken webhook must not fail a finished run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Notifier posts messages to a Slack incoming webhook. A Notifier with an
// empty webhook URL is a no-op, so callers never need a nil check.
type Notifier struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithLogger sets the notifier's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Notifier) {
		n.logger = logger
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(n *Notifier) {
		n.httpClient = httpClient
	}
}

// NewNotifier creates a Slack notifier.
func NewNotifier(webhookURL string, opts ...Option) *Notifier {
	n := &Notifier{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// DraftReady describes a completed draft for notification.
type DraftReady struct {
	PageID   string
	Topic    string
	Goal     string
	Hooks    []string
	PostBody string
}

// NotifyDraftReady announces a finished draft with hook and body previews
// and a deep link back to the queue page.
func (n *Notifier) NotifyDraftReady(ctx context.Context, draft DraftReady) {
	if n.webhookURL == "" {
		n.logger.Debug("slack webhook not configured, skipping notification")
		return
	}

	blocks := []any{
		map[string]any{
			"type": "header",
			"text": map[string]any{"type": "plain_text", "text": "✨ New LinkedIn Draft Ready"},
		},
		section(fmt.Sprintf("*Topic:* %s\n*Goal:* %s", draft.Topic, draft.Goal)),
	}

	if len(draft.Hooks) >= 2 {
		blocks = append(blocks, section(fmt.Sprintf("*Hook Options:*\n1. %s...\n2. %s...",
			preview(draft.Hooks[0], 100), preview(draft.Hooks[1], 100))))
	}
	blocks = append(blocks,
		section(fmt.Sprintf("*Draft Preview:*\n%s...", preview(draft.PostBody, 200))),
		map[string]any{
			"type": "actions",
			"elements": []any{
				map[string]any{
					"type": "button",
					"text": map[string]any{"type": "plain_text", "text": "Review in Notion"},
					"url":  "https://notion.so/" + strings.ReplaceAll(draft.PageID, "-", ""),
				},
			},
		},
	)

	n.post(ctx, map[string]any{
		"text":   "✨ New LinkedIn Draft Ready!",
		"blocks": blocks,
	})
}

// NotifyError announces a failed run.
func (n *Notifier) NotifyError(ctx context.Context, topic, errMessage string) {
	if n.webhookURL == "" {
		return
	}

	n.post(ctx, map[string]any{
		"text": fmt.Sprintf("❌ LinkedIn workflow failed for: %s", topic),
		"blocks": []any{
			section(fmt.Sprintf("❌ *Workflow Error*\n\n*Topic:* %s\n*Error:* %s", topic, errMessage)),
		},
	})
}

func (n *Notifier) post(ctx context.Context, message map[string]any) {
	payload, err := json.Marshal(message)
	if err != nil {
		n.logger.Warn("marshal slack message failed", "error", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(payload))
	if err != nil {
		n.logger.Warn("create slack request failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.logger.Warn("slack notification failed", "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		n.logger.Warn("slack webhook returned non-OK status", "status", resp.StatusCode)
		return
	}
	n.logger.Debug("slack notification sent")
}

func section(markdown string) map[string]any {
	return map[string]any{
		"type": "section",
		"text": map[string]any{"type": "mrkdwn", "text": markdown},
	}
}

func preview(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
