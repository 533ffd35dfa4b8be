// Package notify delivers settle notifications to counterparties through
// the Telegram Bot API. Notifications are best-effort: a delivery failure
// is logged and never propagated, so it can't roll back a settlement.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Notifier sends a message to a Telegram user.
type Notifier interface {
	Send(ctx context.Context, telegramID int64, text string) error
}

const defaultBaseURL = "https://api.telegram.org"

// TelegramNotifier sends messages via the Bot API sendMessage method.
type TelegramNotifier struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewTelegramNotifier creates a notifier using the given bot token.
func NewTelegramNotifier(token string) *TelegramNotifier {
	return &TelegramNotifier{
		baseURL: defaultBaseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewTelegramNotifierWithBaseURL creates a notifier against a custom API
// base URL. Used by tests.
func NewTelegramNotifierWithBaseURL(token, baseURL string) *TelegramNotifier {
	n := NewTelegramNotifier(token)
	n.baseURL = baseURL
	return n
}

// Send delivers a text message to the given Telegram user.
func (n *TelegramNotifier) Send(ctx context.Context, telegramID int64, text string) error {
	payload, err := json.Marshal(map[string]interface{}{
		"chat_id": telegramID,
		"text":    text,
	})
	if err != nil {
		return fmt.Errorf("telegram: failed to encode message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("telegram: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("telegram: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram: sendMessage returned status %d", resp.StatusCode)
	}
	return nil
}

// Noop is a Notifier that drops every message. Used when no bot token is
// configured.
type Noop struct{}

// Send discards the message.
func (Noop) Send(ctx context.Context, telegramID int64, text string) error {
	return nil
}
