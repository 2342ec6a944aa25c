package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"adscout/internal/types"
)

// Webhook posts payloads to a configured webhook URL. A Webhook with an
// empty URL is valid and silently skips sends.
type Webhook struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

func NewWebhook(url string, logger *slog.Logger) *Webhook {
	return &Webhook{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger.With("component", "notify"),
	}
}

// Enabled reports whether a webhook URL is configured.
func (w *Webhook) Enabled() bool { return w.url != "" }

// Send posts the payload. Failures never abort a run; the caller logs
// the returned NotifyError and moves on.
func (w *Webhook) Send(ctx context.Context, p *Payload) error {
	if !w.Enabled() {
		w.logger.Warn("no webhook URL configured, skipping notification")
		return nil
	}

	body, err := json.Marshal(p)
	if err != nil {
		return &types.NotifyError{Err: fmt.Errorf("marshal payload: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return &types.NotifyError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return &types.NotifyError{Err: err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &types.NotifyError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("webhook returned HTTP %d", resp.StatusCode),
		}
	}

	w.logger.Info("notification sent", "blocks", len(p.Blocks))
	return nil
}
