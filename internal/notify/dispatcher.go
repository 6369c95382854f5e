// Package notify delivers job notifications to the desktop and webhooks.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/lazyvibe/vidjob/internal/logging"
	"github.com/lazyvibe/vidjob/internal/model"
)

// EventType represents a notification event type.
type EventType string

const (
	EventJobCompleted     EventType = "job_completed"
	EventJobFailed        EventType = "job_failed"
	EventProgressComplete EventType = "progress_complete"
)

// Event describes a notification event.
type Event struct {
	Feature   model.Feature
	Type      EventType
	Title     string
	Message   string
	Link      string
	Timestamp time.Time
}

// Dispatcher sends notifications to configured channels.
type Dispatcher struct {
	client  *http.Client
	desktop func(title, message, icon string) error
	logger  *logging.Logger
}

// NewDispatcher creates a Dispatcher with sensible defaults.
func NewDispatcher(logger *logging.Logger) *Dispatcher {
	return &Dispatcher{
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		desktop: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
		logger: logging.OrNop(logger).Component("notify"),
	}
}

// Dispatch sends a notification event using the given config.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg model.NotificationConfig, event Event) {
	title := strings.TrimSpace(event.Title)
	if title == "" {
		title = "vidjob"
		if event.Feature != "" {
			title = "vidjob: " + event.Feature.Title()
		}
	}
	message := strings.TrimSpace(event.Message)
	if message == "" {
		message = string(event.Type)
	}
	if len(message) > 800 {
		message = message[:800] + "..."
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if cfg.Desktop && d.desktop != nil {
		if err := d.desktop(title, message, ""); err != nil {
			d.logger.Debug().Err(err).Msg("desktop notification failed")
		}
	}

	if cfg.WebhookURL != "" {
		if err := d.postWebhook(ctx, cfg.WebhookURL, title, message, event); err != nil {
			d.logger.Warn().Err(err).Str("url", cfg.WebhookURL).Msg("webhook failed")
		}
	}
}

func (d *Dispatcher) postWebhook(ctx context.Context, url, title, message string, event Event) error {
	payload := map[string]any{
		"feature":   event.Feature,
		"event":     event.Type,
		"title":     title,
		"message":   message,
		"link":      event.Link,
		"timestamp": event.Timestamp.Unix(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}
