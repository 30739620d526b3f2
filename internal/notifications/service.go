package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"deadair/internal/config"
)

const userAgent = "deadair/0.1"

// BatchReport summarizes a finished batch for the completion push.
type BatchReport struct {
	RunID          string
	Attempted      int
	Succeeded      int
	Failed         int
	Skipped        int
	RemovedSeconds float64
	Elapsed        time.Duration
}

// Notifier is the push surface used by the batch driver and the CLI.
type Notifier interface {
	BatchCompleted(ctx context.Context, report BatchReport) error
	FileFailed(ctx context.Context, path string, cause error) error
	Test(ctx context.Context) error
}

// New builds an ntfy notifier, or a no-op when no topic is configured.
func New(cfg *config.Config) Notifier {
	if cfg == nil || strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return Noop{}
	}
	timeout := cfg.NotifyTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfy{
		endpoint:     strings.TrimSpace(cfg.Notifications.NtfyTopic),
		client:       &http.Client{Timeout: timeout},
		fileFailures: cfg.Notifications.FileFailures,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfy struct {
	endpoint     string
	client       *http.Client
	fileFailures bool
}

func (n *ntfy) BatchCompleted(ctx context.Context, report BatchReport) error {
	if report.Attempted == 0 {
		return nil
	}
	elapsed := max(report.Elapsed.Round(time.Second), 0)

	msg := message{
		title: "deadair - Batch Complete",
		body: fmt.Sprintf("%d of %d conversions succeeded in %s, %s of silence removed",
			report.Succeeded, report.Attempted, elapsed, time.Duration(report.RemovedSeconds*float64(time.Second)).Round(time.Second)),
		tags: []string{"deadair", "batch", "completed"},
	}
	if report.Failed > 0 {
		msg.title = "deadair - Batch Complete (with errors)"
		msg.tags = []string{"deadair", "batch", "warning"}
		msg.priority = "high"
	}
	if report.Skipped > 0 {
		msg.body += fmt.Sprintf(" (%d skipped)", report.Skipped)
	}
	return n.send(ctx, msg)
}

func (n *ntfy) FileFailed(ctx context.Context, path string, cause error) error {
	if !n.fileFailures {
		return nil
	}
	var b strings.Builder
	b.WriteString("Failed to cut ")
	b.WriteString(filepath.Base(path))
	b.WriteString(": ")
	if cause != nil {
		b.WriteString(strings.TrimSpace(cause.Error()))
	} else {
		b.WriteString("unknown error")
	}
	return n.send(ctx, message{
		title: "deadair - Error",
		body:  b.String(),
		tags:  []string{"deadair", "error"},
	})
}

func (n *ntfy) Test(ctx context.Context) error {
	return n.send(ctx, message{
		title:    "deadair - Test",
		body:     "Notification test from deadair",
		tags:     []string{"deadair", "test"},
		priority: "low",
	})
}

func (n *ntfy) send(ctx context.Context, msg message) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("Title", msg.title)
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Noop discards every notification.
type Noop struct{}

func (Noop) BatchCompleted(context.Context, BatchReport) error { return nil }
func (Noop) FileFailed(context.Context, string, error) error   { return nil }
func (Noop) Test(context.Context) error                        { return nil }
