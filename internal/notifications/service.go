package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/MLShukai/obs-rec/internal/config"
)

const userAgent = "obsrec/0.1.0"

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifyRecordingPublished(ctx context.Context, filename string, sizeMB float64) error
	NotifyCycleFailed(ctx context.Context, failure error, detail string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:      resolveEndpoint(topic),
		client:        &http.Client{Timeout: timeout},
		publishEvents: cfg.Notifications.Publish,
		errorEvents:   cfg.Notifications.Errors,
	}
}

func resolveEndpoint(topic string) string {
	if strings.Contains(topic, "://") {
		return topic
	}
	return "https://ntfy.sh/" + topic
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint      string
	client        *http.Client
	publishEvents bool
	errorEvents   bool
}

func (n *ntfyService) NotifyRecordingPublished(ctx context.Context, filename string, sizeMB float64) error {
	if !n.publishEvents {
		return nil
	}
	data := payload{
		title:   "obsrec - Published",
		message: fmt.Sprintf("Recording posted: %s (%.1f MB)", strings.TrimSpace(filename), sizeMB),
		tags:    []string{"obsrec", "publish", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyCycleFailed(ctx context.Context, failure error, detail string) error {
	if !n.errorEvents {
		return nil
	}
	message := "Capture cycle failed"
	if detail = strings.TrimSpace(detail); detail != "" {
		message = fmt.Sprintf("%s: %s", message, detail)
	}
	if failure != nil {
		message = fmt.Sprintf("%s\n%v", message, failure)
	}
	data := payload{
		title:    "obsrec - Error",
		message:  message,
		tags:     []string{"obsrec", "error"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:   "obsrec - Test",
		message: "Notifications are configured correctly.",
		tags:    []string{"obsrec", "test"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if data.title != "" {
		req.Header.Set("X-Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("X-Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" {
		req.Header.Set("X-Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notification rejected: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}

type noopService struct{}

func (noopService) NotifyRecordingPublished(context.Context, string, float64) error { return nil }
func (noopService) NotifyCycleFailed(context.Context, error, string) error          { return nil }
func (noopService) TestNotification(context.Context) error                          { return nil }

var (
	_ Service = (*ntfyService)(nil)
	_ Service = noopService{}
)
