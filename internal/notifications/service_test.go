package notifications_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MLShukai/obs-rec/internal/notifications"
	"github.com/MLShukai/obs-rec/internal/services"
	"github.com/MLShukai/obs-rec/internal/testsupport"
)

type recordedRequest struct {
	body     string
	title    string
	tags     string
	priority string
}

func startNtfyStub(t *testing.T, status int) (*httptest.Server, *[]recordedRequest) {
	t.Helper()
	var requests []recordedRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests = append(requests, recordedRequest{
			body:     string(body),
			title:    r.Header.Get("X-Title"),
			tags:     r.Header.Get("X-Tags"),
			priority: r.Header.Get("X-Priority"),
		})
		w.WriteHeader(status)
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func TestNotifyRecordingPublished(t *testing.T) {
	server, requests := startNtfyStub(t, http.StatusOK)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))

	svc := notifications.NewService(cfg)
	if err := svc.NotifyRecordingPublished(context.Background(), "clip_processed.mp4", 18.4); err != nil {
		t.Fatalf("NotifyRecordingPublished: %v", err)
	}

	if len(*requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*requests))
	}
	req := (*requests)[0]
	if !strings.Contains(req.body, "clip_processed.mp4") || !strings.Contains(req.body, "18.4 MB") {
		t.Fatalf("body = %q", req.body)
	}
	if req.title != "obsrec - Published" {
		t.Fatalf("title = %q", req.title)
	}
	if !strings.Contains(req.tags, "publish") {
		t.Fatalf("tags = %q", req.tags)
	}
	if req.priority != "" {
		t.Fatalf("publish events should use default priority, got %q", req.priority)
	}
}

func TestNotifyCycleFailedCarriesDetail(t *testing.T) {
	server, requests := startNtfyStub(t, http.StatusOK)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))

	svc := notifications.NewService(cfg)
	failure := services.Wrap(services.ErrExternalTool, "ffmpeg", "transcode", "exit status 1", nil)
	if err := svc.NotifyCycleFailed(context.Background(), failure, "run 42"); err != nil {
		t.Fatalf("NotifyCycleFailed: %v", err)
	}

	req := (*requests)[0]
	if !strings.Contains(req.body, "run 42") {
		t.Fatalf("body should carry detail, got %q", req.body)
	}
	if req.priority != "high" {
		t.Fatalf("error events should be high priority, got %q", req.priority)
	}
}

func TestNotifyRespectsEventToggles(t *testing.T) {
	server, requests := startNtfyStub(t, http.StatusOK)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))
	cfg.Notifications.Publish = false
	cfg.Notifications.Errors = false

	svc := notifications.NewService(cfg)
	if err := svc.NotifyRecordingPublished(context.Background(), "clip.mp4", 10); err != nil {
		t.Fatalf("NotifyRecordingPublished: %v", err)
	}
	if err := svc.NotifyCycleFailed(context.Background(), nil, "detail"); err != nil {
		t.Fatalf("NotifyCycleFailed: %v", err)
	}
	if len(*requests) != 0 {
		t.Fatalf("disabled events must not send, got %d requests", len(*requests))
	}

	// The explicit test notification ignores the toggles.
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("TestNotification: %v", err)
	}
	if len(*requests) != 1 {
		t.Fatalf("test notification should always send, got %d requests", len(*requests))
	}
}

func TestNotifySurfacesServerRejection(t *testing.T) {
	server, _ := startNtfyStub(t, http.StatusForbidden)
	cfg := testsupport.NewConfig(t, testsupport.WithNtfyTopic(server.URL))

	svc := notifications.NewService(cfg)
	err := svc.TestNotification(context.Background())
	if err == nil || !strings.Contains(err.Error(), "notification rejected") {
		t.Fatalf("expected rejection error, got %v", err)
	}
}

func TestNoTopicMeansNoop(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Notifications.NtfyTopic = "   "

	svc := notifications.NewService(cfg)
	if err := svc.NotifyRecordingPublished(context.Background(), "clip.mp4", 10); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
	if err := svc.NotifyCycleFailed(context.Background(), nil, ""); err != nil {
		t.Fatalf("noop failure: %v", err)
	}
	if err := svc.TestNotification(context.Background()); err != nil {
		t.Fatalf("noop test: %v", err)
	}
}
