package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"execlink/internal/config"
	"execlink/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.NotifyRunStarted(context.Background(), "csv:test.csv", 10); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceFormatsMessages(t *testing.T) {
	tests := []struct {
		name           string
		notify         func(svc notifications.Service) error
		expectTitle    string
		expectMessage  string
		expectTags     string
		expectPriority string
	}{
		{
			name: "run started",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunStarted(context.Background(), "csv:records.csv", 120)
			},
			expectTitle:   "Execlink - Run Started",
			expectMessage: "Loaded 120 records from csv:records.csv",
			expectTags:    "execlink,run,started",
		},
		{
			name: "review needed",
			notify: func(svc notifications.Service) error {
				return svc.NotifyReviewNeeded(context.Background(), 7)
			},
			expectTitle:    "Execlink - Review Needed",
			expectMessage:  "7 uncertain groups are waiting for review",
			expectTags:     "execlink,review,pending",
			expectPriority: "high",
		},
		{
			name: "run completed clean",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunCompleted(context.Background(), 42, 0, 90*time.Second)
			},
			expectTitle:   "Execlink - Run Complete",
			expectMessage: "Run complete: 42 person records written in 1m30s",
			expectTags:    "execlink,run,completed",
		},
		{
			name: "run completed with rejections",
			notify: func(svc notifications.Service) error {
				return svc.NotifyRunCompleted(context.Background(), 40, 2, 90*time.Second)
			},
			expectTitle:   "Execlink - Run Complete (with rejections)",
			expectMessage: "Run complete: 40 written, 2 groups rejected in 1m30s",
			expectTags:    "execlink,run,completed",
		},
		{
			name: "error",
			notify: func(svc notifications.Service) error {
				return svc.NotifyError(context.Background(), errors.New("connection refused"), "sink")
			},
			expectTitle:    "Execlink - Error",
			expectMessage:  "Error with sink: connection refused",
			expectTags:     "execlink,error,alert",
			expectPriority: "high",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var captured struct {
				title    string
				tags     string
				priority string
				body     string
			}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Fatalf("unexpected method: %s", r.Method)
				}
				captured.title = r.Header.Get("Title")
				captured.tags = r.Header.Get("Tags")
				captured.priority = r.Header.Get("Priority")
				body, err := io.ReadAll(r.Body)
				if err != nil {
					t.Fatalf("read body: %v", err)
				}
				captured.body = string(body)
				_ = r.Body.Close()
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.NtfyTopic = server.URL
			cfg.Notifications.RequestTimeout = 5

			svc := notifications.NewService(&cfg)
			if err := tc.notify(svc); err != nil {
				t.Fatalf("notification returned error: %v", err)
			}

			if captured.title != tc.expectTitle {
				t.Fatalf("expected title %q, got %q", tc.expectTitle, captured.title)
			}
			if captured.body != tc.expectMessage {
				t.Fatalf("expected message %q, got %q", tc.expectMessage, captured.body)
			}
			if captured.tags != tc.expectTags {
				t.Fatalf("expected tags %q, got %q", tc.expectTags, captured.tags)
			}
			if captured.priority != tc.expectPriority {
				t.Fatalf("expected priority %q, got %q", tc.expectPriority, captured.priority)
			}
		})
	}
}

func TestNtfyServiceReportsHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic over quota", http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL

	svc := notifications.NewService(&cfg)
	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for failing endpoint")
	}
}
