package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"lendwire/internal/config"
	"lendwire/internal/logging"
	"lendwire/internal/notifications"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

func sampleRequest(amount float64) request.Request {
	return request.Request{
		ID:           "req-123",
		BorrowerName: "Jane K.",
		LoanAmount:   amount,
		Status:       request.StatusPending,
		SubmittedAt:  time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestNewServiceReturnsNoopWhenUnconfigured(t *testing.T) {
	cfg := config.Default()
	svc := notifications.NewService(&cfg, logging.NewNop())

	err := svc.NotifyNewRequest(context.Background(), sampleRequest(15_000))
	if !errors.Is(err, notifications.ErrNoChannel) {
		t.Fatalf("expected ErrNoChannel from noop service, got %v", err)
	}
	if svc.Status().Configured {
		t.Fatal("noop service must report unconfigured")
	}
}

func TestNotifyRoutesByTier(t *testing.T) {
	tests := []struct {
		name       string
		amount     float64
		expectTier string
	}{
		{"small below boundary", 9_999, "small"},
		{"medium at small boundary", 10_000, "medium"},
		{"medium below large boundary", 49_999, "medium"},
		{"large at boundary", 50_000, "large"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var hit atomic.Value
			mux := http.NewServeMux()
			for _, tr := range tier.AllTiers() {
				mux.HandleFunc("/"+string(tr), func(w http.ResponseWriter, r *http.Request) {
					hit.Store(r.URL.Path)
					w.WriteHeader(http.StatusOK)
				})
			}
			server := httptest.NewServer(mux)
			defer server.Close()

			cfg := config.Default()
			cfg.Notifications.WebhookSmall = server.URL + "/small"
			cfg.Notifications.WebhookMedium = server.URL + "/medium"
			cfg.Notifications.WebhookLarge = server.URL + "/large"

			svc := notifications.NewService(&cfg, logging.NewNop())
			if err := svc.NotifyNewRequest(context.Background(), sampleRequest(tc.amount)); err != nil {
				t.Fatalf("notify failed: %v", err)
			}
			if got, _ := hit.Load().(string); got != "/"+tc.expectTier {
				t.Fatalf("expected delivery to %s channel, got %q", tc.expectTier, got)
			}
		})
	}
}

func TestNewRequestPayloadShape(t *testing.T) {
	var captured notifications.Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type: %s", ct)
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.WebhookMedium = server.URL

	svc := notifications.NewService(&cfg, logging.NewNop())
	if err := svc.NotifyNewRequest(context.Background(), sampleRequest(15_000)); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if captured.Text != "New medium loan request: *$15,000* for Jane K." {
		t.Fatalf("unexpected text: %q", captured.Text)
	}
	if captured.Username != "Lendwire" {
		t.Fatalf("unexpected username: %q", captured.Username)
	}
	if len(captured.Attachments) != 1 {
		t.Fatalf("expected one attachment, got %d", len(captured.Attachments))
	}
	att := captured.Attachments[0]
	if att.Color != "#3c66dd" {
		t.Fatalf("unexpected tier color: %q", att.Color)
	}
	if att.Title != "🔔 New Medium Loan Request: $15,000" {
		t.Fatalf("unexpected title: %q", att.Title)
	}
	if att.Footer != "Lendwire Platform" {
		t.Fatalf("unexpected footer: %q", att.Footer)
	}
	wantFields := map[string]string{
		"Borrower":   "Jane K.",
		"Amount":     "*$15,000*",
		"Status":     "Pending",
		"Request ID": "req-123",
		"Loan Tier":  "Medium ($10,000 - $49,999)",
	}
	got := make(map[string]string, len(att.Fields))
	for _, f := range att.Fields {
		got[f.Title] = f.Value
	}
	for title, value := range wantFields {
		if got[title] != value {
			t.Fatalf("field %q: expected %q, got %q", title, value, got[title])
		}
	}
}

func TestStatusChangedPayloadUsesStatusColor(t *testing.T) {
	var captured notifications.Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &captured); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.WebhookLarge = server.URL

	req := sampleRequest(75_000)
	req.Status = request.StatusApproved

	svc := notifications.NewService(&cfg, logging.NewNop())
	if err := svc.NotifyStatusChanged(context.Background(), req); err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if captured.Text != "Large loan request approved: *$75,000* for Jane K." {
		t.Fatalf("unexpected text: %q", captured.Text)
	}
	att := captured.Attachments[0]
	if att.Color != "#10b981" {
		t.Fatalf("expected approved color, got %q", att.Color)
	}
	if att.Title != "✅ Large Loan Request ($75,000) Status Updated" {
		t.Fatalf("unexpected title: %q", att.Title)
	}
}

func TestNotifySkipsUnconfiguredTier(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("unexpected delivery: %s", r.URL.String())
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.WebhookSmall = server.URL

	svc := notifications.NewService(&cfg, logging.NewNop())
	err := svc.NotifyNewRequest(context.Background(), sampleRequest(75_000))
	if !errors.Is(err, notifications.ErrNoChannel) {
		t.Fatalf("expected ErrNoChannel for unconfigured large tier, got %v", err)
	}
}

func TestNotifyReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid_payload", http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.WebhookSmall = server.URL

	svc := notifications.NewService(&cfg, logging.NewNop())
	err := svc.NotifyNewRequest(context.Background(), sampleRequest(5_000))
	if err == nil {
		t.Fatal("expected error for 400 response")
	}
}

func TestTestConnectionsProbesConfiguredTiers(t *testing.T) {
	var probes atomic.Int32
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer okServer.Close()
	failServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer failServer.Close()

	cfg := config.Default()
	cfg.Notifications.WebhookSmall = okServer.URL
	cfg.Notifications.WebhookLarge = failServer.URL

	svc := notifications.NewService(&cfg, logging.NewNop())
	results := svc.TestConnections(context.Background())
	if len(results) != 3 {
		t.Fatalf("expected a result per tier, got %d", len(results))
	}

	byTier := make(map[tier.Tier]notifications.ProbeResult, len(results))
	for _, res := range results {
		byTier[res.Tier] = res
	}
	if res := byTier[tier.Small]; !res.Configured || res.Err != nil {
		t.Fatalf("small probe should pass: %+v", res)
	}
	if res := byTier[tier.Medium]; res.Configured {
		t.Fatalf("medium must report unconfigured: %+v", res)
	}
	if res := byTier[tier.Large]; !res.Configured || res.Err == nil {
		t.Fatalf("large probe should fail: %+v", res)
	}
	if probes.Load() != 1 {
		t.Fatalf("expected exactly one probe against ok server, got %d", probes.Load())
	}
}

func TestStatusNeverExposesURLs(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.WebhookMedium = "https://hooks.slack.example/services/secret"

	svc := notifications.NewService(&cfg, logging.NewNop())
	status := svc.Status()
	if !status.Configured {
		t.Fatal("expected configured status")
	}
	if len(status.Tiers) != 3 {
		t.Fatalf("expected three tier entries, got %d", len(status.Tiers))
	}
	for _, ts := range status.Tiers {
		configured := ts.Tier == tier.Medium
		if ts.Configured != configured {
			t.Fatalf("tier %s: unexpected configured=%v", ts.Tier, ts.Configured)
		}
	}
}
