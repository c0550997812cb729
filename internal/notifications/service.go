package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"lendwire/internal/config"
	"lendwire/internal/logging"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

const userAgent = "Lendwire/0.1.0"

// ErrNoChannel reports that the request's tier has no webhook destination.
// Callers treat it as a skip, not a delivery failure.
var ErrNoChannel = errors.New("notifications: no channel configured for tier")

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifyNewRequest(ctx context.Context, req request.Request) error
	NotifyStatusChanged(ctx context.Context, req request.Request) error
	TestConnections(ctx context.Context) []ProbeResult
	Status() ConfigStatus
}

// ProbeResult is the outcome of one tier's connection test.
type ProbeResult struct {
	Tier       tier.Tier
	Configured bool
	Err        error
}

// ConfigStatus summarizes which tiers can deliver. Webhook URLs are never
// included; they carry signing secrets.
type ConfigStatus struct {
	Configured bool
	Tiers      []TierStatus
}

// TierStatus reports a single tier's delivery readiness.
type TierStatus struct {
	Tier       tier.Tier
	Configured bool
}

// NewService builds a Slack notification service from the configured webhook
// URLs. When no tier has a destination, a noop implementation is returned and
// every lifecycle event becomes a logged skip.
func NewService(cfg *config.Config, logger *slog.Logger) Service {
	if logger == nil {
		logger = logging.NewNop()
	}

	endpoints := make(map[tier.Tier]string)
	for _, tr := range tier.AllTiers() {
		url := strings.TrimSpace(cfg.WebhookURL(string(tr)))
		if url == "" {
			logger.Warn("no webhook configured for tier", logging.String("tier", string(tr)))
			continue
		}
		endpoints[tr] = url
	}
	if len(endpoints) == 0 {
		logger.Info("no webhooks configured, notifications disabled")
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &slackService{
		endpoints:  endpoints,
		client:     &http.Client{Timeout: timeout},
		thresholds: cfg.Thresholds(),
		username:   cfg.Notifications.Username,
		footer:     cfg.Notifications.Footer,
		logger:     logger,
		now:        time.Now,
	}
}

type slackService struct {
	endpoints  map[tier.Tier]string
	client     *http.Client
	thresholds tier.Thresholds
	username   string
	footer     string
	logger     *slog.Logger
	now        func() time.Time
}

func (s *slackService) NotifyNewRequest(ctx context.Context, req request.Request) error {
	tr := s.thresholds.Classify(req.LoanAmount)
	endpoint, ok := s.endpoints[tr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoChannel, tr)
	}
	msg := newRequestMessage(req, tr, s.thresholds, s.footer, s.now())
	return s.send(ctx, endpoint, msg)
}

func (s *slackService) NotifyStatusChanged(ctx context.Context, req request.Request) error {
	tr := s.thresholds.Classify(req.LoanAmount)
	endpoint, ok := s.endpoints[tr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoChannel, tr)
	}
	msg := statusChangedMessage(req, tr, s.footer, s.now())
	return s.send(ctx, endpoint, msg)
}

// TestConnections probes every configured tier concurrently. Unconfigured
// tiers are reported, not probed. The slice covers all tiers in order.
func (s *slackService) TestConnections(ctx context.Context) []ProbeResult {
	tiers := tier.AllTiers()
	results := make([]ProbeResult, len(tiers))

	g, ctx := errgroup.WithContext(ctx)
	for i, tr := range tiers {
		endpoint, ok := s.endpoints[tr]
		results[i] = ProbeResult{Tier: tr, Configured: ok}
		if !ok {
			continue
		}
		g.Go(func() error {
			msg := connectionTestMessage(tr, s.thresholds, s.footer, s.now())
			results[i].Err = s.send(ctx, endpoint, msg)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *slackService) Status() ConfigStatus {
	status := ConfigStatus{}
	for _, tr := range tier.AllTiers() {
		_, configured := s.endpoints[tr]
		status.Tiers = append(status.Tiers, TierStatus{Tier: tr, Configured: configured})
		if configured {
			status.Configured = true
		}
	}
	return status
}

func (s *slackService) send(ctx context.Context, endpoint string, msg Message) error {
	if s.username != "" {
		msg.Username = s.username
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build slack request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("slack returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyNewRequest(context.Context, request.Request) error {
	return ErrNoChannel
}

func (noopService) NotifyStatusChanged(context.Context, request.Request) error {
	return ErrNoChannel
}

func (noopService) TestConnections(context.Context) []ProbeResult {
	tiers := tier.AllTiers()
	results := make([]ProbeResult, len(tiers))
	for i, tr := range tiers {
		results[i] = ProbeResult{Tier: tr}
	}
	return results
}

func (noopService) Status() ConfigStatus {
	status := ConfigStatus{}
	for _, tr := range tier.AllTiers() {
		status.Tiers = append(status.Tiers, TierStatus{Tier: tr})
	}
	return status
}
