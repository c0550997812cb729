package notifications_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"lendwire/internal/logging"
	"lendwire/internal/notifications"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

type stubService struct {
	mu    sync.Mutex
	calls []request.EventKind
	err   error
	block chan struct{}
}

func (s *stubService) notify(event request.EventKind) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	s.calls = append(s.calls, event)
	s.mu.Unlock()
	return s.err
}

func (s *stubService) NotifyNewRequest(_ context.Context, _ request.Request) error {
	return s.notify(request.EventNewRequest)
}

func (s *stubService) NotifyStatusChanged(_ context.Context, _ request.Request) error {
	return s.notify(request.EventStatusChanged)
}

func (s *stubService) TestConnections(context.Context) []notifications.ProbeResult {
	return nil
}

func (s *stubService) Status() notifications.ConfigStatus {
	return notifications.ConfigStatus{}
}

func (s *stubService) recorded() []request.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]request.EventKind, len(s.calls))
	copy(cp, s.calls)
	return cp
}

type memorySink struct {
	mu       sync.Mutex
	attempts []notifications.Attempt
}

func (m *memorySink) RecordAttempt(_ context.Context, attempt notifications.Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, attempt)
	return nil
}

func (m *memorySink) recorded() []notifications.Attempt {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]notifications.Attempt, len(m.attempts))
	copy(cp, m.attempts)
	return cp
}

func TestDispatcherDeliversQueuedEvents(t *testing.T) {
	svc := &stubService{}
	sink := &memorySink{}
	d := notifications.NewDispatcher(svc, tier.DefaultThresholds(), logging.NewNop(),
		notifications.WithAttemptSink(sink))

	req := sampleRequest(15_000)
	if !d.Enqueue(request.EventNewRequest, req) {
		t.Fatal("enqueue rejected with free capacity")
	}
	if !d.Enqueue(request.EventStatusChanged, req) {
		t.Fatal("enqueue rejected with free capacity")
	}
	d.Close()

	calls := svc.recorded()
	if len(calls) != 2 || calls[0] != request.EventNewRequest || calls[1] != request.EventStatusChanged {
		t.Fatalf("unexpected delivery order: %v", calls)
	}

	attempts := sink.recorded()
	if len(attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(attempts))
	}
	for _, attempt := range attempts {
		if attempt.Outcome != notifications.OutcomeSent {
			t.Fatalf("expected sent outcome, got %+v", attempt)
		}
		if attempt.Tier != tier.Medium {
			t.Fatalf("expected medium tier, got %s", attempt.Tier)
		}
		if attempt.RequestID != req.ID {
			t.Fatalf("unexpected request id: %s", attempt.RequestID)
		}
	}
}

func TestDispatcherRecordsFailuresWithoutSurfacing(t *testing.T) {
	svc := &stubService{err: errors.New("slack returned 500")}
	sink := &memorySink{}
	d := notifications.NewDispatcher(svc, tier.DefaultThresholds(), logging.NewNop(),
		notifications.WithAttemptSink(sink))

	if !d.Enqueue(request.EventNewRequest, sampleRequest(5_000)) {
		t.Fatal("enqueue must accept the event even when delivery will fail")
	}
	d.Close()

	attempts := sink.recorded()
	if len(attempts) != 1 || attempts[0].Outcome != notifications.OutcomeFailed {
		t.Fatalf("expected one failed attempt, got %+v", attempts)
	}
	if attempts[0].Detail == "" {
		t.Fatal("failed attempt must carry a detail message")
	}
}

func TestDispatcherRecordsSkipsForUnconfiguredTiers(t *testing.T) {
	svc := &stubService{err: fmt.Errorf("%w: large", notifications.ErrNoChannel)}
	sink := &memorySink{}
	d := notifications.NewDispatcher(svc, tier.DefaultThresholds(), logging.NewNop(),
		notifications.WithAttemptSink(sink))

	d.Enqueue(request.EventNewRequest, sampleRequest(75_000))
	d.Close()

	attempts := sink.recorded()
	if len(attempts) != 1 || attempts[0].Outcome != notifications.OutcomeSkipped {
		t.Fatalf("expected one skipped attempt, got %+v", attempts)
	}
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	svc := &stubService{block: block}
	sink := &memorySink{}
	d := notifications.NewDispatcher(svc, tier.DefaultThresholds(), logging.NewNop(),
		notifications.WithQueueSize(1),
		notifications.WithAttemptSink(sink))

	req := sampleRequest(15_000)
	// First event is picked up by the worker and parks on block; the second
	// fills the queue. The third must be dropped without blocking.
	d.Enqueue(request.EventNewRequest, req)
	waitForQueueDrain := time.After(time.Second)
	for {
		if d.Enqueue(request.EventNewRequest, req) {
			break
		}
		select {
		case <-waitForQueueDrain:
			t.Fatal("worker never picked up the first event")
		case <-time.After(5 * time.Millisecond):
		}
	}

	dropped := false
	deadline := time.After(time.Second)
	for !dropped {
		if !d.Enqueue(request.EventStatusChanged, req) {
			dropped = true
			break
		}
		select {
		case <-deadline:
			t.Fatal("queue never filled")
		case <-time.After(5 * time.Millisecond):
		}
	}

	close(block)
	d.Close()

	var sawDrop bool
	for _, attempt := range sink.recorded() {
		if attempt.Outcome == notifications.OutcomeDropped {
			sawDrop = true
			if attempt.Detail != "queue full" {
				t.Fatalf("unexpected drop detail: %q", attempt.Detail)
			}
		}
	}
	if !sawDrop {
		t.Fatal("expected a dropped attempt to be recorded")
	}
}

func TestDispatcherEnqueueAfterCloseDropsEvent(t *testing.T) {
	svc := &stubService{}
	sink := &memorySink{}
	d := notifications.NewDispatcher(svc, tier.DefaultThresholds(), logging.NewNop(),
		notifications.WithAttemptSink(sink))
	d.Close()

	if d.Enqueue(request.EventNewRequest, sampleRequest(15_000)) {
		t.Fatal("enqueue after close must report the event as dropped")
	}
	if got := len(svc.recorded()); got != 0 {
		t.Fatalf("expected no deliveries after close, got %d", got)
	}
	if got := len(sink.recorded()); got != 0 {
		t.Fatalf("expected no attempts after close, got %d", got)
	}

	// Repeated Close stays a no-op.
	d.Close()
	if d.Enqueue(request.EventStatusChanged, sampleRequest(75_000)) {
		t.Fatal("enqueue after repeated close must report the event as dropped")
	}
}

func TestDispatcherCloseDrainsQueue(t *testing.T) {
	svc := &stubService{}
	d := notifications.NewDispatcher(svc, tier.DefaultThresholds(), logging.NewNop(),
		notifications.WithQueueSize(16))

	for i := 0; i < 10; i++ {
		d.Enqueue(request.EventNewRequest, sampleRequest(1_000))
	}
	d.Close()

	if got := len(svc.recorded()); got != 10 {
		t.Fatalf("expected all 10 queued events delivered before Close returned, got %d", got)
	}
}
