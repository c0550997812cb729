package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"lendwire/internal/logging"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

// Delivery outcomes recorded per attempt.
const (
	OutcomeSent    = "sent"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
	OutcomeDropped = "dropped"
)

// Attempt describes one delivery attempt and its outcome.
type Attempt struct {
	RequestID string
	Event     request.EventKind
	Tier      tier.Tier
	Outcome   string
	Detail    string
	At        time.Time
}

// AttemptSink receives delivery attempt records for observability. Sink
// failures are logged and otherwise ignored.
type AttemptSink interface {
	RecordAttempt(ctx context.Context, attempt Attempt) error
}

// Dispatcher decouples notification delivery from request mutations. Events
// are queued on a bounded channel and delivered by a single background
// worker; when the queue is full the event is dropped and recorded, never
// blocking the caller.
type Dispatcher struct {
	service    Service
	thresholds tier.Thresholds
	logger     *slog.Logger
	sink       AttemptSink
	timeout    time.Duration

	mu        sync.Mutex
	closed    bool
	queue     chan job
	wg        sync.WaitGroup
	recording sync.WaitGroup
	closeOnce sync.Once
}

type job struct {
	event   request.EventKind
	request request.Request
}

// DispatcherOption adjusts dispatcher construction.
type DispatcherOption func(*Dispatcher)

// WithQueueSize sets the bounded queue capacity.
func WithQueueSize(size int) DispatcherOption {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queue = make(chan job, size)
		}
	}
}

// WithAttemptSink records every delivery attempt to the given sink.
func WithAttemptSink(sink AttemptSink) DispatcherOption {
	return func(d *Dispatcher) {
		d.sink = sink
	}
}

// WithSendTimeout bounds each delivery attempt.
func WithSendTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.timeout = timeout
		}
	}
}

// NewDispatcher starts the delivery worker. Callers must Close the dispatcher
// to drain the queue on shutdown.
func NewDispatcher(service Service, thresholds tier.Thresholds, logger *slog.Logger, opts ...DispatcherOption) *Dispatcher {
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Dispatcher{
		service:    service,
		thresholds: thresholds,
		logger:     logger,
		timeout:    15 * time.Second,
		queue:      make(chan job, 64),
	}
	for _, opt := range opts {
		opt(d)
	}

	d.wg.Add(1)
	go d.run()
	return d
}

// Enqueue submits a lifecycle event for delivery. It never blocks; when the
// queue is full the event is dropped with a warning, the drop is recorded in
// the background, and Enqueue returns false. After Close the event is dropped
// without recording.
func (d *Dispatcher) Enqueue(event request.EventKind, req request.Request) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("dispatcher closed, dropping event",
			logging.String("event", string(event)),
			logging.String("request_id", req.ID))
		return false
	}
	select {
	case d.queue <- job{event: event, request: req}:
		d.mu.Unlock()
		return true
	default:
	}
	d.recording.Add(1)
	d.mu.Unlock()

	d.logger.Warn("notification queue full, dropping event",
		logging.String("event", string(event)),
		logging.String("request_id", req.ID))
	go func() {
		defer d.recording.Done()
		d.record(Attempt{
			RequestID: req.ID,
			Event:     event,
			Tier:      d.thresholds.Classify(req.LoanAmount),
			Outcome:   OutcomeDropped,
			Detail:    "queue full",
			At:        time.Now().UTC(),
		})
	}()
	return false
}

// Close stops accepting events, waits for queued deliveries to finish, and
// waits for pending drop records. Enqueue remains safe to call afterwards.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})
	d.wg.Wait()
	d.recording.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for item := range d.queue {
		d.deliver(item)
	}
}

func (d *Dispatcher) deliver(item job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var err error
	switch item.event {
	case request.EventStatusChanged:
		err = d.service.NotifyStatusChanged(ctx, item.request)
	default:
		err = d.service.NotifyNewRequest(ctx, item.request)
	}

	attempt := Attempt{
		RequestID: item.request.ID,
		Event:     item.event,
		Tier:      d.thresholds.Classify(item.request.LoanAmount),
		At:        time.Now().UTC(),
	}
	switch {
	case err == nil:
		attempt.Outcome = OutcomeSent
		d.logger.Info("notification sent",
			logging.String("event", string(item.event)),
			logging.String("tier", string(attempt.Tier)),
			logging.String("request_id", item.request.ID))
	case errors.Is(err, ErrNoChannel):
		attempt.Outcome = OutcomeSkipped
		attempt.Detail = err.Error()
		d.logger.Warn("no webhook configured, skipping notification",
			logging.String("event", string(item.event)),
			logging.String("tier", string(attempt.Tier)),
			logging.String("request_id", item.request.ID))
	default:
		attempt.Outcome = OutcomeFailed
		attempt.Detail = err.Error()
		d.logger.Error("notification delivery failed",
			logging.String("event", string(item.event)),
			logging.String("tier", string(attempt.Tier)),
			logging.String("request_id", item.request.ID),
			logging.Error(err))
	}
	d.record(attempt)
}

func (d *Dispatcher) record(attempt Attempt) {
	if d.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.sink.RecordAttempt(ctx, attempt); err != nil {
		d.logger.Debug("record delivery attempt", logging.Error(err))
	}
}
