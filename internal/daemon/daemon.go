package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"lendwire/internal/api"
	"lendwire/internal/config"
	"lendwire/internal/dispatchlog"
	"lendwire/internal/logging"
	"lendwire/internal/notifications"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

// Daemon coordinates the background services and enforces single-instance
// execution.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *request.Store
	notifier   notifications.Service
	dispatcher *notifications.Dispatcher
	deliveries *dispatchlog.Store
	apiSrv     *apiServer

	lockPath  string
	lock      *flock.Flock
	startedAt time.Time
	seeded    int

	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running        bool
	PID            int
	UptimeSeconds  float64
	APIBind        string
	LockFilePath   string
	DispatchLog    string
	TotalRequests  int
	Notifications  notifications.ConfigStatus
	SeededRequests int
}

// New constructs a daemon with initialized dependencies. The caller owns the
// config; the daemon opens its own dispatch log and dispatcher on Start.
func New(cfg *config.Config, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Server.DataDir, "lendwired.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    request.NewStore(),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock, opens the dispatch log, starts the
// notification dispatcher, and brings up the HTTP API.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another lendwire daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	deliveries, err := dispatchlog.Open(d.cfg)
	if err != nil {
		d.releaseLock()
		cancel()
		return fmt.Errorf("open dispatch log: %w", err)
	}
	d.deliveries = deliveries

	d.notifier = notifications.NewService(d.cfg, d.logger.With(logging.String(logging.FieldComponent, "notifications")))
	d.dispatcher = notifications.NewDispatcher(
		d.notifier,
		d.cfg.Thresholds(),
		d.logger.With(logging.String(logging.FieldComponent, "dispatcher")),
		notifications.WithQueueSize(d.cfg.Notifications.QueueSize),
		notifications.WithAttemptSink(deliveries),
	)

	seeded := 0
	if d.cfg.Lending.SeedSampleData {
		seeded = d.store.SeedSampleData()
		d.logger.Info("seeded sample requests", logging.Int("count", seeded))
	}
	d.seeded = seeded

	d.apiSrv, err = newAPIServer(d.cfg, d, d.logger.With(logging.String(logging.FieldComponent, "api-server")))
	if err != nil {
		d.teardown()
		return err
	}
	if d.apiSrv != nil {
		if err := d.apiSrv.start(runCtx); err != nil {
			d.teardown()
			return err
		}
	}

	d.startedAt = time.Now()
	d.running.Store(true)
	d.logger.Info("lendwire daemon started",
		logging.String("lock", d.lockPath),
		logging.Bool("notifications_configured", d.notifier.Status().Configured))
	return nil
}

// Stop shuts down the API, drains the notification queue, and releases the
// daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.teardown()
	d.running.Store(false)
	d.logger.Info("lendwire daemon stopped")
}

func (d *Daemon) teardown() {
	if d.apiSrv != nil {
		d.apiSrv.stop()
		d.apiSrv = nil
	}
	// The dispatcher stays assigned after Close; Enqueue on a closed
	// dispatcher drops the event, so late EnqueueNotification callers never
	// race the teardown.
	if d.dispatcher != nil {
		d.dispatcher.Close()
	}
	if d.deliveries != nil {
		if err := d.deliveries.Close(); err != nil {
			d.logger.Warn("close dispatch log", logging.Error(err))
		}
		d.deliveries = nil
	}
	d.releaseLock()
}

func (d *Daemon) releaseLock() {
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Store exposes the request store for the IPC surface.
func (d *Daemon) Store() *request.Store {
	return d.store
}

// Deliveries exposes the dispatch log, nil before Start.
func (d *Daemon) Deliveries() *dispatchlog.Store {
	return d.deliveries
}

// APIAddr reports the bound HTTP address, empty when the API is disabled.
func (d *Daemon) APIAddr() string {
	if d.apiSrv == nil {
		return ""
	}
	return d.apiSrv.addr()
}

// EnqueueNotification hands a lifecycle event to the dispatcher. Before
// Start, or after Stop, events are dropped.
func (d *Daemon) EnqueueNotification(event request.EventKind, req request.Request) {
	if d.dispatcher == nil {
		return
	}
	d.dispatcher.Enqueue(event, req)
}

// TestNotifications probes every configured webhook.
func (d *Daemon) TestNotifications(ctx context.Context) []notifications.ProbeResult {
	if d.notifier == nil {
		d.notifier = notifications.NewService(d.cfg, d.logger)
	}
	return d.notifier.TestConnections(ctx)
}

// NotificationStatus reports channel readiness.
func (d *Daemon) NotificationStatus() notifications.ConfigStatus {
	if d.notifier == nil {
		d.notifier = notifications.NewService(d.cfg, d.logger)
	}
	return d.notifier.Status()
}

// RecentDeliveries returns the latest recorded delivery attempts.
func (d *Daemon) RecentDeliveries(ctx context.Context, limit int) ([]dispatchlog.Entry, error) {
	if d.deliveries == nil {
		return nil, errors.New("dispatch log unavailable")
	}
	return d.deliveries.Recent(ctx, limit)
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	status := Status{
		Running:       d.running.Load(),
		PID:           os.Getpid(),
		APIBind:       d.cfg.Server.APIBind,
		LockFilePath:  d.lockPath,
		DispatchLog:   filepath.Join(d.cfg.Server.DataDir, "dispatchlog.db"),
		TotalRequests: d.store.Len(),
		Notifications: d.NotificationStatus(),
	}
	if status.Running {
		status.UptimeSeconds = time.Since(d.startedAt).Seconds()
		status.SeededRequests = d.seeded
		if addr := d.APIAddr(); addr != "" {
			status.APIBind = addr
		}
	}
	return status
}

// Thresholds reports the configured tier boundaries.
func (d *Daemon) Thresholds() tier.Thresholds {
	return d.cfg.Thresholds()
}

// RequestService builds the API service bound to this daemon's store.
func (d *Daemon) RequestService() *api.RequestService {
	return api.NewRequestService(d.store, d.cfg.Thresholds())
}
