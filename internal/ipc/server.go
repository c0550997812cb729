package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"strings"
	"sync"

	"lendwire/internal/api"
	"lendwire/internal/daemon"
	"lendwire/internal/logging"
	"lendwire/internal/request"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Lendwire", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status()
	resp.Running = status.Running
	resp.PID = status.PID
	resp.UptimeSeconds = status.UptimeSeconds
	resp.APIBind = status.APIBind
	resp.LockPath = status.LockFilePath
	resp.DispatchLog = status.DispatchLog
	resp.TotalRequests = status.TotalRequests
	resp.SeededRequests = status.SeededRequests
	resp.Notifications = status.Notifications.Configured
	for _, ts := range status.Notifications.Tiers {
		resp.Channels = append(resp.Channels, TierChannel{
			Tier:       string(ts.Tier),
			Configured: ts.Configured,
		})
	}
	return nil
}

func (s *service) RequestList(req RequestListRequest, resp *RequestListResponse) error {
	items, err := s.daemon.RequestService().List(strings.TrimSpace(req.Status))
	if err != nil {
		return err
	}
	resp.Items = items
	return nil
}

func (s *service) RequestDescribe(req RequestDescribeRequest, resp *RequestDescribeResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("request id is required")
	}
	item, err := s.daemon.RequestService().Get(req.ID)
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return fmt.Errorf("request %s not found", req.ID)
		}
		return err
	}
	resp.Item = item
	return nil
}

func (s *service) RequestCreate(req RequestCreateRequest, resp *RequestCreateResponse) error {
	s.log().Debug("request create requested")
	dto, stored, err := s.daemon.RequestService().Create(api.CreateDisbursementRequest{
		BorrowerName: req.BorrowerName,
		LoanAmount:   req.LoanAmount,
	})
	if err != nil {
		return err
	}
	s.daemon.EnqueueNotification(request.EventNewRequest, stored)
	resp.Item = dto
	s.log().Info("request created via ipc",
		logging.String("request_id", dto.ID),
		logging.String("tier", dto.Tier))
	return nil
}

func (s *service) RequestUpdateStatus(req RequestUpdateStatusRequest, resp *RequestUpdateStatusResponse) error {
	if strings.TrimSpace(req.ID) == "" {
		return errors.New("request id is required")
	}
	status := req.Status
	dto, stored, changed, err := s.daemon.RequestService().Update(req.ID, api.UpdateDisbursementRequest{
		Status: &status,
	})
	if err != nil {
		if errors.Is(err, request.ErrNotFound) {
			return fmt.Errorf("request %s not found", req.ID)
		}
		return err
	}
	if changed {
		s.daemon.EnqueueNotification(request.EventStatusChanged, stored)
	}
	resp.Item = dto
	resp.StatusChanged = changed
	s.log().Info("request status updated via ipc",
		logging.String("request_id", dto.ID),
		logging.String("status", dto.Status),
		logging.Bool("changed", changed))
	return nil
}

func (s *service) Stats(_ StatsRequest, resp *StatsResponse) error {
	stats := s.daemon.RequestService().Stats()
	resp.TotalRequests = stats.TotalRequests
	resp.StatusCounts = stats.StatusCounts
	resp.TotalAmountsByStatus = stats.TotalAmountsByStatus
	resp.TotalAmount = stats.TotalAmount
	return nil
}

func (s *service) TestNotify(_ TestNotifyRequest, resp *TestNotifyResponse) error {
	s.log().Debug("notification test requested")
	resp.Results = api.FromProbeResults(s.daemon.TestNotifications(s.ctx))
	return nil
}

func (s *service) NotifyLog(req NotifyLogRequest, resp *NotifyLogResponse) error {
	entries, err := s.daemon.RecentDeliveries(s.ctx, req.Limit)
	if err != nil {
		return err
	}
	resp.Entries = api.FromDeliveryEntries(entries)
	return nil
}
