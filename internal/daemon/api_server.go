package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lendwire/internal/api"
	"lendwire/internal/config"
	"lendwire/internal/logging"
	"lendwire/internal/request"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon
	svc    *api.RequestService

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Server.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
		svc:    d.RequestService(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", srv.handleHealth)
	mux.HandleFunc("GET /api/requests", srv.handleListRequests)
	mux.HandleFunc("POST /api/requests", srv.handleCreateRequest)
	mux.HandleFunc("GET /api/requests/stats/overview", srv.handleStats)
	mux.HandleFunc("GET /api/requests/{id}", srv.handleGetRequest)
	mux.HandleFunc("PUT /api/requests/{id}", srv.handleUpdateRequest)
	mux.HandleFunc("DELETE /api/requests/{id}", srv.handleDeleteRequest)
	mux.HandleFunc("GET /api/slack/status", srv.handleSlackStatus)
	mux.HandleFunc("POST /api/test/slack", srv.handleSlackTest)
	mux.HandleFunc("GET /api/deliveries", srv.handleDeliveries)

	srv.server = &http.Server{
		Handler:           authMiddleware(cfg.Server.APIToken, mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.daemon.Status()
	s.writeJSON(w, http.StatusOK, api.HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    status.UptimeSeconds,
		PID:       status.PID,
	})
}

func (s *apiServer) handleListRequests(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.List(strings.TrimSpace(r.URL.Query().Get("status")))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, items, "")
}

func (s *apiServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var params api.CreateDisbursementRequest
	if !s.decodeBody(w, r, &params) {
		return
	}
	dto, stored, err := s.svc.Create(params)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.daemon.EnqueueNotification(request.EventNewRequest, stored)
	s.writeData(w, http.StatusCreated, dto, "Disbursement request created successfully")
}

func (s *apiServer) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	dto, err := s.svc.Get(r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeData(w, http.StatusOK, dto, "")
}

func (s *apiServer) handleUpdateRequest(w http.ResponseWriter, r *http.Request) {
	var params api.UpdateDisbursementRequest
	if !s.decodeBody(w, r, &params) {
		return
	}
	dto, stored, statusChanged, err := s.svc.Update(r.PathValue("id"), params)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if statusChanged {
		s.daemon.EnqueueNotification(request.EventStatusChanged, stored)
	}
	s.writeData(w, http.StatusOK, dto, "Disbursement request updated successfully")
}

func (s *apiServer) handleDeleteRequest(w http.ResponseWriter, r *http.Request) {
	if !s.svc.Delete(r.PathValue("id")) {
		s.writeError(w, http.StatusNotFound, "Disbursement request not found")
		return
	}
	s.writeJSON(w, http.StatusOK, api.Envelope{
		Success: true,
		Message: "Disbursement request deleted successfully",
	})
}

func (s *apiServer) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, s.svc.Stats(), "")
}

func (s *apiServer) handleSlackStatus(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, api.FromConfigStatus(s.daemon.NotificationStatus()), "")
}

func (s *apiServer) handleSlackTest(w http.ResponseWriter, r *http.Request) {
	results := s.daemon.TestNotifications(r.Context())
	s.writeData(w, http.StatusOK, api.FromProbeResults(results), "Slack notification test completed")
}

func (s *apiServer) handleDeliveries(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.daemon.RecentDeliveries(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeData(w, http.StatusOK, api.FromDeliveryEntries(entries), "")
}

func (s *apiServer) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := decoder.Decode(dst); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	if verr, ok := request.AsValidationError(err); ok {
		s.writeJSON(w, http.StatusBadRequest, api.Envelope{
			Success: false,
			Error:   "Validation failed",
			Errors:  verr.Fields,
		})
		return
	}
	if errors.Is(err, request.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "Disbursement request not found")
		return
	}
	s.log().Error("request handling failed", logging.Error(err))
	s.writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *apiServer) writeData(w http.ResponseWriter, status int, data any, message string) {
	s.writeJSON(w, status, api.Envelope{Success: true, Data: data, Message: message})
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, api.Envelope{Success: false, Error: message})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return logging.NewNop()
}
