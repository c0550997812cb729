package ipc

import "lendwire/internal/api"

// Request mirrors the HTTP API disbursement DTO for internal IPC callers.
type Request = api.DisbursementRequest

// SlackTestResult mirrors the HTTP API probe DTO.
type SlackTestResult = api.SlackTestResult

// DeliveryAttempt mirrors the HTTP API dispatch log DTO.
type DeliveryAttempt = api.DeliveryAttempt

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// TierChannel reports one tier's webhook readiness.
type TierChannel struct {
	Tier       string `json:"tier"`
	Configured bool   `json:"configured"`
}

// StatusResponse represents daemon runtime information.
type StatusResponse struct {
	Running        bool          `json:"running"`
	PID            int           `json:"pid"`
	UptimeSeconds  float64       `json:"uptime_seconds"`
	APIBind        string        `json:"api_bind"`
	LockPath       string        `json:"lock_path"`
	DispatchLog    string        `json:"dispatch_log_path"`
	TotalRequests  int           `json:"total_requests"`
	SeededRequests int           `json:"seeded_requests"`
	Notifications  bool          `json:"notifications_configured"`
	Channels       []TierChannel `json:"channels"`
}

// RequestListRequest filters the listing by status; empty means all.
type RequestListRequest struct {
	Status string `json:"status"`
}

// RequestListResponse contains disbursement requests, newest first.
type RequestListResponse struct {
	Items []Request `json:"items"`
}

// RequestDescribeRequest fetches a single request by id.
type RequestDescribeRequest struct {
	ID string `json:"id"`
}

// RequestDescribeResponse contains a single request.
type RequestDescribeResponse struct {
	Item Request `json:"item"`
}

// RequestCreateRequest submits a new disbursement request.
type RequestCreateRequest struct {
	BorrowerName string  `json:"borrower_name"`
	LoanAmount   float64 `json:"loan_amount"`
}

// RequestCreateResponse contains the stored request.
type RequestCreateResponse struct {
	Item Request `json:"item"`
}

// RequestUpdateStatusRequest moves a request to a new status.
type RequestUpdateStatusRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// RequestUpdateStatusResponse contains the updated request and whether the
// status actually changed.
type RequestUpdateStatusResponse struct {
	Item          Request `json:"item"`
	StatusChanged bool    `json:"status_changed"`
}

// StatsRequest fetches aggregate statistics.
type StatsRequest struct{}

// StatsResponse mirrors the HTTP overview payload.
type StatsResponse struct {
	TotalRequests        int                `json:"total_requests"`
	StatusCounts         map[string]int     `json:"status_counts"`
	TotalAmountsByStatus map[string]float64 `json:"total_amounts_by_status"`
	TotalAmount          float64            `json:"total_amount"`
}

// TestNotifyRequest probes the configured webhooks.
type TestNotifyRequest struct{}

// TestNotifyResponse reports per-tier probe outcomes.
type TestNotifyResponse struct {
	Results []SlackTestResult `json:"results"`
}

// NotifyLogRequest fetches recent delivery attempts.
type NotifyLogRequest struct {
	Limit int `json:"limit"`
}

// NotifyLogResponse contains delivery attempts, newest first.
type NotifyLogResponse struct {
	Entries []DeliveryAttempt `json:"entries"`
}
