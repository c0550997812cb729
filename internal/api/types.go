package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Envelope is the uniform wrapper for every HTTP response body.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// DisbursementRequest describes a request record in a transport-friendly
// format. Tier is derived from the loan amount, never stored.
type DisbursementRequest struct {
	ID           string  `json:"id"`
	BorrowerName string  `json:"borrowerName"`
	LoanAmount   float64 `json:"loanAmount"`
	Status       string  `json:"status"`
	SubmittedAt  string  `json:"submittedAt"`
	Tier         string  `json:"tier"`
}

// CreateDisbursementRequest is the POST body for new requests.
type CreateDisbursementRequest struct {
	BorrowerName string  `json:"borrowerName"`
	LoanAmount   float64 `json:"loanAmount"`
}

// UpdateDisbursementRequest is the PUT body. Absent fields are left
// untouched.
type UpdateDisbursementRequest struct {
	BorrowerName *string  `json:"borrowerName,omitempty"`
	LoanAmount   *float64 `json:"loanAmount,omitempty"`
	Status       *string  `json:"status,omitempty"`
}

// StatsOverview aggregates the request population for dashboards.
type StatsOverview struct {
	TotalRequests        int                `json:"totalRequests"`
	StatusCounts         map[string]int     `json:"statusCounts"`
	TotalAmountsByStatus map[string]float64 `json:"totalAmountsByStatus"`
	TotalAmount          float64            `json:"totalAmount"`
}

// SlackStatus reports notification channel readiness without exposing
// webhook URLs.
type SlackStatus struct {
	IsConfigured       bool            `json:"isConfigured"`
	ConfiguredChannels []string        `json:"configuredChannels"`
	WebhookStatus      map[string]bool `json:"webhookStatus"`
}

// SlackTestResult is one tier's connection probe outcome.
type SlackTestResult struct {
	Tier       string `json:"tier"`
	Configured bool   `json:"configured"`
	Passed     bool   `json:"passed"`
	Error      string `json:"error,omitempty"`
}

// HealthStatus is the liveness payload.
type HealthStatus struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	PID       int     `json:"pid"`
}

// DeliveryAttempt describes one recorded notification delivery.
type DeliveryAttempt struct {
	ID          int64  `json:"id"`
	RequestID   string `json:"requestId"`
	Event       string `json:"event"`
	Tier        string `json:"tier"`
	Outcome     string `json:"outcome"`
	Detail      string `json:"detail,omitempty"`
	AttemptedAt string `json:"attemptedAt"`
}
