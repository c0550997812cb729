package request

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a disbursement request.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

var allStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status. Matching is
// case-insensitive; the canonical capitalized form is returned.
func ParseStatus(value string) (Status, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	for _, status := range allStatuses {
		if strings.EqualFold(trimmed, string(status)) {
			return status, true
		}
	}
	return "", false
}

// IsTerminal reports whether the status has no further expected transition.
// The store itself does not enforce terminality; reviewers may override.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Request is a loan disbursement request record.
type Request struct {
	ID           string
	BorrowerName string
	LoanAmount   float64
	Status       Status
	SubmittedAt  time.Time
}

// EventKind distinguishes the lifecycle events that trigger notifications.
type EventKind string

const (
	EventNewRequest    EventKind = "new_request"
	EventStatusChanged EventKind = "status_changed"
)
