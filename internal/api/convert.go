package api

import (
	"lendwire/internal/dispatchlog"
	"lendwire/internal/notifications"
	"lendwire/internal/request"
	"lendwire/internal/tier"
)

// FromRequest converts a stored record to its API representation.
func FromRequest(req request.Request, thresholds tier.Thresholds) DisbursementRequest {
	return DisbursementRequest{
		ID:           req.ID,
		BorrowerName: req.BorrowerName,
		LoanAmount:   req.LoanAmount,
		Status:       string(req.Status),
		SubmittedAt:  req.SubmittedAt.UTC().Format(dateTimeFormat),
		Tier:         string(thresholds.Classify(req.LoanAmount)),
	}
}

// FromRequests converts a slice of stored records, preserving order.
func FromRequests(reqs []request.Request, thresholds tier.Thresholds) []DisbursementRequest {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]DisbursementRequest, len(reqs))
	for i, req := range reqs {
		out[i] = FromRequest(req, thresholds)
	}
	return out
}

// FromConfigStatus converts notification channel readiness.
func FromConfigStatus(status notifications.ConfigStatus) SlackStatus {
	out := SlackStatus{
		IsConfigured:  status.Configured,
		WebhookStatus: make(map[string]bool, len(status.Tiers)),
	}
	for _, ts := range status.Tiers {
		out.WebhookStatus[string(ts.Tier)] = ts.Configured
		if ts.Configured {
			out.ConfiguredChannels = append(out.ConfiguredChannels, string(ts.Tier))
		}
	}
	return out
}

// FromProbeResults converts connection test outcomes.
func FromProbeResults(results []notifications.ProbeResult) []SlackTestResult {
	if len(results) == 0 {
		return nil
	}
	out := make([]SlackTestResult, len(results))
	for i, res := range results {
		out[i] = SlackTestResult{
			Tier:       string(res.Tier),
			Configured: res.Configured,
			Passed:     res.Configured && res.Err == nil,
		}
		if res.Err != nil {
			out[i].Error = res.Err.Error()
		}
	}
	return out
}

// FromDeliveryEntries converts dispatch log rows.
func FromDeliveryEntries(entries []dispatchlog.Entry) []DeliveryAttempt {
	if len(entries) == 0 {
		return nil
	}
	out := make([]DeliveryAttempt, len(entries))
	for i, entry := range entries {
		out[i] = DeliveryAttempt{
			ID:          entry.ID,
			RequestID:   entry.RequestID,
			Event:       string(entry.Event),
			Tier:        string(entry.Tier),
			Outcome:     entry.Outcome,
			Detail:      entry.Detail,
			AttemptedAt: entry.At.UTC().Format(dateTimeFormat),
		}
	}
	return out
}
