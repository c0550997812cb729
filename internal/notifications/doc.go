// Package notifications delivers Slack webhook messages for disbursement
// request lifecycle events. Each loan tier routes to its own webhook; tiers
// without a configured destination are skipped. Delivery is at-most-once with
// no retries, and a failed delivery never surfaces to the caller that
// triggered it.
package notifications
