// Package api defines the transport-facing request and response types for
// the HTTP surface, plus the service layer that maps them onto the
// in-memory request store. Every HTTP response uses the Envelope wrapper.
package api
