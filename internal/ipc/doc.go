// Package ipc exposes daemon control via JSON-RPC over a Unix domain
// socket. The CLI is the only intended consumer; the HTTP API is the
// external surface.
package ipc
