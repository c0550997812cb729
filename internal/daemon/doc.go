// Package daemon wires the request store, notification dispatcher, dispatch
// log, and HTTP API into a single-instance background process. A file lock
// under the data directory prevents concurrent daemons from racing on the
// dispatch log and IPC socket.
package daemon
