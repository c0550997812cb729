// Package preflight provides readiness checks for the filesystem paths and
// webhook configuration the daemon depends on.
//
// The daemon runs RunAll at startup and logs failures without refusing to
// start; the CLI "lendwire status" command shows the same results so a
// misconfigured deployment is visible before the first request arrives.
package preflight
