package preflight

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"lendwire/internal/config"
	"lendwire/internal/tier"
)

// minFreeBytes is the free-space floor for the data directory. The dispatch
// log grows one row per delivery attempt; 32 MiB covers years of traffic.
const minFreeBytes = 32 << 20

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Webhook checks only cover tiers that have a destination configured.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Server.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Server.LogDir),
		CheckDiskSpace("Data directory space", cfg.Server.DataDir),
	}

	for _, tr := range tier.AllTiers() {
		webhookURL := strings.TrimSpace(cfg.WebhookURL(string(tr)))
		if webhookURL == "" {
			continue
		}
		name := fmt.Sprintf("Webhook (%s)", tr)
		results = append(results, CheckWebhookURL(name, webhookURL))
	}
	return results
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has headroom for the
// dispatch log.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%d MiB free, need %d MiB)", path, free>>20, minFreeBytes>>20)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d MiB free)", path, free>>20)}
}

// CheckWebhookURL verifies the webhook destination is a well-formed HTTPS
// endpoint. Delivery is not probed; that would post to the channel.
func CheckWebhookURL(name, webhookURL string) Result {
	parsed, err := url.Parse(webhookURL)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url (%v)", err)}
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return Result{Name: name, Detail: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)}
	}
	if parsed.Host == "" {
		return Result{Name: name, Detail: "missing host"}
	}
	return Result{Name: name, Passed: true, Detail: parsed.Host}
}
