// Package daemonctl orchestrates the lendwired process from the CLI: it
// launches a detached daemon, waits for the IPC socket, and terminates a
// running instance by PID.
package daemonctl

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"lendwire/internal/ipc"
)

// ErrDaemonNotRunning indicates no daemon answered on the socket.
var ErrDaemonNotRunning = errors.New("daemon is not running")

// LaunchOptions controls daemon process launch behavior.
type LaunchOptions struct {
	ConfigPath string
}

// StartResult captures daemon start orchestration state.
type StartResult struct {
	Launched       bool
	AlreadyRunning bool
	PID            int
}

// StopResult captures daemon stop orchestration state.
type StopResult struct {
	PID        int
	ForcedKill bool
}

// DaemonExecutable resolves the lendwired binary: first next to the current
// executable, then on PATH.
func DaemonExecutable() (string, error) {
	exe, err := os.Executable()
	if err == nil {
		sibling := filepath.Join(filepath.Dir(exe), "lendwired")
		if info, statErr := os.Stat(sibling); statErr == nil && !info.IsDir() {
			return sibling, nil
		}
	}

	path, err := exec.LookPath("lendwired")
	if err != nil {
		return "", fmt.Errorf("locate lendwired: %w", err)
	}
	return path, nil
}

// Launch starts a detached lendwired process.
func Launch(executablePath string, opts LaunchOptions) error {
	if strings.TrimSpace(executablePath) == "" {
		return errors.New("launch daemon: executable path is empty")
	}

	var args []string
	if cfg := strings.TrimSpace(opts.ConfigPath); cfg != "" {
		args = append(args, "--config", cfg)
	}

	proc := exec.Command(executablePath, args...)
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// WaitForClient waits for IPC socket availability and returns a connected client.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	deadline := time.Now().Add(timeout)
	var lastErr error
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err == nil {
			return client, nil
		}
		lastErr = err
		time.Sleep(200 * time.Millisecond)
	}
	if lastErr == nil {
		lastErr = errors.New("timeout waiting for daemon")
	}
	return nil, fmt.Errorf("daemon failed to start: %w", lastErr)
}

// EnsureStarted connects to a running daemon or launches one, and reports
// which of the two happened.
func EnsureStarted(socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	client, err := ipc.Dial(socketPath)
	if err == nil {
		status, statusErr := client.Status()
		client.Close()
		if statusErr == nil && status != nil && status.Running {
			return StartResult{AlreadyRunning: true, PID: status.PID}, nil
		}
	}

	if err := Launch(executablePath, opts); err != nil {
		return StartResult{}, err
	}

	client, err = WaitForClient(socketPath, waitTimeout)
	if err != nil {
		return StartResult{}, err
	}
	defer client.Close()

	status, err := client.Status()
	if err != nil {
		return StartResult{Launched: true}, nil
	}
	return StartResult{Launched: true, PID: status.PID}, nil
}

// Stop terminates a running daemon. It resolves the PID over IPC, sends
// SIGTERM, and escalates to SIGKILL if the socket is still answering after
// the grace period.
func Stop(socketPath string, grace time.Duration) (StopResult, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		return StopResult{}, ErrDaemonNotRunning
	}

	status, err := client.Status()
	client.Close()
	if err != nil {
		return StopResult{}, fmt.Errorf("query daemon status: %w", err)
	}
	if status.PID <= 0 {
		return StopResult{}, errors.New("daemon did not report a pid")
	}

	if err := syscall.Kill(status.PID, syscall.SIGTERM); err != nil {
		return StopResult{}, fmt.Errorf("signal daemon (pid %d): %w", status.PID, err)
	}

	if waitForShutdown(socketPath, grace) {
		return StopResult{PID: status.PID}, nil
	}

	if err := syscall.Kill(status.PID, syscall.SIGKILL); err != nil && !errors.Is(err, syscall.ESRCH) {
		return StopResult{PID: status.PID, ForcedKill: true}, fmt.Errorf("kill daemon (pid %d): %w", status.PID, err)
	}
	waitForShutdown(socketPath, grace)
	return StopResult{PID: status.PID, ForcedKill: true}, nil
}

func waitForShutdown(socketPath string, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		client, err := ipc.Dial(socketPath)
		if err != nil {
			return true
		}
		_, statusErr := client.Status()
		client.Close()
		if statusErr != nil {
			return true
		}
		time.Sleep(100 * time.Millisecond)
	}
	return false
}
