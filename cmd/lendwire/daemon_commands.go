package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lendwire/internal/daemonctl"
	"lendwire/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the lendwired daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonctl.DaemonExecutable()
			if err != nil {
				return err
			}

			result, err := daemonctl.EnsureStarted(
				ctx.socketPath(),
				exe,
				daemonLaunchOptions(ctx),
				10*time.Second,
			)
			if err != nil {
				return err
			}

			if result.AlreadyRunning {
				fmt.Fprintln(stdout, "Daemon already running")
				return nil
			}
			fmt.Fprintln(stdout, "Daemon not running, launching...")
			fmt.Fprintln(stdout, "Daemon started")
			return nil
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the lendwired daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			result, err := daemonctl.Stop(ctx.socketPath(), 5*time.Second)
			if errors.Is(err, daemonctl.ErrDaemonNotRunning) {
				fmt.Fprintln(stdout, "Daemon is not running")
				return nil
			}
			if err != nil {
				return err
			}
			if result.ForcedKill {
				fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", result.PID)
			}
			fmt.Fprintln(stdout, "Daemon stopped")
			return nil
		},
	}

	restartCmd := &cobra.Command{
		Use:   "restart",
		Short: "Restart the lendwired daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			exe, err := daemonctl.DaemonExecutable()
			if err != nil {
				return err
			}

			stop, err := daemonctl.Stop(ctx.socketPath(), 5*time.Second)
			switch {
			case errors.Is(err, daemonctl.ErrDaemonNotRunning):
			case err != nil:
				return err
			default:
				if stop.ForcedKill {
					fmt.Fprintf(stdout, "Stopping daemon process (pid %d)...\n", stop.PID)
				}
				fmt.Fprintln(stdout, "Daemon stopped")
			}

			if _, err := daemonctl.EnsureStarted(ctx.socketPath(), exe, daemonLaunchOptions(ctx), 10*time.Second); err != nil {
				return err
			}
			fmt.Fprintln(stdout, "Daemon restarted")
			return nil
		},
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and notification channel status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				status, err := client.Status()
				if err != nil {
					return err
				}

				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)

				for _, line := range renderSectionHeader("Daemon", colorize) {
					fmt.Fprintln(stdout, line)
				}
				runningKind := statusKindFromBool(status.Running)
				runningDetail := fmt.Sprintf("pid %d, up %s", status.PID, formatUptime(status.UptimeSeconds))
				if !status.Running {
					runningDetail = "not running"
				}
				fmt.Fprintln(stdout, renderStatusLine("Running", runningKind, runningDetail, colorize))
				fmt.Fprintln(stdout, renderStatusLine("API", statusInfo, status.APIBind, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Lock file", statusInfo, status.LockPath, colorize))
				fmt.Fprintln(stdout, renderStatusLine("Dispatch log", statusInfo, status.DispatchLog, colorize))
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Notification Channels", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Configured", statusKindFromBool(status.Notifications), yesNo(status.Notifications), colorize))
				for _, channel := range status.Channels {
					detail := "webhook configured"
					if !channel.Configured {
						detail = "no webhook"
					}
					label := strings.ToUpper(channel.Tier[:1]) + channel.Tier[1:]
					fmt.Fprintln(stdout, renderStatusLine(label+" tier", statusKindFromBool(channel.Configured), detail, colorize))
				}
				fmt.Fprintln(stdout)

				for _, line := range renderSectionHeader("Requests", colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Total", statusInfo, fmt.Sprintf("%d", status.TotalRequests), colorize))
				if status.SeededRequests > 0 {
					fmt.Fprintln(stdout, renderStatusLine("Seeded", statusInfo, fmt.Sprintf("%d", status.SeededRequests), colorize))
				}
				return nil
			})
		},
	}

	return []*cobra.Command{startCmd, stopCmd, restartCmd, statusCmd}
}

func daemonLaunchOptions(ctx *commandContext) daemonctl.LaunchOptions {
	opts := daemonctl.LaunchOptions{}
	if ctx.configFlag != nil {
		if config := strings.TrimSpace(*ctx.configFlag); config != "" {
			opts.ConfigPath = config
		}
	}
	return opts
}

func formatUptime(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	return d.Truncate(time.Second).String()
}
