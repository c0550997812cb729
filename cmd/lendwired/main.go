// Command lendwired runs the disbursement lifecycle daemon. It owns the
// request store, the notification dispatcher, the HTTP API, and the unix
// socket used by the lendwire CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lendwire/internal/config"
	"lendwire/internal/daemon"
	"lendwire/internal/ipc"
	"lendwire/internal/logging"
	"lendwire/internal/preflight"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lendwired: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, cfgPath, found, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	if found {
		logger.Info("configuration loaded", logging.String("path", cfgPath))
	} else {
		logger.Info("no configuration file found, using defaults",
			logging.String("path", cfgPath))
	}

	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}

	d, err := daemon.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	ipcServer, err := ipc.NewServer(ctx, cfg.Server.SocketPath, d, logger)
	if err != nil {
		return fmt.Errorf("create ipc server: %w", err)
	}
	ipcServer.Serve()

	if err := d.Start(ctx); err != nil {
		ipcServer.Close()
		return fmt.Errorf("start daemon: %w", err)
	}

	logger.Info("lendwired running",
		logging.Int("pid", os.Getpid()),
		logging.String("api_bind", d.APIAddr()),
		logging.String("socket", cfg.Server.SocketPath))

	<-ctx.Done()
	logger.Info("shutdown signal received")

	// IPC handlers enqueue into the daemon; the server must drain first.
	ipcServer.Close()
	d.Stop()
	return nil
}
