// Command hdpm-cli is an interactive client for hdpm-server.
//
// It registers endpoints, browses remote HDP instances and opens control
// and data channels through the server's IPC socket. Server events are
// printed as they arrive.
//
// Usage:
//
//	hdpm-cli [flags]
//
// Flags:
//
//	-socket string        IPC socket path
//	-redial               Redial the server with backoff when the link drops
//	-timeout duration     Per-command timeout (default 30s)
//	-protocol-log string  Record the IPC traffic to a .hlog file
//	-log-level string     Log level: debug, info, warn, error (default "warn")
//
// Example:
//
//	hdpm-cli -socket /tmp/hdpm.sock
//	hdpm> register 0x1004 sink "Oximeter sink"
//	hdpm> instances 00:1A:7D:DA:71:13
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/hdpm-project/hdpm-go/cmd/hdpm-cli/interactive"
	"github.com/hdpm-project/hdpm-go/pkg/client"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
	"github.com/hdpm-project/hdpm-go/pkg/service"
)

func main() {
	socket := flag.String("socket", service.DefaultConfig().SocketPath, "IPC socket path")
	redial := flag.Bool("redial", false, "Redial the server with backoff when the link drops")
	timeout := flag.Duration("timeout", client.DefaultRequestTimeout, "Per-command timeout")
	protocolLog := flag.String("protocol-log", "", "Record the IPC traffic to a .hlog file")
	logLevel := flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *socket, *redial, *timeout, *protocolLog, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "hdpm-cli: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, socket string, redial bool, timeout time.Duration, protocolLog, logLevel string) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid log level %q", logLevel)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := client.Config{
		SocketPath:     socket,
		RequestTimeout: timeout,
		Redial:         redial,
		Logger:         logger,
	}
	if protocolLog != "" {
		fl, err := log.NewFileLogger(protocolLog)
		if err != nil {
			return fmt.Errorf("open protocol log: %w", err)
		}
		defer fl.Close()
		cfg.ProtocolLogger = fl
	}

	// Events can arrive before the shell exists; they are printed to stdout
	// until it takes over.
	var sh atomic.Pointer[interactive.Shell]
	cfg.OnEvent = func(ev ipc.Event) {
		if s := sh.Load(); s != nil {
			s.HandleEvent(ev)
			return
		}
		fmt.Printf("[EVENT] %s\n", interactive.FormatEvent(ev))
	}
	cfg.OnLinkLost = func(err error) {
		logger.Warn("server link lost", "error", err)
	}
	cfg.OnLinkRestored = func() {
		logger.Info("server link restored")
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	c, err := client.Dial(dialCtx, cfg)
	if err != nil {
		return fmt.Errorf("connect to %s: %w", socket, err)
	}
	defer c.Close()

	shell, err := interactive.New(c, timeout)
	if err != nil {
		return err
	}
	sh.Store(shell)
	shell.Run(ctx)
	return nil
}
