// Command hdpm-server runs the Bluetooth health device manager and serves
// it to local clients over a unix socket.
//
// Usage:
//
//	hdpm-server [flags]
//
// Flags:
//
//	-config string           Configuration file path (YAML)
//	-socket string           IPC socket path (default "/run/hdpm/hdpm.sock")
//	-socket-mode string      IPC socket permissions (default "0660")
//	-max-clients int         Maximum concurrent clients (0 = unlimited)
//	-request-timeout dur     Timeout for service queries (default 30s)
//	-service-name string     SDP service name (default "HDP Service")
//	-provider-name string    SDP provider name (default "hdpm")
//	-backend string          Device backend: bluez, simulate (default "bluez")
//	-adapter string          Bluetooth adapter (default "hci0")
//	-cache string            Remote service record cache file (YAML)
//	-protocol-log string     Protocol event log file (.hlog)
//	-protocol-log-max-size n Rotate the protocol log at n bytes (0 = never)
//	-log-level string        Log level: debug, info, warn, error (default "info")
//
// Flags that are set explicitly override values from the configuration
// file.
//
// Examples:
//
//	# Run against the first BlueZ adapter
//	hdpm-server -config /etc/hdpm/hdpm.yaml
//
//	# Run without hardware, recording every message
//	hdpm-server -backend simulate -socket /tmp/hdpm.sock -protocol-log /tmp/hdpm.hlog
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hdpm-project/hdpm-go/internal/bluez"
	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/engine/sim"
	"github.com/hdpm-project/hdpm-go/pkg/log"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
	"github.com/hdpm-project/hdpm-go/pkg/service"
	"github.com/hdpm-project/hdpm-go/pkg/stack"
)

func main() {
	cfg, err := newFlagSet(os.Args[0]).parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("hdpm-server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg Config) error {
	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	plog, closeLog, err := protocolLogger(cfg, logger, level)
	if err != nil {
		return err
	}
	defer closeLog()

	cache := devm.NewServiceCache(cfg.CacheFile)
	if err := cache.Load(); err != nil {
		return fmt.Errorf("load service cache: %w", err)
	}

	// The MCAP protocol engine sits behind engine.Engine; the simulator is
	// the engine built into this binary.
	eng := sim.New()
	eng.SetAutoConfirm(cfg.Backend == BackendSimulate)

	var (
		dm    devm.DeviceManager
		open  func(context.Context) error
		shutdown func() error
	)
	switch cfg.Backend {
	case BackendSimulate:
		s := devm.NewSim(cache)
		s.SetAutoConnect(true)
		dm = s
		open = func(context.Context) error {
			s.PowerOn()
			return nil
		}
		shutdown = func() error {
			s.PowerOff()
			return nil
		}
	default:
		b := bluez.New(bluez.Config{Adapter: cfg.Adapter, Cache: cache, Logger: logger})
		dm, open, shutdown = b, b.Open, b.Close
	}

	dispatcher := service.NewNotificationDispatcher(plog)
	st := stack.New(stack.Config{
		ServiceName:  cfg.ServiceName,
		ProviderName: cfg.ProviderName,
		Logger:       logger,
	}, eng, dm)
	mgr := manager.New(manager.Config{Logger: logger, ProtocolLogger: plog}, st, dm, dispatcher)
	if err := mgr.Start(ctx); err != nil {
		return err
	}
	defer mgr.Stop()

	mode, _ := cfg.Mode()
	svc, err := service.New(service.Config{
		SocketPath:     cfg.Socket,
		SocketMode:     mode,
		MaxClients:     cfg.MaxClients,
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
		ProtocolLogger: plog,
	}, mgr, dispatcher)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	if err := open(ctx); err != nil {
		return fmt.Errorf("open %s backend: %w", cfg.Backend, err)
	}
	defer func() {
		if err := shutdown(); err != nil {
			logger.Warn("closing backend", "error", err)
		}
	}()

	logger.Info("hdpm-server running",
		"socket", cfg.Socket,
		"backend", cfg.Backend,
		"service", cfg.ServiceName,
	)
	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// protocolLogger builds the protocol event sink: the .hlog file when
// configured, mirrored to the operational log at debug level.
func protocolLogger(cfg Config, logger *slog.Logger, level slog.Level) (log.Logger, func(), error) {
	var sinks []log.Logger
	closeFn := func() {}

	if cfg.ProtocolLog != "" {
		fl, err := log.OpenFileLogger(cfg.ProtocolLog, log.FileLoggerOptions{MaxSize: cfg.ProtocolLogMaxSize})
		if err != nil {
			return nil, nil, fmt.Errorf("open protocol log: %w", err)
		}
		sinks = append(sinks, fl)
		closeFn = func() { fl.Close() }
	}
	if level <= slog.LevelDebug {
		sinks = append(sinks, log.NewSlogAdapter(logger))
	}

	plog := log.NewMultiLogger(sinks...)
	if plog.Len() == 0 {
		return nil, closeFn, nil
	}
	return plog, closeFn, nil
}
