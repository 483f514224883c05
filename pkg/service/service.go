package service

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
	"github.com/hdpm-project/hdpm-go/pkg/transport"
)

// Service serves a HealthManager to IPC clients.
type Service struct {
	config     Config
	mgr        HealthManager
	dispatcher *NotificationDispatcher
	handler    *ProtocolHandler
	server     *transport.Server
	logger     *slog.Logger

	mu    sync.Mutex
	state ServiceState
	ctx   context.Context

	activeConns atomic.Int32
}

// New creates a service. The dispatcher must be the ClientNotifier the
// manager was created with.
func New(config Config, mgr HealthManager, dispatcher *NotificationDispatcher) (*Service, error) {
	if config.SocketPath == "" {
		return nil, fmt.Errorf("%w: socket path is required", ErrInvalidConfig)
	}
	if config.MaxClients < 0 {
		return nil, fmt.Errorf("%w: negative client cap", ErrInvalidConfig)
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = DefaultConfig().RequestTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		config:     config,
		mgr:        mgr,
		dispatcher: dispatcher,
		handler:    NewProtocolHandler(mgr, config.RequestTimeout, logger, config.ProtocolLogger),
		logger:     logger,
	}

	server, err := transport.NewServer(transport.ServerConfig{
		Address:      config.SocketPath,
		SocketMode:   config.SocketMode,
		Logger:       config.ProtocolLogger,
		OnConnect:    s.handleConnect,
		OnDisconnect: s.handleDisconnect,
		OnMessage:    s.handleMessage,
		OnError: func(conn *transport.ServerConn, err error) {
			if conn != nil {
				logger.Debug("client connection error", "client", conn.ID(), "error", err)
				return
			}
			logger.Warn("ipc server error", "error", err)
		},
	})
	if err != nil {
		return nil, err
	}
	s.server = server
	return s, nil
}

// State returns the service state.
func (s *Service) State() ServiceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Start begins accepting clients.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return ErrAlreadyStarted
	}
	s.ctx = ctx
	if err := s.server.Start(ctx); err != nil {
		return err
	}
	s.state = StateRunning
	s.logger.Info("ipc service listening", "socket", s.config.SocketPath)
	return nil
}

// Stop closes every client connection. The manager releases what each
// client owned as its connection goes away.
func (s *Service) Stop() error {
	s.mu.Lock()
	if s.state != StateRunning {
		s.mu.Unlock()
		return nil
	}
	s.state = StateStopped
	s.mu.Unlock()
	return s.server.Stop()
}

// Addr returns the listen address.
func (s *Service) Addr() net.Addr {
	return s.server.Addr()
}

// ClientCount returns the number of connected clients.
func (s *Service) ClientCount() int {
	return s.dispatcher.ConnectionCount()
}

func (s *Service) handleConnect(conn *transport.ServerConn) {
	n := s.activeConns.Add(1)
	if s.config.MaxClients > 0 && int(n) > s.config.MaxClients {
		s.logger.Warn("client limit reached, closing connection", "client", conn.ID(), "limit", s.config.MaxClients)
		conn.Close()
		return
	}
	id := manager.ClientID(conn.ID())
	s.dispatcher.RegisterConnection(id, conn.Send)
	s.logger.Debug("client connected", "client", id, "session", conn.SessionID())
}

func (s *Service) handleDisconnect(conn *transport.ServerConn) {
	s.activeConns.Add(-1)
	id := manager.ClientID(conn.ID())
	since, known := s.dispatcher.conns.ConnectedFor(id)
	s.dispatcher.UnregisterConnection(id)
	if !known {
		return
	}
	s.mgr.ClientDisconnected(id)
	s.logger.Debug("client disconnected", "client", id, "connected_for", since)
}

func (s *Service) handleMessage(conn *transport.ServerConn, msg *ipc.Message) {
	id := manager.ClientID(conn.ID())
	if !s.dispatcher.ClientValid(id) {
		return
	}
	resp := s.handler.HandleRequest(s.ctx, id, msg)
	if resp == nil {
		return
	}
	if err := conn.Send(resp); err != nil {
		s.logger.Debug("send response failed", "client", id, "function", msg.Function, "error", err)
	}
}
