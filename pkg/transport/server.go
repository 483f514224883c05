package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
)

const (
	// DefaultNetwork is the socket family clients connect over.
	DefaultNetwork = "unix"

	// DefaultSocketMode is the permission applied to a unix socket file.
	DefaultSocketMode os.FileMode = 0o660
)

// ServerConfig configures an IPC server.
type ServerConfig struct {
	// Network is "unix" (default) or "tcp" for tests and remote debugging.
	Network string

	// Address is the socket path, or host:port for tcp.
	Address string

	// SocketMode is applied to a unix socket after it is created.
	SocketMode os.FileMode

	// Logger for protocol logging (optional).
	Logger log.Logger

	// OnConnect is called when a new connection is established.
	OnConnect func(conn *ServerConn)

	// OnDisconnect is called when a connection is closed.
	OnDisconnect func(conn *ServerConn)

	// OnMessage is called for every message received. Messages from one
	// connection are delivered in order on that connection's goroutine.
	OnMessage func(conn *ServerConn, msg *ipc.Message)

	// OnError is called when an error occurs.
	OnError func(conn *ServerConn, err error)
}

// Server accepts IPC client connections.
type Server struct {
	config   ServerConfig
	listener net.Listener

	conns   map[*ServerConn]struct{}
	connsMu sync.RWMutex

	nextID  atomic.Uint32
	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewServer creates a new IPC server.
func NewServer(config ServerConfig) (*Server, error) {
	if config.Address == "" {
		return nil, fmt.Errorf("address is required")
	}
	if config.Network == "" {
		config.Network = DefaultNetwork
	}
	if config.SocketMode == 0 {
		config.SocketMode = DefaultSocketMode
	}
	return &Server{
		config: config,
		conns:  make(map[*ServerConn]struct{}),
	}, nil
}

// Start starts the server and begins accepting connections. A stale unix
// socket file left by a previous run is removed first.
func (s *Server) Start(ctx context.Context) error {
	if s.running.Load() {
		return fmt.Errorf("server already running")
	}

	s.ctx, s.cancel = context.WithCancel(ctx)

	if s.isUnix() {
		if err := os.Remove(s.config.Address); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.cancel()
			return fmt.Errorf("failed to remove stale socket: %w", err)
		}
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(s.ctx, s.config.Network, s.config.Address)
	if err != nil {
		s.cancel()
		return fmt.Errorf("failed to listen: %w", err)
	}
	if s.isUnix() {
		if err := os.Chmod(s.config.Address, s.config.SocketMode); err != nil {
			listener.Close()
			s.cancel()
			return fmt.Errorf("failed to set socket mode: %w", err)
		}
	}
	s.listener = listener

	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop stops the server and closes all connections.
func (s *Server) Stop() error {
	if !s.running.Load() {
		return nil
	}

	s.running.Store(false)
	s.cancel()

	if s.listener != nil {
		s.listener.Close()
	}

	s.connsMu.Lock()
	for conn := range s.conns {
		conn.Close()
	}
	s.connsMu.Unlock()

	s.wg.Wait()

	if s.isUnix() {
		os.Remove(s.config.Address)
	}
	return nil
}

// Addr returns the server's listen address.
func (s *Server) Addr() net.Addr {
	if s.listener != nil {
		return s.listener.Addr()
	}
	return nil
}

// ConnectionCount returns the number of active connections.
func (s *Server) ConnectionCount() int {
	s.connsMu.RLock()
	defer s.connsMu.RUnlock()
	return len(s.conns)
}

// Broadcast sends msg to every connected client, rewriting the address id
// for each. It returns the number of clients reached.
func (s *Server) Broadcast(msg *ipc.Message) int {
	s.connsMu.RLock()
	conns := make([]*ServerConn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.connsMu.RUnlock()

	sent := 0
	for _, c := range conns {
		m := *msg
		m.AddressID = c.ID()
		if c.Send(&m) == nil {
			sent++
		}
	}
	return sent
}

func (s *Server) isUnix() bool {
	return s.config.Network == "unix"
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			if s.running.Load() && s.config.OnError != nil {
				s.config.OnError(nil, fmt.Errorf("accept error: %w", err))
			}
			continue
		}

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()

	id := s.nextID.Add(1)
	sconn := &ServerConn{
		conn:      conn,
		framer:    NewFramer(conn),
		server:    s,
		closeCh:   make(chan struct{}),
		id:        id,
		logID:     "client-" + strconv.FormatUint(uint64(id), 10),
		sessionID: uuid.New().String(),
	}
	if s.config.Logger != nil {
		sconn.framer.SetLogger(s.config.Logger, sconn.logID)
	}

	sconn.logState("", "CONNECTED")

	s.connsMu.Lock()
	s.conns[sconn] = struct{}{}
	s.connsMu.Unlock()

	if s.config.OnConnect != nil {
		s.config.OnConnect(sconn)
	}

	sconn.readLoop()

	s.connsMu.Lock()
	delete(s.conns, sconn)
	s.connsMu.Unlock()

	sconn.Close()
	sconn.logState("CONNECTED", "DISCONNECTED")

	if s.config.OnDisconnect != nil {
		s.config.OnDisconnect(sconn)
	}
}

// ServerConn is one client connection.
type ServerConn struct {
	conn      net.Conn
	framer    *Framer
	server    *Server
	closeCh   chan struct{}
	closeOnce sync.Once

	id        uint32
	logID     string
	sessionID string
}

// ID returns the client id, which is also the address id of the messages
// exchanged with the client.
func (c *ServerConn) ID() uint32 {
	return c.id
}

// SessionID returns a random identifier unique across server restarts.
func (c *ServerConn) SessionID() string {
	return c.sessionID
}

// RemoteAddr returns the remote address of the client.
func (c *ServerConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Send sends a message to the client.
func (c *ServerConn) Send(msg *ipc.Message) error {
	select {
	case <-c.closeCh:
		return ErrConnectionClosed
	default:
	}
	return c.framer.WriteMessage(msg)
}

// Close closes the connection.
func (c *ServerConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.closeCh)
		err = c.conn.Close()
	})
	return err
}

// Closed reports whether the connection has been closed.
func (c *ServerConn) Closed() bool {
	select {
	case <-c.closeCh:
		return true
	default:
		return false
	}
}

func (c *ServerConn) readLoop() {
	for {
		select {
		case <-c.closeCh:
			return
		case <-c.server.ctx.Done():
			return
		default:
		}

		msg, err := c.framer.ReadMessage()
		if err != nil {
			if c.server.config.OnError != nil && c.server.running.Load() && !c.Closed() && !errors.Is(err, io.EOF) {
				c.server.config.OnError(c, err)
			}
			return
		}

		if c.server.config.OnMessage != nil {
			c.server.config.OnMessage(c, msg)
		}
	}
}

func (c *ServerConn) logState(oldState, newState string) {
	if c.server.config.Logger == nil {
		return
	}
	c.server.config.Logger.Log(log.Event{
		Timestamp: time.Now(),
		ClientID:  c.logID,
		Layer:     log.LayerIPC,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityClient,
			OldState: oldState,
			NewState: newState,
			Reason:   "session " + c.sessionID,
		},
	})
}
