package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/connection"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
	"github.com/hdpm-project/hdpm-go/pkg/transport"
)

// Client errors.
var (
	ErrNotConnected  = errors.New("client: not connected to server")
	ErrLinkLost      = errors.New("client: connection to server lost")
	ErrClosed        = errors.New("client: closed")
	ErrInvalidConfig = errors.New("client: invalid configuration")
)

// DefaultRequestTimeout bounds a request whose context has no deadline.
const DefaultRequestTimeout = 30 * time.Second

// Config configures a Client.
type Config struct {
	// SocketPath is the server socket. Required.
	SocketPath string

	// DialTimeout bounds each dial attempt. Default 5s.
	DialTimeout time.Duration

	// RequestTimeout applies to requests whose context has no deadline.
	// Blocking waits for status events are not bounded by it.
	RequestTimeout time.Duration

	// Redial keeps retrying the initial dial and redials after the link is
	// lost, with exponential backoff.
	Redial  bool
	Backoff connection.BackoffConfig

	// OnEvent receives every server event not consumed by a blocking call.
	OnEvent func(ipc.Event)

	// OnLinkLost is called when the server connection drops unexpectedly.
	OnLinkLost func(err error)

	// OnLinkRestored is called after a successful redial.
	OnLinkRestored func()

	Logger         *slog.Logger
	ProtocolLogger log.Logger
}

// link is one live socket connection.
type link struct {
	conn *transport.ClientConn
	done chan struct{}
	err  error
}

// Client is a connection to the health manager. It is safe for concurrent
// use.
type Client struct {
	cfg    Config
	tc     *transport.Client
	sup    *connection.Supervisor
	logger *slog.Logger
	events *eventQueue

	nextID atomic.Uint32
	dials  atomic.Uint32

	mu       sync.Mutex
	link     *link
	pending  map[uint32]chan *ipc.Message
	waiters  waiters
	closed   bool
	readers  sync.WaitGroup
}

// Dial connects to the server at cfg.SocketPath. With cfg.Redial set it
// retries with backoff until ctx ends.
func Dial(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.SocketPath == "" {
		return nil, fmt.Errorf("%w: socket path is required", ErrInvalidConfig)
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Client{
		cfg:     cfg,
		tc:      transport.NewClient(transport.ClientConfig{ConnectTimeout: cfg.DialTimeout}),
		logger:  cfg.Logger.With("socket", cfg.SocketPath),
		events:  newEventQueue(),
		pending: make(map[uint32]chan *ipc.Message),
	}
	c.sup = connection.NewSupervisor(c.dial, connection.SupervisorConfig{
		Redial:      cfg.Redial,
		DialTimeout: cfg.DialTimeout,
		Backoff:     cfg.Backoff,
		Logger:      c.logger,
	})
	c.sup.OnStateChange(func(from, to connection.State) {
		if from == connection.StateReconnecting && to == connection.StateConnected && cfg.OnLinkRestored != nil {
			cfg.OnLinkRestored()
		}
	})
	c.sup.OnDisconnected(func(err error) {
		if err != nil && cfg.OnLinkLost != nil {
			cfg.OnLinkLost(err)
		}
	})

	if err := c.connectWithRetry(ctx); err != nil {
		c.sup.Close()
		return nil, err
	}
	c.sup.Start()
	go c.events.run(c.deliver)
	return c, nil
}

func (c *Client) connectWithRetry(ctx context.Context) error {
	backoff := connection.NewBackoffWithConfig(c.cfg.Backoff)
	for {
		err := c.sup.Connect(ctx)
		if err == nil || !c.cfg.Redial {
			return err
		}
		delay := backoff.Next()
		c.logger.Debug("dial failed, retrying", "error", err, "attempt", backoff.Attempts(), "delay", delay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w (last error: %v)", ctx.Err(), err)
		case <-timer.C:
		}
	}
}

// dial opens a socket connection and starts its read loop.
func (c *Client) dial(ctx context.Context) error {
	conn, err := c.tc.Connect(ctx, c.cfg.SocketPath)
	if err != nil {
		return err
	}
	if c.cfg.ProtocolLogger != nil {
		conn.SetLogger(c.cfg.ProtocolLogger, fmt.Sprintf("link-%d", c.dials.Add(1)))
	}
	l := &link{conn: conn, done: make(chan struct{})}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	c.link = l
	c.readers.Add(1)
	c.mu.Unlock()

	go c.readLoop(l)
	c.logger.Debug("connected to server", "local", conn.LocalAddr())
	return nil
}

// Connected reports whether the client currently has a server connection.
func (c *Client) Connected() bool {
	return c.sup.IsConnected()
}

// Close disconnects from the server. Events still queued are delivered
// before the event goroutine exits.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.closed = true
	l := c.link
	c.mu.Unlock()

	c.sup.Close()
	var err error
	if l != nil {
		err = l.conn.Close()
	}
	c.readers.Wait()
	c.events.close()
	return err
}

func (c *Client) readLoop(l *link) {
	defer c.readers.Done()
	for {
		msg, err := l.conn.Receive(0)
		if err != nil {
			c.linkDown(l, err)
			return
		}
		if msg.IsEvent() {
			ev, err := ipc.DecodeEvent(msg)
			if err != nil {
				c.logger.Warn("dropping undecodable event", "function", msg.Function, "error", err)
				continue
			}
			c.handleEvent(ev)
			continue
		}
		if !msg.IsResponse() {
			c.logger.Warn("dropping unexpected request from server", "function", msg.Function)
			continue
		}
		c.mu.Lock()
		ch := c.pending[msg.RequestID()]
		delete(c.pending, msg.RequestID())
		c.mu.Unlock()
		if ch == nil {
			c.logger.Debug("dropping unmatched response", "function", msg.Function, "messageID", msg.RequestID())
			continue
		}
		ch <- msg
	}
}

// linkDown tears down l after its read loop failed.
func (c *Client) linkDown(l *link, err error) {
	l.err = err
	l.conn.Close()

	c.mu.Lock()
	if c.link == l {
		c.link = nil
	}
	closing := c.closed
	c.waiters.failAll()
	c.mu.Unlock()
	close(l.done)

	if closing {
		return
	}
	c.sup.LinkLost(err)
}

// handleEvent hands ev to a blocking waiter or queues it for OnEvent.
func (c *Client) handleEvent(ev ipc.Event) {
	c.mu.Lock()
	claimed := c.waiters.claim(ev)
	c.mu.Unlock()
	if !claimed {
		c.events.push(ev)
	}
}

func (c *Client) deliver(ev ipc.Event) {
	if c.cfg.OnEvent != nil {
		c.cfg.OnEvent(ev)
	}
}

func (c *Client) current() (*link, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil, ErrClosed
	}
	if c.link == nil {
		return nil, ErrNotConnected
	}
	return c.link, nil
}

func (c *Client) messageID() uint32 {
	for {
		id := c.nextID.Add(1) &^ ipc.ResponseFlag
		if id != ipc.EventMessageID {
			return id
		}
	}
}

// response is implemented by every response body through ipc.Result.
type response interface {
	Err() error
}

// call sends req and decodes the matching response into out. It returns
// the error carried in the response status.
func (c *Client) call(ctx context.Context, req ipc.Request, out response) error {
	l, err := c.current()
	if err != nil {
		return err
	}
	id := c.messageID()
	msg, err := ipc.NewRequest(0, id, req)
	if err != nil {
		return err
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.RequestTimeout)
		defer cancel()
	}

	ch := make(chan *ipc.Message, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	if err := l.conn.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", ErrLinkLost, err)
	}

	select {
	case resp := <-ch:
		if err := ipc.DecodeResponse(resp, out); err != nil {
			return err
		}
		return out.Err()
	case <-l.done:
		return fmt.Errorf("%w: %v", ErrLinkLost, l.err)
	case <-ctx.Done():
		return ctx.Err()
	}
}
