package connection

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Supervisor errors.
var (
	ErrClosed           = errors.New("connection: supervisor closed")
	ErrAlreadyConnected = errors.New("connection: already connected")
)

// State is the link state tracked by a Supervisor.
type State uint8

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateClosed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateReconnecting:
		return "RECONNECTING"
	case StateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// DialFunc establishes the link. It returns nil once the link is usable.
type DialFunc func(ctx context.Context) error

// SupervisorConfig configures a Supervisor.
type SupervisorConfig struct {
	// Redial enables background redialing after LinkLost.
	Redial bool

	// DialTimeout bounds each background dial attempt. Default 5s.
	DialTimeout time.Duration

	Backoff BackoffConfig

	// Logger receives redial progress. Default slog.Default().
	Logger *slog.Logger
}

// Supervisor tracks the state of one link and redials it when lost.
type Supervisor struct {
	mu sync.RWMutex

	state   State
	redial  bool
	dial    DialFunc
	backoff *Backoff
	timeout time.Duration
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	kick   chan struct{}

	onStateChange  func(from, to State)
	onConnected    func()
	onDisconnected func(err error)
	onReconnecting func(attempt int, delay time.Duration)
}

// NewSupervisor returns a Supervisor for dial. Call Start before relying on
// background redials.
func NewSupervisor(dial DialFunc, cfg SupervisorConfig) *Supervisor {
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Supervisor{
		state:   StateDisconnected,
		redial:  cfg.Redial,
		dial:    dial,
		backoff: NewBackoffWithConfig(cfg.Backoff),
		timeout: cfg.DialTimeout,
		logger:  cfg.Logger,
		ctx:     ctx,
		cancel:  cancel,
		kick:    make(chan struct{}, 1),
	}
}

// State returns the current state.
func (s *Supervisor) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsConnected reports whether the link is up.
func (s *Supervisor) IsConnected() bool {
	return s.State() == StateConnected
}

// SetRedial enables or disables background redialing.
func (s *Supervisor) SetRedial(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redial = enabled
}

// Connect dials once in the caller's goroutine. Failure leaves the
// Supervisor disconnected and does not schedule a redial.
func (s *Supervisor) Connect(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateConnected:
		s.mu.Unlock()
		return ErrAlreadyConnected
	case StateClosed:
		s.mu.Unlock()
		return ErrClosed
	}
	from := s.state
	s.state = StateConnecting
	s.mu.Unlock()
	s.stateChanged(from, StateConnecting)

	if err := s.dial(ctx); err != nil {
		if s.transition(StateConnecting, StateDisconnected) {
			s.stateChanged(StateConnecting, StateDisconnected)
		}
		return err
	}
	if !s.transition(StateConnecting, StateConnected) {
		return ErrClosed
	}
	s.backoff.Reset()
	s.stateChanged(StateConnecting, StateConnected)
	s.connected()
	return nil
}

// Disconnect marks the link down at the owner's request. No redial is
// scheduled.
func (s *Supervisor) Disconnect() {
	if s.transition(StateConnected, StateDisconnected) {
		s.stateChanged(StateConnected, StateDisconnected)
		s.disconnected(nil)
	}
}

// LinkLost reports an unexpected loss of the link. When redialing is
// enabled the Supervisor moves to StateReconnecting and wakes the redial
// loop.
func (s *Supervisor) LinkLost(err error) {
	s.mu.Lock()
	if s.state != StateConnected {
		s.mu.Unlock()
		return
	}
	to := StateDisconnected
	if s.redial {
		to = StateReconnecting
	}
	s.state = to
	s.mu.Unlock()

	s.logger.Warn("link lost", "error", err, "redial", to == StateReconnecting)
	s.stateChanged(StateConnected, to)
	s.disconnected(err)
	if to == StateReconnecting {
		select {
		case s.kick <- struct{}{}:
		default:
		}
	}
}

// Start launches the redial loop. Call it once.
func (s *Supervisor) Start() {
	s.wg.Add(1)
	go s.loop()
}

// Close stops the redial loop and waits for it to exit.
func (s *Supervisor) Close() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	from := s.state
	s.state = StateClosed
	s.mu.Unlock()

	s.stateChanged(from, StateClosed)
	s.cancel()
	s.wg.Wait()
}

// Attempts returns the number of redial attempts since the last success.
func (s *Supervisor) Attempts() int {
	return s.backoff.Attempts()
}

// OnStateChange sets the state transition callback.
func (s *Supervisor) OnStateChange(fn func(from, to State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onStateChange = fn
}

// OnConnected sets the callback run after every successful dial.
func (s *Supervisor) OnConnected(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onConnected = fn
}

// OnDisconnected sets the callback run when the link goes down. err is nil
// for an owner-requested Disconnect.
func (s *Supervisor) OnDisconnected(fn func(err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDisconnected = fn
}

// OnReconnecting sets the callback run before each redial wait.
func (s *Supervisor) OnReconnecting(fn func(attempt int, delay time.Duration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReconnecting = fn
}

func (s *Supervisor) loop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.kick:
			s.redialUntilUp()
		}
	}
}

func (s *Supervisor) redialUntilUp() {
	for s.State() == StateReconnecting {
		delay := s.backoff.Next()
		attempt := s.backoff.Attempts()

		s.mu.RLock()
		onReconnecting := s.onReconnecting
		s.mu.RUnlock()
		if onReconnecting != nil {
			onReconnecting(attempt, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		if s.State() != StateReconnecting {
			return
		}

		ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
		err := s.dial(ctx)
		cancel()
		if err != nil {
			s.logger.Debug("redial failed", "attempt", attempt, "error", err)
			continue
		}
		s.backoff.Reset()
		if !s.transition(StateReconnecting, StateConnected) {
			return
		}
		s.logger.Info("link restored", "attempts", attempt)
		s.stateChanged(StateReconnecting, StateConnected)
		s.connected()
		return
	}
}

// transition moves from -> to if the current state is from.
func (s *Supervisor) transition(from, to State) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != from {
		return false
	}
	s.state = to
	return true
}

func (s *Supervisor) stateChanged(from, to State) {
	s.mu.RLock()
	fn := s.onStateChange
	s.mu.RUnlock()
	if fn != nil {
		fn(from, to)
	}
}

func (s *Supervisor) connected() {
	s.mu.RLock()
	fn := s.onConnected
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (s *Supervisor) disconnected(err error) {
	s.mu.RLock()
	fn := s.onDisconnected
	s.mu.RUnlock()
	if fn != nil {
		fn(err)
	}
}
