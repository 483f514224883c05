package manager

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/log"
)

// Stack is the engine helper layer used by the manager. *stack.Stack
// implements it.
type Stack interface {
	Initialized() bool
	PowerOn(handler engine.Handler) error
	PowerOff()
	RegisterEndpoint(dataType uint16, role hdp.Role, description string) (uint8, error)
	UnregisterEndpoint(id uint8) error
	UpdateSDPRecord() error
	ConnectRemoteInstance(addr hdp.Address, instance hdp.Instance) (uint32, error)
	DisconnectRemoteInstance(mclID uint32) error
	ConnectDataChannel(mclID uint32, mdepID uint8, local hdp.Role, mode hdp.ChannelMode) (uint32, error)
	RespondDataChannel(dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode, local hdp.Role) error
	DisconnectDataChannel(mclID, dataLinkID uint32) error
	WriteData(dataLinkID uint32, data []byte) error
	RejectSyncCapabilities(mclID uint32) error
}

// ClientNotifier reaches remote clients.
type ClientNotifier interface {
	// ClientValid reports whether the client is still connected.
	ClientValid(id ClientID) bool

	// NotifyClient sends ev to the client. An error means the client is
	// gone.
	NotifyClient(id ClientID, ev Event) error
}

// Config configures a Manager.
type Config struct {
	// Logger receives operational logs. Default: slog.Default().
	Logger *slog.Logger

	// ProtocolLogger receives state changes and engine/device events.
	// Default: log.NoopLogger.
	ProtocolLogger log.Logger
}

// Manager is the health device manager.
type Manager struct {
	stack    Stack
	dm       devm.DeviceManager
	notifier ClientNotifier
	logger   *slog.Logger
	plog     log.Logger

	mu         sync.Mutex
	powered    bool
	endpoints  map[uint8]*endpoint
	conns      map[uint32]*connection
	nextHandle uint32
	links      map[uint32]*dataChannel
	outbox     []notification

	mailbox   *mailbox
	nextLocal atomic.Uint64
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a Manager. notifier may be nil when there are no remote
// clients.
func New(cfg Config, st Stack, dm devm.DeviceManager, notifier ClientNotifier) *Manager {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{
		stack:     st,
		dm:        dm,
		notifier:  notifier,
		logger:    cfg.Logger,
		plog:      log.OrNoop(cfg.ProtocolLogger),
		endpoints: make(map[uint8]*endpoint),
		conns:     make(map[uint32]*connection),
		links:     make(map[uint32]*dataChannel),
		mailbox:   newMailbox(),
	}
}

// Start installs the device event handler and starts processing events.
// The manager stays powered off until the device manager reports PoweredOn.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.done != nil {
		m.mu.Unlock()
		return errors.New("manager already started")
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	m.mu.Unlock()

	m.dm.SetEventHandler(m.HandleDeviceEvent)
	go m.run(ctx)
	return nil
}

// Stop tears down every entry, releasing blocked callers with
// StatusDevicePowerOff, and stops event processing.
func (m *Manager) Stop() {
	m.mu.Lock()
	cancel, done := m.cancel, m.done
	m.shutdown("manager stopped")
	m.unlockAndDeliver()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.done)
	for {
		item, ok := m.mailbox.next(ctx)
		if !ok {
			return
		}
		m.mu.Lock()
		item()
		m.unlockAndDeliver()
	}
}

// HandleEngineEvent queues an engine event. It is the engine.Handler given
// to the stack on power-on.
func (m *Manager) HandleEngineEvent(ev engine.Event) {
	m.mailbox.post(func() { m.onEngineEvent(ev) })
}

// HandleDeviceEvent queues a device manager event.
func (m *Manager) HandleDeviceEvent(ev devm.Event) {
	m.mailbox.post(func() { m.onDeviceEvent(ev) })
}

// NewLocalClient creates an in-process client whose events go to cb.
func (m *Manager) NewLocalClient(cb EventCallback) *LocalClient {
	return &LocalClient{m: m, id: m.nextLocal.Add(1), cb: cb}
}

// ClientDisconnected releases everything owned by a remote client.
func (m *Manager) ClientDisconnected(id ClientID) {
	m.releaseOwner(RemoteClient{ID: id})
}

// Powered reports whether the adapter is up and the local instance is
// registered.
func (m *Manager) Powered() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.powered
}

// unlockAndDeliver releases the module lock and then delivers the
// notifications collected while it was held.
func (m *Manager) unlockAndDeliver() {
	out := m.outbox
	m.outbox = nil
	m.mu.Unlock()

	for _, n := range out {
		if !m.deliver(n.owner, n.event) && n.undelivered != nil {
			n.undelivered()
		}
	}
}

// checkPowered returns ErrNotInitialized until the local instance is up.
// Callers hold m.mu.
func (m *Manager) checkPowered() error {
	if !m.powered || !m.stack.Initialized() {
		return hdp.ErrNotInitialized
	}
	return nil
}

func (m *Manager) onPoweredOn() {
	if m.powered {
		return
	}
	if err := m.stack.PowerOn(m.HandleEngineEvent); err != nil {
		m.logger.Error("hdp initialization failed", "error", err)
		m.logError(log.LayerManager, "power on", err)
		return
	}
	m.powered = true
	m.logPower("off", "on")
}

func (m *Manager) onPoweredOff() {
	if !m.powered {
		return
	}
	m.shutdown("device powered off")
	m.logPower("on", "off")
}

// shutdown releases every entry and the local instance. Callers hold m.mu.
func (m *Manager) shutdown(reason string) {
	for id, dc := range m.links {
		delete(m.links, id)
		m.logLinkGone(dc, reason)
		if !m.resolveLink(dc, hdp.StatusDevicePowerOff) && dc.owner != nil {
			m.notify(dc.owner, DataDisconnectedEvent{Address: dc.addr, DataLinkID: dc.dataLinkID, Reason: hdp.DisconnectNormal})
		}
	}
	for h, c := range m.conns {
		delete(m.conns, h)
		m.logConnGone(c, reason)
		connected := c.state.Is(stateConnected)
		if m.resolveConn(c, hdp.StatusDevicePowerOff) || c.server || c.owner == nil {
			continue
		}
		if connected {
			m.notify(c.owner, DisconnectedEvent{Address: c.addr, Instance: c.instance})
		} else {
			m.notify(c.owner, ConnectionStatusEvent{Address: c.addr, Instance: c.instance, Status: hdp.StatusDevicePowerOff})
		}
	}
	for id, ep := range m.endpoints {
		if m.stack.Initialized() {
			if err := m.stack.UnregisterEndpoint(id); err != nil {
				m.logger.Debug("unregister endpoint failed", "endpoint", id, "error", err)
			}
		}
		delete(m.endpoints, id)
		m.logEndpoint(ep, "registered", "", reason)
	}
	m.stack.PowerOff()
	m.powered = false
}

// releaseOwner tears down everything owned by o: data channels, control
// channels and endpoint registrations, in that order.
func (m *Manager) releaseOwner(o Owner) {
	m.mu.Lock()
	defer m.unlockAndDeliver()

	for id, dc := range m.links {
		if dc.owner != o {
			continue
		}
		if m.stack.Initialized() {
			var err error
			if dc.server && dc.state.Is(stateAuthorizing) {
				err = m.stack.RespondDataChannel(id, hdp.ResponseResourceUnavailable, dc.mode, dc.role)
			} else {
				err = m.stack.DisconnectDataChannel(dc.mclID, id)
			}
			if err != nil {
				m.logger.Debug("data channel teardown failed", "data_link", id, "error", err)
			}
		}
		delete(m.links, id)
		m.resolveLink(dc, hdp.StatusAborted)
		m.logLinkGone(dc, "owner released")
	}

	for h, c := range m.conns {
		if c.owner != o {
			continue
		}
		m.closeConnection(c)
		delete(m.conns, h)
		m.resolveConn(c, hdp.StatusAborted)
		m.logConnGone(c, "owner released")
	}

	removed := false
	for id, ep := range m.endpoints {
		if ep.owner != o {
			continue
		}
		if m.stack.Initialized() {
			if err := m.stack.UnregisterEndpoint(id); err != nil {
				m.logger.Debug("unregister endpoint failed", "endpoint", id, "error", err)
			}
		}
		delete(m.endpoints, id)
		m.logEndpoint(ep, "registered", "", "owner released")
		removed = true
	}
	if removed && m.stack.Initialized() {
		if err := m.stack.UpdateSDPRecord(); err != nil {
			m.logger.Warn("sdp record update failed", "error", err)
		}
	}
}

// flush waits until every event queued before the call is processed.
func (m *Manager) flush() {
	done := make(chan struct{})
	m.mailbox.post(func() { close(done) })
	<-done
}

// await blocks until w is signalled or ctx ends. On cancellation detach
// runs under the lock so a late result is routed to the owner instead.
func (m *Manager) await(ctx context.Context, w chan hdp.ConnectionStatus, detach func()) (hdp.ConnectionStatus, error) {
	select {
	case st := <-w:
		return st, nil
	case <-ctx.Done():
	}

	m.mu.Lock()
	detach()
	m.unlockAndDeliver()

	select {
	case st := <-w:
		return st, nil
	default:
		return hdp.StatusUnknown, fmt.Errorf("wait for confirmation: %w", ctx.Err())
	}
}

func (m *Manager) logPower(from, to string) {
	m.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Layer:     log.LayerManager,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityPower,
			OldState: from,
			NewState: to,
		},
	})
}

func (m *Manager) logError(layer log.Layer, op string, err error) {
	code := int(hdp.CodeOf(err))
	m.plog.Log(log.Event{
		Timestamp: time.Now(),
		Layer:     layer,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Code:    &code,
			Context: op,
		},
	})
}
