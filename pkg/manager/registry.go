package manager

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/log"
)

// endpoint is a local MDEP registration.
type endpoint struct {
	id          uint8
	dataType    uint16
	role        hdp.Role
	description string
	owner       Owner
}

// connection is a control channel entry. mclID is zero until the engine
// assigns one.
type connection struct {
	handle   uint32
	addr     hdp.Address
	instance hdp.Instance
	mclID    uint32
	server   bool
	owner    Owner
	state    *fsm.FSM
	waiter   chan hdp.ConnectionStatus
}

// dataChannel is a data link entry keyed by its engine data link id.
type dataChannel struct {
	dataLinkID uint32
	mclID      uint32
	addr       hdp.Address
	instance   hdp.Instance
	endpointID uint8
	mode       hdp.ChannelMode
	role       hdp.Role
	server     bool
	owner      Owner
	state      *fsm.FSM
	waiter     chan hdp.ConnectionStatus
}

// notification is an event queued for delivery after the lock is released.
// undelivered runs when the owner is gone.
type notification struct {
	owner       Owner
	event       Event
	undelivered func()
}

// notify queues ev for o. Callers hold m.mu.
func (m *Manager) notify(o Owner, ev Event) {
	m.outbox = append(m.outbox, notification{owner: o, event: ev})
}

// deliver hands ev to o and reports whether anyone received it.
func (m *Manager) deliver(o Owner, ev Event) bool {
	switch c := o.(type) {
	case *LocalClient:
		return c.deliver(ev)
	case RemoteClient:
		if m.notifier == nil {
			return false
		}
		if err := m.notifier.NotifyClient(c.ID, ev); err != nil {
			m.logger.Debug("client notification failed", "client", c, "error", err)
			return false
		}
		return true
	default:
		return false
	}
}

// ownerValid reports whether o can still receive events.
func (m *Manager) ownerValid(o Owner) bool {
	switch c := o.(type) {
	case *LocalClient:
		return c.valid()
	case RemoteClient:
		return m.notifier != nil && m.notifier.ClientValid(c.ID)
	default:
		return false
	}
}

// resolveConn signals a blocked Connect and reports whether one was
// waiting.
func (m *Manager) resolveConn(c *connection, st hdp.ConnectionStatus) bool {
	if c.waiter == nil {
		return false
	}
	c.waiter <- st
	c.waiter = nil
	return true
}

func (m *Manager) resolveLink(dc *dataChannel, st hdp.ConnectionStatus) bool {
	if dc.waiter == nil {
		return false
	}
	dc.waiter <- st
	dc.waiter = nil
	return true
}

func (m *Manager) findConn(addr hdp.Address, instance hdp.Instance) *connection {
	for _, c := range m.conns {
		if c.addr == addr && c.instance == instance {
			return c
		}
	}
	return nil
}

func (m *Manager) findConnByMCL(mclID uint32) *connection {
	if mclID == 0 {
		return nil
	}
	for _, c := range m.conns {
		if c.mclID == mclID {
			return c
		}
	}
	return nil
}

func (m *Manager) findEndpoint(dataType uint16, role hdp.Role) *endpoint {
	for _, ep := range m.endpoints {
		if ep.dataType == dataType && ep.role == role {
			return ep
		}
	}
	return nil
}

// addConnection records a new Idle connection entry.
func (m *Manager) addConnection(addr hdp.Address, instance hdp.Instance, owner Owner, server bool) *connection {
	m.nextHandle++
	if m.nextHandle == 0 {
		m.nextHandle++
	}
	c := &connection{
		handle:   m.nextHandle,
		addr:     addr,
		instance: instance,
		server:   server,
		owner:    owner,
	}
	c.state = newConnectionFSM(func(from, to string) {
		m.logState(log.StateEntityConnection, c.addr, c.instance, 0, from, to, "")
	})
	m.conns[c.handle] = c
	return c
}

// addDataChannel records a data channel entry in the Authorizing state.
func (m *Manager) addDataChannel(c *connection, dataLinkID uint32, endpointID uint8, mode hdp.ChannelMode, role hdp.Role, owner Owner, server bool) *dataChannel {
	dc := &dataChannel{
		dataLinkID: dataLinkID,
		mclID:      c.mclID,
		addr:       c.addr,
		instance:   c.instance,
		endpointID: endpointID,
		mode:       mode,
		role:       role,
		server:     server,
		owner:      owner,
	}
	dc.state = newDataChannelFSM(func(from, to string) {
		m.logState(log.StateEntityDataChannel, dc.addr, dc.instance, dc.dataLinkID, from, to, "")
	})
	m.links[dataLinkID] = dc
	return dc
}

// removeLinksOf drops every data channel left under mclID. The engine
// normally reports their deletion before the control channel closes.
func (m *Manager) removeLinksOf(mclID uint32) {
	var ids []uint32
	for id, dc := range m.links {
		if dc.mclID == mclID {
			ids = append(ids, id)
		}
	}
	for _, id := range ids {
		m.linkGone(id, hdp.DisconnectNormal)
	}
}

// closeConnection releases the engine or device side of c. Callers remove
// the entry.
func (m *Manager) closeConnection(c *connection) {
	switch c.state.Current() {
	case stateConnecting, stateConnected:
		if c.mclID != 0 && m.stack.Initialized() {
			if err := m.stack.DisconnectRemoteInstance(c.mclID); err != nil {
				m.logger.Debug("close control channel failed", "address", c.addr, "error", err)
			}
		}
		m.removeLinksOf(c.mclID)
	case stateConnectingDevice:
		if err := m.dm.DisconnectRemoteDevice(c.addr); err != nil {
			m.logger.Debug("cancel device connection failed", "address", c.addr, "error", err)
		}
	}
}

func (m *Manager) logState(entity log.StateEntity, addr hdp.Address, instance hdp.Instance, dataLinkID uint32, from, to, reason string) {
	m.plog.Log(log.Event{
		Timestamp:     time.Now(),
		Direction:     log.DirectionIn,
		Layer:         log.LayerManager,
		Category:      log.CategoryState,
		DeviceAddress: addr.String(),
		Instance:      uint32(instance),
		DataLinkID:    dataLinkID,
		StateChange: &log.StateChangeEvent{
			Entity:   entity,
			OldState: from,
			NewState: to,
			Reason:   reason,
		},
	})
}

func (m *Manager) logConnGone(c *connection, reason string) {
	m.logState(log.StateEntityConnection, c.addr, c.instance, 0, c.state.Current(), "removed", reason)
}

func (m *Manager) logLinkGone(dc *dataChannel, reason string) {
	m.logState(log.StateEntityDataChannel, dc.addr, dc.instance, dc.dataLinkID, dc.state.Current(), "removed", reason)
}

func (m *Manager) logEndpoint(ep *endpoint, from, to, reason string) {
	m.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Layer:     log.LayerManager,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			Entity:   log.StateEntityEndpoint,
			OldState: from,
			NewState: to,
			Reason:   fmt.Sprintf("mdep %d data type 0x%04X %s: %s", ep.id, ep.dataType, ep.role, reason),
		},
	})
}

// mailbox is an unbounded FIFO of work items.
type mailbox struct {
	mu     sync.Mutex
	items  []func()
	signal chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{signal: make(chan struct{}, 1)}
}

func (b *mailbox) post(item func()) {
	b.mu.Lock()
	b.items = append(b.items, item)
	b.mu.Unlock()

	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// next blocks until an item is queued or ctx ends.
func (b *mailbox) next(ctx context.Context) (func(), bool) {
	for {
		b.mu.Lock()
		if len(b.items) > 0 {
			item := b.items[0]
			b.items[0] = nil
			b.items = b.items[1:]
			b.mu.Unlock()
			return item, true
		}
		b.mu.Unlock()

		select {
		case <-b.signal:
		case <-ctx.Done():
			return nil, false
		}
	}
}
