package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// Connect opens a control channel to instance on addr for owner.
//
// The device link is brought up first (authenticated and encrypted), then
// the control channel. With blocking set, Connect waits for the outcome and
// returns it; otherwise it returns StatusSuccess once the attempt has
// started and the outcome arrives as a ConnectionStatusEvent. An error
// means no attempt is pending.
func (m *Manager) Connect(ctx context.Context, owner Owner, addr hdp.Address, instance hdp.Instance, blocking bool) (hdp.ConnectionStatus, error) {
	if owner == nil || addr.IsZero() || !instance.Valid() {
		return hdp.StatusUnknown, hdp.ErrInvalidParameter
	}

	m.mu.Lock()
	if err := m.checkPowered(); err != nil {
		m.unlockAndDeliver()
		return hdp.StatusUnknown, err
	}
	if c := m.findConn(addr, instance); c != nil {
		err := hdp.ErrRemoteInstanceInUse
		if c.owner == owner {
			err = hdp.ErrConnectionInProgress
			if c.state.Is(stateConnected) {
				err = hdp.ErrInstanceAlreadyConnected
			}
		}
		m.unlockAndDeliver()
		return hdp.StatusUnknown, err
	}

	c := m.addConnection(addr, instance, owner, false)
	var w chan hdp.ConnectionStatus
	if blocking {
		w = make(chan hdp.ConnectionStatus, 1)
		c.waiter = w
	}

	err := m.dm.ConnectWithRemoteDevice(addr, devm.ConnectSecure)
	switch {
	case err == nil:
		err = advance(c.state, eventLinkPending)
	case errors.Is(err, devm.ErrAlreadyConnected):
		err = m.connectInstance(c)
	case errors.Is(err, devm.ErrNotPowered):
		err = fmt.Errorf("connect device: %w", hdp.ErrDevicePoweredOff)
	default:
		err = fmt.Errorf("connect device: %w: %w", hdp.ErrUnknownFailure, err)
	}
	if err != nil {
		delete(m.conns, c.handle)
		m.logConnGone(c, err.Error())
		m.unlockAndDeliver()
		return hdp.StatusUnknown, err
	}
	m.logger.Debug("connect started", "owner", owner, "address", addr, "instance", instance)
	m.unlockAndDeliver()

	if w == nil {
		return hdp.StatusSuccess, nil
	}
	return m.await(ctx, w, func() {
		if c.waiter == w {
			c.waiter = nil
		}
	})
}

// connectInstance issues the control channel connect once the device link
// is up. Callers hold m.mu.
func (m *Manager) connectInstance(c *connection) error {
	if err := advance(c.state, eventLinkUp); err != nil {
		return err
	}
	mclID, err := m.stack.ConnectRemoteInstance(c.addr, c.instance)
	if err != nil {
		return err
	}
	c.mclID = mclID
	return nil
}

// failConnect removes a pending outbound entry and reports st to whoever is
// waiting for it. Callers hold m.mu.
func (m *Manager) failConnect(c *connection, st hdp.ConnectionStatus, reason string) {
	delete(m.conns, c.handle)
	m.logConnGone(c, reason)
	if m.resolveConn(c, st) || c.owner == nil {
		return
	}
	m.notify(c.owner, ConnectionStatusEvent{Address: c.addr, Instance: c.instance, Status: st})
}

// Disconnect closes the control channel to instance on addr. Only the owner
// may disconnect. A connection still waiting for its device link is
// cancelled and its pending Connect completes with StatusAborted.
func (m *Manager) Disconnect(owner Owner, addr hdp.Address, instance hdp.Instance) error {
	if owner == nil || addr.IsZero() || !instance.Valid() {
		return hdp.ErrInvalidParameter
	}

	m.mu.Lock()
	defer m.unlockAndDeliver()

	if err := m.checkPowered(); err != nil {
		return err
	}
	c := m.findConn(addr, instance)
	if c == nil {
		return hdp.ErrNotConnected
	}
	if c.owner != owner {
		return hdp.ErrNotOwner
	}

	switch c.state.Current() {
	case stateConnecting, stateConnected:
		return m.stack.DisconnectRemoteInstance(c.mclID)
	case stateConnectingDevice:
		if err := m.dm.DisconnectRemoteDevice(addr); err != nil {
			m.logger.Debug("cancel device connection failed", "address", addr, "error", err)
		}
		m.failConnect(c, hdp.StatusAborted, "cancelled by owner")
	}
	return nil
}

// onDeviceConnection continues or fails every entry waiting for the device
// link to addr.
func (m *Manager) onDeviceConnection(addr hdp.Address, st hdp.ConnectionStatus) {
	for _, c := range m.pendingDevice(addr) {
		if st != hdp.StatusSuccess {
			m.failConnect(c, st, "device connection failed")
			continue
		}
		if err := m.connectInstance(c); err != nil {
			m.logger.Debug("connect instance failed", "address", addr, "instance", c.instance, "error", err)
			m.failConnect(c, hdp.StatusRefused, err.Error())
		}
	}
}

func (m *Manager) pendingDevice(addr hdp.Address) []*connection {
	var out []*connection
	for _, c := range m.conns {
		if c.addr == addr && c.state.Is(stateConnectingDevice) {
			out = append(out, c)
		}
	}
	return out
}

// onDeviceDisconnected treats a lost device link as a disconnect of every
// entry on it. Handling an entry can remove others, so the scan restarts
// after each one.
func (m *Manager) onDeviceDisconnected(addr hdp.Address) {
	for {
		var c *connection
		for _, e := range m.conns {
			if e.addr == addr {
				c = e
				break
			}
		}
		if c == nil {
			return
		}
		if c.state.Is(stateConnectingDevice) {
			m.failConnect(c, hdp.StatusConnectionTerminated, "device link lost")
			continue
		}
		m.connectionGone(c, "device link lost")
	}
}

// connectionGone removes c and its data channels and notifies the owner.
// Callers hold m.mu.
func (m *Manager) connectionGone(c *connection, reason string) {
	connected := c.state.Is(stateConnected)
	delete(m.conns, c.handle)
	m.logConnGone(c, reason)
	if c.mclID != 0 {
		m.removeLinksOf(c.mclID)
	}

	if m.resolveConn(c, hdp.StatusConnectionTerminated) || c.server || c.owner == nil {
		return
	}
	if connected {
		m.notify(c.owner, DisconnectedEvent{Address: c.addr, Instance: c.instance})
		return
	}
	m.notify(c.owner, ConnectionStatusEvent{Address: c.addr, Instance: c.instance, Status: hdp.StatusConnectionTerminated})
}

func (m *Manager) onControlConnectIndication(ev engine.ControlConnectIndication) {
	if c := m.findConnByMCL(ev.MCLID); c != nil {
		m.logger.Warn("duplicate control channel indication", "mcl", ev.MCLID, "address", ev.Address)
		return
	}
	c := m.addConnection(ev.Address, 0, nil, true)
	c.mclID = ev.MCLID
	if err := advance(c.state, eventAccepted); err != nil {
		m.logger.Debug("accept control channel", "error", err)
	}
}

func (m *Manager) onControlConnectConfirmation(ev engine.ControlConnectConfirmation) {
	c := m.findConnByMCL(ev.MCLID)
	if c == nil || !c.state.Is(stateConnecting) {
		m.logger.Debug("stale control channel confirmation", "mcl", ev.MCLID, "status", ev.Status)
		if ev.Status == hdp.StatusSuccess {
			if err := m.stack.DisconnectRemoteInstance(ev.MCLID); err != nil {
				m.logger.Debug("close stale control channel failed", "mcl", ev.MCLID, "error", err)
			}
		}
		return
	}

	if ev.Status != hdp.StatusSuccess {
		m.failConnect(c, ev.Status, "control channel refused")
		return
	}
	if err := advance(c.state, eventConfirmed); err != nil {
		m.logger.Debug("confirm control channel", "error", err)
		return
	}
	if !m.resolveConn(c, hdp.StatusSuccess) {
		m.notify(c.owner, ConnectionStatusEvent{Address: c.addr, Instance: c.instance, Status: hdp.StatusSuccess})
	}
}

func (m *Manager) onControlDisconnectIndication(ev engine.ControlDisconnectIndication) {
	c := m.findConnByMCL(ev.MCLID)
	if c == nil {
		m.logger.Debug("disconnect for unknown control channel", "mcl", ev.MCLID)
		return
	}
	m.connectionGone(c, "control channel closed")
}
