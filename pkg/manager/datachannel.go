package manager

import (
	"context"

	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// ConnectEndpoint opens a data channel to the remote MDEP endpointID on an
// established control channel owned by owner.
//
// The local role is taken from another data channel to the same endpoint
// or, failing that, is the inverse of the role the remote record
// publishes. Blocking follows Connect; the asynchronous outcome is a
// DataConnectionStatusEvent.
func (m *Manager) ConnectEndpoint(ctx context.Context, owner Owner, addr hdp.Address, instance hdp.Instance, endpointID uint8, mode hdp.ChannelMode, blocking bool) (uint32, hdp.ConnectionStatus, error) {
	if owner == nil || addr.IsZero() || !instance.Valid() || !hdp.ValidMDEPID(endpointID) {
		return 0, hdp.StatusUnknown, hdp.ErrInvalidParameter
	}
	if !mode.Valid() {
		return 0, hdp.StatusUnknown, hdp.ErrInvalidChannelMode
	}

	m.mu.Lock()
	c, err := m.ownedConnection(owner, addr, instance)
	if err != nil {
		m.unlockAndDeliver()
		return 0, hdp.StatusUnknown, err
	}
	role, known := m.linkRole(c.mclID, endpointID)
	if !known {
		// Record lookup runs unlocked; the connection is rechecked after.
		m.unlockAndDeliver()
		remote, err := m.remoteRole(ctx, addr, instance, endpointID)
		if err != nil {
			return 0, hdp.StatusUnknown, err
		}
		m.mu.Lock()
		if c, err = m.ownedConnection(owner, addr, instance); err != nil {
			m.unlockAndDeliver()
			return 0, hdp.StatusUnknown, err
		}
		role = remote.Invert()
		if r, ok := m.linkRole(c.mclID, endpointID); ok {
			role = r
		}
	}

	dataLinkID, err := m.stack.ConnectDataChannel(c.mclID, endpointID, role, mode)
	if err != nil {
		m.unlockAndDeliver()
		return 0, hdp.StatusUnknown, err
	}
	dc := m.addDataChannel(c, dataLinkID, endpointID, mode, role, owner, false)
	if err := advance(dc.state, eventProceed); err != nil {
		m.logger.Debug("start data channel", "error", err)
	}
	var w chan hdp.ConnectionStatus
	if blocking {
		w = make(chan hdp.ConnectionStatus, 1)
		dc.waiter = w
	}
	m.unlockAndDeliver()

	if w == nil {
		return dataLinkID, hdp.StatusSuccess, nil
	}
	st, err := m.await(ctx, w, func() {
		if dc.waiter == w {
			dc.waiter = nil
		}
	})
	return dataLinkID, st, err
}

// ownedConnection returns the connected control channel (addr, instance)
// when owner holds it. Callers hold m.mu.
func (m *Manager) ownedConnection(owner Owner, addr hdp.Address, instance hdp.Instance) (*connection, error) {
	if err := m.checkPowered(); err != nil {
		return nil, err
	}
	c := m.findConn(addr, instance)
	if c == nil || !c.state.Is(stateConnected) {
		return nil, hdp.ErrNotConnected
	}
	if c.owner != owner {
		return nil, hdp.ErrNotOwner
	}
	return c, nil
}

// linkRole returns the local role of an existing data channel to
// endpointID on mclID.
func (m *Manager) linkRole(mclID uint32, endpointID uint8) (hdp.Role, bool) {
	for _, dc := range m.links {
		if dc.mclID == mclID && dc.endpointID == endpointID {
			return dc.role, true
		}
	}
	return 0, false
}

// RespondToConnectionRequest accepts or rejects an incoming data channel
// announced by an IncomingDataConnectionRequestEvent. A mode of
// NoPreference keeps the mode the remote asked for.
func (m *Manager) RespondToConnectionRequest(owner Owner, dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode) error {
	if owner == nil || !code.Valid() {
		return hdp.ErrInvalidParameter
	}
	if !mode.Valid() {
		return hdp.ErrInvalidChannelMode
	}

	m.mu.Lock()
	defer m.unlockAndDeliver()

	if err := m.checkPowered(); err != nil {
		return err
	}
	dc := m.links[dataLinkID]
	if dc == nil {
		return hdp.ErrInvalidDataLinkID
	}
	if dc.owner != owner {
		return hdp.ErrNotOwner
	}
	if !dc.server || !dc.state.Is(stateAuthorizing) {
		return hdp.ErrInvalidConnectionState
	}

	if mode == hdp.ChannelModeNoPreference {
		mode = dc.mode
	}
	if mode == hdp.ChannelModeNoPreference {
		mode = hdp.ChannelModeReliable
	}
	if code != hdp.ResponseSuccess {
		delete(m.links, dataLinkID)
		m.logLinkGone(dc, "rejected: "+code.String())
		return m.stack.RespondDataChannel(dataLinkID, code, mode, dc.role)
	}
	if err := m.stack.RespondDataChannel(dataLinkID, code, mode, dc.role); err != nil {
		return err
	}
	dc.mode = mode
	return advance(dc.state, eventProceed)
}

// DisconnectEndpoint deletes a data channel. The entry goes away when the
// engine confirms.
func (m *Manager) DisconnectEndpoint(owner Owner, dataLinkID uint32) error {
	if owner == nil {
		return hdp.ErrInvalidParameter
	}

	m.mu.Lock()
	defer m.unlockAndDeliver()

	if err := m.checkPowered(); err != nil {
		return err
	}
	dc := m.links[dataLinkID]
	if dc == nil {
		return hdp.ErrInvalidDataLinkID
	}
	if dc.owner != owner {
		return hdp.ErrNotOwner
	}
	if dc.server && dc.state.Is(stateAuthorizing) {
		return hdp.ErrDataLinkBusy
	}
	return m.stack.DisconnectDataChannel(dc.mclID, dataLinkID)
}

// WriteData sends data on a connected data channel. The whole buffer is
// written or the call fails.
func (m *Manager) WriteData(owner Owner, dataLinkID uint32, data []byte) error {
	if owner == nil || len(data) == 0 {
		return hdp.ErrInvalidParameter
	}

	m.mu.Lock()
	defer m.unlockAndDeliver()

	if err := m.checkPowered(); err != nil {
		return err
	}
	dc := m.links[dataLinkID]
	if dc == nil {
		return hdp.ErrInvalidDataLinkID
	}
	if dc.owner != owner {
		return hdp.ErrNotOwner
	}
	if !dc.state.Is(stateConnected) {
		return hdp.ErrEndpointNotConnected
	}
	return m.stack.WriteData(dataLinkID, data)
}

// CancelPacket is kept for older clients and always fails.
//
// Deprecated: packets are never queued, so there is nothing to cancel.
func (m *Manager) CancelPacket(owner Owner, dataLinkID uint32) error {
	return hdp.ErrUnsupportedOperation
}

// rejectIncoming refuses an incoming data channel request. Callers hold
// m.mu.
func (m *Manager) rejectIncoming(dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode) {
	if !mode.Valid() {
		mode = hdp.ChannelModeNoPreference
	}
	if err := m.stack.RespondDataChannel(dataLinkID, code, mode, hdp.RoleSink); err != nil {
		m.logger.Debug("reject data channel failed", "data_link", dataLinkID, "error", err)
	}
}

// dropLink disconnects a data channel nobody can receive data for.
// Callers hold m.mu.
func (m *Manager) dropLink(dc *dataChannel, reason string) {
	delete(m.links, dc.dataLinkID)
	m.logLinkGone(dc, reason)
	if err := m.stack.DisconnectDataChannel(dc.mclID, dc.dataLinkID); err != nil {
		m.logger.Debug("disconnect orphaned data channel failed", "data_link", dc.dataLinkID, "error", err)
	}
}

func (m *Manager) onCreateDataLinkIndication(ev engine.CreateDataLinkIndication) {
	c := m.findConnByMCL(ev.MCLID)
	if c == nil {
		m.logger.Warn("data channel request on unknown control channel", "mcl", ev.MCLID, "data_link", ev.DataLinkID)
		m.rejectIncoming(ev.DataLinkID, hdp.ResponseInvalidOperation, ev.ChannelMode)
		return
	}
	ep := m.endpoints[ev.MDEPID]
	if ep == nil {
		m.logger.Debug("data channel request for unknown endpoint", "mdep", ev.MDEPID)
		m.rejectIncoming(ev.DataLinkID, hdp.ResponseInvalidDataEndpoint, ev.ChannelMode)
		return
	}
	if c.owner == nil {
		c.owner = ep.owner
		m.logger.Debug("control channel adopted", "address", c.addr, "owner", ep.owner)
	}
	if c.owner != ep.owner {
		m.rejectIncoming(ev.DataLinkID, hdp.ResponseDataEndpointBusy, ev.ChannelMode)
		return
	}

	dc := m.addDataChannel(c, ev.DataLinkID, ep.id, ev.ChannelMode, ep.role, ep.owner, true)
	m.outbox = append(m.outbox, notification{
		owner: ep.owner,
		event: IncomingDataConnectionRequestEvent{
			Address:     c.addr,
			EndpointID:  ep.id,
			ChannelMode: ev.ChannelMode,
			DataLinkID:  ev.DataLinkID,
		},
		undelivered: func() { m.rejectUnclaimed(dc) },
	})
}

// rejectUnclaimed refuses a request whose owner could not be told about
// it. It runs without m.mu held.
func (m *Manager) rejectUnclaimed(dc *dataChannel) {
	m.mu.Lock()
	defer m.unlockAndDeliver()

	if m.links[dc.dataLinkID] != dc || !dc.state.Is(stateAuthorizing) {
		return
	}
	delete(m.links, dc.dataLinkID)
	m.logLinkGone(dc, "owner unreachable")
	m.rejectIncoming(dc.dataLinkID, hdp.ResponseResourceUnavailable, dc.mode)
}

func (m *Manager) onCreateDataLinkConfirmation(ev engine.CreateDataLinkConfirmation) {
	dc := m.links[ev.DataLinkID]
	if dc == nil || dc.server {
		m.logger.Debug("confirmation for unknown data channel", "data_link", ev.DataLinkID)
		return
	}
	if ev.ResponseCode != hdp.ResponseSuccess {
		m.failLink(dc, hdp.StatusFromResponse(ev.ResponseCode), "refused: "+ev.ResponseCode.String())
		return
	}
	if ev.ChannelMode != hdp.ChannelModeNoPreference && ev.ChannelMode.Valid() {
		dc.mode = ev.ChannelMode
	}
}

func (m *Manager) onDataLinkConnectConfirmation(ev engine.DataLinkConnectConfirmation) {
	dc := m.links[ev.DataLinkID]
	if dc == nil || !dc.state.Is(stateConnecting) {
		m.logger.Debug("stale data channel confirmation", "data_link", ev.DataLinkID, "status", ev.Status)
		return
	}
	if ev.Status != hdp.StatusSuccess {
		m.failLink(dc, ev.Status, "data channel failed")
		return
	}
	if err := advance(dc.state, eventOpened); err != nil {
		m.logger.Debug("open data channel", "error", err)
		return
	}
	if !m.ownerValid(dc.owner) {
		m.dropLink(dc, "owner gone")
		m.resolveLink(dc, hdp.StatusAborted)
		return
	}
	if !m.resolveLink(dc, hdp.StatusSuccess) {
		m.notify(dc.owner, DataConnectionStatusEvent{
			Address:    dc.addr,
			Instance:   dc.instance,
			EndpointID: dc.endpointID,
			DataLinkID: dc.dataLinkID,
			Status:     hdp.StatusSuccess,
		})
	}
}

// failLink removes an outbound data channel that did not open and reports
// st to whoever is waiting. Callers hold m.mu.
func (m *Manager) failLink(dc *dataChannel, st hdp.ConnectionStatus, reason string) {
	delete(m.links, dc.dataLinkID)
	m.logLinkGone(dc, reason)
	if m.resolveLink(dc, st) {
		return
	}
	m.notify(dc.owner, DataConnectionStatusEvent{
		Address:    dc.addr,
		Instance:   dc.instance,
		EndpointID: dc.endpointID,
		DataLinkID: dc.dataLinkID,
		Status:     st,
	})
}

func (m *Manager) onDataLinkConnectIndication(ev engine.DataLinkConnectIndication) {
	dc := m.links[ev.DataLinkID]
	if dc == nil || !dc.state.Is(stateConnecting) {
		m.logger.Debug("connect indication for unknown data channel", "data_link", ev.DataLinkID)
		return
	}
	if err := advance(dc.state, eventOpened); err != nil {
		m.logger.Debug("open data channel", "error", err)
		return
	}
	if !m.ownerValid(dc.owner) {
		m.dropLink(dc, "owner gone")
		return
	}
	m.notify(dc.owner, DataConnectedEvent{Address: dc.addr, EndpointID: dc.endpointID, DataLinkID: dc.dataLinkID})
}

// linkGone handles every way a data channel can go away after it was
// created: delete, abort and L2CAP disconnect.
func (m *Manager) linkGone(dataLinkID uint32, reason hdp.DisconnectReason) {
	dc := m.links[dataLinkID]
	if dc == nil {
		m.logger.Debug("data channel already gone", "data_link", dataLinkID, "reason", reason)
		return
	}
	delete(m.links, dataLinkID)
	m.logLinkGone(dc, reason.String())

	if !dc.server && !dc.state.Is(stateConnected) {
		st := hdp.StatusConnectionTerminated
		if reason == hdp.DisconnectAborted {
			st = hdp.StatusAborted
		}
		if !m.resolveLink(dc, st) {
			m.notify(dc.owner, DataConnectionStatusEvent{
				Address:    dc.addr,
				Instance:   dc.instance,
				EndpointID: dc.endpointID,
				DataLinkID: dataLinkID,
				Status:     st,
			})
		}
		return
	}
	m.notify(dc.owner, DataDisconnectedEvent{Address: dc.addr, DataLinkID: dataLinkID, Reason: reason})
}

func (m *Manager) onDataIndication(ev engine.DataLinkDataIndication) {
	dc := m.links[ev.DataLinkID]
	if dc == nil || !dc.state.Is(stateConnected) {
		m.logger.Debug("data on unknown data channel", "data_link", ev.DataLinkID, "len", len(ev.Data))
		return
	}
	m.notify(dc.owner, DataReceivedEvent{Address: dc.addr, DataLinkID: dc.dataLinkID, Data: ev.Data})
}
