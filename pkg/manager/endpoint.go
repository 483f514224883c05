package manager

import (
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// RegisterEndpoint registers a local endpoint for owner and republishes the
// SDP record. At most one endpoint may exist per data type and role.
func (m *Manager) RegisterEndpoint(owner Owner, dataType uint16, role hdp.Role, description string) (uint8, error) {
	if owner == nil || !role.Valid() {
		return 0, hdp.ErrInvalidParameter
	}

	m.mu.Lock()
	defer m.unlockAndDeliver()

	if err := m.checkPowered(); err != nil {
		return 0, err
	}
	if m.findEndpoint(dataType, role) != nil {
		return 0, hdp.ErrEndpointAlreadyRegistered
	}

	id, err := m.stack.RegisterEndpoint(dataType, role, description)
	if err != nil {
		return 0, err
	}
	ep := &endpoint{id: id, dataType: dataType, role: role, description: description, owner: owner}
	m.endpoints[id] = ep

	if err := m.stack.UpdateSDPRecord(); err != nil {
		delete(m.endpoints, id)
		if uerr := m.stack.UnregisterEndpoint(id); uerr != nil {
			m.logger.Debug("roll back endpoint failed", "endpoint", id, "error", uerr)
		}
		if rerr := m.stack.UpdateSDPRecord(); rerr != nil {
			m.logger.Warn("republish sdp record failed", "error", rerr)
		}
		return 0, err
	}
	m.logEndpoint(ep, "", "registered", "registered by "+owner.String())
	return id, nil
}

// UnregisterEndpoint removes an endpoint registered by owner. Engine errors
// are logged; the local registration is removed regardless.
func (m *Manager) UnregisterEndpoint(owner Owner, id uint8) error {
	if owner == nil || !hdp.ValidMDEPID(id) {
		return hdp.ErrInvalidParameter
	}

	m.mu.Lock()
	defer m.unlockAndDeliver()

	if err := m.checkPowered(); err != nil {
		return err
	}
	ep := m.endpoints[id]
	if ep == nil {
		return hdp.ErrEndpointNotRegistered
	}
	if ep.owner != owner {
		return hdp.ErrNotOwner
	}

	if err := m.stack.UnregisterEndpoint(id); err != nil {
		m.logger.Warn("engine unregister endpoint failed", "endpoint", id, "error", err)
	}
	delete(m.endpoints, id)
	m.logEndpoint(ep, "registered", "", "unregistered by owner")
	return m.stack.UpdateSDPRecord()
}
