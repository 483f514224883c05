package manager

import (
	"context"
	"errors"
	"fmt"

	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/sdp"
)

// QueryInstances returns the number of HDP instances addr publishes and up
// to max of them. Pass max 0 to size a buffer.
func (m *Manager) QueryInstances(ctx context.Context, addr hdp.Address, max int) (int, []hdp.Instance, error) {
	if addr.IsZero() || max < 0 {
		return 0, nil, hdp.ErrInvalidParameter
	}
	resp, err := m.lookupServices(ctx, addr)
	if err != nil {
		return 0, nil, err
	}
	out := make([]hdp.Instance, max)
	total, err := hdp.ParseInstances(resp, out)
	if err != nil {
		return 0, nil, err
	}
	return total, out[:min(total, max)], nil
}

// QueryEndpoints returns the number of endpoints of instance on addr and up
// to max of them.
func (m *Manager) QueryEndpoints(ctx context.Context, addr hdp.Address, instance hdp.Instance, max int) (int, []hdp.EndpointInfo, error) {
	if addr.IsZero() || !instance.Valid() || max < 0 {
		return 0, nil, hdp.ErrInvalidParameter
	}
	resp, err := m.lookupServices(ctx, addr)
	if err != nil {
		return 0, nil, err
	}
	out := make([]hdp.EndpointInfo, max)
	total, err := hdp.ParseEndpoints(resp, instance, out)
	if err != nil {
		return 0, nil, err
	}
	return total, out[:min(total, max)], nil
}

// QueryEndpointDescription returns the description of the remote endpoint
// matching info, truncated to max bytes, along with its full length.
func (m *Manager) QueryEndpointDescription(ctx context.Context, addr hdp.Address, instance hdp.Instance, info hdp.EndpointInfo, max int) (int, string, error) {
	if addr.IsZero() || !instance.Valid() || !hdp.ValidMDEPID(info.EndpointID) || max < 0 {
		return 0, "", hdp.ErrInvalidParameter
	}
	resp, err := m.lookupServices(ctx, addr)
	if err != nil {
		return 0, "", err
	}
	start := 0
	for {
		i, mdep, err := hdp.FindEndpointInfo(resp, instance, start, info.EndpointID)
		if err != nil {
			return 0, "", err
		}
		if mdep.DataType == info.DataType && mdep.Role == info.Role {
			desc := mdep.Description
			total := len(desc)
			if total > max {
				desc = desc[:max]
			}
			return total, desc, nil
		}
		start = i + 1
	}
}

// lookupServices fetches and decodes the cached service records of addr.
func (m *Manager) lookupServices(ctx context.Context, addr hdp.Address) (*sdp.ServiceResponse, error) {
	m.mu.Lock()
	err := m.checkPowered()
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return m.queryServices(ctx, addr)
}

func (m *Manager) queryServices(ctx context.Context, addr hdp.Address) (*sdp.ServiceResponse, error) {
	raw, err := m.dm.QueryRemoteDeviceServices(ctx, addr)
	if errors.Is(err, devm.ErrNoServiceRecords) {
		return nil, fmt.Errorf("query %s: %w", addr, hdp.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w: %w", addr, hdp.ErrUnknownFailure, err)
	}
	resp, err := sdp.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w: %w", addr, hdp.ErrServiceDataInvalid, err)
	}
	return resp, nil
}

// remoteRole looks up the role of endpointID in the published record of
// instance. Callers must not hold m.mu.
func (m *Manager) remoteRole(ctx context.Context, addr hdp.Address, instance hdp.Instance, endpointID uint8) (hdp.Role, error) {
	resp, err := m.queryServices(ctx, addr)
	var mdep hdp.MDEP
	if err == nil {
		_, mdep, err = hdp.FindEndpointInfo(resp, instance, 0, endpointID)
	}
	switch {
	case errors.Is(err, hdp.ErrEndpointNotFound), errors.Is(err, hdp.ErrRecordNotFound):
		return 0, fmt.Errorf("endpoint %d: %w", endpointID, hdp.ErrInvalidEndpointID)
	case err != nil:
		return 0, err
	}
	return mdep.Role, nil
}
