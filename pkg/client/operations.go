package client

import (
	"context"
	"fmt"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
)

// RegisterEndpoint publishes a local endpoint owned by this client and
// returns its id.
func (c *Client) RegisterEndpoint(ctx context.Context, dataType uint16, role hdp.Role, description string) (uint8, error) {
	var resp ipc.RegisterEndpointResponse
	err := c.call(ctx, &ipc.RegisterEndpoint{
		DataType:          dataType,
		LocalRole:         role,
		DescriptionLength: uint32(len(description)),
		Description:       []byte(description),
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.EndpointID, nil
}

// UnregisterEndpoint removes an endpoint this client registered.
func (c *Client) UnregisterEndpoint(ctx context.Context, endpointID uint8) error {
	var resp ipc.StatusResponse
	return c.call(ctx, &ipc.UnregisterEndpoint{EndpointID: endpointID}, &resp)
}

// RespondToConnectionRequest answers an IncomingDataConnectionRequestEvent.
func (c *Client) RespondToConnectionRequest(ctx context.Context, dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode) error {
	var resp ipc.StatusResponse
	return c.call(ctx, &ipc.DataConnectionRequestResponse{
		DataLinkID:   dataLinkID,
		ResponseCode: code,
		ChannelMode:  mode,
	}, &resp)
}

// QueryInstances returns the number of HDP instances addr publishes and up
// to max of them.
func (c *Client) QueryInstances(ctx context.Context, addr hdp.Address, max int) (int, []hdp.Instance, error) {
	var resp ipc.QueryInstancesResponse
	if err := c.call(ctx, &ipc.QueryInstances{Address: addr, MaximumEntries: clampMax(max)}, &resp); err != nil {
		return 0, nil, err
	}
	return int(resp.TotalInstances), resp.Instances, nil
}

// QueryEndpoints returns the number of endpoints of a remote instance and
// up to max of them.
func (c *Client) QueryEndpoints(ctx context.Context, addr hdp.Address, instance hdp.Instance, max int) (int, []hdp.EndpointInfo, error) {
	var resp ipc.QueryEndpointsResponse
	err := c.call(ctx, &ipc.QueryEndpoints{
		Address:        addr,
		Instance:       instance,
		MaximumEntries: clampMax(max),
	}, &resp)
	if err != nil {
		return 0, nil, err
	}
	return int(resp.TotalEndpoints), resp.Endpoints, nil
}

// QueryEndpointDescription returns the full length of a remote endpoint's
// description and its first max bytes.
func (c *Client) QueryEndpointDescription(ctx context.Context, addr hdp.Address, instance hdp.Instance, info hdp.EndpointInfo, max int) (int, string, error) {
	var resp ipc.QueryEndpointDescriptionResponse
	err := c.call(ctx, &ipc.QueryEndpointDescription{
		Address:       addr,
		Instance:      instance,
		EndpointInfo:  info,
		MaximumLength: clampMax(max),
	}, &resp)
	if err != nil {
		return 0, "", err
	}
	if err := resp.Validate(); err != nil {
		return 0, "", err
	}
	return int(resp.TotalLength), string(resp.Description), nil
}

// Connect starts opening the control channel to a remote instance. The
// outcome arrives as a ConnectionStatusEvent.
func (c *Client) Connect(ctx context.Context, addr hdp.Address, instance hdp.Instance) error {
	var resp ipc.StatusResponse
	return c.call(ctx, &ipc.Connect{Address: addr, Instance: instance}, &resp)
}

// ConnectAndWait opens the control channel to a remote instance and waits
// for the outcome.
func (c *Client) ConnectAndWait(ctx context.Context, addr hdp.Address, instance hdp.Instance) (hdp.ConnectionStatus, error) {
	w := &connWaiter{addr: addr, instance: instance, ch: make(chan hdp.ConnectionStatus, 1)}
	c.mu.Lock()
	c.waiters.addConn(w)
	c.mu.Unlock()

	if err := c.Connect(ctx, addr, instance); err != nil {
		c.dropConnWaiter(w)
		return 0, err
	}
	select {
	case st, ok := <-w.ch:
		if !ok {
			return 0, ErrLinkLost
		}
		return st, nil
	case <-ctx.Done():
		c.dropConnWaiter(w)
		if st, ok := claimed(w.ch); ok {
			return st, nil
		}
		return 0, ctx.Err()
	}
}

// Disconnect closes the control channel to a remote instance.
func (c *Client) Disconnect(ctx context.Context, addr hdp.Address, instance hdp.Instance) error {
	var resp ipc.StatusResponse
	return c.call(ctx, &ipc.Disconnect{Address: addr, Instance: instance}, &resp)
}

// ConnectEndpoint starts opening a data channel to a remote endpoint and
// returns its data link id. The outcome arrives as a
// DataConnectionStatusEvent.
func (c *Client) ConnectEndpoint(ctx context.Context, addr hdp.Address, instance hdp.Instance, endpointID uint8, mode hdp.ChannelMode) (uint32, error) {
	var resp ipc.ConnectEndpointResponse
	err := c.call(ctx, &ipc.ConnectEndpoint{
		Address:     addr,
		Instance:    instance,
		EndpointID:  endpointID,
		ChannelMode: mode,
	}, &resp)
	if err != nil {
		return 0, err
	}
	return resp.DataLinkID, nil
}

// ConnectEndpointAndWait opens a data channel to a remote endpoint and
// waits for the outcome.
func (c *Client) ConnectEndpointAndWait(ctx context.Context, addr hdp.Address, instance hdp.Instance, endpointID uint8, mode hdp.ChannelMode) (uint32, hdp.ConnectionStatus, error) {
	w := &linkWaiter{addr: addr, instance: instance, endpointID: endpointID, ch: make(chan hdp.ConnectionStatus, 1)}
	c.mu.Lock()
	c.waiters.addLink(w)
	c.mu.Unlock()

	id, err := c.ConnectEndpoint(ctx, addr, instance, endpointID, mode)
	if err != nil {
		c.dropLinkWaiter(w)
		return 0, 0, err
	}
	c.mu.Lock()
	w.dataLinkID = id
	c.mu.Unlock()

	select {
	case st, ok := <-w.ch:
		if !ok {
			return id, 0, ErrLinkLost
		}
		return id, st, nil
	case <-ctx.Done():
		c.dropLinkWaiter(w)
		if st, ok := claimed(w.ch); ok {
			return id, st, nil
		}
		return id, 0, ctx.Err()
	}
}

// DisconnectEndpoint closes a data channel or abandons one being opened.
func (c *Client) DisconnectEndpoint(ctx context.Context, dataLinkID uint32) error {
	var resp ipc.StatusResponse
	return c.call(ctx, &ipc.DisconnectEndpoint{DataLinkID: dataLinkID}, &resp)
}

// WriteData sends one APDU on an open data channel.
func (c *Client) WriteData(ctx context.Context, dataLinkID uint32, data []byte) error {
	if len(data) > ipc.MaxWriteDataSize {
		return fmt.Errorf("%w: %d bytes exceeds the message limit", hdp.ErrInvalidParameter, len(data))
	}
	var resp ipc.StatusResponse
	return c.call(ctx, &ipc.WriteData{
		DataLinkID: dataLinkID,
		DataLength: uint32(len(data)),
		Data:       data,
	}, &resp)
}

func (c *Client) dropConnWaiter(w *connWaiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiters.removeConn(w)
}

func (c *Client) dropLinkWaiter(w *linkWaiter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waiters.removeLink(w)
}

// claimed returns a status delivered to ch before its waiter was dropped.
func claimed(ch chan hdp.ConnectionStatus) (hdp.ConnectionStatus, bool) {
	select {
	case st, ok := <-ch:
		return st, ok
	default:
		return 0, false
	}
}

func clampMax(n int) uint32 {
	if n < 0 {
		return 0
	}
	return uint32(min(n, ipc.MaxPayloadSize))
}
