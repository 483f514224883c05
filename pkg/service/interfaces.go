package service

import (
	"context"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
)

// HealthManager is the manager surface the service drives. It is satisfied
// by *manager.Manager.
type HealthManager interface {
	RegisterEndpoint(owner manager.Owner, dataType uint16, role hdp.Role, description string) (uint8, error)
	UnregisterEndpoint(owner manager.Owner, id uint8) error
	RespondToConnectionRequest(owner manager.Owner, dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode) error
	QueryInstances(ctx context.Context, addr hdp.Address, max int) (int, []hdp.Instance, error)
	QueryEndpoints(ctx context.Context, addr hdp.Address, instance hdp.Instance, max int) (int, []hdp.EndpointInfo, error)
	QueryEndpointDescription(ctx context.Context, addr hdp.Address, instance hdp.Instance, info hdp.EndpointInfo, max int) (int, string, error)
	Connect(ctx context.Context, owner manager.Owner, addr hdp.Address, instance hdp.Instance, blocking bool) (hdp.ConnectionStatus, error)
	Disconnect(owner manager.Owner, addr hdp.Address, instance hdp.Instance) error
	ConnectEndpoint(ctx context.Context, owner manager.Owner, addr hdp.Address, instance hdp.Instance, endpointID uint8, mode hdp.ChannelMode, blocking bool) (uint32, hdp.ConnectionStatus, error)
	DisconnectEndpoint(owner manager.Owner, dataLinkID uint32) error
	WriteData(owner manager.Owner, dataLinkID uint32, data []byte) error
	ClientDisconnected(id manager.ClientID)
}

// Compile-time checks.
var (
	_ HealthManager          = (*manager.Manager)(nil)
	_ manager.ClientNotifier = (*NotificationDispatcher)(nil)
)
