package manager

import "github.com/hdpm-project/hdpm-go/pkg/hdp"

// Event is a notification delivered to a resource owner. The concrete types
// below are the complete set.
type Event interface {
	isClientEvent()
}

// ConnectionStatusEvent reports the outcome of a Connect.
type ConnectionStatusEvent struct {
	Address  hdp.Address
	Instance hdp.Instance
	Status   hdp.ConnectionStatus
}

// DisconnectedEvent reports that a control channel closed.
type DisconnectedEvent struct {
	Address  hdp.Address
	Instance hdp.Instance
}

// IncomingDataConnectionRequestEvent asks the owner of an endpoint to
// accept or reject a data channel with RespondToConnectionRequest.
type IncomingDataConnectionRequestEvent struct {
	Address     hdp.Address
	EndpointID  uint8
	ChannelMode hdp.ChannelMode
	DataLinkID  uint32
}

// DataConnectedEvent reports that an accepted incoming data channel is open.
type DataConnectedEvent struct {
	Address    hdp.Address
	EndpointID uint8
	DataLinkID uint32
}

// DataDisconnectedEvent reports that a data channel went away.
type DataDisconnectedEvent struct {
	Address    hdp.Address
	DataLinkID uint32
	Reason     hdp.DisconnectReason
}

// DataConnectionStatusEvent reports the outcome of a ConnectEndpoint.
type DataConnectionStatusEvent struct {
	Address    hdp.Address
	Instance   hdp.Instance
	EndpointID uint8
	DataLinkID uint32
	Status     hdp.ConnectionStatus
}

// DataReceivedEvent carries data received on a data channel.
type DataReceivedEvent struct {
	Address    hdp.Address
	DataLinkID uint32
	Data       []byte
}

func (ConnectionStatusEvent) isClientEvent()              {}
func (DisconnectedEvent) isClientEvent()                  {}
func (IncomingDataConnectionRequestEvent) isClientEvent() {}
func (DataConnectedEvent) isClientEvent()                 {}
func (DataDisconnectedEvent) isClientEvent()              {}
func (DataConnectionStatusEvent) isClientEvent()          {}
func (DataReceivedEvent) isClientEvent()                  {}
