package ipc

import "github.com/hdpm-project/hdpm-go/pkg/hdp"

// Event is a body the server sends unsolicited, with message id 0.
type Event interface {
	Body
	isEvent()
}

// ConnectionStatusEvent reports the outcome of a Connect.
type ConnectionStatusEvent struct {
	Address  hdp.Address          `cbor:"1,keyasint"`
	Instance hdp.Instance         `cbor:"2,keyasint"`
	Status   hdp.ConnectionStatus `cbor:"3,keyasint"`
}

// DisconnectedEvent reports a closed control channel.
type DisconnectedEvent struct {
	Address  hdp.Address  `cbor:"1,keyasint"`
	Instance hdp.Instance `cbor:"2,keyasint"`
}

// IncomingDataConnectionRequestEvent asks the endpoint owner to answer with
// DataConnectionRequestResponse.
type IncomingDataConnectionRequestEvent struct {
	Address     hdp.Address     `cbor:"1,keyasint"`
	EndpointID  uint8           `cbor:"2,keyasint"`
	ChannelMode hdp.ChannelMode `cbor:"3,keyasint"`
	DataLinkID  uint32          `cbor:"4,keyasint"`
}

// DataConnectedEvent reports an accepted incoming data channel.
type DataConnectedEvent struct {
	Address    hdp.Address `cbor:"1,keyasint"`
	EndpointID uint8       `cbor:"2,keyasint"`
	DataLinkID uint32      `cbor:"3,keyasint"`
}

// DataDisconnectedEvent reports a closed data channel.
type DataDisconnectedEvent struct {
	Address    hdp.Address          `cbor:"1,keyasint"`
	DataLinkID uint32               `cbor:"2,keyasint"`
	Reason     hdp.DisconnectReason `cbor:"3,keyasint"`
}

// DataConnectionStatusEvent reports the outcome of a ConnectEndpoint.
type DataConnectionStatusEvent struct {
	Address    hdp.Address          `cbor:"1,keyasint"`
	Instance   hdp.Instance         `cbor:"2,keyasint"`
	EndpointID uint8                `cbor:"3,keyasint"`
	DataLinkID uint32               `cbor:"4,keyasint"`
	Status     hdp.ConnectionStatus `cbor:"5,keyasint"`
}

// DataReceivedEvent carries one APDU received on a data channel.
type DataReceivedEvent struct {
	Address    hdp.Address `cbor:"1,keyasint"`
	DataLinkID uint32      `cbor:"2,keyasint"`
	DataLength uint32      `cbor:"3,keyasint"`
	Data       []byte      `cbor:"4,keyasint"`
}

func (ConnectionStatusEvent) Function() Function { return EventConnectionStatus }
func (DisconnectedEvent) Function() Function     { return EventDisconnected }
func (IncomingDataConnectionRequestEvent) Function() Function {
	return EventIncomingDataConnectionRequest
}
func (DataConnectedEvent) Function() Function        { return EventDataConnected }
func (DataDisconnectedEvent) Function() Function     { return EventDataDisconnected }
func (DataConnectionStatusEvent) Function() Function { return EventDataConnectionStatus }
func (DataReceivedEvent) Function() Function         { return EventDataReceived }

func (ConnectionStatusEvent) isEvent()              {}
func (DisconnectedEvent) isEvent()                  {}
func (IncomingDataConnectionRequestEvent) isEvent() {}
func (DataConnectedEvent) isEvent()                 {}
func (DataDisconnectedEvent) isEvent()              {}
func (DataConnectionStatusEvent) isEvent()          {}
func (DataReceivedEvent) isEvent()                  {}

func newEvent(f Function) Event {
	switch f {
	case EventConnectionStatus:
		return &ConnectionStatusEvent{}
	case EventDisconnected:
		return &DisconnectedEvent{}
	case EventIncomingDataConnectionRequest:
		return &IncomingDataConnectionRequestEvent{}
	case EventDataConnected:
		return &DataConnectedEvent{}
	case EventDataDisconnected:
		return &DataDisconnectedEvent{}
	case EventDataConnectionStatus:
		return &DataConnectionStatusEvent{}
	case EventDataReceived:
		return &DataReceivedEvent{}
	}
	return nil
}
