package ipc

import (
	"fmt"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// Body is a CBOR message body bound to a function code.
type Body interface {
	Function() Function
}

// Request is a body sent by a client. Validate checks the fields a peer
// cannot be trusted with.
type Request interface {
	Body
	Validate() error
}

// RegisterEndpoint registers a local MDEP.
//
// CBOR encoding:
//
//	{
//	  1: dataType,          // uint16
//	  2: localRole,         // uint8: 0=Source, 1=Sink
//	  3: descriptionLength, // uint32
//	  4: description        // bytes
//	}
type RegisterEndpoint struct {
	DataType          uint16   `cbor:"1,keyasint"`
	LocalRole         hdp.Role `cbor:"2,keyasint"`
	DescriptionLength uint32   `cbor:"3,keyasint"`
	Description       []byte   `cbor:"4,keyasint,omitempty"`
}

func (RegisterEndpoint) Function() Function { return FuncRegisterEndpoint }

func (r RegisterEndpoint) Validate() error {
	if !r.LocalRole.Valid() {
		return invalid("role %d", r.LocalRole)
	}
	return checkLength("description", r.DescriptionLength, r.Description)
}

// UnregisterEndpoint removes a local MDEP.
type UnregisterEndpoint struct {
	EndpointID uint8 `cbor:"1,keyasint"`
}

func (UnregisterEndpoint) Function() Function { return FuncUnregisterEndpoint }

func (r UnregisterEndpoint) Validate() error {
	if !hdp.ValidMDEPID(r.EndpointID) {
		return invalid("endpoint id %d", r.EndpointID)
	}
	return nil
}

// DataConnectionRequestResponse answers an incoming data channel request.
type DataConnectionRequestResponse struct {
	DataLinkID   uint32           `cbor:"1,keyasint"`
	ResponseCode hdp.ResponseCode `cbor:"2,keyasint"`
	ChannelMode  hdp.ChannelMode  `cbor:"3,keyasint"`
}

func (DataConnectionRequestResponse) Function() Function { return FuncDataConnectionRequestResponse }

func (r DataConnectionRequestResponse) Validate() error {
	if !r.ResponseCode.Valid() {
		return invalid("response code %d", r.ResponseCode)
	}
	if !r.ChannelMode.Valid() {
		return invalid("channel mode %d", r.ChannelMode)
	}
	return nil
}

// QueryInstances lists the HDP instances a remote device publishes.
type QueryInstances struct {
	Address        hdp.Address `cbor:"1,keyasint"`
	MaximumEntries uint32      `cbor:"2,keyasint"`
}

func (QueryInstances) Function() Function { return FuncQueryInstances }

func (r QueryInstances) Validate() error {
	if r.Address.IsZero() {
		return invalid("null address")
	}
	return nil
}

// QueryEndpoints lists the endpoints of a remote instance.
type QueryEndpoints struct {
	Address        hdp.Address  `cbor:"1,keyasint"`
	Instance       hdp.Instance `cbor:"2,keyasint"`
	MaximumEntries uint32       `cbor:"3,keyasint"`
}

func (QueryEndpoints) Function() Function { return FuncQueryEndpoints }

func (r QueryEndpoints) Validate() error {
	return checkTarget(r.Address, r.Instance)
}

// QueryEndpointDescription fetches the description of a remote endpoint.
type QueryEndpointDescription struct {
	Address       hdp.Address      `cbor:"1,keyasint"`
	Instance      hdp.Instance     `cbor:"2,keyasint"`
	EndpointInfo  hdp.EndpointInfo `cbor:"3,keyasint"`
	MaximumLength uint32           `cbor:"4,keyasint"`
}

func (QueryEndpointDescription) Function() Function { return FuncQueryEndpointDescription }

func (r QueryEndpointDescription) Validate() error {
	if err := checkTarget(r.Address, r.Instance); err != nil {
		return err
	}
	if !hdp.ValidMDEPID(r.EndpointInfo.EndpointID) {
		return invalid("endpoint id %d", r.EndpointInfo.EndpointID)
	}
	if !r.EndpointInfo.Role.Valid() {
		return invalid("role %d", r.EndpointInfo.Role)
	}
	return nil
}

// Connect opens the control channel to a remote instance.
type Connect struct {
	Address  hdp.Address  `cbor:"1,keyasint"`
	Instance hdp.Instance `cbor:"2,keyasint"`
}

func (Connect) Function() Function { return FuncConnect }

func (r Connect) Validate() error { return checkTarget(r.Address, r.Instance) }

// Disconnect closes the control channel to a remote instance.
type Disconnect struct {
	Address  hdp.Address  `cbor:"1,keyasint"`
	Instance hdp.Instance `cbor:"2,keyasint"`
}

func (Disconnect) Function() Function { return FuncDisconnect }

func (r Disconnect) Validate() error { return checkTarget(r.Address, r.Instance) }

// ConnectEndpoint opens a data channel to a remote endpoint.
type ConnectEndpoint struct {
	Address     hdp.Address     `cbor:"1,keyasint"`
	Instance    hdp.Instance    `cbor:"2,keyasint"`
	EndpointID  uint8           `cbor:"3,keyasint"`
	ChannelMode hdp.ChannelMode `cbor:"4,keyasint"`
}

func (ConnectEndpoint) Function() Function { return FuncConnectEndpoint }

func (r ConnectEndpoint) Validate() error {
	if err := checkTarget(r.Address, r.Instance); err != nil {
		return err
	}
	if !hdp.ValidMDEPID(r.EndpointID) {
		return invalid("endpoint id %d", r.EndpointID)
	}
	if !r.ChannelMode.Valid() {
		return invalid("channel mode %d", r.ChannelMode)
	}
	return nil
}

// DisconnectEndpoint closes a data channel.
type DisconnectEndpoint struct {
	DataLinkID uint32 `cbor:"1,keyasint"`
}

func (DisconnectEndpoint) Function() Function { return FuncDisconnectEndpoint }

func (DisconnectEndpoint) Validate() error { return nil }

// WriteData sends one APDU on a data channel.
type WriteData struct {
	DataLinkID uint32 `cbor:"1,keyasint"`
	DataLength uint32 `cbor:"2,keyasint"`
	Data       []byte `cbor:"3,keyasint"`
}

func (WriteData) Function() Function { return FuncWriteData }

func (r WriteData) Validate() error {
	if len(r.Data) == 0 {
		return invalid("empty data")
	}
	if len(r.Data) > MaxWriteDataSize {
		return invalid("%d data bytes exceed %d", len(r.Data), MaxWriteDataSize)
	}
	return checkLength("data", r.DataLength, r.Data)
}

func newRequest(f Function) Request {
	switch f {
	case FuncRegisterEndpoint:
		return &RegisterEndpoint{}
	case FuncUnregisterEndpoint:
		return &UnregisterEndpoint{}
	case FuncDataConnectionRequestResponse:
		return &DataConnectionRequestResponse{}
	case FuncQueryInstances:
		return &QueryInstances{}
	case FuncQueryEndpoints:
		return &QueryEndpoints{}
	case FuncQueryEndpointDescription:
		return &QueryEndpointDescription{}
	case FuncConnect:
		return &Connect{}
	case FuncDisconnect:
		return &Disconnect{}
	case FuncConnectEndpoint:
		return &ConnectEndpoint{}
	case FuncDisconnectEndpoint:
		return &DisconnectEndpoint{}
	case FuncWriteData:
		return &WriteData{}
	}
	return nil
}

func checkTarget(addr hdp.Address, instance hdp.Instance) error {
	if addr.IsZero() {
		return invalid("null address")
	}
	if !instance.Valid() {
		return invalid("instance %s", instance)
	}
	return nil
}

func checkLength(field string, length uint32, buf []byte) error {
	if int(length) != len(buf) {
		return invalid("%s length %d does not match %d bytes", field, length, len(buf))
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", hdp.ErrInvalidParameter, fmt.Sprintf(format, args...))
}
