package hdp

import "fmt"

// Instance identifies one remote HDP service instance by its control and
// data channel PSMs, packed as control<<16 | data.
type Instance uint32

// NewInstance packs a control and data PSM pair.
func NewInstance(controlPSM, dataPSM uint16) Instance {
	return Instance(uint32(controlPSM)<<16 | uint32(dataPSM))
}

// ControlPSM returns the MCAP control channel PSM.
func (i Instance) ControlPSM() uint16 { return uint16(uint32(i) >> 16) }

// DataPSM returns the MCAP data channel PSM.
func (i Instance) DataPSM() uint16 { return uint16(uint32(i)) }

// Valid reports whether both PSMs are legal dynamic PSM values.
func (i Instance) Valid() bool {
	return ValidDynamicPSM(i.ControlPSM()) && ValidDynamicPSM(i.DataPSM())
}

// String returns "control/data" in hex.
func (i Instance) String() string {
	return fmt.Sprintf("0x%04X/0x%04X", i.ControlPSM(), i.DataPSM())
}

// ValidDynamicPSM reports whether psm lies in the dynamic range and has the
// L2CAP shape: odd, with bit 0 of the upper octet clear.
func ValidDynamicPSM(psm uint16) bool {
	return psm >= MinDynamicPSM && psm&0x0001 == 0x0001 && psm&0x0100 == 0
}

// Role is the MDEP role of an endpoint.
type Role uint8

const (
	RoleSource Role = 0
	RoleSink   Role = 1
)

// Valid reports whether r is Source or Sink.
func (r Role) Valid() bool { return r == RoleSource || r == RoleSink }

// Invert returns the complementary role.
func (r Role) Invert() Role {
	if r == RoleSource {
		return RoleSink
	}
	return RoleSource
}

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleSource:
		return "SOURCE"
	case RoleSink:
		return "SINK"
	default:
		return "UNKNOWN"
	}
}

// ChannelMode is the L2CAP transport mode requested for a data channel.
type ChannelMode uint8

const (
	ChannelModeNoPreference ChannelMode = 0
	ChannelModeReliable     ChannelMode = 1
	ChannelModeStreaming    ChannelMode = 2
)

// Valid reports whether m is a known channel mode.
func (m ChannelMode) Valid() bool { return m <= ChannelModeStreaming }

// String returns the mode name.
func (m ChannelMode) String() string {
	switch m {
	case ChannelModeNoPreference:
		return "NO_PREFERENCE"
	case ChannelModeReliable:
		return "RELIABLE"
	case ChannelModeStreaming:
		return "STREAMING"
	default:
		return "UNKNOWN"
	}
}

// FCSMode selects frame check sequence use on a data channel.
type FCSMode uint8

const (
	FCSNoPreference FCSMode = 0
	FCSDisabled     FCSMode = 1
	FCSEnabled      FCSMode = 2
)

// ChannelConfig is the transport configuration handed to the engine when a
// data channel is created or accepted.
type ChannelConfig struct {
	FCSMode                  FCSMode
	MaxTxPacketSize          uint16
	TxSegmentSize            uint16
	NumberOfTxSegmentBuffers uint16
}

// Engine tuning constants for data channels.
const (
	DefaultMaxTxPacketSize          = 1024
	DefaultTxSegmentSize            = 256
	DefaultNumberOfTxSegmentBuffers = 10
)

// DataChannelConfig returns the fixed data channel configuration. Frame
// check sequences are enabled only when the local side is the Source.
func DataChannelConfig(local Role) ChannelConfig {
	fcs := FCSNoPreference
	if local == RoleSource {
		fcs = FCSEnabled
	}
	return ChannelConfig{
		FCSMode:                  fcs,
		MaxTxPacketSize:          DefaultMaxTxPacketSize,
		TxSegmentSize:            DefaultTxSegmentSize,
		NumberOfTxSegmentBuffers: DefaultNumberOfTxSegmentBuffers,
	}
}

// EndpointInfo describes an MDEP: its id, data type and role.
type EndpointInfo struct {
	EndpointID uint8  `cbor:"1,keyasint" yaml:"endpoint_id"`
	DataType   uint16 `cbor:"2,keyasint" yaml:"data_type"`
	Role       Role   `cbor:"3,keyasint" yaml:"role"`
}

// MDEP is an endpoint definition with its optional description.
type MDEP struct {
	EndpointInfo   `yaml:",inline"`
	Description    string `yaml:"description,omitempty"`
	HasDescription bool   `yaml:"-"`
}

// ValidMDEPID reports whether id is in the data endpoint range.
func ValidMDEPID(id uint8) bool {
	return id >= MinMDEPID && id <= MaxMDEPID
}

// ResponseCode is an MCAP response code.
type ResponseCode uint8

const (
	ResponseSuccess               ResponseCode = 0x00
	ResponseInvalidOpcode         ResponseCode = 0x01
	ResponseInvalidParameterValue ResponseCode = 0x02
	ResponseInvalidDataEndpoint   ResponseCode = 0x03
	ResponseDataEndpointBusy      ResponseCode = 0x04
	ResponseInvalidDataLinkID     ResponseCode = 0x05
	ResponseDataLinkBusy          ResponseCode = 0x06
	ResponseInvalidOperation      ResponseCode = 0x07
	ResponseResourceUnavailable   ResponseCode = 0x08
	ResponseUnspecifiedError      ResponseCode = 0x09
	ResponseRequestNotSupported   ResponseCode = 0x0A
	ResponseConfigurationRejected ResponseCode = 0x0B
)

// Valid reports whether c is a known response code.
func (c ResponseCode) Valid() bool { return c <= ResponseConfigurationRejected }

// String returns the response code name.
func (c ResponseCode) String() string {
	switch c {
	case ResponseSuccess:
		return "SUCCESS"
	case ResponseInvalidOpcode:
		return "INVALID_OPCODE"
	case ResponseInvalidParameterValue:
		return "INVALID_PARAMETER_VALUE"
	case ResponseInvalidDataEndpoint:
		return "INVALID_DATA_ENDPOINT"
	case ResponseDataEndpointBusy:
		return "DATA_ENDPOINT_BUSY"
	case ResponseInvalidDataLinkID:
		return "INVALID_DATA_LINK_ID"
	case ResponseDataLinkBusy:
		return "DATA_LINK_BUSY"
	case ResponseInvalidOperation:
		return "INVALID_OPERATION"
	case ResponseResourceUnavailable:
		return "RESOURCE_UNAVAILABLE"
	case ResponseUnspecifiedError:
		return "UNSPECIFIED_ERROR"
	case ResponseRequestNotSupported:
		return "REQUEST_NOT_SUPPORTED"
	case ResponseConfigurationRejected:
		return "CONFIGURATION_REJECTED"
	default:
		return "UNKNOWN"
	}
}

// ConnectionStatus is the outcome reported for a connection or data channel
// attempt.
type ConnectionStatus uint8

const (
	StatusSuccess              ConnectionStatus = 0
	StatusTimeout              ConnectionStatus = 1
	StatusRefused              ConnectionStatus = 2
	StatusConnectionTerminated ConnectionStatus = 3
	StatusConfiguration        ConnectionStatus = 4
	StatusInvalidInstance      ConnectionStatus = 5
	StatusDevicePowerOff       ConnectionStatus = 6
	StatusAborted              ConnectionStatus = 7
	StatusUnknown              ConnectionStatus = 8
)

// String returns the status name.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusTimeout:
		return "TIMEOUT"
	case StatusRefused:
		return "REFUSED"
	case StatusConnectionTerminated:
		return "CONNECTION_TERMINATED"
	case StatusConfiguration:
		return "CONFIGURATION"
	case StatusInvalidInstance:
		return "INVALID_INSTANCE"
	case StatusDevicePowerOff:
		return "DEVICE_POWER_OFF"
	case StatusAborted:
		return "ABORTED"
	default:
		return "UNKNOWN"
	}
}

// StatusFromResponse maps an MCAP response code onto a connection status.
func StatusFromResponse(c ResponseCode) ConnectionStatus {
	switch c {
	case ResponseSuccess:
		return StatusSuccess
	case ResponseConfigurationRejected:
		return StatusConfiguration
	case ResponseInvalidDataEndpoint, ResponseDataEndpointBusy, ResponseResourceUnavailable:
		return StatusRefused
	default:
		return StatusUnknown
	}
}

// DisconnectReason tells a data channel owner why the channel went away.
type DisconnectReason uint8

const (
	DisconnectNormal  DisconnectReason = 0
	DisconnectAborted DisconnectReason = 1
)

// String returns the reason name.
func (r DisconnectReason) String() string {
	if r == DisconnectAborted {
		return "ABORTED"
	}
	return "NORMAL"
}
