package engine

import "github.com/hdpm-project/hdpm-go/pkg/hdp"

// ConnectionMode controls how the engine treats incoming control channel
// connections.
type ConnectionMode uint8

const (
	ConnectionModeAutomaticAccept ConnectionMode = 0
	ConnectionModeAutomaticReject ConnectionMode = 1
	ConnectionModeManualAccept    ConnectionMode = 2
)

// MDEPInfo describes an endpoint registered on the local instance.
type MDEPInfo struct {
	ID          uint8
	DataType    uint16
	Role        hdp.Role
	Description string
}

// Handler receives engine events.
type Handler func(Event)

// Engine is the protocol engine consumed by the manager's helper layer.
//
// Methods returning identifiers return positive values on success. Errors
// are *Error values carrying an ErrorCode.
type Engine interface {
	// RegisterInstance opens a local HDP instance on the given PSMs.
	RegisterInstance(controlPSM, dataPSM uint16, handler Handler) (instanceID uint32, err error)

	// UnregisterInstance closes a local instance and everything under it.
	UnregisterInstance(instanceID uint32) error

	// SetConnectionMode sets the incoming connection policy of an instance.
	SetConnectionMode(instanceID uint32, mode ConnectionMode) error

	// RegisterEndpoint adds an MDEP to an instance.
	RegisterEndpoint(instanceID uint32, mdep MDEPInfo) error

	// UnregisterEndpoint removes an MDEP from an instance.
	UnregisterEndpoint(instanceID uint32, mdep MDEPInfo) error

	// RegisterSDPRecord publishes the service record of an instance.
	RegisterSDPRecord(instanceID uint32, serviceName, providerName string) (handle uint32, err error)

	// UnregisterSDPRecord withdraws a published record.
	UnregisterSDPRecord(handle uint32) error

	// ConnectRemoteInstance opens a control channel to a remote instance.
	// The outcome arrives as a ControlConnectConfirmation.
	ConnectRemoteInstance(instanceID uint32, addr hdp.Address, controlPSM, dataPSM uint16) (mclID uint32, err error)

	// CloseConnection closes a control channel; data channels under it are
	// torn down first.
	CloseConnection(mclID uint32) error

	// CreateDataChannelRequest asks the remote side to open a data channel.
	// The outcome arrives as a CreateDataLinkConfirmation.
	CreateDataChannelRequest(mclID uint32, mdepID uint8, role hdp.Role, mode hdp.ChannelMode, cfg hdp.ChannelConfig) (dataLinkID uint32, err error)

	// CreateDataChannelResponse answers a CreateDataLinkIndication. cfg is
	// only used when code is success.
	CreateDataChannelResponse(dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode, cfg *hdp.ChannelConfig) error

	// DeleteDataChannel deletes an open data channel.
	DeleteDataChannel(mclID, dataLinkID uint32) error

	// AbortDataChannelRequest aborts a data channel still being created.
	AbortDataChannelRequest(mclID uint32) error

	// WriteData sends data on a connected data channel. Either every byte
	// is accepted or an error is returned.
	WriteData(dataLinkID uint32, data []byte) error

	// SyncCapabilitiesResponse answers a SyncCapabilitiesIndication.
	SyncCapabilitiesResponse(mclID uint32, accessResolution uint8, syncLeadTime, nativeResolution, nativeAccuracy uint16, code hdp.ResponseCode) error
}
