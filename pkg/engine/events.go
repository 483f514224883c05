package engine

import "github.com/hdpm-project/hdpm-go/pkg/hdp"

// Event is an indication or confirmation from the engine. The concrete types
// below are the complete set; handlers switch on them.
type Event interface {
	isEngineEvent()
}

// ConnectRequestIndication reports an incoming control channel request while
// the instance is in manual accept mode.
type ConnectRequestIndication struct {
	InstanceID uint32
	Address    hdp.Address
}

// ControlConnectIndication reports a control channel opened by a remote
// device.
type ControlConnectIndication struct {
	InstanceID uint32
	MCLID      uint32
	Address    hdp.Address
}

// ControlConnectConfirmation completes ConnectRemoteInstance.
type ControlConnectConfirmation struct {
	InstanceID uint32
	MCLID      uint32
	Status     hdp.ConnectionStatus
}

// ControlDisconnectIndication reports a closed control channel.
type ControlDisconnectIndication struct {
	MCLID  uint32
	Reason uint8
}

// CreateDataLinkIndication reports a remote request to open a data channel.
type CreateDataLinkIndication struct {
	MCLID       uint32
	DataLinkID  uint32
	MDEPID      uint8
	ChannelMode hdp.ChannelMode
}

// CreateDataLinkConfirmation completes CreateDataChannelRequest.
type CreateDataLinkConfirmation struct {
	MCLID        uint32
	DataLinkID   uint32
	ResponseCode hdp.ResponseCode
	ChannelMode  hdp.ChannelMode
}

// AbortDataLinkIndication reports a remote abort of a pending data channel.
type AbortDataLinkIndication struct {
	MCLID      uint32
	DataLinkID uint32
}

// AbortDataLinkConfirmation completes AbortDataChannelRequest.
type AbortDataLinkConfirmation struct {
	MCLID        uint32
	DataLinkID   uint32
	ResponseCode hdp.ResponseCode
}

// DeleteDataLinkIndication reports a remote delete of a data channel.
type DeleteDataLinkIndication struct {
	MCLID      uint32
	DataLinkID uint32
}

// DeleteDataLinkConfirmation completes DeleteDataChannel.
type DeleteDataLinkConfirmation struct {
	MCLID        uint32
	DataLinkID   uint32
	ResponseCode hdp.ResponseCode
}

// DataLinkConnectIndication reports that an accepted data channel is open.
type DataLinkConnectIndication struct {
	MCLID      uint32
	DataLinkID uint32
}

// DataLinkConnectConfirmation reports the L2CAP outcome of a data channel
// this side requested.
type DataLinkConnectConfirmation struct {
	MCLID      uint32
	DataLinkID uint32
	Status     hdp.ConnectionStatus
}

// DataLinkDisconnectIndication reports a data channel whose L2CAP link
// closed.
type DataLinkDisconnectIndication struct {
	MCLID      uint32
	DataLinkID uint32
	Reason     uint8
}

// DataLinkDataIndication carries received data.
type DataLinkDataIndication struct {
	DataLinkID uint32
	Data       []byte
}

// SyncCapabilitiesIndication asks for the local clock synchronization
// capabilities.
type SyncCapabilitiesIndication struct {
	MCLID            uint32
	RequiredAccuracy uint16
}

// SyncCapabilitiesConfirmation, SyncSetIndication, SyncSetConfirmation and
// SyncInfoIndication belong to clock synchronization, which the manager does
// not take part in beyond answering capability requests.
type SyncCapabilitiesConfirmation struct {
	MCLID        uint32
	ResponseCode hdp.ResponseCode
}

type SyncSetIndication struct {
	MCLID uint32
}

type SyncSetConfirmation struct {
	MCLID        uint32
	ResponseCode hdp.ResponseCode
}

type SyncInfoIndication struct {
	MCLID uint32
}

func (ConnectRequestIndication) isEngineEvent()     {}
func (ControlConnectIndication) isEngineEvent()     {}
func (ControlConnectConfirmation) isEngineEvent()   {}
func (ControlDisconnectIndication) isEngineEvent()  {}
func (CreateDataLinkIndication) isEngineEvent()     {}
func (CreateDataLinkConfirmation) isEngineEvent()   {}
func (AbortDataLinkIndication) isEngineEvent()      {}
func (AbortDataLinkConfirmation) isEngineEvent()    {}
func (DeleteDataLinkIndication) isEngineEvent()     {}
func (DeleteDataLinkConfirmation) isEngineEvent()   {}
func (DataLinkConnectIndication) isEngineEvent()    {}
func (DataLinkConnectConfirmation) isEngineEvent()  {}
func (DataLinkDisconnectIndication) isEngineEvent() {}
func (DataLinkDataIndication) isEngineEvent()       {}
func (SyncCapabilitiesIndication) isEngineEvent()   {}
func (SyncCapabilitiesConfirmation) isEngineEvent() {}
func (SyncSetIndication) isEngineEvent()            {}
func (SyncSetConfirmation) isEngineEvent()          {}
func (SyncInfoIndication) isEngineEvent()           {}
