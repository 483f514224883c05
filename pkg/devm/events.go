package devm

import "github.com/hdpm-project/hdpm-go/pkg/hdp"

// Event is a device manager event.
type Event interface {
	isDeviceEvent()
}

// PoweredOn reports that the adapter is up.
type PoweredOn struct{}

// PoweringOff reports that the adapter is about to go down.
type PoweringOff struct{}

// PoweredOff reports that the adapter is down.
type PoweredOff struct{}

// ConnectionStatus completes ConnectWithRemoteDevice.
type ConnectionStatus struct {
	Address hdp.Address
	Status  hdp.ConnectionStatus
}

// AuthenticationStatus reports the outcome of link authentication.
type AuthenticationStatus struct {
	Address hdp.Address
	Success bool
}

// EncryptionStatus reports the outcome of link encryption.
type EncryptionStatus struct {
	Address hdp.Address
	Success bool
}

// DeviceDisconnected reports the loss of the ACL link to a device.
type DeviceDisconnected struct {
	Address hdp.Address
}

func (PoweredOn) isDeviceEvent()            {}
func (PoweringOff) isDeviceEvent()          {}
func (PoweredOff) isDeviceEvent()           {}
func (ConnectionStatus) isDeviceEvent()     {}
func (AuthenticationStatus) isDeviceEvent() {}
func (EncryptionStatus) isDeviceEvent()     {}
func (DeviceDisconnected) isDeviceEvent()   {}
