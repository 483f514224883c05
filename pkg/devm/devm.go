package devm

import (
	"context"
	"errors"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// ConnectFlags select the link security requested by ConnectWithRemoteDevice.
type ConnectFlags uint32

const (
	ConnectAuthenticate ConnectFlags = 1 << iota
	ConnectEncrypt

	// ConnectSecure is what the health device manager asks for.
	ConnectSecure = ConnectAuthenticate | ConnectEncrypt
)

// Errors returned by device managers.
var (
	// ErrAlreadyConnected means the link is already up with the requested
	// security. Callers treat it as success.
	ErrAlreadyConnected = errors.New("devm: device already connected")

	ErrNotPowered       = errors.New("devm: adapter not powered")
	ErrUnknownDevice    = errors.New("devm: unknown device")
	ErrNoServiceRecords = errors.New("devm: no cached service records")
)

// EventHandler receives device manager events.
type EventHandler func(Event)

// DeviceManager is the device manager consumed by the health device manager.
type DeviceManager interface {
	// SetEventHandler installs the event sink. Events may be delivered on
	// any goroutine.
	SetEventHandler(h EventHandler)

	// ConnectWithRemoteDevice starts bringing up a link to addr. The
	// outcome is reported with a ConnectionStatus event. ErrAlreadyConnected
	// is returned when no further work is needed.
	ConnectWithRemoteDevice(addr hdp.Address, flags ConnectFlags) error

	// DisconnectRemoteDevice drops the link to addr, cancelling a connect
	// still in progress.
	DisconnectRemoteDevice(addr hdp.Address) error

	// QueryRemoteDeviceServices returns the raw SDP service search attribute
	// response cached for addr.
	QueryRemoteDeviceServices(ctx context.Context, addr hdp.Address) ([]byte, error)

	// UpdateLocalServiceClasses replaces the 16-bit service class UUIDs the
	// local device advertises in its extended inquiry response.
	UpdateLocalServiceClasses(uuids []uint16) error
}
