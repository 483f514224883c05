package hdp

import (
	"errors"
	"fmt"
)

// Manager errors. Each has a stable numeric code (see CodeOf) so a single
// status value can cross the IPC boundary.
var (
	ErrInvalidParameter                  = errors.New("invalid parameter")
	ErrNotInitialized                    = errors.New("health device manager not initialized")
	ErrUnableToAllocate                  = errors.New("unable to allocate")
	ErrUnableToAddEntry                  = errors.New("unable to add entry")
	ErrInvalidConnectionState            = errors.New("invalid connection state")
	ErrInstanceAlreadyConnected          = errors.New("instance already connected")
	ErrConnectionInProgress              = errors.New("connection in progress")
	ErrRemoteInstanceInUse               = errors.New("remote instance in use")
	ErrNotConnected                      = errors.New("not connected")
	ErrInvalidDataLinkID                 = errors.New("invalid data link id")
	ErrEndpointNotRegistered             = errors.New("endpoint not registered")
	ErrEndpointNotConnected              = errors.New("endpoint not connected")
	ErrEndpointAlreadyRegistered         = errors.New("endpoint already registered")
	ErrInvalidEndpointID                 = errors.New("invalid endpoint id")
	ErrInvalidChannelMode                = errors.New("invalid channel mode")
	ErrDataLinkBusy                      = errors.New("data link busy")
	ErrUnableToConnectToEndpoint         = errors.New("unable to connect to endpoint")
	ErrNotOwner                          = errors.New("not owned by caller")
	ErrServiceDataInvalid                = errors.New("service data invalid")
	ErrServiceRecordAttributeDataInvalid = errors.New("service record attribute data invalid")
	ErrRecordNotFound                    = errors.New("service record not found")
	ErrEndpointNotFound                  = errors.New("endpoint not found")
	ErrUnableToRegisterSDP               = errors.New("unable to register SDP record")
	ErrUnsupportedOperation              = errors.New("unsupported operation")
	ErrDevicePoweredOff                  = errors.New("device powered off")
	ErrUnknownFailure                    = errors.New("unknown failure")
)

var errorCodes = []struct {
	err  error
	code int32
}{
	{ErrInvalidParameter, -1},
	{ErrNotInitialized, -2},
	{ErrUnableToAllocate, -3},
	{ErrUnableToAddEntry, -4},
	{ErrInvalidConnectionState, -5},
	{ErrInstanceAlreadyConnected, -6},
	{ErrConnectionInProgress, -7},
	{ErrRemoteInstanceInUse, -8},
	{ErrNotConnected, -9},
	{ErrInvalidDataLinkID, -10},
	{ErrEndpointNotRegistered, -11},
	{ErrEndpointNotConnected, -12},
	{ErrEndpointAlreadyRegistered, -13},
	{ErrInvalidEndpointID, -14},
	{ErrInvalidChannelMode, -15},
	{ErrDataLinkBusy, -16},
	{ErrUnableToConnectToEndpoint, -17},
	{ErrNotOwner, -18},
	{ErrServiceDataInvalid, -19},
	{ErrServiceRecordAttributeDataInvalid, -20},
	{ErrRecordNotFound, -21},
	{ErrEndpointNotFound, -22},
	{ErrUnableToRegisterSDP, -23},
	{ErrUnsupportedOperation, -24},
	{ErrDevicePoweredOff, -25},
	{ErrUnknownFailure, -26},
}

// CodeOf returns the status code for err: 0 for nil, the code of the first
// matching sentinel, or the ErrUnknownFailure code.
func CodeOf(err error) int32 {
	if err == nil {
		return 0
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return e.code
		}
	}
	return CodeOf(ErrUnknownFailure)
}

// ErrorForCode returns the sentinel for code, nil for 0 and a wrapped
// ErrUnknownFailure for codes it does not know.
func ErrorForCode(code int32) error {
	if code == 0 {
		return nil
	}
	for _, e := range errorCodes {
		if e.code == code {
			return e.err
		}
	}
	return fmt.Errorf("%w: status %d", ErrUnknownFailure, code)
}

// ParseError reports a service record that does not have the structure HDP
// requires. It unwraps to ErrServiceRecordAttributeDataInvalid, or to
// ErrServiceDataInvalid when Attribute is zero and the problem is with the
// tree as a whole.
type ParseError struct {
	Attribute uint16
	Reason    string
}

func (e *ParseError) Error() string {
	if e.Attribute == 0 {
		return "hdp: service data invalid: " + e.Reason
	}
	return fmt.Sprintf("hdp: attribute 0x%04X: %s", e.Attribute, e.Reason)
}

func (e *ParseError) Unwrap() error {
	if e.Attribute == 0 {
		return ErrServiceDataInvalid
	}
	return ErrServiceRecordAttributeDataInvalid
}
