package engine

import (
	"errors"
	"fmt"
)

// ErrorCode is a protocol engine failure code.
type ErrorCode int

const (
	CodeInvalidParameter         ErrorCode = -1000
	CodeNotInitialized           ErrorCode = -1001
	CodeInvalidStackID           ErrorCode = -1002
	CodeUnspecified              ErrorCode = -1003
	CodeContextExists            ErrorCode = -1004
	CodePSMInUse                 ErrorCode = -1005
	CodeInsufficientResources    ErrorCode = -1006
	CodeInvalidInstanceID        ErrorCode = -1007
	CodeInvalidMCLID             ErrorCode = -1008
	CodeInvalidMDEPID            ErrorCode = -1009
	CodeInvalidDataLinkID        ErrorCode = -1010
	CodeInvalidChannelMode       ErrorCode = -1011
	CodeInvalidConfig            ErrorCode = -1012
	CodeRequestOutstanding       ErrorCode = -1013
	CodeActionNotAllowed         ErrorCode = -1014
	CodeInsufficientPacketLength ErrorCode = -1015
	CodeChannelNotOpen           ErrorCode = -1016
	CodeChannelNotConnected      ErrorCode = -1017
	CodeInstanceConnectionExists ErrorCode = -1018
	CodeMDEPAlreadyRegistered    ErrorCode = -1019
	CodeNoMDEPRegistered         ErrorCode = -1020
	CodeMDEPNotFound             ErrorCode = -1021
	CodeSyncRoleNotSupported     ErrorCode = -1022
)

var codeNames = map[ErrorCode]string{
	CodeInvalidParameter:         "INVALID_PARAMETER",
	CodeNotInitialized:           "NOT_INITIALIZED",
	CodeInvalidStackID:           "INVALID_STACK_ID",
	CodeUnspecified:              "UNSPECIFIED",
	CodeContextExists:            "CONTEXT_EXISTS",
	CodePSMInUse:                 "PSM_IN_USE",
	CodeInsufficientResources:    "INSUFFICIENT_RESOURCES",
	CodeInvalidInstanceID:        "INVALID_INSTANCE_ID",
	CodeInvalidMCLID:             "INVALID_MCL_ID",
	CodeInvalidMDEPID:            "INVALID_MDEP_ID",
	CodeInvalidDataLinkID:        "INVALID_DATA_LINK_ID",
	CodeInvalidChannelMode:       "INVALID_CHANNEL_MODE",
	CodeInvalidConfig:            "INVALID_CONFIG",
	CodeRequestOutstanding:       "REQUEST_OUTSTANDING",
	CodeActionNotAllowed:         "ACTION_NOT_ALLOWED",
	CodeInsufficientPacketLength: "INSUFFICIENT_PACKET_LENGTH",
	CodeChannelNotOpen:           "CHANNEL_NOT_OPEN",
	CodeChannelNotConnected:      "CHANNEL_NOT_CONNECTED",
	CodeInstanceConnectionExists: "INSTANCE_CONNECTION_EXISTS",
	CodeMDEPAlreadyRegistered:    "MDEP_ALREADY_REGISTERED",
	CodeNoMDEPRegistered:         "NO_MDEP_REGISTERED",
	CodeMDEPNotFound:             "MDEP_NOT_FOUND",
	CodeSyncRoleNotSupported:     "SYNC_ROLE_NOT_SUPPORTED",
}

// String returns the code name.
func (c ErrorCode) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ENGINE_ERROR(%d)", int(c))
}

// Error is a failed engine call.
type Error struct {
	Op   string
	Code ErrorCode
}

func (e *Error) Error() string {
	return fmt.Sprintf("engine: %s: %s", e.Op, e.Code)
}

// NewError returns an *Error for op.
func NewError(op string, code ErrorCode) error {
	return &Error{Op: op, Code: code}
}

// CodeOf extracts the engine code from err, or CodeUnspecified when err is
// not an engine error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnspecified
}

// IsCode reports whether err is an engine error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}
