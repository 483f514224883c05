package stack

import (
	"fmt"

	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// errorMap translates engine codes for one operation. Codes not listed map
// to fallback.
type errorMap struct {
	codes    map[engine.ErrorCode]error
	fallback error
}

var (
	registerEndpointErrors = errorMap{
		codes: map[engine.ErrorCode]error{
			engine.CodeInvalidParameter:      hdp.ErrInvalidParameter,
			engine.CodeInvalidInstanceID:     hdp.ErrInvalidParameter,
			engine.CodeInsufficientResources: hdp.ErrUnableToAddEntry,
			engine.CodeMDEPAlreadyRegistered: hdp.ErrEndpointAlreadyRegistered,
		},
		fallback: hdp.ErrNotInitialized,
	}

	unregisterEndpointErrors = errorMap{
		codes: map[engine.ErrorCode]error{
			engine.CodeInvalidParameter:  hdp.ErrInvalidParameter,
			engine.CodeInvalidMDEPID:     hdp.ErrInvalidParameter,
			engine.CodeInvalidInstanceID: hdp.ErrInvalidParameter,
			engine.CodeMDEPNotFound:      hdp.ErrEndpointNotRegistered,
		},
		fallback: hdp.ErrNotInitialized,
	}

	connectInstanceErrors = errorMap{
		codes: map[engine.ErrorCode]error{
			engine.CodeInvalidParameter:         hdp.ErrInvalidParameter,
			engine.CodeInvalidInstanceID:        hdp.ErrInvalidParameter,
			engine.CodeInsufficientResources:    hdp.ErrUnableToAddEntry,
			engine.CodeInstanceConnectionExists: hdp.ErrInstanceAlreadyConnected,
		},
		fallback: hdp.ErrNotInitialized,
	}

	disconnectInstanceErrors = errorMap{
		codes: map[engine.ErrorCode]error{
			engine.CodeInvalidParameter:    hdp.ErrInvalidParameter,
			engine.CodeInvalidMCLID:        hdp.ErrNotConnected,
			engine.CodeChannelNotConnected: hdp.ErrNotConnected,
		},
		fallback: hdp.ErrNotInitialized,
	}

	dataChannelErrors = errorMap{
		codes: map[engine.ErrorCode]error{
			engine.CodeInvalidParameter:      hdp.ErrInvalidParameter,
			engine.CodeInvalidMDEPID:         hdp.ErrInvalidParameter,
			engine.CodeInvalidConfig:         hdp.ErrInvalidParameter,
			engine.CodeInvalidChannelMode:    hdp.ErrInvalidChannelMode,
			engine.CodeInsufficientResources: hdp.ErrUnableToAddEntry,
			engine.CodeRequestOutstanding:    hdp.ErrUnableToConnectToEndpoint,
			engine.CodeActionNotAllowed:      hdp.ErrNotConnected,
			engine.CodeInvalidMCLID:          hdp.ErrNotConnected,
			engine.CodeInvalidDataLinkID:     hdp.ErrInvalidDataLinkID,
		},
		fallback: hdp.ErrNotInitialized,
	}

	writeErrors = errorMap{
		codes: map[engine.ErrorCode]error{
			engine.CodeNotInitialized:    hdp.ErrNotInitialized,
			engine.CodeInvalidStackID:    hdp.ErrNotInitialized,
			engine.CodeInvalidParameter:  hdp.ErrInvalidParameter,
			engine.CodeInvalidDataLinkID: hdp.ErrInvalidDataLinkID,
		},
		fallback: hdp.ErrEndpointNotConnected,
	}

	syncErrors = errorMap{
		codes: map[engine.ErrorCode]error{
			engine.CodeNotInitialized:    hdp.ErrNotInitialized,
			engine.CodeInvalidStackID:    hdp.ErrNotInitialized,
			engine.CodeInvalidParameter:  hdp.ErrInvalidParameter,
			engine.CodeInvalidDataLinkID: hdp.ErrInvalidDataLinkID,
			engine.CodeInvalidMCLID:      hdp.ErrNotConnected,
		},
		fallback: hdp.ErrEndpointNotConnected,
	}
)

// wrap returns err translated by m. The engine error stays in the chain.
func (m errorMap) wrap(err error) error {
	if err == nil {
		return nil
	}
	target, ok := m.codes[engine.CodeOf(err)]
	if !ok {
		target = m.fallback
	}
	return fmt.Errorf("%w: %w", target, err)
}
