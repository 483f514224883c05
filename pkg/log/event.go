package log

import "time"

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ClientID identifies the IPC client or local client involved, if any.
	ClientID string `cbor:"2,keyasint,omitempty"`

	// Direction indicates message flow relative to the manager.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// DeviceAddress is the remote Bluetooth address (XX:XX:XX:XX:XX:XX).
	DeviceAddress string `cbor:"6,keyasint,omitempty"`

	// Instance is the packed control/data PSM pair of the remote instance.
	Instance uint32 `cbor:"7,keyasint,omitempty"`

	// DataLinkID is the data channel concerned, if any.
	DataLinkID uint32 `cbor:"8,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Frame       *FrameEvent       `cbor:"10,keyasint,omitempty"` // IPC framing
	Message     *MessageEvent     `cbor:"11,keyasint,omitempty"` // Decoded IPC message
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Entry lifecycle
	Indication  *IndicationEvent  `cbor:"13,keyasint,omitempty"` // Engine/device events
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of message flow.
type Direction uint8

const (
	// DirectionIn indicates an incoming message or event.
	DirectionIn Direction = 0
	// DirectionOut indicates an outgoing message or request.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which component captured the event.
type Layer uint8

const (
	// LayerIPC is the client message layer.
	LayerIPC Layer = 0
	// LayerManager is the health device manager core.
	LayerManager Layer = 1
	// LayerEngine is the protocol engine boundary.
	LayerEngine Layer = 2
	// LayerDevice is the device manager boundary.
	LayerDevice Layer = 3
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerIPC:
		return "IPC"
	case LayerManager:
		return "MANAGER"
	case LayerEngine:
		return "ENGINE"
	case LayerDevice:
		return "DEVICE"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryMessage indicates an IPC message (request/response/event).
	CategoryMessage Category = 0
	// CategoryIndication indicates an engine or device manager event.
	CategoryIndication Category = 1
	// CategoryState indicates a state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryMessage:
		return "MESSAGE"
	case CategoryIndication:
		return "INDICATION"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures raw frame data at the IPC transport.
type FrameEvent struct {
	// Size is the frame size in bytes, header included.
	Size int `cbor:"1,keyasint"`

	// Data is the raw frame bytes (may be truncated for large frames).
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates if Data was truncated.
	Truncated bool `cbor:"3,keyasint,omitempty"`
}

// MessageEvent captures a decoded IPC message.
type MessageEvent struct {
	// Type distinguishes request/response/event.
	Type MessageType `cbor:"1,keyasint"`

	// MessageID correlates request/response pairs (0 for events).
	MessageID uint32 `cbor:"2,keyasint"`

	// Function is the IPC function or event code.
	Function uint32 `cbor:"3,keyasint"`

	// For responses: the status code.
	Status *int32 `cbor:"4,keyasint,omitempty"`

	// Decoded payload (CBOR-compatible representation).
	Payload any `cbor:"5,keyasint,omitempty"`

	// ProcessingTime is the duration from request receipt to response send (response only).
	// Stored as nanoseconds.
	ProcessingTime *time.Duration `cbor:"6,keyasint,omitempty"`
}

// MessageType distinguishes request/response/event.
type MessageType uint8

const (
	// MessageTypeRequest indicates a request message.
	MessageTypeRequest MessageType = 0
	// MessageTypeResponse indicates a response message.
	MessageTypeResponse MessageType = 1
	// MessageTypeEvent indicates an asynchronous event message.
	MessageTypeEvent MessageType = 2
)

// String returns the message type name.
func (m MessageType) String() string {
	switch m {
	case MessageTypeRequest:
		return "REQUEST"
	case MessageTypeResponse:
		return "RESPONSE"
	case MessageTypeEvent:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures entry lifecycle changes.
type StateChangeEvent struct {
	// Entity being changed.
	Entity StateEntity `cbor:"1,keyasint"`

	// OldState is the previous state (may be empty).
	OldState string `cbor:"2,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"3,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"4,keyasint,omitempty"`
}

// StateEntity indicates what entity changed state.
type StateEntity uint8

const (
	// StateEntityConnection indicates a control channel entry.
	StateEntityConnection StateEntity = 0
	// StateEntityDataChannel indicates a data channel entry.
	StateEntityDataChannel StateEntity = 1
	// StateEntityEndpoint indicates an endpoint registration.
	StateEntityEndpoint StateEntity = 2
	// StateEntityPower indicates the adapter power state.
	StateEntityPower StateEntity = 3
	// StateEntityClient indicates an IPC client connection.
	StateEntityClient StateEntity = 4
)

// String returns the state entity name.
func (s StateEntity) String() string {
	switch s {
	case StateEntityConnection:
		return "CONNECTION"
	case StateEntityDataChannel:
		return "DATA_CHANNEL"
	case StateEntityEndpoint:
		return "ENDPOINT"
	case StateEntityPower:
		return "POWER"
	case StateEntityClient:
		return "CLIENT"
	default:
		return "UNKNOWN"
	}
}

// IndicationEvent captures an event delivered by the protocol engine or the
// device manager.
type IndicationEvent struct {
	// Name is the event type name.
	Name string `cbor:"1,keyasint"`

	// Detail is a human-readable rendering of the event fields.
	Detail string `cbor:"2,keyasint,omitempty"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Code is the error code (if applicable).
	Code *int `cbor:"3,keyasint,omitempty"`

	// Context describes what operation was being performed.
	Context string `cbor:"4,keyasint,omitempty"`
}
