package ipc

import (
	"fmt"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// NewRequest validates and encodes req. messageID must be non-zero and must
// not have the response flag set.
func NewRequest(addressID, messageID uint32, req Request) (*Message, error) {
	if messageID == EventMessageID || messageID&ResponseFlag != 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMessageID, messageID)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	payload, err := Marshal(req)
	if err != nil {
		return nil, err
	}
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), MaxPayloadSize)
	}
	return &Message{
		Header: Header{
			AddressID: addressID,
			MessageID: messageID,
			Group:     Group,
			Function:  req.Function(),
		},
		Payload: payload,
	}, nil
}

// DecodeRequest decodes and validates the body of a request message.
func DecodeRequest(msg *Message) (Request, error) {
	if msg.IsResponse() || msg.IsEvent() {
		return nil, fmt.Errorf("%w: %s is not a request", ErrUnexpectedKind, msg.Function)
	}
	req := newRequest(msg.Function)
	if req == nil {
		return nil, fmt.Errorf("%w: 0x%X", ErrUnknownFunction, uint32(msg.Function))
	}
	if err := Unmarshal(msg.Payload, req); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", hdp.ErrInvalidParameter, msg.Function, err)
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", msg.Function, err)
	}
	return req, nil
}

// NewResponse encodes body as the response to the request with header req.
func NewResponse(req Header, body any) (*Message, error) {
	payload, err := Marshal(body)
	if err != nil {
		return nil, err
	}
	return &Message{
		Header: Header{
			AddressID: req.AddressID,
			MessageID: req.MessageID | ResponseFlag,
			Group:     Group,
			Function:  req.Function,
		},
		Payload: payload,
	}, nil
}

// DecodeResponse decodes the body of a response message into v.
func DecodeResponse(msg *Message, v any) error {
	if !msg.IsResponse() {
		return fmt.Errorf("%w: %s is not a response", ErrUnexpectedKind, msg.Function)
	}
	if err := Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", msg.Function, err)
	}
	return nil
}

// NewEvent encodes ev for the client at addressID.
func NewEvent(addressID uint32, ev Event) (*Message, error) {
	payload, err := Marshal(ev)
	if err != nil {
		return nil, err
	}
	return &Message{
		Header: Header{
			AddressID: addressID,
			MessageID: EventMessageID,
			Group:     Group,
			Function:  ev.Function(),
		},
		Payload: payload,
	}, nil
}

// DecodeEvent decodes the body of an event message.
func DecodeEvent(msg *Message) (Event, error) {
	if !msg.IsEvent() {
		return nil, fmt.Errorf("%w: %s is not an event", ErrUnexpectedKind, msg.Function)
	}
	ev := newEvent(msg.Function)
	if ev == nil {
		return nil, fmt.Errorf("%w: 0x%X", ErrUnknownFunction, uint32(msg.Function))
	}
	if err := Unmarshal(msg.Payload, ev); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", msg.Function, err)
	}
	if d, ok := ev.(*DataReceivedEvent); ok {
		if err := checkLength("data", d.DataLength, d.Data); err != nil {
			return nil, err
		}
	}
	return ev, nil
}
