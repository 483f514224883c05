package ipc

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the size of the fixed message header in bytes.
	HeaderSize = 20

	// Group identifies the health device manager message group.
	Group uint32 = 0x1008

	// MaxPayloadSize bounds the CBOR body of a single message (64 KB).
	MaxPayloadSize = 65536

	// MaxWriteDataSize is the largest APDU a WriteData body can carry
	// within MaxPayloadSize. The CBOR framing of the other fields and the
	// byte string header take at most 19 bytes.
	MaxWriteDataSize = MaxPayloadSize - 19

	// ResponseFlag is set in the message id of every response.
	ResponseFlag uint32 = 1 << 31

	// EventMessageID is the message id carried by events.
	EventMessageID uint32 = 0
)

// Header errors.
var (
	ErrShortHeader      = errors.New("message shorter than header")
	ErrLengthMismatch   = errors.New("payload length does not match message size")
	ErrPayloadTooLarge  = errors.New("payload too large")
	ErrUnknownGroup     = errors.New("unknown message group")
	ErrUnknownFunction  = errors.New("unknown message function")
	ErrUnexpectedKind   = errors.New("unexpected message kind")
	ErrInvalidMessageID = errors.New("invalid message id")
)

// Header is the fixed prefix of every message.
type Header struct {
	AddressID     uint32
	MessageID     uint32
	Group         uint32
	Function      Function
	PayloadLength uint32
}

// IsResponse reports whether the header belongs to a response.
func (h Header) IsResponse() bool { return h.MessageID&ResponseFlag != 0 }

// IsEvent reports whether the header belongs to an event.
func (h Header) IsEvent() bool { return h.MessageID == EventMessageID }

// RequestID returns the message id with the response flag cleared.
func (h Header) RequestID() uint32 { return h.MessageID &^ ResponseFlag }

// PutHeader writes h into the first HeaderSize bytes of b.
func PutHeader(b []byte, h Header) {
	binary.BigEndian.PutUint32(b[0:4], h.AddressID)
	binary.BigEndian.PutUint32(b[4:8], h.MessageID)
	binary.BigEndian.PutUint32(b[8:12], h.Group)
	binary.BigEndian.PutUint32(b[12:16], uint32(h.Function))
	binary.BigEndian.PutUint32(b[16:20], h.PayloadLength)
}

// ParseHeader decodes and checks the header at the start of b.
func ParseHeader(b []byte) (Header, error) {
	if len(b) < HeaderSize {
		return Header{}, fmt.Errorf("%w: %d bytes", ErrShortHeader, len(b))
	}
	h := Header{
		AddressID:     binary.BigEndian.Uint32(b[0:4]),
		MessageID:     binary.BigEndian.Uint32(b[4:8]),
		Group:         binary.BigEndian.Uint32(b[8:12]),
		Function:      Function(binary.BigEndian.Uint32(b[12:16])),
		PayloadLength: binary.BigEndian.Uint32(b[16:20]),
	}
	if h.Group != Group {
		return Header{}, fmt.Errorf("%w: 0x%X", ErrUnknownGroup, h.Group)
	}
	if h.PayloadLength > MaxPayloadSize {
		return Header{}, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, h.PayloadLength, MaxPayloadSize)
	}
	if !h.Function.Known() {
		return Header{}, fmt.Errorf("%w: 0x%X", ErrUnknownFunction, uint32(h.Function))
	}
	if h.Function.IsEvent() != h.IsEvent() {
		return Header{}, fmt.Errorf("%w: function %s with message id %d", ErrInvalidMessageID, h.Function, h.MessageID)
	}
	return h, nil
}

// Message is a header with its CBOR body.
type Message struct {
	Header
	Payload []byte
}

// MarshalBinary encodes the message with its header. The payload length is
// taken from the payload.
func (m *Message) MarshalBinary() ([]byte, error) {
	if len(m.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(m.Payload), MaxPayloadSize)
	}
	b := make([]byte, HeaderSize+len(m.Payload))
	h := m.Header
	h.Group = Group
	h.PayloadLength = uint32(len(m.Payload))
	PutHeader(b, h)
	copy(b[HeaderSize:], m.Payload)
	return b, nil
}

// ParseMessage decodes a complete message. The payload length in the header
// must equal the number of bytes after it.
func ParseMessage(b []byte) (*Message, error) {
	h, err := ParseHeader(b)
	if err != nil {
		return nil, err
	}
	if uint32(len(b)-HeaderSize) != h.PayloadLength {
		return nil, fmt.Errorf("%w: header says %d, have %d", ErrLengthMismatch, h.PayloadLength, len(b)-HeaderSize)
	}
	payload := make([]byte, h.PayloadLength)
	copy(payload, b[HeaderSize:])
	return &Message{Header: h, Payload: payload}, nil
}
