package sdp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// MaxDepth bounds element nesting accepted by the decoder.
const MaxDepth = 16

// Decoding errors.
var (
	// ErrTruncated indicates the stream ended inside an element.
	ErrTruncated = errors.New("sdp: data element truncated")

	// ErrInvalidDescriptor indicates an unknown type or an illegal size index.
	ErrInvalidDescriptor = errors.New("sdp: invalid data element descriptor")

	// ErrTooDeep indicates nesting beyond MaxDepth.
	ErrTooDeep = errors.New("sdp: data element nesting too deep")

	// ErrInvalidAttributeList indicates a record that is not a sequence of
	// attribute ID / value pairs.
	ErrInvalidAttributeList = errors.New("sdp: invalid attribute list")
)

// Decode parses a raw service discovery stream: a data element sequence of
// attribute lists, as carried by a Service Search Attribute response.
func Decode(raw []byte) (*ServiceResponse, error) {
	top, n, err := decodeElement(raw, 0)
	if err != nil {
		return nil, err
	}
	if n != len(raw) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidAttributeList, len(raw)-n)
	}
	if !top.IsSequence() {
		return nil, fmt.Errorf("%w: top level is %s", ErrInvalidAttributeList, top.Type)
	}

	resp := &ServiceResponse{Records: make([]Record, 0, top.Len())}
	for i, list := range top.Elements {
		rec, err := recordFromList(list)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		resp.Records = append(resp.Records, rec)
	}
	return resp, nil
}

// DecodeElement parses a single data element and returns it with the number
// of bytes consumed.
func DecodeElement(data []byte) (Element, int, error) {
	return decodeElement(data, 0)
}

func recordFromList(list Element) (Record, error) {
	if !list.IsSequence() || list.Len()%2 != 0 {
		return Record{}, ErrInvalidAttributeList
	}
	rec := Record{Attributes: make([]Attribute, 0, list.Len()/2)}
	for i := 0; i < list.Len(); i += 2 {
		id := list.Elements[i]
		if !id.IsUint(2) {
			return Record{}, fmt.Errorf("%w: attribute id %s", ErrInvalidAttributeList, id)
		}
		rec.Attributes = append(rec.Attributes, Attribute{
			ID:    uint16(id.Uint),
			Value: list.Elements[i+1],
		})
	}
	return rec, nil
}

func decodeElement(data []byte, depth int) (Element, int, error) {
	if depth > MaxDepth {
		return Element{}, 0, ErrTooDeep
	}
	if len(data) < 1 {
		return Element{}, 0, ErrTruncated
	}

	typ := ElementType(data[0] >> 3)
	sizeIndex := data[0] & 0x07
	pos := 1

	// Size indexes 0-4 are fixed widths; 5-7 carry an explicit length.
	var length int
	switch sizeIndex {
	case 0, 1, 2, 3, 4:
		length = 1 << sizeIndex
		if typ == TypeNil {
			length = 0
		}
	case 5:
		if len(data) < pos+1 {
			return Element{}, 0, ErrTruncated
		}
		length = int(data[pos])
		pos++
	case 6:
		if len(data) < pos+2 {
			return Element{}, 0, ErrTruncated
		}
		length = int(binary.BigEndian.Uint16(data[pos:]))
		pos += 2
	case 7:
		if len(data) < pos+4 {
			return Element{}, 0, ErrTruncated
		}
		length = int(binary.BigEndian.Uint32(data[pos:]))
		pos += 4
	}

	if err := checkDescriptor(typ, sizeIndex); err != nil {
		return Element{}, 0, err
	}
	if length < 0 || len(data)-pos < length {
		return Element{}, 0, ErrTruncated
	}
	body := data[pos : pos+length]
	end := pos + length

	e := Element{Type: typ, Size: length}
	switch typ {
	case TypeNil:
	case TypeUint:
		if length == 16 {
			e.Bytes = append([]byte(nil), body...)
		} else {
			e.Uint = readUint(body)
		}
	case TypeInt:
		if length == 16 {
			e.Bytes = append([]byte(nil), body...)
		} else {
			e.Int = signExtend(readUint(body), length)
		}
	case TypeUUID:
		switch length {
		case 2, 4:
			e.Uint = readUint(body)
			e.UUID = FromShort(uint32(e.Uint))
		case 16:
			u, err := uuid.FromBytes(body)
			if err != nil {
				return Element{}, 0, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
			}
			e.UUID = u
		}
	case TypeText, TypeURL:
		e.Size = 0
		e.Bytes = append([]byte(nil), body...)
	case TypeBool:
		e.Bool = body[0] != 0
	case TypeSequence, TypeAlternative:
		e.Size = 0
		for off := 0; off < len(body); {
			member, n, err := decodeElement(body[off:], depth+1)
			if err != nil {
				return Element{}, 0, err
			}
			e.Elements = append(e.Elements, member)
			off += n
		}
	}
	return e, end, nil
}

func checkDescriptor(typ ElementType, sizeIndex uint8) error {
	ok := false
	switch typ {
	case TypeNil:
		ok = sizeIndex == 0
	case TypeUint, TypeInt:
		ok = sizeIndex <= 4
	case TypeUUID:
		ok = sizeIndex == 1 || sizeIndex == 2 || sizeIndex == 4
	case TypeBool:
		ok = sizeIndex == 0
	case TypeText, TypeSequence, TypeAlternative, TypeURL:
		ok = sizeIndex >= 5
	}
	if !ok {
		return fmt.Errorf("%w: type %d size index %d", ErrInvalidDescriptor, typ, sizeIndex)
	}
	return nil
}

func readUint(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func signExtend(v uint64, size int) int64 {
	shift := uint(64 - size*8)
	return int64(v<<shift) >> shift
}
