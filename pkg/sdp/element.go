package sdp

import (
	"fmt"

	"github.com/google/uuid"
)

// ElementType is the SDP data element type descriptor.
type ElementType uint8

const (
	TypeNil         ElementType = 0
	TypeUint        ElementType = 1
	TypeInt         ElementType = 2
	TypeUUID        ElementType = 3
	TypeText        ElementType = 4
	TypeBool        ElementType = 5
	TypeSequence    ElementType = 6
	TypeAlternative ElementType = 7
	TypeURL         ElementType = 8
)

// String returns the element type name.
func (t ElementType) String() string {
	switch t {
	case TypeNil:
		return "NIL"
	case TypeUint:
		return "UINT"
	case TypeInt:
		return "INT"
	case TypeUUID:
		return "UUID"
	case TypeText:
		return "TEXT"
	case TypeBool:
		return "BOOL"
	case TypeSequence:
		return "SEQUENCE"
	case TypeAlternative:
		return "ALTERNATIVE"
	case TypeURL:
		return "URL"
	default:
		return "UNKNOWN"
	}
}

// Element is one node of an SDP attribute value.
//
// Size is the encoded width in bytes for integer and UUID elements
// (1, 2, 4, 8 or 16 for integers; 2, 4 or 16 for UUIDs). It lets parsers
// insist on the exact width a profile requires.
type Element struct {
	Type ElementType
	Size int

	// Uint holds TypeUint values and 16/32-bit UUID values.
	Uint uint64

	// Int holds TypeInt values.
	Int int64

	// UUID holds TypeUUID values normalized to 128 bits.
	UUID uuid.UUID

	// Bytes holds TypeText and TypeURL contents, and the raw bytes of
	// 128-bit integers.
	Bytes []byte

	// Bool holds TypeBool values.
	Bool bool

	// Elements holds TypeSequence and TypeAlternative members.
	Elements []Element
}

// IsUint reports whether e is an unsigned integer of exactly size bytes.
func (e Element) IsUint(size int) bool {
	return e.Type == TypeUint && e.Size == size
}

// IsSequence reports whether e is a data element sequence.
func (e Element) IsSequence() bool {
	return e.Type == TypeSequence
}

// Len returns the number of members of a sequence or alternative.
func (e Element) Len() int {
	return len(e.Elements)
}

// Text returns the contents of a text element.
func (e Element) Text() (string, bool) {
	if e.Type != TypeText {
		return "", false
	}
	return string(e.Bytes), true
}

// String renders the element for debugging.
func (e Element) String() string {
	switch e.Type {
	case TypeNil:
		return "nil"
	case TypeUint:
		return fmt.Sprintf("uint%d(0x%X)", e.Size*8, e.Uint)
	case TypeInt:
		return fmt.Sprintf("int%d(%d)", e.Size*8, e.Int)
	case TypeUUID:
		if short, ok := ShortUUID(e.UUID); ok {
			return fmt.Sprintf("uuid(0x%04X)", short)
		}
		return "uuid(" + e.UUID.String() + ")"
	case TypeText:
		return fmt.Sprintf("%q", e.Bytes)
	case TypeURL:
		return "url(" + string(e.Bytes) + ")"
	case TypeBool:
		return fmt.Sprintf("%t", e.Bool)
	case TypeSequence, TypeAlternative:
		s := "["
		if e.Type == TypeAlternative {
			s = "alt["
		}
		for i, m := range e.Elements {
			if i > 0 {
				s += " "
			}
			s += m.String()
		}
		return s + "]"
	default:
		return "?"
	}
}

// Uint8 returns a one-byte unsigned integer element.
func Uint8(v uint8) Element { return Element{Type: TypeUint, Size: 1, Uint: uint64(v)} }

// Uint16 returns a two-byte unsigned integer element.
func Uint16(v uint16) Element { return Element{Type: TypeUint, Size: 2, Uint: uint64(v)} }

// Uint32 returns a four-byte unsigned integer element.
func Uint32(v uint32) Element { return Element{Type: TypeUint, Size: 4, Uint: uint64(v)} }

// UUID16 returns a 16-bit UUID element.
func UUID16(v uint16) Element {
	return Element{Type: TypeUUID, Size: 2, Uint: uint64(v), UUID: FromShort(uint32(v))}
}

// UUID128 returns a 128-bit UUID element.
func UUID128(u uuid.UUID) Element {
	return Element{Type: TypeUUID, Size: 16, UUID: u}
}

// TextString returns a text element.
func TextString(s string) Element { return Element{Type: TypeText, Bytes: []byte(s)} }

// Seq returns a data element sequence.
func Seq(members ...Element) Element {
	return Element{Type: TypeSequence, Elements: members}
}

// Attribute is one attribute of a service record.
type Attribute struct {
	ID    uint16
	Value Element
}

// Record is one service record: its attributes in ascending ID order.
type Record struct {
	Attributes []Attribute
}

// Attr returns the value of attribute id.
func (r *Record) Attr(id uint16) (Element, bool) {
	for _, a := range r.Attributes {
		if a.ID == id {
			return a.Value, true
		}
	}
	return Element{}, false
}

// ServiceResponse is the parsed form of a remote device's cached service
// records.
type ServiceResponse struct {
	Records []Record
}
