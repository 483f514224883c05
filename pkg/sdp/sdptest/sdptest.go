// Package sdptest builds raw service discovery streams for tests and for the
// simulated device manager.
package sdptest

import (
	"encoding/binary"

	"github.com/hdpm-project/hdpm-go/pkg/sdp"
)

// Stream encodes records as a raw discovery stream accepted by sdp.Decode.
func Stream(records ...[]sdp.Attribute) []byte {
	lists := make([]sdp.Element, 0, len(records))
	for _, attrs := range records {
		list := make([]sdp.Element, 0, 2*len(attrs))
		for _, a := range attrs {
			list = append(list, sdp.Uint16(a.ID), a.Value)
		}
		lists = append(lists, sdp.Seq(list...))
	}
	return Encode(sdp.Seq(lists...))
}

// Encode encodes a single data element.
func Encode(e sdp.Element) []byte {
	switch e.Type {
	case sdp.TypeNil:
		return []byte{0}
	case sdp.TypeUint, sdp.TypeInt:
		v := e.Uint
		if e.Type == sdp.TypeInt {
			v = uint64(e.Int)
		}
		return fixed(e.Type, e.Size, v)
	case sdp.TypeUUID:
		switch e.Size {
		case 2, 4:
			return fixed(e.Type, e.Size, e.Uint)
		default:
			return append([]byte{byte(sdp.TypeUUID)<<3 | 4}, e.UUID[:]...)
		}
	case sdp.TypeBool:
		b := byte(0)
		if e.Bool {
			b = 1
		}
		return []byte{byte(sdp.TypeBool) << 3, b}
	case sdp.TypeText, sdp.TypeURL:
		return variable(e.Type, e.Bytes)
	case sdp.TypeSequence, sdp.TypeAlternative:
		var body []byte
		for _, m := range e.Elements {
			body = append(body, Encode(m)...)
		}
		return variable(e.Type, body)
	}
	return nil
}

func fixed(t sdp.ElementType, size int, v uint64) []byte {
	idx := map[int]byte{1: 0, 2: 1, 4: 2, 8: 3}[size]
	out := []byte{byte(t)<<3 | idx}
	for i := size - 1; i >= 0; i-- {
		out = append(out, byte(v>>(8*uint(i))))
	}
	return out
}

func variable(t sdp.ElementType, body []byte) []byte {
	var hdr []byte
	switch {
	case len(body) <= 0xFF:
		hdr = []byte{byte(t)<<3 | 5, byte(len(body))}
	case len(body) <= 0xFFFF:
		hdr = []byte{byte(t)<<3 | 6, 0, 0}
		binary.BigEndian.PutUint16(hdr[1:], uint16(len(body)))
	default:
		hdr = []byte{byte(t)<<3 | 7, 0, 0, 0, 0}
		binary.BigEndian.PutUint32(hdr[1:], uint32(len(body)))
	}
	return append(hdr, body...)
}
