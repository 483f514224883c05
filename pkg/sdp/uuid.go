package sdp

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// BaseUUID is the Bluetooth base UUID 00000000-0000-1000-8000-00805F9B34FB.
var BaseUUID = uuid.MustParse("00000000-0000-1000-8000-00805F9B34FB")

// FromShort expands a 16 or 32-bit UUID onto the Bluetooth base UUID.
func FromShort(v uint32) uuid.UUID {
	u := BaseUUID
	binary.BigEndian.PutUint32(u[0:4], v)
	return u
}

// ShortUUID returns the 32-bit alias of u if u is derived from the base UUID.
func ShortUUID(u uuid.UUID) (uint32, bool) {
	var tail uuid.UUID
	copy(tail[4:], u[4:])
	var base uuid.UUID
	copy(base[4:], BaseUUID[4:])
	if tail != base {
		return 0, false
	}
	return binary.BigEndian.Uint32(u[0:4]), true
}

// MatchesUUID16 reports whether e is a UUID element (of any width) equal to
// the 16-bit UUID v.
func MatchesUUID16(e Element, v uint16) bool {
	return e.Type == TypeUUID && e.UUID == FromShort(uint32(v))
}
