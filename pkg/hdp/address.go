package hdp

import (
	"fmt"
	"net"
)

// Address is a Bluetooth device address (BD_ADDR), most significant byte
// first.
type Address [6]byte

// ParseAddress parses "AA:BB:CC:DD:EE:FF".
func ParseAddress(s string) (Address, error) {
	hw, err := net.ParseMAC(s)
	if err != nil || len(hw) != 6 {
		return Address{}, fmt.Errorf("%w: address %q", ErrInvalidParameter, s)
	}
	var a Address
	copy(a[:], hw)
	return a, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// IsZero reports whether a is the null address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// String returns the colon separated form.
func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[0], a[1], a[2], a[3], a[4], a[5])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
