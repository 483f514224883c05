package interactive

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// parseInstance accepts "control/data" with hex PSMs, with or without a 0x
// prefix, e.g. "0x1001/0x1003" or "1001/1003".
func parseInstance(s string) (hdp.Instance, error) {
	ctrl, data, ok := strings.Cut(s, "/")
	if !ok {
		return 0, fmt.Errorf("instance %q: want control/data", s)
	}
	c, err := parsePSM(ctrl)
	if err != nil {
		return 0, err
	}
	d, err := parsePSM(data)
	if err != nil {
		return 0, err
	}
	instance := hdp.NewInstance(c, d)
	if !instance.Valid() {
		return 0, fmt.Errorf("instance %s: PSMs outside the dynamic range", instance)
	}
	return instance, nil
}

func parsePSM(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
	if err != nil {
		return 0, fmt.Errorf("PSM %q: %w", s, err)
	}
	return uint16(v), nil
}

func parseRole(s string) (hdp.Role, error) {
	switch strings.ToLower(s) {
	case "source", "src":
		return hdp.RoleSource, nil
	case "sink", "snk":
		return hdp.RoleSink, nil
	}
	return 0, fmt.Errorf("role %q: want source or sink", s)
}

func parseMode(s string) (hdp.ChannelMode, error) {
	switch strings.ToLower(s) {
	case "any", "none", "":
		return hdp.ChannelModeNoPreference, nil
	case "reliable", "ertm":
		return hdp.ChannelModeReliable, nil
	case "streaming":
		return hdp.ChannelModeStreaming, nil
	}
	return 0, fmt.Errorf("channel mode %q: want any, reliable or streaming", s)
}

// parseUint parses decimal or 0x-prefixed hex.
func parseUint(s string, bits int) (uint64, error) {
	v, err := strconv.ParseUint(s, 0, bits)
	if err != nil {
		return 0, fmt.Errorf("number %q: %w", s, err)
	}
	return v, nil
}

// parseBytes decodes hex, ignoring spaces, colons and a 0x prefix.
func parseBytes(parts []string) ([]byte, error) {
	s := strings.Join(parts, "")
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.ReplaceAll(s, ":", "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("data: empty")
	}
	return b, nil
}

// flag removes name from args and reports whether it was present.
func flag(args []string, name string) ([]string, bool) {
	out := args[:0:0]
	found := false
	for _, a := range args {
		if a == name {
			found = true
			continue
		}
		out = append(out, a)
	}
	return out, found
}
