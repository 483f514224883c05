package interactive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

func TestParseInstance(t *testing.T) {
	for _, s := range []string{"0x1001/0x1003", "1001/1003", "0X1001/1003"} {
		got, err := parseInstance(s)
		require.NoError(t, err, s)
		assert.Equal(t, hdp.NewInstance(0x1001, 0x1003), got, s)
	}

	for _, s := range []string{"1001", "zz/1003", "1000/1003", "0x0001/0x1003"} {
		_, err := parseInstance(s)
		assert.Error(t, err, s)
	}
}

func TestParseRoleAndMode(t *testing.T) {
	r, err := parseRole("Sink")
	require.NoError(t, err)
	assert.Equal(t, hdp.RoleSink, r)
	_, err = parseRole("both")
	assert.Error(t, err)

	m, err := parseMode("streaming")
	require.NoError(t, err)
	assert.Equal(t, hdp.ChannelModeStreaming, m)
	m, err = parseMode("any")
	require.NoError(t, err)
	assert.Equal(t, hdp.ChannelModeNoPreference, m)
	_, err = parseMode("basic")
	assert.Error(t, err)
}

func TestParseBytes(t *testing.T) {
	b, err := parseBytes([]string{"E2", "00", "00:32"})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xE2, 0x00, 0x00, 0x32}, b)

	_, err = parseBytes([]string{"0x"})
	assert.Error(t, err)
	_, err = parseBytes([]string{"E"})
	assert.Error(t, err)
}

func TestFlag(t *testing.T) {
	rest, ok := flag([]string{"a", "-wait", "b"}, "-wait")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, rest)

	rest, ok = flag([]string{"a"}, "-wait")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, rest)
}
