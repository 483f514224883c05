package devm

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

var testAddr = hdp.MustParseAddress("AA:BB:CC:DD:EE:FF")

func TestServiceCachePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "services.yaml")

	c := NewServiceCache(path)
	require.NoError(t, c.Load())
	require.NoError(t, c.Put(testAddr, []byte{0x35, 0x00}))

	reloaded := NewServiceCache(path)
	require.NoError(t, reloaded.Load())
	raw, err := reloaded.Get(testAddr)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x35, 0x00}, raw)

	require.NoError(t, reloaded.Delete(testAddr))
	_, err = reloaded.Get(testAddr)
	assert.ErrorIs(t, err, ErrNoServiceRecords)
}

func TestServiceCacheMissingFile(t *testing.T) {
	c := NewServiceCache(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, c.Load())
	assert.Equal(t, 0, c.Len())
}

func TestSimConnect(t *testing.T) {
	s := NewSim(nil)
	events := make(chan Event, 4)
	s.SetEventHandler(func(ev Event) { events <- ev })

	assert.ErrorIs(t, s.ConnectWithRemoteDevice(testAddr, ConnectSecure), ErrNotPowered)

	s.PowerOn()
	assert.Equal(t, PoweredOn{}, <-events)

	s.SetAutoConnect(true)
	require.NoError(t, s.ConnectWithRemoteDevice(testAddr, ConnectSecure))
	assert.Equal(t, ConnectionStatus{Address: testAddr, Status: hdp.StatusSuccess}, <-events)

	assert.ErrorIs(t, s.ConnectWithRemoteDevice(testAddr, ConnectSecure), ErrAlreadyConnected)
	assert.Len(t, s.Connects(), 2)
}

func TestSimQueryServices(t *testing.T) {
	s := NewSim(nil)
	_, err := s.QueryRemoteDeviceServices(context.Background(), testAddr)
	assert.ErrorIs(t, err, ErrNoServiceRecords)

	require.NoError(t, s.AddServices(testAddr, []byte{1, 2, 3}))
	raw, err := s.QueryRemoteDeviceServices(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)
}
