package hdpm_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdpm-project/hdpm-go/pkg/client"
	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/engine/sim"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
	"github.com/hdpm-project/hdpm-go/pkg/sdp/sdptest"
	"github.com/hdpm-project/hdpm-go/pkg/service"
	"github.com/hdpm-project/hdpm-go/pkg/stack"
)

var (
	oximeter         = hdp.MustParseAddress("00:09:1F:80:12:34")
	oximeterInstance = hdp.NewInstance(0x1001, 0x1003)
)

// startServer runs the full server stack over a simulated engine and
// device manager, recording protocol events to a log file.
func startServer(t *testing.T) (socket, logPath string) {
	t.Helper()
	dir := t.TempDir()
	socket = filepath.Join(dir, "hdpm.sock")
	logPath = filepath.Join(dir, "hdpm.hlog")

	plog, err := log.NewFileLogger(logPath)
	require.NoError(t, err)
	t.Cleanup(func() { plog.Close() })

	eng := sim.New()
	eng.SetAutoConfirm(true)
	dm := devm.NewSim(nil)
	dm.SetAutoConnect(true)

	mdeps := []hdp.MDEP{{
		EndpointInfo: hdp.EndpointInfo{EndpointID: 1, DataType: 0x1004, Role: hdp.RoleSource},
		Description:  "SpO2",
	}}
	require.NoError(t, dm.AddServices(oximeter, sdptest.Stream(hdp.BuildRecord(oximeterInstance, mdeps, "Oximeter", "Acme"))))

	dispatcher := service.NewNotificationDispatcher(plog)
	mgr := manager.New(manager.Config{ProtocolLogger: plog}, stack.New(stack.Config{}, eng, dm), dm, dispatcher)
	require.NoError(t, mgr.Start(context.Background()))
	t.Cleanup(mgr.Stop)
	dm.PowerOn()
	require.Eventually(t, mgr.Powered, time.Second, time.Millisecond)

	svc, err := service.New(service.Config{SocketPath: socket, ProtocolLogger: plog}, mgr, dispatcher)
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(func() { svc.Stop() })
	return socket, logPath
}

func dialClient(t *testing.T, socket string, onEvent func(ipc.Event)) *client.Client {
	t.Helper()
	c, err := client.Dial(context.Background(), client.Config{SocketPath: socket, OnEvent: onEvent})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestTwoClientsShareOneManager(t *testing.T) {
	socket, logPath := startServer(t)
	ctx := context.Background()

	received := make(chan []byte, 4)
	a := dialClient(t, socket, func(ev ipc.Event) {
		if d, ok := ev.(*ipc.DataReceivedEvent); ok {
			received <- d.Data
		}
	})
	b := dialClient(t, socket, nil)

	// Both clients see the same remote records.
	total, instances, err := b.QueryInstances(ctx, oximeter, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []hdp.Instance{oximeterInstance}, instances)

	status, err := a.ConnectAndWait(ctx, oximeter, oximeterInstance)
	require.NoError(t, err)
	require.Equal(t, hdp.StatusSuccess, status)

	err = b.Connect(ctx, oximeter, oximeterInstance)
	assert.ErrorIs(t, err, hdp.ErrRemoteInstanceInUse)

	link, status, err := a.ConnectEndpointAndWait(ctx, oximeter, oximeterInstance, 1, hdp.ChannelModeReliable)
	require.NoError(t, err)
	require.Equal(t, hdp.StatusSuccess, status)

	// Data channels belong to the client that opened them.
	assert.ErrorIs(t, b.DisconnectEndpoint(ctx, link), hdp.ErrNotOwner)
	assert.ErrorIs(t, b.WriteData(ctx, link, []byte{0x01}), hdp.ErrNotOwner)

	apdu := []byte{0xE2, 0x00, 0x00, 0x32, 0x80, 0x00}
	require.NoError(t, a.WriteData(ctx, link, apdu))
	select {
	case got := <-received:
		assert.Equal(t, apdu, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no DataReceived event")
	}

	// Closing a client releases everything it owned.
	require.NoError(t, a.Close())
	require.Eventually(t, func() bool {
		wctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer cancel()
		st, err := b.ConnectAndWait(wctx, oximeter, oximeterInstance)
		return err == nil && st == hdp.StatusSuccess
	}, 3*time.Second, 20*time.Millisecond)

	reader, err := log.NewReader(logPath)
	require.NoError(t, err)
	defer reader.Close()
	ev, err := reader.Next()
	require.NoError(t, err)
	assert.False(t, ev.Timestamp.IsZero())
}
