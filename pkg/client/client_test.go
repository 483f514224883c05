package client_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdpm-project/hdpm-go/pkg/client"
	"github.com/hdpm-project/hdpm-go/pkg/connection"
	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/engine/sim"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
	"github.com/hdpm-project/hdpm-go/pkg/sdp/sdptest"
	"github.com/hdpm-project/hdpm-go/pkg/service"
	"github.com/hdpm-project/hdpm-go/pkg/stack"
)

var (
	remoteAddr     = hdp.MustParseAddress("00:1B:DC:0F:10:22")
	remoteInstance = hdp.NewInstance(0x1001, 0x1003)
)

type server struct {
	eng        *sim.Engine
	dm         *devm.Sim
	mgr        *manager.Manager
	dispatcher *service.NotificationDispatcher
	svc        *service.Service
	path       string
}

func newServer(t *testing.T) *server {
	t.Helper()
	dir, err := os.MkdirTemp("", "hdpm-client")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })

	eng := sim.New()
	eng.SetAutoConfirm(true)
	dm := devm.NewSim(nil)
	dm.SetAutoConnect(true)
	dispatcher := service.NewNotificationDispatcher(nil)
	mgr := manager.New(manager.Config{}, stack.New(stack.Config{}, eng, dm), dm, dispatcher)
	require.NoError(t, mgr.Start(context.Background()))
	t.Cleanup(mgr.Stop)
	dm.PowerOn()
	require.Eventually(t, mgr.Powered, time.Second, time.Millisecond)

	s := &server{eng: eng, dm: dm, mgr: mgr, dispatcher: dispatcher, path: filepath.Join(dir, "hdpm.sock")}
	s.start(t)
	return s
}

func (s *server) start(t *testing.T) {
	t.Helper()
	svc, err := service.New(service.Config{SocketPath: s.path}, s.mgr, s.dispatcher)
	require.NoError(t, err)
	require.NoError(t, svc.Start(context.Background()))
	t.Cleanup(func() { svc.Stop() })
	s.svc = svc
}

func (s *server) publishRemote(t *testing.T) {
	t.Helper()
	mdeps := []hdp.MDEP{{
		EndpointInfo: hdp.EndpointInfo{EndpointID: 1, DataType: 0x1004, Role: hdp.RoleSource},
		Description:  "Pulse Oximeter",
	}}
	raw := sdptest.Stream(hdp.BuildRecord(remoteInstance, mdeps, "Remote", "Vendor"))
	require.NoError(t, s.dm.AddServices(remoteAddr, raw))
}

// events records what OnEvent receives.
type events struct {
	mu  sync.Mutex
	all []ipc.Event
}

func (e *events) record(ev ipc.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.all = append(e.all, ev)
}

func (e *events) find(match func(ipc.Event) bool) ipc.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ev := range e.all {
		if match(ev) {
			return ev
		}
	}
	return nil
}

func (e *events) waitFor(t *testing.T, match func(ipc.Event) bool) ipc.Event {
	t.Helper()
	var got ipc.Event
	require.Eventually(t, func() bool {
		got = e.find(match)
		return got != nil
	}, 2*time.Second, time.Millisecond)
	return got
}

func dial(t *testing.T, s *server, cfg client.Config) (*client.Client, *events) {
	t.Helper()
	rec := &events{}
	cfg.SocketPath = s.path
	if cfg.OnEvent == nil {
		cfg.OnEvent = rec.record
	}
	c, err := client.Dial(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	require.Eventually(t, func() bool { return s.svc.ClientCount() > 0 }, time.Second, time.Millisecond)
	return c, rec
}

func TestDialRequiresSocketPath(t *testing.T) {
	_, err := client.Dial(context.Background(), client.Config{})
	assert.ErrorIs(t, err, client.ErrInvalidConfig)
}

func TestDialWithoutServer(t *testing.T) {
	dir := t.TempDir()
	_, err := client.Dial(context.Background(), client.Config{SocketPath: filepath.Join(dir, "none.sock")})
	assert.Error(t, err)
}

func TestDialRetriesUntilContextEnds(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Dial(ctx, client.Config{
		SocketPath: filepath.Join(dir, "none.sock"),
		Redial:     true,
		Backoff:    connection.BackoffConfig{Initial: 10 * time.Millisecond, Max: 20 * time.Millisecond},
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond)
}

func TestRegisterAndUnregisterEndpoint(t *testing.T) {
	s := newServer(t)
	c, _ := dial(t, s, client.Config{})
	ctx := context.Background()

	id, err := c.RegisterEndpoint(ctx, 0x1004, hdp.RoleSink, "Pulse Oximeter")
	require.NoError(t, err)
	assert.Equal(t, uint8(1), id)
	assert.Equal(t, 1, s.eng.CallCount("RegisterEndpoint"))

	require.NoError(t, c.UnregisterEndpoint(ctx, id))
	assert.ErrorIs(t, c.UnregisterEndpoint(ctx, id), hdp.ErrEndpointNotRegistered)
}

func TestInvalidRequestFailsLocally(t *testing.T) {
	s := newServer(t)
	c, _ := dial(t, s, client.Config{})

	_, err := c.RegisterEndpoint(context.Background(), 0x1004, hdp.Role(9), "")
	assert.ErrorIs(t, err, hdp.ErrInvalidParameter)
	assert.Zero(t, s.eng.CallCount("RegisterEndpoint"))
}

func TestWriteDataTooLargeFailsLocally(t *testing.T) {
	s := newServer(t)
	c, _ := dial(t, s, client.Config{})

	err := c.WriteData(context.Background(), 1, make([]byte, ipc.MaxWriteDataSize+1))
	assert.ErrorIs(t, err, hdp.ErrInvalidParameter)
	assert.Zero(t, s.eng.CallCount("WriteData"))
}

func TestQueries(t *testing.T) {
	s := newServer(t)
	s.publishRemote(t)
	c, _ := dial(t, s, client.Config{})
	ctx := context.Background()

	total, instances, err := c.QueryInstances(ctx, remoteAddr, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []hdp.Instance{remoteInstance}, instances)

	total, endpoints, err := c.QueryEndpoints(ctx, remoteAddr, remoteInstance, 4)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, hdp.EndpointInfo{EndpointID: 1, DataType: 0x1004, Role: hdp.RoleSource}, endpoints[0])

	length, desc, err := c.QueryEndpointDescription(ctx, remoteAddr, remoteInstance, endpoints[0], 5)
	require.NoError(t, err)
	assert.Equal(t, len("Pulse Oximeter"), length)
	assert.Equal(t, "Pulse", desc)
}

func TestConnectDeliversStatusEvent(t *testing.T) {
	s := newServer(t)
	c, rec := dial(t, s, client.Config{})

	require.NoError(t, c.Connect(context.Background(), remoteAddr, remoteInstance))
	ev := rec.waitFor(t, func(ev ipc.Event) bool {
		_, ok := ev.(*ipc.ConnectionStatusEvent)
		return ok
	})
	status := ev.(*ipc.ConnectionStatusEvent)
	assert.Equal(t, remoteAddr, status.Address)
	assert.Equal(t, remoteInstance, status.Instance)
	assert.Equal(t, hdp.StatusSuccess, status.Status)
}

func TestConnectAndWaitConsumesStatusEvent(t *testing.T) {
	s := newServer(t)
	c, rec := dial(t, s, client.Config{})
	ctx := context.Background()

	st, err := c.ConnectAndWait(ctx, remoteAddr, remoteInstance)
	require.NoError(t, err)
	assert.Equal(t, hdp.StatusSuccess, st)

	_, err = c.ConnectAndWait(ctx, remoteAddr, remoteInstance)
	assert.ErrorIs(t, err, hdp.ErrInstanceAlreadyConnected)

	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, rec.find(func(ev ipc.Event) bool {
		_, ok := ev.(*ipc.ConnectionStatusEvent)
		return ok
	}), "status consumed by ConnectAndWait must not reach OnEvent")

	require.NoError(t, c.Disconnect(ctx, remoteAddr, remoteInstance))
}

func TestConnectEndpointAndWaitThenWrite(t *testing.T) {
	s := newServer(t)
	s.publishRemote(t)
	c, rec := dial(t, s, client.Config{})
	ctx := context.Background()

	st, err := c.ConnectAndWait(ctx, remoteAddr, remoteInstance)
	require.NoError(t, err)
	require.Equal(t, hdp.StatusSuccess, st)

	id, st, err := c.ConnectEndpointAndWait(ctx, remoteAddr, remoteInstance, 1, hdp.ChannelModeNoPreference)
	require.NoError(t, err)
	require.Equal(t, hdp.StatusSuccess, st)
	require.NotZero(t, id)

	require.NoError(t, c.WriteData(ctx, id, []byte{0xE2, 0x00}))
	assert.Equal(t, [][]byte{{0xE2, 0x00}}, s.eng.Written(id))

	ev := rec.waitFor(t, func(ev ipc.Event) bool {
		d, ok := ev.(*ipc.DataReceivedEvent)
		return ok && d.DataLinkID == id
	})
	assert.Equal(t, []byte{0xE2, 0x00}, ev.(*ipc.DataReceivedEvent).Data)

	require.NoError(t, c.DisconnectEndpoint(ctx, id))
	assert.Error(t, c.WriteData(ctx, id, []byte{1}))
}

func TestIncomingDataConnectionRequest(t *testing.T) {
	s := newServer(t)
	c, rec := dial(t, s, client.Config{})
	ctx := context.Background()

	id, err := c.RegisterEndpoint(ctx, 0x1004, hdp.RoleSink, "")
	require.NoError(t, err)

	mcl := s.eng.IncomingConnection(remoteAddr)
	link := s.eng.IncomingDataLink(mcl, id, hdp.ChannelModeReliable)

	ev := rec.waitFor(t, func(ev ipc.Event) bool {
		_, ok := ev.(*ipc.IncomingDataConnectionRequestEvent)
		return ok
	})
	req := ev.(*ipc.IncomingDataConnectionRequestEvent)
	assert.Equal(t, link, req.DataLinkID)
	assert.Equal(t, id, req.EndpointID)

	require.NoError(t, c.RespondToConnectionRequest(ctx, req.DataLinkID, hdp.ResponseSuccess, hdp.ChannelModeNoPreference))
	assert.Equal(t, 1, s.eng.CallCount("CreateDataChannelResponse"))
}

func TestHandlerMayIssueRequests(t *testing.T) {
	s := newServer(t)
	var c *client.Client
	done := make(chan error, 1)
	c, _ = dial(t, s, client.Config{OnEvent: func(ev ipc.Event) {
		if _, ok := ev.(*ipc.ConnectionStatusEvent); ok {
			done <- c.Disconnect(context.Background(), remoteAddr, remoteInstance)
		}
	}})

	require.NoError(t, c.Connect(context.Background(), remoteAddr, remoteInstance))
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handler request did not complete")
	}
}

func TestCloseRejectsRequests(t *testing.T) {
	s := newServer(t)
	c, _ := dial(t, s, client.Config{})

	require.NoError(t, c.Close())
	assert.ErrorIs(t, c.Close(), client.ErrClosed)
	_, err := c.RegisterEndpoint(context.Background(), 0x1004, hdp.RoleSink, "")
	assert.ErrorIs(t, err, client.ErrClosed)
}

func TestRedialAfterServerRestart(t *testing.T) {
	s := newServer(t)
	lost := make(chan error, 1)
	restored := make(chan struct{}, 1)
	c, _ := dial(t, s, client.Config{
		Redial:         true,
		Backoff:        connection.BackoffConfig{Initial: 10 * time.Millisecond, Max: 50 * time.Millisecond},
		OnLinkLost:     func(err error) { lost <- err },
		OnLinkRestored: func() { restored <- struct{}{} },
	})
	ctx := context.Background()

	_, err := c.RegisterEndpoint(ctx, 0x1004, hdp.RoleSink, "")
	require.NoError(t, err)

	require.NoError(t, s.svc.Stop())
	select {
	case err := <-lost:
		assert.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("link loss not reported")
	}
	require.Eventually(t, func() bool {
		return s.eng.CallCount("UnregisterEndpoint") == 1
	}, 2*time.Second, 5*time.Millisecond, "server must release the lost client's endpoint")

	s.start(t)
	select {
	case <-restored:
	case <-time.After(2 * time.Second):
		t.Fatal("link not restored")
	}
	assert.True(t, c.Connected())

	_, err = c.RegisterEndpoint(ctx, 0x1004, hdp.RoleSink, "")
	assert.NoError(t, err)
}
