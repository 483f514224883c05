package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/engine/sim"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/sdp/sdptest"
	"github.com/hdpm-project/hdpm-go/pkg/stack"
)

var (
	testAddr     = hdp.MustParseAddress("AA:BB:CC:DD:EE:FF")
	testInstance = hdp.NewInstance(0x1001, 0x1003)
)

// recorder collects the events of a LocalClient.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type fixture struct {
	eng *sim.Engine
	dm  *devm.Sim
	st  *stack.Stack
	m   *Manager
}

func newFixture(t *testing.T, notifier ClientNotifier) *fixture {
	t.Helper()
	eng := sim.New()
	dm := devm.NewSim(nil)
	st := stack.New(stack.Config{}, eng, dm)
	m := New(Config{}, st, dm, notifier)
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(m.Stop)

	dm.PowerOn()
	m.flush()
	require.True(t, m.Powered())
	return &fixture{eng: eng, dm: dm, st: st, m: m}
}

func (f *fixture) client() (*LocalClient, *recorder) {
	rec := &recorder{}
	return f.m.NewLocalClient(rec.record), rec
}

// auto makes the engine and the device link complete requests on their own.
func (f *fixture) auto() {
	f.eng.SetAutoConfirm(true)
	f.dm.SetAutoConnect(true)
}

func (f *fixture) connState(addr hdp.Address, instance hdp.Instance) string {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	c := f.m.findConn(addr, instance)
	if c == nil {
		return ""
	}
	return c.state.Current()
}

func (f *fixture) mclID(addr hdp.Address, instance hdp.Instance) uint32 {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if c := f.m.findConn(addr, instance); c != nil {
		return c.mclID
	}
	return 0
}

func (f *fixture) connCount() int {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	return len(f.m.conns)
}

func (f *fixture) linkState(dataLinkID uint32) string {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	if dc := f.m.links[dataLinkID]; dc != nil {
		return dc.state.Current()
	}
	return ""
}

func (f *fixture) linkCount() int {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	return len(f.m.links)
}

// connect brings a control channel up step by step with the engine in
// manual mode and returns its MCL id.
func (f *fixture) connect(t *testing.T, owner Owner) uint32 {
	t.Helper()
	st, err := f.m.Connect(context.Background(), owner, testAddr, testInstance, false)
	require.NoError(t, err)
	require.Equal(t, hdp.StatusSuccess, st)

	f.dm.Emit(devm.ConnectionStatus{Address: testAddr, Status: hdp.StatusSuccess})
	f.m.flush()
	mcl := f.mclID(testAddr, testInstance)
	require.NotZero(t, mcl)

	f.eng.Inject(engine.ControlConnectConfirmation{MCLID: mcl, Status: hdp.StatusSuccess})
	f.m.flush()
	require.Equal(t, stateConnected, f.connState(testAddr, testInstance))
	return mcl
}

// openLink opens a data channel to remote MDEP 1 in manual mode.
func (f *fixture) openLink(t *testing.T, owner Owner, mcl uint32) uint32 {
	t.Helper()
	id, st, err := f.m.ConnectEndpoint(context.Background(), owner, testAddr, testInstance, 1, hdp.ChannelModeReliable, false)
	require.NoError(t, err)
	require.Equal(t, hdp.StatusSuccess, st)

	f.eng.Inject(engine.CreateDataLinkConfirmation{MCLID: mcl, DataLinkID: id, ChannelMode: hdp.ChannelModeReliable})
	f.eng.Inject(engine.DataLinkConnectConfirmation{MCLID: mcl, DataLinkID: id, Status: hdp.StatusSuccess})
	f.m.flush()
	require.Equal(t, stateConnected, f.linkState(id))
	return id
}

// publishRemote stores a remote record for testInstance with mdeps.
func (f *fixture) publishRemote(t *testing.T, mdeps ...hdp.MDEP) {
	t.Helper()
	raw := sdptest.Stream(hdp.BuildRecord(testInstance, mdeps, "Remote", "Vendor"))
	require.NoError(t, f.dm.AddServices(testAddr, raw))
}

func remoteMDEP(id uint8, dataType uint16, role hdp.Role, desc string) hdp.MDEP {
	return hdp.MDEP{
		EndpointInfo: hdp.EndpointInfo{EndpointID: id, DataType: dataType, Role: role},
		Description:  desc,
	}
}

func TestNotInitializedBeforePowerOn(t *testing.T) {
	eng := sim.New()
	dm := devm.NewSim(nil)
	m := New(Config{}, stack.New(stack.Config{}, eng, dm), dm, nil)
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(m.Stop)

	c := m.NewLocalClient(nil)
	_, err := m.RegisterEndpoint(c, 0x1004, hdp.RoleSink, "")
	assert.ErrorIs(t, err, hdp.ErrNotInitialized)

	_, err = m.Connect(context.Background(), c, testAddr, testInstance, false)
	assert.ErrorIs(t, err, hdp.ErrNotInitialized)
}

func TestStartTwice(t *testing.T) {
	f := newFixture(t, nil)
	assert.Error(t, f.m.Start(context.Background()))
}

func TestPowerOffReleasesBlockedConnect(t *testing.T) {
	f := newFixture(t, nil)
	c, _ := f.client()

	type result struct {
		st  hdp.ConnectionStatus
		err error
	}
	done := make(chan result, 1)
	go func() {
		st, err := f.m.Connect(context.Background(), c, testAddr, testInstance, true)
		done <- result{st, err}
	}()
	require.Eventually(t, func() bool {
		return f.connState(testAddr, testInstance) == stateConnectingDevice
	}, time.Second, time.Millisecond)

	f.dm.PowerOff()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, hdp.StatusDevicePowerOff, r.st)
	case <-time.After(2 * time.Second):
		t.Fatal("blocking connect not released by power off")
	}
	assert.False(t, f.m.Powered())
	assert.Zero(t, f.connCount())
}

func TestPowerOffTearsDownEverything(t *testing.T) {
	f := newFixture(t, nil)
	c, rec := f.client()

	_, err := f.m.RegisterEndpoint(c, 0x1004, hdp.RoleSink, "")
	require.NoError(t, err)
	f.publishRemote(t, remoteMDEP(1, 0x1004, hdp.RoleSource, ""))
	mcl := f.connect(t, c)
	f.openLink(t, c, mcl)
	before := rec.count()

	f.dm.PowerOff()
	f.m.flush()

	assert.Zero(t, f.connCount())
	assert.Zero(t, f.linkCount())
	assert.Equal(t, 1, f.eng.CallCount("UnregisterEndpoint"))
	assert.Equal(t, 1, f.eng.CallCount("UnregisterInstance"))

	events := rec.all()[before:]
	assert.Contains(t, events, DisconnectedEvent{Address: testAddr, Instance: testInstance})
	assert.Len(t, events, 2)

	_, err = f.m.RegisterEndpoint(c, 0x1004, hdp.RoleSink, "")
	assert.ErrorIs(t, err, hdp.ErrNotInitialized)

	f.dm.PowerOn()
	f.m.flush()
	assert.True(t, f.m.Powered())
	_, err = f.m.RegisterEndpoint(c, 0x1004, hdp.RoleSink, "")
	assert.NoError(t, err)
}

func TestCloseReleasesOwnedResources(t *testing.T) {
	f := newFixture(t, nil)
	c, rec := f.client()
	other, _ := f.client()

	_, err := f.m.RegisterEndpoint(c, 0x1004, hdp.RoleSink, "")
	require.NoError(t, err)
	_, err = f.m.RegisterEndpoint(other, 0x1007, hdp.RoleSink, "")
	require.NoError(t, err)
	f.publishRemote(t, remoteMDEP(1, 0x1004, hdp.RoleSource, ""))
	mcl := f.connect(t, c)
	f.openLink(t, c, mcl)
	before := rec.count()

	c.Close()
	assert.Zero(t, f.connCount())
	assert.Zero(t, f.linkCount())
	assert.Equal(t, 1, f.eng.CallCount("DeleteDataChannel"))
	assert.Equal(t, 1, f.eng.CallCount("CloseConnection"))
	assert.Equal(t, 1, f.eng.CallCount("UnregisterEndpoint"))

	f.m.mu.Lock()
	assert.Len(t, f.m.endpoints, 1)
	f.m.mu.Unlock()

	c.Close()
	f.m.ClientDisconnected(ClientID(99))
	assert.Equal(t, 1, f.eng.CallCount("CloseConnection"))
	assert.Equal(t, 1, f.eng.CallCount("UnregisterEndpoint"))
	assert.Equal(t, before, rec.count(), "closed client must not be notified")
}

func TestClientDisconnectedIsIdempotent(t *testing.T) {
	notifier := NewMockClientNotifier(t)
	notifier.EXPECT().NotifyClient(ClientID(7), ConnectionStatusEvent{Address: testAddr, Instance: testInstance, Status: hdp.StatusSuccess}).Return(nil).Once()

	f := newFixture(t, notifier)
	owner := RemoteClient{ID: 7}
	_, err := f.m.RegisterEndpoint(owner, 0x1004, hdp.RoleSink, "")
	require.NoError(t, err)
	f.connect(t, owner)

	f.m.ClientDisconnected(7)
	assert.Zero(t, f.connCount())
	assert.Equal(t, 1, f.eng.CallCount("CloseConnection"))
	assert.Equal(t, 1, f.eng.CallCount("UnregisterEndpoint"))
	records := f.eng.CallCount("RegisterSDPRecord")

	f.m.ClientDisconnected(7)
	assert.Equal(t, 1, f.eng.CallCount("CloseConnection"))
	assert.Equal(t, 1, f.eng.CallCount("UnregisterEndpoint"))
	assert.Equal(t, records, f.eng.CallCount("RegisterSDPRecord"))
}

func TestCancelPacketUnsupported(t *testing.T) {
	f := newFixture(t, nil)
	c, _ := f.client()
	assert.ErrorIs(t, f.m.CancelPacket(c, 1), hdp.ErrUnsupportedOperation)
}

func TestPowerOffSkipsServerControlChannel(t *testing.T) {
	adopted := func(t *testing.T) (*fixture, *recorder, uint32, uint32) {
		f := newFixture(t, nil)
		c, rec := f.client()
		ep, err := f.m.RegisterEndpoint(c, 0x1004, hdp.RoleSink, "")
		require.NoError(t, err)
		mcl := f.eng.IncomingConnection(testAddr)
		id := f.eng.IncomingDataLink(mcl, ep, hdp.ChannelModeReliable)
		f.m.flush()
		require.NoError(t, f.m.RespondToConnectionRequest(c, id, hdp.ResponseSuccess, hdp.ChannelModeNoPreference))
		f.eng.Inject(engine.DataLinkConnectIndication{MCLID: mcl, DataLinkID: id})
		f.m.flush()
		require.Equal(t, stateConnected, f.linkState(id))
		return f, rec, mcl, id
	}
	disconnects := func(events []Event) []Event {
		var out []Event
		for _, ev := range events {
			if _, ok := ev.(DisconnectedEvent); ok {
				out = append(out, ev)
			}
		}
		return out
	}

	f, rec, mcl, _ := adopted(t)
	before := rec.count()
	f.eng.Inject(engine.ControlDisconnectIndication{MCLID: mcl})
	f.m.flush()
	assert.Zero(t, f.connCount())
	assert.Empty(t, disconnects(rec.all()[before:]))

	f, rec, _, id := adopted(t)
	before = rec.count()
	f.dm.PowerOff()
	f.m.flush()
	assert.Zero(t, f.connCount())
	events := rec.all()[before:]
	assert.Empty(t, disconnects(events))
	assert.Contains(t, events, DataDisconnectedEvent{Address: testAddr, DataLinkID: id, Reason: hdp.DisconnectNormal})
}
