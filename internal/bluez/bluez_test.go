package bluez

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dbus "github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

var testAddr = hdp.MustParseAddress("00:1B:DC:0F:10:22")

const (
	adapterPath = dbus.ObjectPath("/org/bluez/hci0")
	devicePath  = dbus.ObjectPath("/org/bluez/hci0/dev_00_1B_DC_0F_10_22")
)

type fakeBus struct {
	mu      sync.Mutex
	props   map[string]dbus.Variant
	calls   []string
	fail    map[string]error
	signals chan<- *dbus.Signal
	closed  bool
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		props: map[string]dbus.Variant{},
		fail:  map[string]error{},
	}
}

func (b *fakeBus) set(path dbus.ObjectPath, iface, name string, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.props[string(path)+" "+iface+"."+name] = dbus.MakeVariant(v)
}

func (b *fakeBus) Call(ctx context.Context, path dbus.ObjectPath, method string, args ...any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, method)
	return b.fail[method]
}

func (b *fakeBus) Property(path dbus.ObjectPath, iface, name string) (dbus.Variant, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.props[string(path)+" "+iface+"."+name]
	if !ok {
		return dbus.Variant{}, dbus.Error{Name: "org.freedesktop.DBus.Error.UnknownObject"}
	}
	return v, nil
}

func (b *fakeBus) Subscribe(ch chan<- *dbus.Signal) error {
	b.signals = ch
	return nil
}

func (b *fakeBus) Close() error {
	b.closed = true
	return nil
}

func (b *fakeBus) called() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBus) changed(path dbus.ObjectPath, iface, name string, v any) {
	b.signals <- &dbus.Signal{
		Path: path,
		Name: propertiesChanged,
		Body: []any{iface, map[string]dbus.Variant{name: dbus.MakeVariant(v)}, []string{}},
	}
}

type recorder struct {
	mu     sync.Mutex
	events []devm.Event
}

func (r *recorder) record(ev devm.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) all() []devm.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]devm.Event(nil), r.events...)
}

func (r *recorder) waitLen(t *testing.T, n int) []devm.Event {
	t.Helper()
	require.Eventually(t, func() bool { return len(r.all()) >= n }, time.Second, time.Millisecond)
	return r.all()
}

func newManager(t *testing.T, powered bool) (*Manager, *fakeBus, *recorder) {
	t.Helper()
	b := newFakeBus()
	b.set(adapterPath, adapterIface, "Powered", powered)
	rec := &recorder{}
	m := New(Config{})
	m.SetEventHandler(rec.record)
	require.NoError(t, m.attach(b))
	t.Cleanup(func() { m.Close() })
	return m, b, rec
}

func TestAttachReportsPoweredAdapter(t *testing.T) {
	_, _, rec := newManager(t, true)
	assert.Equal(t, []devm.Event{devm.PoweredOn{}}, rec.all())
}

func TestAttachWithoutAdapter(t *testing.T) {
	m := New(Config{Adapter: "hci9"})
	err := m.attach(newFakeBus())
	assert.ErrorContains(t, err, "hci9")
}

func TestPowerSignals(t *testing.T) {
	_, b, rec := newManager(t, false)

	b.changed(adapterPath, adapterIface, "Powered", true)
	rec.waitLen(t, 1)
	b.changed(adapterPath, adapterIface, "Powered", false)

	assert.Equal(t, []devm.Event{devm.PoweredOn{}, devm.PoweringOff{}, devm.PoweredOff{}}, rec.waitLen(t, 3))
}

func TestDeviceDisconnectedSignal(t *testing.T) {
	_, b, rec := newManager(t, true)

	b.changed(devicePath, deviceIface, "RSSI", int16(-40))
	b.changed(devicePath, deviceIface, "Connected", false)

	events := rec.waitLen(t, 2)
	assert.Equal(t, devm.DeviceDisconnected{Address: testAddr}, events[1])
}

func TestConnectRequiresPower(t *testing.T) {
	m, _, _ := newManager(t, false)
	assert.ErrorIs(t, m.ConnectWithRemoteDevice(testAddr, devm.ConnectSecure), devm.ErrNotPowered)
}

func TestConnectUnknownDevice(t *testing.T) {
	m, _, _ := newManager(t, true)
	assert.ErrorIs(t, m.ConnectWithRemoteDevice(testAddr, devm.ConnectSecure), devm.ErrUnknownDevice)
}

func TestConnectAlreadyConnected(t *testing.T) {
	m, b, _ := newManager(t, true)
	b.set(devicePath, deviceIface, "Connected", true)
	b.set(devicePath, deviceIface, "Paired", true)

	assert.ErrorIs(t, m.ConnectWithRemoteDevice(testAddr, devm.ConnectSecure), devm.ErrAlreadyConnected)
	assert.Empty(t, b.called())
}

func TestConnectPairsThenConnects(t *testing.T) {
	m, b, rec := newManager(t, true)
	b.set(devicePath, deviceIface, "Connected", false)
	b.set(devicePath, deviceIface, "Paired", false)

	require.NoError(t, m.ConnectWithRemoteDevice(testAddr, devm.ConnectSecure))
	events := rec.waitLen(t, 4)

	assert.Equal(t, []string{deviceIface + ".Pair", deviceIface + ".Connect"}, b.called())
	assert.Equal(t, []devm.Event{
		devm.PoweredOn{},
		devm.AuthenticationStatus{Address: testAddr, Success: true},
		devm.EncryptionStatus{Address: testAddr, Success: true},
		devm.ConnectionStatus{Address: testAddr, Status: hdp.StatusSuccess},
	}, events)
}

func TestConnectPairingRejected(t *testing.T) {
	m, b, rec := newManager(t, true)
	b.set(devicePath, deviceIface, "Connected", false)
	b.set(devicePath, deviceIface, "Paired", false)
	b.fail[deviceIface+".Pair"] = dbus.Error{Name: "org.bluez.Error.AuthenticationRejected"}

	require.NoError(t, m.ConnectWithRemoteDevice(testAddr, devm.ConnectSecure))
	events := rec.waitLen(t, 3)

	assert.Equal(t, []string{deviceIface + ".Pair"}, b.called())
	assert.Equal(t, devm.AuthenticationStatus{Address: testAddr, Success: false}, events[1])
	assert.Equal(t, devm.ConnectionStatus{Address: testAddr, Status: hdp.StatusRefused}, events[2])
}

func TestDisconnectIgnoresNotConnected(t *testing.T) {
	m, b, _ := newManager(t, true)
	b.fail[deviceIface+".Disconnect"] = dbus.Error{Name: "org.bluez.Error.NotConnected"}
	assert.NoError(t, m.DisconnectRemoteDevice(testAddr))

	b.fail[deviceIface+".Disconnect"] = dbus.Error{Name: "org.bluez.Error.Failed"}
	assert.Error(t, m.DisconnectRemoteDevice(testAddr))
}

func TestQueryRemoteDeviceServicesUsesCache(t *testing.T) {
	cache := devm.NewServiceCache("")
	require.NoError(t, cache.Put(testAddr, []byte{0x35, 0x00}))
	m := New(Config{Cache: cache})

	raw, err := m.QueryRemoteDeviceServices(context.Background(), testAddr)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x35, 0x00}, raw)

	_, err = m.QueryRemoteDeviceServices(context.Background(), hdp.MustParseAddress("00:00:00:00:00:01"))
	assert.ErrorIs(t, err, devm.ErrNoServiceRecords)
}

func TestUpdateLocalServiceClasses(t *testing.T) {
	m := New(Config{})
	require.NoError(t, m.UpdateLocalServiceClasses([]uint16{0x1401, 0x1402}))
	assert.Equal(t, []uint16{0x1401, 0x1402}, m.ServiceClasses())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want hdp.ConnectionStatus
	}{
		{nil, hdp.StatusSuccess},
		{context.DeadlineExceeded, hdp.StatusTimeout},
		{context.Canceled, hdp.StatusAborted},
		{dbus.Error{Name: "org.bluez.Error.AuthenticationFailed"}, hdp.StatusRefused},
		{&dbus.Error{Name: "org.bluez.Error.NotReady"}, hdp.StatusDevicePowerOff},
		{errors.New("boom"), hdp.StatusUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "%v", tt.err)
	}
}
