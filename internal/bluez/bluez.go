package bluez

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	dbus "github.com/godbus/dbus/v5"

	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// Config configures a Manager.
type Config struct {
	// Adapter is the controller name. Default "hci0".
	Adapter string

	// Cache answers remote service queries. Default: an in-memory cache.
	Cache *devm.ServiceCache

	// ConnectTimeout bounds pairing plus link setup. Default 30s.
	ConnectTimeout time.Duration

	Logger *slog.Logger
}

// attempt is a connect in progress.
type attempt struct {
	cancel context.CancelFunc
}

// Manager is a devm.DeviceManager driving one BlueZ adapter.
type Manager struct {
	cfg         Config
	adapterPath dbus.ObjectPath
	logger      *slog.Logger

	bus     bus
	signals chan *dbus.Signal
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	handler devm.EventHandler
	powered bool
	pending map[hdp.Address]*attempt
	classes []uint16
}

// New creates a Manager. Call Open before use.
func New(cfg Config) *Manager {
	if cfg.Adapter == "" {
		cfg.Adapter = "hci0"
	}
	if cfg.Cache == nil {
		cfg.Cache = devm.NewServiceCache("")
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = 30 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Manager{
		cfg:         cfg,
		adapterPath: dbus.ObjectPath("/org/bluez/" + cfg.Adapter),
		logger:      cfg.Logger.With("adapter", cfg.Adapter),
		pending:     make(map[hdp.Address]*attempt),
	}
}

// Open connects to the system bus and starts following the adapter. A
// PoweredOn event is emitted right away when the adapter is already up.
func (m *Manager) Open(ctx context.Context) error {
	b, err := dialSystemBus(ctx)
	if err != nil {
		return err
	}
	if err := m.attach(b); err != nil {
		b.Close()
		return err
	}
	return nil
}

func (m *Manager) attach(b bus) error {
	m.bus = b
	m.signals = make(chan *dbus.Signal, 32)
	m.done = make(chan struct{})
	if err := b.Subscribe(m.signals); err != nil {
		return err
	}

	powered, err := m.boolProperty(m.adapterPath, adapterIface, "Powered")
	if err != nil {
		return fmt.Errorf("bluez: adapter %s: %w", m.cfg.Adapter, err)
	}

	m.wg.Add(1)
	go m.watch()

	if powered {
		m.setPowered(true)
	}
	return nil
}

// Close cancels pending connects and detaches from the bus.
func (m *Manager) Close() error {
	m.mu.Lock()
	for addr, a := range m.pending {
		a.cancel()
		delete(m.pending, addr)
	}
	m.mu.Unlock()

	if m.done == nil {
		return nil
	}
	close(m.done)
	m.wg.Wait()
	return m.bus.Close()
}

// SetEventHandler installs the event sink.
func (m *Manager) SetEventHandler(h devm.EventHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = h
}

// ConnectWithRemoteDevice pairs with addr when authentication is requested
// and the device is not bonded yet, then connects it. The outcome arrives
// as a devm.ConnectionStatus event.
func (m *Manager) ConnectWithRemoteDevice(addr hdp.Address, flags devm.ConnectFlags) error {
	m.mu.Lock()
	powered := m.powered
	_, busy := m.pending[addr]
	m.mu.Unlock()
	if !powered {
		return devm.ErrNotPowered
	}

	path := m.devicePath(addr)
	connected, err := m.boolProperty(path, deviceIface, "Connected")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", devm.ErrUnknownDevice, addr, err)
	}
	paired, err := m.boolProperty(path, deviceIface, "Paired")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", devm.ErrUnknownDevice, addr, err)
	}
	if connected && (flags&devm.ConnectAuthenticate == 0 || paired) {
		return devm.ErrAlreadyConnected
	}
	if busy {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.cfg.ConnectTimeout)
	a := &attempt{cancel: cancel}
	m.mu.Lock()
	m.pending[addr] = a
	m.mu.Unlock()

	m.wg.Add(1)
	go m.connect(ctx, a, addr, path, flags, paired)
	return nil
}

func (m *Manager) connect(ctx context.Context, a *attempt, addr hdp.Address, path dbus.ObjectPath, flags devm.ConnectFlags, paired bool) {
	defer m.wg.Done()
	defer func() {
		a.cancel()
		m.mu.Lock()
		if m.pending[addr] == a {
			delete(m.pending, addr)
		}
		m.mu.Unlock()
	}()

	if flags&devm.ConnectAuthenticate != 0 && !paired {
		err := m.bus.Call(ctx, path, deviceIface+".Pair")
		if errorName(err) == "org.bluez.Error.AlreadyExists" {
			err = nil
		}
		m.emit(devm.AuthenticationStatus{Address: addr, Success: err == nil})
		if err != nil {
			m.logger.Warn("pairing failed", "device", addr, "error", err)
			m.emit(devm.ConnectionStatus{Address: addr, Status: statusFor(err)})
			return
		}
	}

	err := m.bus.Call(ctx, path, deviceIface+".Connect")
	if errorName(err) == "org.bluez.Error.AlreadyConnected" {
		err = nil
	}
	if err != nil {
		m.logger.Warn("connect failed", "device", addr, "error", err)
	} else if flags&devm.ConnectEncrypt != 0 {
		// BlueZ encrypts links to bonded devices as part of Connect.
		m.emit(devm.EncryptionStatus{Address: addr, Success: true})
	}
	m.emit(devm.ConnectionStatus{Address: addr, Status: statusFor(err)})
}

// DisconnectRemoteDevice cancels a connect in progress and drops the link.
func (m *Manager) DisconnectRemoteDevice(addr hdp.Address) error {
	m.mu.Lock()
	if a, ok := m.pending[addr]; ok {
		a.cancel()
		delete(m.pending, addr)
	}
	m.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := m.bus.Call(ctx, m.devicePath(addr), deviceIface+".Disconnect")
	if err != nil && errorName(err) != "org.bluez.Error.NotConnected" {
		return fmt.Errorf("bluez: disconnect %s: %w", addr, err)
	}
	return nil
}

// QueryRemoteDeviceServices returns the cached records of addr.
func (m *Manager) QueryRemoteDeviceServices(ctx context.Context, addr hdp.Address) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.cfg.Cache.Get(addr)
}

// UpdateLocalServiceClasses records uuids. BlueZ builds the extended
// inquiry response from the published service records itself.
func (m *Manager) UpdateLocalServiceClasses(uuids []uint16) error {
	m.mu.Lock()
	m.classes = append(m.classes[:0], uuids...)
	m.mu.Unlock()
	m.logger.Debug("local service classes", "uuids", fmt.Sprintf("%04X", uuids))
	return nil
}

// ServiceClasses returns the list last passed to UpdateLocalServiceClasses.
func (m *Manager) ServiceClasses() []uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uint16(nil), m.classes...)
}

func (m *Manager) watch() {
	defer m.wg.Done()
	for {
		select {
		case <-m.done:
			return
		case sig, ok := <-m.signals:
			if !ok {
				return
			}
			m.handleSignal(sig)
		}
	}
}

func (m *Manager) handleSignal(sig *dbus.Signal) {
	if sig == nil || sig.Name != propertiesChanged || len(sig.Body) < 2 {
		return
	}
	iface, _ := sig.Body[0].(string)
	changed, _ := sig.Body[1].(map[string]dbus.Variant)

	switch {
	case iface == adapterIface && sig.Path == m.adapterPath:
		if v, ok := changed["Powered"]; ok {
			if on, ok := v.Value().(bool); ok {
				m.setPowered(on)
			}
		}
	case iface == deviceIface:
		addr, ok := m.addressOf(sig.Path)
		if !ok {
			return
		}
		if v, ok := changed["Connected"]; ok {
			if on, ok := v.Value().(bool); ok && !on {
				m.emit(devm.DeviceDisconnected{Address: addr})
			}
		}
	}
}

func (m *Manager) setPowered(on bool) {
	m.mu.Lock()
	was := m.powered
	m.powered = on
	m.mu.Unlock()

	switch {
	case on && !was:
		m.logger.Info("adapter powered on")
		m.emit(devm.PoweredOn{})
	case !on && was:
		m.logger.Info("adapter powered off")
		m.emit(devm.PoweringOff{})
		m.emit(devm.PoweredOff{})
	}
}

func (m *Manager) emit(ev devm.Event) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

func (m *Manager) boolProperty(path dbus.ObjectPath, iface, name string) (bool, error) {
	v, err := m.bus.Property(path, iface, name)
	if err != nil {
		return false, err
	}
	b, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("bluez: %s.%s is %s, not a boolean", iface, name, v.Signature())
	}
	return b, nil
}

// devicePath returns the BlueZ object path of addr, e.g.
// /org/bluez/hci0/dev_00_1B_DC_0F_10_22.
func (m *Manager) devicePath(addr hdp.Address) dbus.ObjectPath {
	return dbus.ObjectPath(string(m.adapterPath) + "/dev_" + strings.ReplaceAll(addr.String(), ":", "_"))
}

func (m *Manager) addressOf(path dbus.ObjectPath) (hdp.Address, bool) {
	rest, ok := strings.CutPrefix(string(path), string(m.adapterPath)+"/dev_")
	if !ok {
		return hdp.Address{}, false
	}
	addr, err := hdp.ParseAddress(strings.ReplaceAll(rest, "_", ":"))
	return addr, err == nil
}

// statusFor maps a Pair or Connect failure onto a connection status.
func statusFor(err error) hdp.ConnectionStatus {
	switch {
	case err == nil:
		return hdp.StatusSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return hdp.StatusTimeout
	case errors.Is(err, context.Canceled):
		return hdp.StatusAborted
	}
	switch errorName(err) {
	case "org.bluez.Error.AuthenticationFailed",
		"org.bluez.Error.AuthenticationRejected",
		"org.bluez.Error.AuthenticationCanceled",
		"org.bluez.Error.ConnectionAttemptFailed":
		return hdp.StatusRefused
	case "org.bluez.Error.AuthenticationTimeout":
		return hdp.StatusTimeout
	case "org.bluez.Error.NotReady":
		return hdp.StatusDevicePowerOff
	case "org.bluez.Error.Failed":
		return hdp.StatusConnectionTerminated
	}
	return hdp.StatusUnknown
}

var _ devm.DeviceManager = (*Manager)(nil)
