package devm

import (
	"context"
	"fmt"
	"sync"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// Sim is an in-memory DeviceManager. Links connect immediately when
// AutoConnect is set; otherwise tests complete them with Emit.
type Sim struct {
	mu          sync.Mutex
	handler     EventHandler
	cache       *ServiceCache
	powered     bool
	autoConnect bool
	connected   map[hdp.Address]bool
	connects    []hdp.Address
	disconnects []hdp.Address
	classes     []uint16
	connectErr  error
}

// NewSim creates a powered-off simulated device manager that serves service
// records from cache. A nil cache is replaced by an in-memory one.
func NewSim(cache *ServiceCache) *Sim {
	if cache == nil {
		cache = NewServiceCache("")
	}
	return &Sim{
		cache:     cache,
		connected: make(map[hdp.Address]bool),
	}
}

// SetAutoConnect makes ConnectWithRemoteDevice report success on its own.
func (s *Sim) SetAutoConnect(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.autoConnect = on
}

// FailConnect makes ConnectWithRemoteDevice return err until cleared with nil.
func (s *Sim) FailConnect(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connectErr = err
}

// SetConnected marks addr as already linked.
func (s *Sim) SetConnected(addr hdp.Address, on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on {
		s.connected[addr] = true
	} else {
		delete(s.connected, addr)
	}
}

// AddServices stores raw service records for addr.
func (s *Sim) AddServices(addr hdp.Address, raw []byte) error {
	return s.cache.Put(addr, raw)
}

// PowerOn emits PoweredOn.
func (s *Sim) PowerOn() {
	s.mu.Lock()
	s.powered = true
	s.mu.Unlock()
	s.Emit(PoweredOn{})
}

// PowerOff emits PoweringOff and PoweredOff and drops every link.
func (s *Sim) PowerOff() {
	s.Emit(PoweringOff{})
	s.mu.Lock()
	s.powered = false
	s.connected = make(map[hdp.Address]bool)
	s.mu.Unlock()
	s.Emit(PoweredOff{})
}

// DropLink simulates the loss of the ACL link to addr.
func (s *Sim) DropLink(addr hdp.Address) {
	s.SetConnected(addr, false)
	s.Emit(DeviceDisconnected{Address: addr})
}

// Emit delivers ev to the handler on the calling goroutine.
func (s *Sim) Emit(ev Event) {
	s.mu.Lock()
	h := s.handler
	s.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

// Connects returns the addresses passed to ConnectWithRemoteDevice.
func (s *Sim) Connects() []hdp.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hdp.Address(nil), s.connects...)
}

// Disconnects returns the addresses passed to DisconnectRemoteDevice.
func (s *Sim) Disconnects() []hdp.Address {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]hdp.Address(nil), s.disconnects...)
}

// ServiceClasses returns the last advertised class list.
func (s *Sim) ServiceClasses() []uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]uint16(nil), s.classes...)
}

func (s *Sim) SetEventHandler(h EventHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = h
}

func (s *Sim) ConnectWithRemoteDevice(addr hdp.Address, flags ConnectFlags) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.powered {
		return ErrNotPowered
	}
	if s.connectErr != nil {
		return s.connectErr
	}
	s.connects = append(s.connects, addr)
	if s.connected[addr] {
		return ErrAlreadyConnected
	}
	if s.autoConnect {
		s.connected[addr] = true
		h := s.handler
		if h != nil {
			go h(ConnectionStatus{Address: addr, Status: hdp.StatusSuccess})
		}
	}
	return nil
}

func (s *Sim) DisconnectRemoteDevice(addr hdp.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disconnects = append(s.disconnects, addr)
	delete(s.connected, addr)
	return nil
}

func (s *Sim) QueryRemoteDeviceServices(ctx context.Context, addr hdp.Address) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := s.cache.Get(addr)
	if err != nil {
		return nil, fmt.Errorf("query services: %w", err)
	}
	return raw, nil
}

func (s *Sim) UpdateLocalServiceClasses(uuids []uint16) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes = append([]uint16(nil), uuids...)
	return nil
}

var _ DeviceManager = (*Sim)(nil)
