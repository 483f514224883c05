// Package sim provides an in-memory protocol engine.
//
// The engine keeps just enough state to validate requests the way a real
// engine would (known MCL and data link ids, PSMs in use, registered MDEPs)
// and records every call. Tests drive it by injecting events; the server's
// simulation mode enables AutoConfirm so that requests complete on their own
// and written data is echoed back.
package sim

import (
	"sync"

	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/sdp"
)

// Call is one recorded engine call.
type Call struct {
	Op   string
	Args []any
}

type instance struct {
	controlPSM uint16
	dataPSM    uint16
	mode       engine.ConnectionMode
	mdeps      map[uint8]engine.MDEPInfo
}

// mcl is one control channel. The remote PSMs are zero for inbound ones.
type mcl struct {
	instanceID uint32
	addr       hdp.Address
	controlPSM uint16
	dataPSM    uint16
}

type link struct {
	mclID     uint32
	mdepID    uint8
	connected bool
}

type record struct {
	instanceID   uint32
	serviceName  string
	providerName string
}

// Engine is a simulated engine.Engine.
type Engine struct {
	mu sync.Mutex

	handler   engine.Handler
	nextID    uint32
	instances map[uint32]*instance
	psmInUse  map[uint16]bool
	records   map[uint32]record
	mcls      map[uint32]*mcl
	links     map[uint32]*link
	failures  map[string]engine.ErrorCode
	calls     []Call
	written   map[uint32][][]byte

	autoConfirm bool
	queue       chan engine.Event
	startOnce   sync.Once
}

// New creates an empty simulated engine.
func New() *Engine {
	return &Engine{
		nextID:    1,
		instances: make(map[uint32]*instance),
		psmInUse:  make(map[uint16]bool),
		records:   make(map[uint32]record),
		mcls:      make(map[uint32]*mcl),
		links:     make(map[uint32]*link),
		failures:  make(map[string]engine.ErrorCode),
		written:   make(map[uint32][][]byte),
		queue:     make(chan engine.Event, 1024),
	}
}

// SetAutoConfirm makes the engine answer its own requests asynchronously.
func (e *Engine) SetAutoConfirm(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.autoConfirm = on
}

// ReservePSM marks psm as taken by another profile.
func (e *Engine) ReservePSM(psm uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.psmInUse[psm] = true
}

// FailNext makes the next call of op fail with code.
func (e *Engine) FailNext(op string, code engine.ErrorCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failures[op] = code
}

// Calls returns a copy of the recorded calls.
func (e *Engine) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Call(nil), e.calls...)
}

// CallCount returns how many times op was called.
func (e *Engine) CallCount(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, c := range e.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// LastCall returns the most recent call of op.
func (e *Engine) LastCall(op string) (Call, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := len(e.calls) - 1; i >= 0; i-- {
		if e.calls[i].Op == op {
			return e.calls[i], true
		}
	}
	return Call{}, false
}

// Written returns the payloads written to a data link.
func (e *Engine) Written(dataLinkID uint32) [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([][]byte(nil), e.written[dataLinkID]...)
}

// PublishedRecord returns the attributes of a registered SDP record.
func (e *Engine) PublishedRecord(handle uint32) ([]sdp.Attribute, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	rec, ok := e.records[handle]
	if !ok {
		return nil, false
	}
	inst := e.instances[rec.instanceID]
	if inst == nil {
		return nil, false
	}
	mdeps := make([]hdp.MDEP, 0, len(inst.mdeps))
	for id := hdp.MinMDEPID; id <= hdp.MaxMDEPID; id++ {
		if m, ok := inst.mdeps[id]; ok {
			mdeps = append(mdeps, hdp.MDEP{
				EndpointInfo: hdp.EndpointInfo{EndpointID: m.ID, DataType: m.DataType, Role: m.Role},
				Description:  m.Description,
			})
		}
	}
	return hdp.BuildRecord(hdp.NewInstance(inst.controlPSM, inst.dataPSM), mdeps, rec.serviceName, rec.providerName), true
}

// RecordCount returns the number of published SDP records.
func (e *Engine) RecordCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}

// Inject delivers ev to the registered handler on the calling goroutine.
// Link and MCL state is updated from the event first.
func (e *Engine) Inject(ev engine.Event) {
	e.mu.Lock()
	e.observe(ev)
	h := e.handler
	e.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

// IncomingConnection simulates a remote device opening a control channel to
// the local instance and returns the new MCL id.
func (e *Engine) IncomingConnection(addr hdp.Address) uint32 {
	e.mu.Lock()
	var instanceID uint32
	for id := range e.instances {
		instanceID = id
		break
	}
	id := e.allocID()
	e.mcls[id] = &mcl{instanceID: instanceID, addr: addr}
	e.mu.Unlock()

	e.Inject(engine.ControlConnectIndication{InstanceID: instanceID, MCLID: id, Address: addr})
	return id
}

// IncomingDataLink simulates a remote request to open a data channel to a
// local MDEP and returns the new data link id.
func (e *Engine) IncomingDataLink(mclID uint32, mdepID uint8, mode hdp.ChannelMode) uint32 {
	e.mu.Lock()
	id := e.allocID()
	e.links[id] = &link{mclID: mclID, mdepID: mdepID}
	e.mu.Unlock()

	e.Inject(engine.CreateDataLinkIndication{MCLID: mclID, DataLinkID: id, MDEPID: mdepID, ChannelMode: mode})
	return id
}

func (e *Engine) observe(ev engine.Event) {
	switch ev := ev.(type) {
	case engine.ControlConnectConfirmation:
		if ev.Status != hdp.StatusSuccess {
			delete(e.mcls, ev.MCLID)
		}
	case engine.ControlDisconnectIndication:
		delete(e.mcls, ev.MCLID)
	case engine.DataLinkConnectConfirmation:
		if l, ok := e.links[ev.DataLinkID]; ok && ev.Status == hdp.StatusSuccess {
			l.connected = true
		}
	case engine.DataLinkConnectIndication:
		if l, ok := e.links[ev.DataLinkID]; ok {
			l.connected = true
		}
	case engine.CreateDataLinkConfirmation:
		if ev.ResponseCode != hdp.ResponseSuccess {
			delete(e.links, ev.DataLinkID)
		}
	case engine.DataLinkDisconnectIndication:
		delete(e.links, ev.DataLinkID)
	case engine.DeleteDataLinkIndication:
		delete(e.links, ev.DataLinkID)
	case engine.AbortDataLinkIndication:
		delete(e.links, ev.DataLinkID)
	}
}

// record appends a call and returns the pending failure for op, if any.
// Callers hold e.mu.
func (e *Engine) record(op string, args ...any) error {
	e.calls = append(e.calls, Call{Op: op, Args: args})
	if code, ok := e.failures[op]; ok {
		delete(e.failures, op)
		return engine.NewError(op, code)
	}
	return nil
}

func (e *Engine) allocID() uint32 {
	id := e.nextID
	e.nextID++
	return id
}

// emit queues ev for asynchronous delivery when auto confirmation is on.
// Callers hold e.mu.
func (e *Engine) emit(ev engine.Event) {
	if !e.autoConfirm {
		return
	}
	e.startOnce.Do(func() { go e.deliver() })
	e.queue <- ev
}

func (e *Engine) deliver() {
	for ev := range e.queue {
		e.Inject(ev)
	}
}
