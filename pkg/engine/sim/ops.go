package sim

import (
	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

var _ engine.Engine = (*Engine)(nil)

func (e *Engine) RegisterInstance(controlPSM, dataPSM uint16, handler engine.Handler) (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("RegisterInstance", controlPSM, dataPSM); err != nil {
		return 0, err
	}
	if e.psmInUse[controlPSM] || e.psmInUse[dataPSM] {
		return 0, engine.NewError("RegisterInstance", engine.CodePSMInUse)
	}
	id := e.allocID()
	e.instances[id] = &instance{
		controlPSM: controlPSM,
		dataPSM:    dataPSM,
		mdeps:      make(map[uint8]engine.MDEPInfo),
	}
	e.psmInUse[controlPSM] = true
	e.psmInUse[dataPSM] = true
	e.handler = handler
	return id, nil
}

func (e *Engine) UnregisterInstance(instanceID uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("UnregisterInstance", instanceID); err != nil {
		return err
	}
	inst, ok := e.instances[instanceID]
	if !ok {
		return engine.NewError("UnregisterInstance", engine.CodeInvalidInstanceID)
	}
	delete(e.psmInUse, inst.controlPSM)
	delete(e.psmInUse, inst.dataPSM)
	delete(e.instances, instanceID)
	for id, m := range e.mcls {
		if m.instanceID == instanceID {
			delete(e.mcls, id)
		}
	}
	return nil
}

func (e *Engine) SetConnectionMode(instanceID uint32, mode engine.ConnectionMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("SetConnectionMode", instanceID, mode); err != nil {
		return err
	}
	inst, ok := e.instances[instanceID]
	if !ok {
		return engine.NewError("SetConnectionMode", engine.CodeInvalidInstanceID)
	}
	inst.mode = mode
	return nil
}

func (e *Engine) RegisterEndpoint(instanceID uint32, mdep engine.MDEPInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("RegisterEndpoint", instanceID, mdep); err != nil {
		return err
	}
	inst, ok := e.instances[instanceID]
	if !ok {
		return engine.NewError("RegisterEndpoint", engine.CodeInvalidInstanceID)
	}
	if _, exists := inst.mdeps[mdep.ID]; exists {
		return engine.NewError("RegisterEndpoint", engine.CodeMDEPAlreadyRegistered)
	}
	inst.mdeps[mdep.ID] = mdep
	return nil
}

func (e *Engine) UnregisterEndpoint(instanceID uint32, mdep engine.MDEPInfo) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("UnregisterEndpoint", instanceID, mdep); err != nil {
		return err
	}
	inst, ok := e.instances[instanceID]
	if !ok {
		return engine.NewError("UnregisterEndpoint", engine.CodeInvalidInstanceID)
	}
	if _, exists := inst.mdeps[mdep.ID]; !exists {
		return engine.NewError("UnregisterEndpoint", engine.CodeMDEPNotFound)
	}
	delete(inst.mdeps, mdep.ID)
	return nil
}

func (e *Engine) RegisterSDPRecord(instanceID uint32, serviceName, providerName string) (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("RegisterSDPRecord", instanceID, serviceName, providerName); err != nil {
		return 0, err
	}
	if _, ok := e.instances[instanceID]; !ok {
		return 0, engine.NewError("RegisterSDPRecord", engine.CodeInvalidInstanceID)
	}
	handle := 0x10000 + e.allocID()
	e.records[handle] = record{instanceID: instanceID, serviceName: serviceName, providerName: providerName}
	return handle, nil
}

func (e *Engine) UnregisterSDPRecord(handle uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("UnregisterSDPRecord", handle); err != nil {
		return err
	}
	if _, ok := e.records[handle]; !ok {
		return engine.NewError("UnregisterSDPRecord", engine.CodeInvalidParameter)
	}
	delete(e.records, handle)
	return nil
}

func (e *Engine) ConnectRemoteInstance(instanceID uint32, addr hdp.Address, controlPSM, dataPSM uint16) (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("ConnectRemoteInstance", instanceID, addr, controlPSM, dataPSM); err != nil {
		return 0, err
	}
	if _, ok := e.instances[instanceID]; !ok {
		return 0, engine.NewError("ConnectRemoteInstance", engine.CodeInvalidInstanceID)
	}
	for _, m := range e.mcls {
		if m.addr == addr && m.controlPSM == controlPSM && m.dataPSM == dataPSM {
			return 0, engine.NewError("ConnectRemoteInstance", engine.CodeInstanceConnectionExists)
		}
	}
	id := e.allocID()
	e.mcls[id] = &mcl{instanceID: instanceID, addr: addr, controlPSM: controlPSM, dataPSM: dataPSM}
	e.emit(engine.ControlConnectConfirmation{InstanceID: instanceID, MCLID: id, Status: hdp.StatusSuccess})
	return id, nil
}

func (e *Engine) CloseConnection(mclID uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("CloseConnection", mclID); err != nil {
		return err
	}
	if _, ok := e.mcls[mclID]; !ok {
		return engine.NewError("CloseConnection", engine.CodeChannelNotConnected)
	}
	delete(e.mcls, mclID)
	for id, l := range e.links {
		if l.mclID == mclID {
			delete(e.links, id)
			e.emit(engine.DeleteDataLinkIndication{MCLID: mclID, DataLinkID: id})
		}
	}
	e.emit(engine.ControlDisconnectIndication{MCLID: mclID})
	return nil
}

func (e *Engine) CreateDataChannelRequest(mclID uint32, mdepID uint8, role hdp.Role, mode hdp.ChannelMode, cfg hdp.ChannelConfig) (uint32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("CreateDataChannelRequest", mclID, mdepID, role, mode, cfg); err != nil {
		return 0, err
	}
	if _, ok := e.mcls[mclID]; !ok {
		return 0, engine.NewError("CreateDataChannelRequest", engine.CodeInvalidMCLID)
	}
	if !mode.Valid() {
		return 0, engine.NewError("CreateDataChannelRequest", engine.CodeInvalidChannelMode)
	}
	id := e.allocID()
	e.links[id] = &link{mclID: mclID, mdepID: mdepID}
	if mode == hdp.ChannelModeNoPreference {
		mode = hdp.ChannelModeReliable
	}
	e.emit(engine.CreateDataLinkConfirmation{MCLID: mclID, DataLinkID: id, ResponseCode: hdp.ResponseSuccess, ChannelMode: mode})
	e.emit(engine.DataLinkConnectConfirmation{MCLID: mclID, DataLinkID: id, Status: hdp.StatusSuccess})
	return id, nil
}

func (e *Engine) CreateDataChannelResponse(dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode, cfg *hdp.ChannelConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("CreateDataChannelResponse", dataLinkID, code, mode, cfg); err != nil {
		return err
	}
	l, ok := e.links[dataLinkID]
	if !ok {
		return engine.NewError("CreateDataChannelResponse", engine.CodeInvalidDataLinkID)
	}
	if code != hdp.ResponseSuccess {
		delete(e.links, dataLinkID)
		return nil
	}
	if cfg == nil {
		return engine.NewError("CreateDataChannelResponse", engine.CodeInvalidConfig)
	}
	e.emit(engine.DataLinkConnectIndication{MCLID: l.mclID, DataLinkID: dataLinkID})
	return nil
}

func (e *Engine) DeleteDataChannel(mclID, dataLinkID uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("DeleteDataChannel", mclID, dataLinkID); err != nil {
		return err
	}
	l, ok := e.links[dataLinkID]
	if !ok {
		return engine.NewError("DeleteDataChannel", engine.CodeInvalidDataLinkID)
	}
	if !l.connected {
		return engine.NewError("DeleteDataChannel", engine.CodeActionNotAllowed)
	}
	delete(e.links, dataLinkID)
	e.emit(engine.DeleteDataLinkConfirmation{MCLID: mclID, DataLinkID: dataLinkID, ResponseCode: hdp.ResponseSuccess})
	return nil
}

func (e *Engine) AbortDataChannelRequest(mclID uint32) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("AbortDataChannelRequest", mclID); err != nil {
		return err
	}
	for id, l := range e.links {
		if l.mclID == mclID && !l.connected {
			delete(e.links, id)
			e.emit(engine.AbortDataLinkConfirmation{MCLID: mclID, DataLinkID: id, ResponseCode: hdp.ResponseSuccess})
			return nil
		}
	}
	return engine.NewError("AbortDataChannelRequest", engine.CodeActionNotAllowed)
}

func (e *Engine) WriteData(dataLinkID uint32, data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.record("WriteData", dataLinkID, len(data)); err != nil {
		return err
	}
	l, ok := e.links[dataLinkID]
	if !ok {
		return engine.NewError("WriteData", engine.CodeInvalidDataLinkID)
	}
	if !l.connected {
		return engine.NewError("WriteData", engine.CodeChannelNotOpen)
	}
	payload := append([]byte(nil), data...)
	e.written[dataLinkID] = append(e.written[dataLinkID], payload)
	e.emit(engine.DataLinkDataIndication{DataLinkID: dataLinkID, Data: payload})
	return nil
}

func (e *Engine) SyncCapabilitiesResponse(mclID uint32, accessResolution uint8, syncLeadTime, nativeResolution, nativeAccuracy uint16, code hdp.ResponseCode) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.record("SyncCapabilitiesResponse", mclID, code)
}
