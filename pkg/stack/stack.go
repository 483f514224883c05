package stack

import (
	"fmt"
	"log/slog"

	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
)

// ClassPublisher updates the service classes advertised in the extended
// inquiry response. devm.DeviceManager satisfies it.
type ClassPublisher interface {
	UpdateLocalServiceClasses(uuids []uint16) error
}

// Config configures a Stack.
type Config struct {
	// ServiceName is published in the SDP record.
	// Default: hdp.DefaultServiceName.
	ServiceName string

	// ProviderName is published in the SDP record.
	// Default: hdp.DefaultProviderName.
	ProviderName string

	// Logger receives operational logs. Default: slog.Default().
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = hdp.DefaultServiceName
	}
	if c.ProviderName == "" {
		c.ProviderName = hdp.DefaultProviderName
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Stack wraps an engine.Engine for the manager.
type Stack struct {
	cfg     Config
	eng     engine.Engine
	classes ClassPublisher
	logger  *slog.Logger

	instanceID uint32
	instance   hdp.Instance
	sdpHandle  uint32
	nextMDEP   uint8
	mdeps      map[uint8]engine.MDEPInfo
}

// New creates a Stack on top of eng. classes may be nil.
func New(cfg Config, eng engine.Engine, classes ClassPublisher) *Stack {
	cfg.applyDefaults()
	return &Stack{
		cfg:      cfg,
		eng:      eng,
		classes:  classes,
		logger:   cfg.Logger,
		nextMDEP: hdp.MinMDEPID,
		mdeps:    make(map[uint8]engine.MDEPInfo),
	}
}

// Initialized reports whether the local instance is registered.
func (s *Stack) Initialized() bool {
	return s.instanceID != 0
}

// LocalInstance returns the PSM pair of the local instance.
func (s *Stack) LocalInstance() hdp.Instance {
	return s.instance
}

// PowerOn registers the local instance, moving to the next PSM pair while
// the engine reports the PSMs in use, and sets automatic accept.
func (s *Stack) PowerOn(handler engine.Handler) error {
	if s.Initialized() {
		return nil
	}

	controlPSM, dataPSM := hdp.DefaultControlPSM, hdp.DefaultDataPSM
	id, err := s.eng.RegisterInstance(controlPSM, dataPSM, handler)
	for engine.IsCode(err, engine.CodePSMInUse) {
		controlPSM += 2
		dataPSM += 2
		if controlPSM <= 0x1000 || dataPSM <= 0x1000 {
			break
		}
		if controlPSM&0x0100 != 0 {
			controlPSM += 0x0100
		}
		if dataPSM&0x0100 != 0 {
			dataPSM += 0x0100
		}
		id, err = s.eng.RegisterInstance(controlPSM, dataPSM, handler)
	}
	if err != nil {
		return fmt.Errorf("register instance: %w: %w", hdp.ErrNotInitialized, err)
	}

	s.instanceID = id
	s.instance = hdp.NewInstance(controlPSM, dataPSM)
	if err := s.eng.SetConnectionMode(id, engine.ConnectionModeAutomaticAccept); err != nil {
		s.logger.Warn("set connection mode failed", "error", err)
	}
	s.logger.Info("hdp instance registered", "instance", s.instance.String())
	return nil
}

// PowerOff withdraws the SDP record and unregisters the local instance.
func (s *Stack) PowerOff() {
	if s.sdpHandle != 0 {
		if err := s.eng.UnregisterSDPRecord(s.sdpHandle); err != nil {
			s.logger.Debug("unregister sdp record failed", "error", err)
		}
	}
	if s.instanceID != 0 {
		if err := s.eng.UnregisterInstance(s.instanceID); err != nil {
			s.logger.Debug("unregister instance failed", "error", err)
		}
	}
	s.instanceID = 0
	s.instance = 0
	s.sdpHandle = 0
	s.mdeps = make(map[uint8]engine.MDEPInfo)
}

// allocMDEPID returns the next free MDEP id, wrapping after MaxMDEPID.
func (s *Stack) allocMDEPID() (uint8, error) {
	for i := uint8(0); i < hdp.MaxMDEPID; i++ {
		id := s.nextMDEP
		s.nextMDEP++
		if s.nextMDEP > hdp.MaxMDEPID {
			s.nextMDEP = hdp.MinMDEPID
		}
		if _, used := s.mdeps[id]; !used {
			return id, nil
		}
	}
	return 0, hdp.ErrUnableToAllocate
}

// RegisterEndpoint allocates an MDEP id and registers the endpoint with the
// engine. The SDP record is not touched; call UpdateSDPRecord once the
// caller has recorded the endpoint.
func (s *Stack) RegisterEndpoint(dataType uint16, role hdp.Role, description string) (uint8, error) {
	if !s.Initialized() {
		return 0, hdp.ErrNotInitialized
	}
	id, err := s.allocMDEPID()
	if err != nil {
		return 0, err
	}
	mdep := engine.MDEPInfo{ID: id, DataType: dataType, Role: role, Description: description}
	if err := s.eng.RegisterEndpoint(s.instanceID, mdep); err != nil {
		return 0, registerEndpointErrors.wrap(err)
	}
	s.mdeps[id] = mdep
	return id, nil
}

// UnregisterEndpoint removes an endpoint from the engine. The local record
// of the MDEP is dropped even when the engine call fails.
func (s *Stack) UnregisterEndpoint(id uint8) error {
	if !s.Initialized() {
		return hdp.ErrNotInitialized
	}
	mdep, ok := s.mdeps[id]
	if !ok {
		return hdp.ErrEndpointNotRegistered
	}
	delete(s.mdeps, id)
	return unregisterEndpointErrors.wrap(s.eng.UnregisterEndpoint(s.instanceID, mdep))
}

// UpdateSDPRecord replaces the published SDP record and updates the
// extended inquiry response with the HDP Source and Sink classes of the
// roles that have endpoints.
func (s *Stack) UpdateSDPRecord() error {
	if !s.Initialized() {
		return hdp.ErrNotInitialized
	}
	if s.sdpHandle != 0 {
		if err := s.eng.UnregisterSDPRecord(s.sdpHandle); err != nil {
			s.logger.Debug("unregister sdp record failed", "error", err)
		}
		s.sdpHandle = 0
	}

	handle, err := s.eng.RegisterSDPRecord(s.instanceID, s.cfg.ServiceName, s.cfg.ProviderName)
	if err != nil {
		return fmt.Errorf("%w: %w", hdp.ErrUnableToRegisterSDP, err)
	}
	s.sdpHandle = handle

	var source, sink bool
	for _, m := range s.mdeps {
		switch m.Role {
		case hdp.RoleSource:
			source = true
		case hdp.RoleSink:
			sink = true
		}
	}
	var classes []uint16
	if source {
		classes = append(classes, hdp.UUIDHDPSource)
	}
	if sink {
		classes = append(classes, hdp.UUIDHDPSink)
	}
	s.publishClasses(classes)
	return nil
}

func (s *Stack) publishClasses(classes []uint16) {
	if s.classes == nil {
		return
	}
	if err := s.classes.UpdateLocalServiceClasses(classes); err != nil {
		s.logger.Warn("update service classes failed", "error", err)
	}
}

// SDPHandle returns the handle of the published record, or 0.
func (s *Stack) SDPHandle() uint32 {
	return s.sdpHandle
}

// ConnectRemoteInstance opens a control channel to instance on addr.
func (s *Stack) ConnectRemoteInstance(addr hdp.Address, instance hdp.Instance) (uint32, error) {
	if !s.Initialized() {
		return 0, hdp.ErrNotInitialized
	}
	id, err := s.eng.ConnectRemoteInstance(s.instanceID, addr, instance.ControlPSM(), instance.DataPSM())
	if err != nil {
		return 0, connectInstanceErrors.wrap(err)
	}
	return id, nil
}

// DisconnectRemoteInstance closes a control channel.
func (s *Stack) DisconnectRemoteInstance(mclID uint32) error {
	if !s.Initialized() {
		return hdp.ErrNotInitialized
	}
	return disconnectInstanceErrors.wrap(s.eng.CloseConnection(mclID))
}

// ConnectDataChannel requests a data channel to a remote MDEP. local is the
// role of this side.
func (s *Stack) ConnectDataChannel(mclID uint32, mdepID uint8, local hdp.Role, mode hdp.ChannelMode) (uint32, error) {
	if !s.Initialized() {
		return 0, hdp.ErrNotInitialized
	}
	id, err := s.eng.CreateDataChannelRequest(mclID, mdepID, local, mode, hdp.DataChannelConfig(local))
	if err != nil {
		return 0, dataChannelErrors.wrap(err)
	}
	return id, nil
}

// RespondDataChannel answers an incoming data channel request. The fixed
// channel configuration is only sent when accepting.
func (s *Stack) RespondDataChannel(dataLinkID uint32, code hdp.ResponseCode, mode hdp.ChannelMode, local hdp.Role) error {
	if !s.Initialized() {
		return hdp.ErrNotInitialized
	}
	var cfg *hdp.ChannelConfig
	if code == hdp.ResponseSuccess {
		c := hdp.DataChannelConfig(local)
		cfg = &c
	}
	return dataChannelErrors.wrap(s.eng.CreateDataChannelResponse(dataLinkID, code, mode, cfg))
}

// DisconnectDataChannel deletes a data channel, aborting it instead when
// the engine reports it is still being created.
func (s *Stack) DisconnectDataChannel(mclID, dataLinkID uint32) error {
	if !s.Initialized() {
		return hdp.ErrNotInitialized
	}
	err := s.eng.DeleteDataChannel(mclID, dataLinkID)
	if engine.IsCode(err, engine.CodeActionNotAllowed) {
		err = s.eng.AbortDataChannelRequest(mclID)
	}
	return dataChannelErrors.wrap(err)
}

// WriteData sends data on a connected data channel.
func (s *Stack) WriteData(dataLinkID uint32, data []byte) error {
	if !s.Initialized() {
		return hdp.ErrNotInitialized
	}
	return writeErrors.wrap(s.eng.WriteData(dataLinkID, data))
}

// RejectSyncCapabilities answers a sync capabilities request with
// RequestNotSupported.
func (s *Stack) RejectSyncCapabilities(mclID uint32) error {
	if !s.Initialized() {
		return hdp.ErrNotInitialized
	}
	return syncErrors.wrap(s.eng.SyncCapabilitiesResponse(mclID, 0, 0, 0, 0, hdp.ResponseRequestNotSupported))
}
