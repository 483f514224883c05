package manager

import (
	"fmt"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/devm"
	"github.com/hdpm-project/hdpm-go/pkg/engine"
	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/log"
)

// onEngineEvent runs on the mailbox goroutine with m.mu held.
func (m *Manager) onEngineEvent(ev engine.Event) {
	m.logIndication(log.LayerEngine, ev)
	if !m.powered {
		m.logger.Debug("engine event while powered off", "event", fmt.Sprintf("%T", ev))
		return
	}

	switch ev := ev.(type) {
	case engine.ConnectRequestIndication:
		m.logger.Debug("connect request in automatic accept mode", "address", ev.Address)
	case engine.ControlConnectIndication:
		m.onControlConnectIndication(ev)
	case engine.ControlConnectConfirmation:
		m.onControlConnectConfirmation(ev)
	case engine.ControlDisconnectIndication:
		m.onControlDisconnectIndication(ev)
	case engine.CreateDataLinkIndication:
		m.onCreateDataLinkIndication(ev)
	case engine.CreateDataLinkConfirmation:
		m.onCreateDataLinkConfirmation(ev)
	case engine.DataLinkConnectIndication:
		m.onDataLinkConnectIndication(ev)
	case engine.DataLinkConnectConfirmation:
		m.onDataLinkConnectConfirmation(ev)
	case engine.AbortDataLinkIndication:
		m.linkGone(ev.DataLinkID, hdp.DisconnectAborted)
	case engine.AbortDataLinkConfirmation:
		if ev.ResponseCode == hdp.ResponseSuccess {
			m.linkGone(ev.DataLinkID, hdp.DisconnectAborted)
		} else {
			m.logger.Debug("abort refused", "data_link", ev.DataLinkID, "response", ev.ResponseCode)
		}
	case engine.DeleteDataLinkIndication:
		m.linkGone(ev.DataLinkID, hdp.DisconnectNormal)
	case engine.DeleteDataLinkConfirmation:
		if ev.ResponseCode == hdp.ResponseSuccess {
			m.linkGone(ev.DataLinkID, hdp.DisconnectNormal)
		} else {
			m.logger.Debug("delete refused", "data_link", ev.DataLinkID, "response", ev.ResponseCode)
		}
	case engine.DataLinkDisconnectIndication:
		m.linkGone(ev.DataLinkID, hdp.DisconnectNormal)
	case engine.DataLinkDataIndication:
		m.onDataIndication(ev)
	case engine.SyncCapabilitiesIndication:
		if err := m.stack.RejectSyncCapabilities(ev.MCLID); err != nil {
			m.logger.Debug("reject sync capabilities failed", "mcl", ev.MCLID, "error", err)
		}
	case engine.SyncCapabilitiesConfirmation, engine.SyncSetIndication,
		engine.SyncSetConfirmation, engine.SyncInfoIndication:
		m.logger.Debug("clock synchronization event ignored", "event", fmt.Sprintf("%T", ev))
	}
}

// onDeviceEvent runs on the mailbox goroutine with m.mu held.
func (m *Manager) onDeviceEvent(ev devm.Event) {
	m.logIndication(log.LayerDevice, ev)

	switch ev := ev.(type) {
	case devm.PoweredOn:
		m.onPoweredOn()
	case devm.PoweringOff, devm.PoweredOff:
		m.onPoweredOff()
	case devm.ConnectionStatus:
		m.onDeviceConnection(ev.Address, ev.Status)
	case devm.AuthenticationStatus:
		if !ev.Success {
			m.onDeviceConnection(ev.Address, hdp.StatusRefused)
		}
	case devm.EncryptionStatus:
		if !ev.Success {
			m.onDeviceConnection(ev.Address, hdp.StatusRefused)
		}
	case devm.DeviceDisconnected:
		m.onDeviceDisconnected(ev.Address)
	}
}

func (m *Manager) logIndication(layer log.Layer, ev any) {
	m.plog.Log(log.Event{
		Timestamp: time.Now(),
		Direction: log.DirectionIn,
		Layer:     layer,
		Category:  log.CategoryIndication,
		Indication: &log.IndicationEvent{
			Name:   fmt.Sprintf("%T", ev),
			Detail: fmt.Sprintf("%+v", ev),
		},
	})
}
