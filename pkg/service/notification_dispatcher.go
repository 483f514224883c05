package service

import (
	"fmt"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/log"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
)

// NotificationDispatcher routes manager events to client connections. It
// implements manager.ClientNotifier.
type NotificationDispatcher struct {
	conns  *connTracker
	logger log.Logger
}

// NewNotificationDispatcher creates a dispatcher. logger may be nil.
func NewNotificationDispatcher(logger log.Logger) *NotificationDispatcher {
	return &NotificationDispatcher{
		conns:  newConnTracker(),
		logger: logger,
	}
}

// RegisterConnection makes a client reachable.
func (d *NotificationDispatcher) RegisterConnection(id manager.ClientID, send ConnectionSender) {
	d.conns.Add(id, send)
}

// UnregisterConnection makes a client unreachable. Events raised for it
// afterwards are reported undeliverable to the manager.
func (d *NotificationDispatcher) UnregisterConnection(id manager.ClientID) {
	d.conns.Remove(id)
}

// ConnectionCount returns the number of reachable clients.
func (d *NotificationDispatcher) ConnectionCount() int {
	return d.conns.Len()
}

// ClientValid reports whether a client is still connected.
func (d *NotificationDispatcher) ClientValid(id manager.ClientID) bool {
	_, ok := d.conns.Sender(id)
	return ok
}

// NotifyClient encodes ev and writes it to the client's connection.
func (d *NotificationDispatcher) NotifyClient(id manager.ClientID, ev manager.Event) error {
	send, ok := d.conns.Sender(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrClientUnknown, id)
	}
	body, err := EventToIPC(ev)
	if err != nil {
		return err
	}
	msg, err := ipc.NewEvent(uint32(id), body)
	if err != nil {
		return err
	}
	if err := send(msg); err != nil {
		return err
	}
	d.logEvent(id, body)
	return nil
}

func (d *NotificationDispatcher) logEvent(id manager.ClientID, body ipc.Event) {
	if d.logger == nil {
		return
	}
	d.logger.Log(log.Event{
		Timestamp: time.Now(),
		ClientID:  manager.RemoteClient{ID: id}.String(),
		Direction: log.DirectionOut,
		Layer:     log.LayerIPC,
		Category:  log.CategoryMessage,
		Message: &log.MessageEvent{
			Type:     log.MessageTypeEvent,
			Function: uint32(body.Function()),
			Payload:  body,
		},
	})
}

// EventToIPC converts a manager event to its IPC body.
func EventToIPC(ev manager.Event) (ipc.Event, error) {
	switch e := ev.(type) {
	case manager.ConnectionStatusEvent:
		return &ipc.ConnectionStatusEvent{Address: e.Address, Instance: e.Instance, Status: e.Status}, nil
	case manager.DisconnectedEvent:
		return &ipc.DisconnectedEvent{Address: e.Address, Instance: e.Instance}, nil
	case manager.IncomingDataConnectionRequestEvent:
		return &ipc.IncomingDataConnectionRequestEvent{
			Address:     e.Address,
			EndpointID:  e.EndpointID,
			ChannelMode: e.ChannelMode,
			DataLinkID:  e.DataLinkID,
		}, nil
	case manager.DataConnectedEvent:
		return &ipc.DataConnectedEvent{Address: e.Address, EndpointID: e.EndpointID, DataLinkID: e.DataLinkID}, nil
	case manager.DataDisconnectedEvent:
		return &ipc.DataDisconnectedEvent{Address: e.Address, DataLinkID: e.DataLinkID, Reason: e.Reason}, nil
	case manager.DataConnectionStatusEvent:
		return &ipc.DataConnectionStatusEvent{
			Address:    e.Address,
			Instance:   e.Instance,
			EndpointID: e.EndpointID,
			DataLinkID: e.DataLinkID,
			Status:     e.Status,
		}, nil
	case manager.DataReceivedEvent:
		return &ipc.DataReceivedEvent{
			Address:    e.Address,
			DataLinkID: e.DataLinkID,
			DataLength: uint32(len(e.Data)),
			Data:       e.Data,
		}, nil
	}
	return nil, fmt.Errorf("unsupported event %T", ev)
}
