package service

import (
	"sync"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/ipc"
	"github.com/hdpm-project/hdpm-go/pkg/manager"
)

// ConnectionSender writes a message to one client connection.
type ConnectionSender func(msg *ipc.Message) error

// connTracker tracks the connected clients and when they connected.
type connTracker struct {
	mu    sync.Mutex
	conns map[manager.ClientID]trackedConn
}

type trackedConn struct {
	send  ConnectionSender
	added time.Time
}

func newConnTracker() *connTracker {
	return &connTracker{
		conns: make(map[manager.ClientID]trackedConn),
	}
}

// Add registers a client with the current time.
func (ct *connTracker) Add(id manager.ClientID, send ConnectionSender) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.conns[id] = trackedConn{send: send, added: time.Now()}
}

// Remove deregisters a client. Safe to call on absent clients.
func (ct *connTracker) Remove(id manager.ClientID) bool {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	_, ok := ct.conns[id]
	delete(ct.conns, id)
	return ok
}

// Sender returns the sender of a connected client.
func (ct *connTracker) Sender(id manager.ClientID) (ConnectionSender, bool) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	c, ok := ct.conns[id]
	return c.send, ok
}

// ConnectedFor returns how long a client has been connected.
func (ct *connTracker) ConnectedFor(id manager.ClientID) (time.Duration, bool) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	c, ok := ct.conns[id]
	if !ok {
		return 0, false
	}
	return time.Since(c.added), true
}

// Len returns the number of tracked clients.
func (ct *connTracker) Len() int {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	return len(ct.conns)
}
