package manager

import (
	"fmt"
	"sync"
)

// ClientID is the IPC address of a remote client.
type ClientID uint32

// Owner is the client reference attached to a resource. Implementations are
// *LocalClient and RemoteClient; values compare with ==.
type Owner interface {
	fmt.Stringer
	isOwner()
}

// RemoteClient is an out-of-process client. Events for it are handed to
// the ClientNotifier.
type RemoteClient struct {
	ID ClientID
}

func (RemoteClient) isOwner() {}

func (c RemoteClient) String() string {
	return fmt.Sprintf("client-%d", c.ID)
}

// EventCallback receives events for a LocalClient. It runs without the
// manager lock held and must not block waiting for further events.
type EventCallback func(Event)

// LocalClient is an in-process client created by NewLocalClient.
type LocalClient struct {
	m  *Manager
	id uint64
	cb EventCallback

	mu     sync.Mutex
	closed bool
}

func (*LocalClient) isOwner() {}

func (c *LocalClient) String() string {
	return fmt.Sprintf("local-%d", c.id)
}

// Close releases everything the client owns, exactly as if a remote client
// had disconnected. Close is idempotent.
func (c *LocalClient) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.m.releaseOwner(c)
}

func (c *LocalClient) valid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *LocalClient) deliver(ev Event) bool {
	if !c.valid() {
		return false
	}
	if c.cb != nil {
		c.cb(ev)
	}
	return true
}

// ownerString renders o for logs; server-side connections have no owner.
func ownerString(o Owner) string {
	if o == nil {
		return "server"
	}
	return o.String()
}
