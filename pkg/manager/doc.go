// Package manager implements the health device manager: the endpoint
// registry, the control channel (connection) manager, the data channel
// manager and the dispatch of their outcomes to the owning clients.
//
// # Ownership
//
// Every endpoint, connection and data channel belongs to exactly one Owner:
// an in-process *LocalClient or a RemoteClient reached through IPC.
// Connections opened by a remote device start without an owner and are
// adopted by the owner of the first endpoint that receives a data channel
// request on them.
//
// # Concurrency
//
// A single module lock guards all state. Engine and device manager events
// are queued on a mailbox and processed one at a time under that lock by
// the goroutine started in Start. Client notifications are collected while
// the lock is held and delivered after it is released, so callbacks may call
// back into non-blocking Manager methods but must not wait for further
// events.
//
// Connect and ConnectEndpoint can block until the outcome is known. A
// blocked call is released by the matching confirmation, by a disconnect of
// the pending entry, by adapter power-off (StatusDevicePowerOff) or by
// cancellation of its context. A cancelled waiter is detached and the
// outcome is delivered to the owner as an event instead.
package manager
