package transport

import (
	"context"
	"net"
	"time"

	"github.com/hdpm-project/hdpm-go/pkg/ipc"
)

// ServerConnection represents a server-side connection to a client.
// Implemented by ServerConn.
type ServerConnection interface {
	// ID returns the client id.
	ID() uint32

	// Send sends a message to the client.
	Send(msg *ipc.Message) error

	// Close closes the connection.
	Close() error
}

// ClientConnection represents a client-side connection to the server.
// Implemented by ClientConn.
type ClientConnection interface {
	// Send sends a message to the server.
	Send(msg *ipc.Message) error

	// Receive receives a message with the specified timeout.
	Receive(timeout time.Duration) (*ipc.Message, error)

	// Close closes the connection.
	Close() error
}

// TransportServer represents an IPC server.
// Implemented by Server.
type TransportServer interface {
	// Start begins accepting connections.
	Start(ctx context.Context) error

	// Stop gracefully stops the server.
	Stop() error

	// Addr returns the server's listen address.
	Addr() net.Addr

	// ConnectionCount returns the number of active connections.
	ConnectionCount() int
}

// MessageReadWriter provides framed message I/O.
// Implemented by Framer.
type MessageReadWriter interface {
	ReadMessage() (*ipc.Message, error)
	WriteMessage(msg *ipc.Message) error
}

// Compile-time interface satisfaction checks.
var (
	_ ServerConnection  = (*ServerConn)(nil)
	_ ClientConnection  = (*ClientConn)(nil)
	_ TransportServer   = (*Server)(nil)
	_ MessageReadWriter = (*Framer)(nil)
)
