// Package transport carries IPC messages between the health device manager
// server and its clients.
//
// # Protocol Stack
//
//	┌────────────────────────────────┐
//	│      CBOR message bodies       │
//	├────────────────────────────────┤
//	│   IPC header framing (20B)     │
//	├────────────────────────────────┤
//	│   Unix domain stream socket    │
//	└────────────────────────────────┘
//
// The server gives every accepted connection a client id. The id is the
// address id carried in the headers of the messages exchanged with that
// client and identifies the client to the manager as the owner of the
// resources it creates.
package transport
