// Package ipc defines the message format spoken between the health device
// manager server and its client processes.
//
// Every message is a fixed 20 byte header followed by a CBOR body:
//
//	┌──────────────┬──────────────┬──────────────┬──────────────┬──────────────┐
//	│ address id   │ message id   │ group        │ function     │ payload len  │
//	│ u32 BE       │ u32 BE       │ u32 BE       │ u32 BE       │ u32 BE       │
//	├──────────────┴──────────────┴──────────────┴──────────────┴──────────────┤
//	│ CBOR body (payload len bytes)                                             │
//	└───────────────────────────────────────────────────────────────────────────┘
//
// Requests carry a non-zero message id. The response echoes it with bit 31
// set. Events use message id 0 and an event function code.
//
// Bodies are CBOR maps with integer keys, encoded deterministically.
package ipc
