// Package stack is the thin layer between the health device manager and the
// protocol engine.
//
// It owns the local HDP instance: it registers the instance when the adapter
// powers on, allocates MDEP ids, republishes the SDP record and the extended
// inquiry response class list whenever the set of local endpoints changes,
// and translates engine error codes into the manager's error taxonomy so
// that callers never see a raw engine code.
//
// A Stack is not safe for concurrent use. The manager serializes all calls
// under its module lock.
package stack
