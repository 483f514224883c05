// Package connection keeps a client's link to the health manager socket
// alive.
//
// A Supervisor owns a dial function and tracks whether the link is up.
// When the owner reports the link lost, the Supervisor redials in the
// background with exponential backoff:
//
//	delay(n) = min(Initial * Multiplier^n, Max) + random(0, delay * Jitter)
//
// With the defaults the base delays run 250ms, 500ms, 1s, 2s, 4s, 8s and
// then stay at 10s. A successful dial resets the sequence.
//
// A lost link never restores server side state. Endpoints registered and
// data channels opened over the old link were released by the server when
// it saw the client go, so owners must re-register after OnConnected fires
// for a redial.
package connection
