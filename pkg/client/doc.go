// Package client talks to a running health manager over its unix socket.
//
// A Client sends requests and matches each response to its caller by
// message id. Events the server pushes are handed to Config.OnEvent on a
// dedicated goroutine, in the order they arrived, so a handler may itself
// issue requests.
//
// Connect and ConnectEndpoint return once the server has accepted the
// request; the outcome arrives later as a ConnectionStatusEvent or
// DataConnectionStatusEvent. ConnectAndWait and ConnectEndpointAndWait
// consume that event instead and return its status. If the caller's
// context ends first the wait is abandoned and the event is delivered to
// OnEvent as usual.
//
// With Config.Redial set, a Client redials the socket after losing it.
// The server releases everything a client owned when it goes away, so
// applications re-register their endpoints from Config.OnLinkRestored.
package client
