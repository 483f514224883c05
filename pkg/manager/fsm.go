package manager

import (
	"context"

	"github.com/looplab/fsm"
)

// Connection entry states. Authorizing is reserved for inbound control
// channel authorization and is never entered.
const (
	stateIdle             = "idle"
	stateConnectingDevice = "connecting_device"
	stateConnecting       = "connecting"
	stateConnected        = "connected"
	stateAuthorizing      = "authorizing"
)

// Connection entry transitions.
const (
	eventLinkPending = "link_pending"
	eventLinkUp      = "link_up"
	eventConfirmed   = "confirmed"
	eventAccepted    = "accepted"
)

// Data channel transitions. Data channels start in stateAuthorizing.
const (
	eventProceed = "proceed"
	eventOpened  = "opened"
)

// stateHook observes every transition of a machine.
type stateHook func(from, to string)

func newConnectionFSM(hook stateHook) *fsm.FSM {
	return fsm.NewFSM(
		stateIdle,
		fsm.Events{
			{Name: eventLinkPending, Src: []string{stateIdle}, Dst: stateConnectingDevice},
			{Name: eventLinkUp, Src: []string{stateIdle, stateConnectingDevice}, Dst: stateConnecting},
			{Name: eventConfirmed, Src: []string{stateConnecting}, Dst: stateConnected},
			{Name: eventAccepted, Src: []string{stateIdle}, Dst: stateConnected},
		},
		hookCallbacks(hook),
	)
}

func newDataChannelFSM(hook stateHook) *fsm.FSM {
	return fsm.NewFSM(
		stateAuthorizing,
		fsm.Events{
			{Name: eventProceed, Src: []string{stateAuthorizing}, Dst: stateConnecting},
			{Name: eventOpened, Src: []string{stateConnecting}, Dst: stateConnected},
		},
		hookCallbacks(hook),
	)
}

func hookCallbacks(hook stateHook) fsm.Callbacks {
	if hook == nil {
		return fsm.Callbacks{}
	}
	return fsm.Callbacks{
		"enter_state": func(_ context.Context, e *fsm.Event) {
			hook(e.Src, e.Dst)
		},
	}
}

// advance fires event on f. States only move forward, so a refused event
// means the caller checked the wrong state.
func advance(f *fsm.FSM, event string) error {
	return f.Event(context.Background(), event)
}
