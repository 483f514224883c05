package client

import (
	"sync"

	"github.com/hdpm-project/hdpm-go/pkg/hdp"
	"github.com/hdpm-project/hdpm-go/pkg/ipc"
)

// connWaiter waits for the ConnectionStatusEvent of one instance.
type connWaiter struct {
	addr     hdp.Address
	instance hdp.Instance
	ch       chan hdp.ConnectionStatus
}

// linkWaiter waits for the DataConnectionStatusEvent of one data channel.
// dataLinkID is zero until the ConnectEndpoint response arrives; until then
// the waiter matches on the endpoint.
type linkWaiter struct {
	addr       hdp.Address
	instance   hdp.Instance
	endpointID uint8
	dataLinkID uint32
	ch         chan hdp.ConnectionStatus
}

// waiters holds the blocking calls waiting for a status event. Guarded by
// Client.mu.
type waiters struct {
	conns []*connWaiter
	links []*linkWaiter
}

func (w *waiters) addConn(cw *connWaiter) { w.conns = append(w.conns, cw) }
func (w *waiters) addLink(lw *linkWaiter) { w.links = append(w.links, lw) }

func (w *waiters) removeConn(cw *connWaiter) {
	for i, x := range w.conns {
		if x == cw {
			w.conns = append(w.conns[:i], w.conns[i+1:]...)
			return
		}
	}
}

func (w *waiters) removeLink(lw *linkWaiter) {
	for i, x := range w.links {
		if x == lw {
			w.links = append(w.links[:i], w.links[i+1:]...)
			return
		}
	}
}

// claim completes the waiter ev belongs to, if any.
func (w *waiters) claim(ev ipc.Event) bool {
	switch e := ev.(type) {
	case *ipc.ConnectionStatusEvent:
		for _, cw := range w.conns {
			if cw.addr == e.Address && cw.instance == e.Instance {
				w.removeConn(cw)
				cw.ch <- e.Status
				return true
			}
		}
	case *ipc.DataConnectionStatusEvent:
		var match *linkWaiter
		for _, lw := range w.links {
			if lw.dataLinkID == e.DataLinkID {
				match = lw
				break
			}
			if match == nil && lw.dataLinkID == 0 &&
				lw.addr == e.Address && lw.instance == e.Instance && lw.endpointID == e.EndpointID {
				match = lw
			}
		}
		if match != nil {
			w.removeLink(match)
			match.ch <- e.Status
			return true
		}
	}
	return false
}

// failAll releases every waiter with a closed channel.
func (w *waiters) failAll() {
	for _, cw := range w.conns {
		close(cw.ch)
	}
	for _, lw := range w.links {
		close(lw.ch)
	}
	w.conns = nil
	w.links = nil
}

// eventQueue buffers events for OnEvent without bound so the read loop
// never stalls behind a slow handler.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []ipc.Event
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *eventQueue) push(ev ipc.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, ev)
	q.cond.Signal()
}

func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Broadcast()
}

// run calls fn for each event until the queue is closed and drained.
func (q *eventQueue) run(fn func(ipc.Event)) {
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 {
			q.mu.Unlock()
			return
		}
		ev := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()
		fn(ev)
	}
}
