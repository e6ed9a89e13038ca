// Package event carries input forwarded from the host to the scripting
// layer. Only clicks are modeled.
package event

import (
	"fmt"
	"sync"
)

// Kind identifies an event.
type Kind int32

const (
	KindClick Kind = iota + 1
)

func (k Kind) String() string {
	switch k {
	case KindClick:
		return "click"
	default:
		return fmt.Sprintf("Kind(%d)", int32(k))
	}
}

// Event is one queued input event.
type Event struct {
	Kind     Kind
	NodeID   int64
	CustomID int32
	// X and Y are in the coordinate space of the laid-out tree.
	X, Y float32
}

// Queue is a FIFO of events. It is safe for concurrent use; the host sends
// and the VM polls with Check.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// Send appends ev.
func (q *Queue) Send(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Check pops the oldest event without blocking.
func (q *Queue) Check() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events[0] = Event{}
	q.events = q.events[1:]
	return ev, true
}

// Len returns the number of queued events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
