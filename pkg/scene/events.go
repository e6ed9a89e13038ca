package scene

import (
	"github.com/go-drift/scene/pkg/event"
	"github.com/go-drift/scene/pkg/graphics"
	"github.com/go-drift/scene/pkg/node"
	"github.com/go-drift/scene/pkg/trace"
)

// RegisterClick makes n a click target.
func (r *Runtime) RegisterClick(n *node.Node) {
	r.clickable[n] = true
}

// UnregisterClick removes n as a click target.
func (r *Runtime) UnregisterClick(n *node.Node) {
	delete(r.clickable, n)
}

// DispatchClick hit-tests the laid-out tree under root at (x, y) and queues a
// click for the nearest registered target at or above the hit node. It
// reports whether a click was queued.
func (r *Runtime) DispatchClick(root *node.Node, x, y float32) bool {
	hit := HitTest(root, graphics.Offset{X: x, Y: y})
	for n := hit; n != nil; n = n.Parent() {
		if !r.clickable[n] {
			continue
		}
		r.events.Send(event.Event{
			Kind:     event.KindClick,
			NodeID:   n.ID(),
			CustomID: n.CustomID(),
			X:        x,
			Y:        y,
		})
		r.log.Event(trace.KindEvent, "click (%g,%g) -> %s", x, y, n)
		return true
	}
	r.log.Event(trace.KindEvent, "click (%g,%g) missed", x, y)
	return false
}

// HitTest returns the deepest node under p. Later siblings are drawn on top
// and win ties.
func HitTest(n *node.Node, p graphics.Offset) *node.Node {
	if n == nil || !n.Bounds().Contains(p) {
		return nil
	}
	for i := n.ChildCount() - 1; i >= 0; i-- {
		if hit := HitTest(n.ChildAt(i), p); hit != nil {
			return hit
		}
	}
	return n
}

// SendEvent queues ev for the VM.
func (r *Runtime) SendEvent(ev event.Event) {
	r.events.Send(ev)
}

// CheckEvent pops the oldest queued event.
func (r *Runtime) CheckEvent() (event.Event, bool) {
	return r.events.Check()
}
