// Package lazy implements the range protocol used by virtualized containers
// that materialize children on demand.
//
// A host registers one range updater per node with [Provider.OnRangeUpdate].
// When the visible window moves it calls [Provider.SetCurrentIndex], which
// resolves the index to a child and forwards it to the updater. Out-of-range
// indices resolve to [NoItem] instead of failing.
package lazy

import (
	"github.com/go-drift/scene/pkg/callback"
	"github.com/go-drift/scene/pkg/node"
	"github.com/go-drift/scene/pkg/trace"
)

// NoItem is passed to updaters when an index has no materialized child.
var NoItem *node.Node

// ReservedBatchSize is the batch argument every updater receives. Batching
// is driven by the host; the core always reports zero.
const ReservedBatchSize = 0

// Handle is a reference-counted capability captured by an updater, such as
// a VM closure. The provider holds it while the updater is registered and
// releases it when the updater is replaced or the node is disposed.
type Handle interface {
	Hold()
	Release()
}

// Updater receives range updates. item is NoItem when index is outside the
// node's children.
type Updater func(index int, item *node.Node, batch int)

// MoreElementsHook answers whether the host should fetch data past mark in
// direction. The heuristic lives entirely with the host.
type MoreElementsHook func(n *node.Node, mark, direction int) bool

// state is the node payload. It releases the held handle when the node drops
// it.
type state struct {
	total   int
	handle  Handle
	updater Updater
	more    MoreElementsHook
}

func (s *state) Release() {
	if s.handle != nil {
		s.handle.Release()
		s.handle = nil
	}
}

// Provider routes range operations. The zero value is ready to use.
type Provider struct {
	Log *trace.Log
}

func (p *Provider) stateOf(n *node.Node) *state {
	s, _ := n.CustomData().(*state)
	return s
}

func (p *Provider) ensure(n *node.Node) *state {
	if s := p.stateOf(n); s != nil {
		return s
	}
	s := &state{}
	n.SetCustomData(s)
	return s
}

// OnRangeUpdate registers updater for n. The handle is held before it is
// stored. A previous registration is replaced and its handle released, so
// the last registration wins.
func (p *Provider) OnRangeUpdate(n *node.Node, totalCount int, h Handle, updater Updater) {
	if h != nil {
		h.Hold()
	}
	prev := p.stateOf(n)
	next := &state{total: totalCount, handle: h, updater: updater}
	if prev != nil {
		next.more = prev.more
	}
	// SetCustomData releases prev, and with it the previous handle.
	n.SetCustomData(next)
	p.Log.Event(trace.KindLazy, "range updater on %s, total %d", n, totalCount)
}

// SetCurrentIndex resolves index to a child, or NoItem when index is outside
// [0, ChildCount), and hands it to the registered updater. It reports whether
// an updater was registered.
func (p *Provider) SetCurrentIndex(n *node.Node, index int) bool {
	s := p.stateOf(n)
	if s == nil || s.updater == nil {
		return false
	}
	item := NoItem
	if index >= 0 && index < n.ChildCount() {
		item = n.ChildAt(index)
	}
	p.Log.Event(trace.KindLazy, "current index %d on %s (item %v)", index, n, item != NoItem)
	s.updater(index, item, ReservedBatchSize)
	return true
}

// SetMoreElementsHook installs the node's answer to NeedMoreElements.
func (p *Provider) SetMoreElementsHook(n *node.Node, hook MoreElementsHook) {
	p.ensure(n).more = hook
}

// NeedMoreElements asks the node's hook whether more data is wanted past mark
// in direction. Without a hook the answer is false.
func (p *Provider) NeedMoreElements(n *node.Node, mark, direction int) bool {
	s := p.stateOf(n)
	if s == nil || s.more == nil {
		return false
	}
	return s.more(n, mark, direction)
}

// SetChildTotalCount records how many items the virtualized source holds.
func (p *Provider) SetChildTotalCount(n *node.Node, total int) {
	p.ensure(n).total = total
}

// TotalCount returns the recorded item count, or the materialized child count
// when none was recorded.
func (p *Provider) TotalCount(n *node.Node) int {
	if s := p.stateOf(n); s != nil && s.total > 0 {
		return s.total
	}
	return n.ChildCount()
}

// VMUpdater adapts a VM method into an Updater. Each update is sent as
// [index, itemID or -1, batch].
func VMUpdater(d *callback.Dispatcher, vm callback.VMContext, methodID int32) Updater {
	return func(index int, item *node.Node, batch int) {
		itemID := int32(-1)
		if item != NoItem {
			itemID = int32(item.ID())
		}
		d.InvokeRaw(vm, methodID, []callback.Arg{
			callback.Int32(int32(index)),
			callback.Int32(itemID),
			callback.Int32(int32(batch)),
		})
	}
}
