package scene

import (
	"github.com/go-drift/scene/pkg/lazy"
	"github.com/go-drift/scene/pkg/node"
)

// OnRangeUpdate registers updater as n's range updater. h is held while
// registered. A later registration replaces this one.
func (r *Runtime) OnRangeUpdate(n *node.Node, totalCount int, h lazy.Handle, updater lazy.Updater) {
	r.lazy.OnRangeUpdate(n, totalCount, h, updater)
}

// OnRangeUpdateVM registers a VM method as n's range updater.
func (r *Runtime) OnRangeUpdateVM(n *node.Node, totalCount int, h lazy.Handle, methodID int32) {
	r.lazy.OnRangeUpdate(n, totalCount, h, lazy.VMUpdater(&r.dispatcher, r.vm, methodID))
}

// SetCurrentIndex forwards the visible index of n to its range updater.
func (r *Runtime) SetCurrentIndex(n *node.Node, index int) bool {
	return r.lazy.SetCurrentIndex(n, index)
}

// SetMoreElementsHook installs n's need-more-elements answer.
func (r *Runtime) SetMoreElementsHook(n *node.Node, hook lazy.MoreElementsHook) {
	r.lazy.SetMoreElementsHook(n, hook)
}

// NeedMoreElements asks n whether more items are wanted past mark.
func (r *Runtime) NeedMoreElements(n *node.Node, mark, direction int) bool {
	return r.lazy.NeedMoreElements(n, mark, direction)
}

// SetChildTotalCount records the virtual item count of n.
func (r *Runtime) SetChildTotalCount(n *node.Node, total int) {
	r.lazy.SetChildTotalCount(n, total)
}

// TotalCount returns the virtual item count of n.
func (r *Runtime) TotalCount(n *node.Node) int {
	return r.lazy.TotalCount(n)
}
