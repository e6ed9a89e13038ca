// Package layout runs the measure, layout and draw passes over a node tree.
//
// The passes are plain recursive calls on the caller's goroutine. Siblings
// are visited in child-list order and never concurrently. A node whose
// custom flag is set for a phase hands that phase to the callback dispatcher
// and the engine does not descend into its subtree for that phase.
package layout

import (
	"github.com/go-drift/scene/pkg/callback"
	"github.com/go-drift/scene/pkg/graphics"
	"github.com/go-drift/scene/pkg/instrument"
	"github.com/go-drift/scene/pkg/node"
	"github.com/go-drift/scene/pkg/trace"
)

// CanvasHandle is an opaque drawing surface owned by the host.
type CanvasHandle uintptr

// DrawContext carries the surface through the draw pass.
type DrawContext struct {
	Canvas CanvasHandle
}

// Tracer observes every phase entry, before delays are applied.
type Tracer interface {
	EnterPhase(phase instrument.Phase, n *node.Node)
}

// TracerFunc adapts a function to Tracer.
type TracerFunc func(phase instrument.Phase, n *node.Node)

// EnterPhase calls f.
func (f TracerFunc) EnterPhase(phase instrument.Phase, n *node.Node) { f(phase, n) }

// Engine runs the three passes. All fields are optional except Dispatcher,
// which must be set with a registered method before any node with a custom
// flag is visited.
type Engine struct {
	Dispatcher *callback.Dispatcher
	Delays     *instrument.Table
	Log        *trace.Log
	Tracer     Tracer
	// VM is passed through to every callback.
	VM callback.VMContext
}

func (e *Engine) enter(phase instrument.Phase, n *node.Node) {
	if e.Tracer != nil {
		e.Tracer.EnterPhase(phase, n)
	}
	e.Delays.Apply(phase, n.Type())
}

// Measure resolves the size of n and, unless n measures itself through a
// callback, of its whole subtree.
//
// Each node resolves its own dimensions against c.MinWidth and c.MinHeight,
// which carry the parent's resolved extents. Children receive
// {MinWidth, MinHeight, MinHeight, MaxHeight} with the first two slots
// replaced by this node's extents on non-wrap axes. The third slot repeats
// MinHeight rather than MaxWidth; hosts depend on that layout, so it is kept.
// Wrap-content axes take the maximum child extent.
func (e *Engine) Measure(n *node.Node, c graphics.Constraints) graphics.Size {
	e.enter(instrument.PhaseMeasure, n)
	defer n.ClearDirty(node.DirtyMeasure)

	if n.Flags.Has(node.FlagCustomMeasure) {
		res := e.Dispatcher.Invoke(e.VM, n.CustomID(), callback.MeasureCall(c))
		n.SetSize(res.Size)
		settle(n, node.DirtyMeasure)
		e.Log.Event(trace.KindCallback, "measure %s -> %gx%g (status %d)", n, res.Size.Width, res.Size.Height, res.Status)
		return res.Size
	}

	wrapW, wrapH := n.WidthSpec.IsWrap(), n.HeightSpec.IsWrap()
	size := graphics.Size{
		Width:  n.WidthSpec.Resolve(c.MinWidth),
		Height: n.HeightSpec.Resolve(c.MinHeight),
	}

	childConstraints := graphics.Constraints{
		MinWidth:  c.MinWidth,
		MinHeight: c.MinHeight,
		MaxWidth:  c.MinHeight,
		MaxHeight: c.MaxHeight,
	}
	if !wrapW {
		childConstraints.MinWidth = size.Width
	}
	if !wrapH {
		childConstraints.MinHeight = size.Height
	}

	n.VisitChildren(func(child *node.Node) {
		childSize := e.Measure(child, childConstraints)
		if wrapW {
			size.Width = max(size.Width, childSize.Width)
		}
		if wrapH {
			size.Height = max(size.Height, childSize.Height)
		}
	})

	n.SetSize(size)
	e.Log.Event(trace.KindLayout, "measure %s -> %gx%g", n, size.Width, size.Height)
	return size
}

// Layout records the origin of n from box and positions each child inside
// box using the child's alignment. It returns box.
func (e *Engine) Layout(n *node.Node, box graphics.Box) graphics.Box {
	e.enter(instrument.PhaseLayout, n)
	defer n.ClearDirty(node.DirtyLayout)

	if n.Flags.Has(node.FlagCustomLayout) {
		res := e.Dispatcher.Invoke(e.VM, n.CustomID(), callback.LayoutCall(box))
		settle(n, node.DirtyLayout)
		e.Log.Event(trace.KindCallback, "layout %s at (%g,%g) (status %d)", n, box.X, box.Y, res.Status)
		return box
	}

	n.SetOrigin(box.Origin())
	n.VisitChildren(func(child *node.Node) {
		e.Layout(child, child.Alignment.Within(box, child.Size()))
	})
	e.Log.Event(trace.KindLayout, "layout %s at (%g,%g)", n, box.X, box.Y)
	return box
}

// Draw propagates the draw pass. Native nodes paint nothing themselves; they
// recurse with a zero box so custom-draw descendants are reached.
func (e *Engine) Draw(n *node.Node, dc DrawContext, box graphics.Box) {
	e.enter(instrument.PhaseDraw, n)
	defer n.ClearDirty(node.DirtyDraw)

	if n.Flags.Has(node.FlagCustomDraw) {
		res := e.Dispatcher.Invoke(e.VM, n.CustomID(), callback.DrawCall(uintptr(dc.Canvas), box))
		settle(n, node.DirtyDraw)
		e.Log.Event(trace.KindCallback, "draw %s (status %d)", n, res.Status)
		return
	}

	n.VisitChildren(func(child *node.Node) {
		e.Draw(child, dc, graphics.Box{})
	})
}

// settle clears flag on every descendant of n. A subtree skipped by a custom
// phase must not keep stale marks: MarkDirty stops climbing at the first
// ancestor that already carries them.
func settle(n *node.Node, flag node.DirtyFlag) {
	n.VisitChildren(func(child *node.Node) {
		child.ClearDirty(flag)
		settle(child, flag)
	})
}

// MeasureLayoutAndDraw runs a full frame for root: measure with c, layout in
// a box of the measured size at the origin, then draw.
func (e *Engine) MeasureLayoutAndDraw(root *node.Node, c graphics.Constraints, dc DrawContext) graphics.Size {
	size := e.Measure(root, c)
	e.Layout(root, graphics.BoxFromSize(size))
	e.Draw(root, dc, graphics.Box{})
	return size
}
