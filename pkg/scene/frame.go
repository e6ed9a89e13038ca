package scene

import (
	"github.com/go-drift/scene/pkg/graphics"
	"github.com/go-drift/scene/pkg/layout"
	"github.com/go-drift/scene/pkg/node"
)

// MeasureNode measures n and its subtree against c.
func (r *Runtime) MeasureNode(n *node.Node, c graphics.Constraints) graphics.Size {
	return r.engine.Measure(n, c)
}

// LayoutNode positions n and its subtree inside box.
func (r *Runtime) LayoutNode(n *node.Node, box graphics.Box) graphics.Box {
	return r.engine.Layout(n, box)
}

// DrawNode runs the draw pass from n onto canvas.
func (r *Runtime) DrawNode(n *node.Node, canvas layout.CanvasHandle) {
	r.engine.Draw(n, layout.DrawContext{Canvas: canvas}, graphics.Box{})
}

// MeasureLayoutAndDraw runs a full frame for root and returns its size.
func (r *Runtime) MeasureLayoutAndDraw(root *node.Node, c graphics.Constraints, canvas layout.CanvasHandle) graphics.Size {
	return r.engine.MeasureLayoutAndDraw(root, c, layout.DrawContext{Canvas: canvas})
}

// MarkDirty flags n for the next FlushFrame.
func (r *Runtime) MarkDirty(n *node.Node, flags node.DirtyFlag) {
	r.pipeline.MarkDirty(n, flags)
}

// NeedsFrame reports whether any tree has pending work.
func (r *Runtime) NeedsFrame() bool {
	return r.pipeline.NeedsFrame()
}

// FlushFrame reruns the pending phases of every dirty tree.
func (r *Runtime) FlushFrame(c graphics.Constraints, canvas layout.CanvasHandle) []layout.Frame {
	return r.pipeline.FlushScheduled(r.engine, c, layout.DrawContext{Canvas: canvas})
}

// FlushRoot reruns the pending phases of root only.
func (r *Runtime) FlushRoot(root *node.Node, c graphics.Constraints, canvas layout.CanvasHandle) layout.Frame {
	return r.pipeline.FlushFrame(r.engine, root, c, layout.DrawContext{Canvas: canvas})
}
