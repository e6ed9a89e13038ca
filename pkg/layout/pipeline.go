package layout

import (
	"cmp"
	"slices"

	"github.com/go-drift/scene/pkg/graphics"
	"github.com/go-drift/scene/pkg/node"
)

// Pipeline tracks tree roots whose nodes were marked dirty and reruns only
// the phases those marks require.
//
// Marking a node dirty propagates the flags to every ancestor, so a root's
// own flags summarize its subtree: a measure mark implies relayout and
// redraw, a layout mark implies redraw.
type Pipeline struct {
	dirty    []*node.Node        // roots needing work, in scheduling order
	dirtySet map[*node.Node]bool // O(1) dedup check
}

// Frame reports which phases ran for a root.
type Frame struct {
	Root     *node.Node
	Size     graphics.Size
	Measured bool
	LaidOut  bool
	Drawn    bool
}

// MarkDirty marks n with flags and schedules its root.
func (p *Pipeline) MarkDirty(n *node.Node, flags node.DirtyFlag) {
	if n == nil || flags == 0 {
		return
	}
	n.MarkDirty(flags)
	p.Schedule(n.Root())
}

// Schedule queues a root for the next flush.
func (p *Pipeline) Schedule(root *node.Node) {
	if p.dirtySet == nil {
		p.dirtySet = make(map[*node.Node]bool)
	}
	if p.dirtySet[root] {
		return
	}
	p.dirtySet[root] = true
	p.dirty = append(p.dirty, root)
}

// NeedsFrame reports if any root is scheduled.
func (p *Pipeline) NeedsFrame() bool {
	return len(p.dirty) > 0
}

// FlushFrame runs the pending phases for root. A clean root does nothing.
//
// The typical frame sequence is:
//  1. Measure, if the root carries DirtyMeasure.
//  2. Layout at the origin with the measured size, if measure ran or the
//     root carries DirtyLayout.
//  3. Draw, if anything ran or the root carries DirtyDraw.
func (p *Pipeline) FlushFrame(e *Engine, root *node.Node, c graphics.Constraints, dc DrawContext) Frame {
	p.unschedule(root)
	frame := Frame{Root: root, Size: root.Size()}
	dirty := root.Dirty()
	if dirty == 0 {
		return frame
	}
	if dirty&node.DirtyMeasure != 0 {
		frame.Size = e.Measure(root, c)
		frame.Measured = true
	}
	if frame.Measured || dirty&node.DirtyLayout != 0 {
		e.Layout(root, graphics.Box{X: root.Origin().X, Y: root.Origin().Y, Width: frame.Size.Width, Height: frame.Size.Height})
		frame.LaidOut = true
	}
	e.Draw(root, dc, graphics.Box{})
	frame.Drawn = true
	return frame
}

// FlushScheduled flushes every scheduled root, oldest node first, with the
// same constraints. Disposed roots are dropped.
func (p *Pipeline) FlushScheduled(e *Engine, c graphics.Constraints, dc DrawContext) []Frame {
	roots := p.dirty
	p.dirty = nil
	p.dirtySet = nil

	slices.SortFunc(roots, func(a, b *node.Node) int {
		return cmp.Compare(a.ID(), b.ID())
	})

	frames := make([]Frame, 0, len(roots))
	for _, root := range roots {
		if root.Disposed() || root.Parent() != nil {
			continue
		}
		if f := p.FlushFrame(e, root, c, dc); f.Drawn {
			frames = append(frames, f)
		}
	}
	return frames
}

func (p *Pipeline) unschedule(root *node.Node) {
	if !p.dirtySet[root] {
		return
	}
	delete(p.dirtySet, root)
	p.dirty = slices.DeleteFunc(p.dirty, func(n *node.Node) bool { return n == root })
}
