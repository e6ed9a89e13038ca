// Package node implements the retained scene-graph element.
//
// A Node owns an ordered list of children and holds a non-owning
// back-reference to its parent, used for lookups and dirty propagation only.
// Lifetime is explicit: nodes are created by a factory and torn down with
// Dispose. Disposal is not cascading; see [Node.Dispose] and [DisposeTree].
package node

import (
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/go-drift/scene/pkg/graphics"
)

var (
	// ErrNilChild is returned when a nil child is passed to a tree operation.
	ErrNilChild = errors.New("nil child")
	// ErrHasParent is returned when a child already belongs to another parent
	// and reparenting is not allowed.
	ErrHasParent = errors.New("child already has a different parent")
	// ErrCycle is returned when a node would become its own ancestor.
	ErrCycle = errors.New("insertion would create a cycle")
	// ErrDisposed is returned when either node has been disposed.
	ErrDisposed = errors.New("node is disposed")
	// ErrSiblingNotFound is returned by relative inserts under FallbackReject.
	ErrSiblingNotFound = errors.New("sibling not found")
)

// Releaser is implemented by custom payloads that hold resources which must
// be released when the payload is replaced or the node is disposed.
type Releaser interface {
	Release()
}

// IDGenerator hands out process-wide, monotonically increasing node ids.
// It is safe for concurrent use.
type IDGenerator struct {
	last atomic.Int64
}

// Next returns the next id. The first id is 1.
func (g *IDGenerator) Next() int64 {
	return g.last.Add(1)
}

// Last returns the most recently issued id.
func (g *IDGenerator) Last() int64 {
	return g.last.Load()
}

// Node is one box in the scene graph.
type Node struct {
	id       int64
	typ      Type
	customID int32

	// Name is a debug name. New sets it to "<type>#<id>".
	Name string
	// Flags selects phases delegated to the custom callback.
	Flags Flags
	// WidthSpec and HeightSpec describe how each axis is sized.
	WidthSpec  graphics.Dimension
	HeightSpec graphics.Dimension
	// Alignment positions this node inside its parent's box.
	Alignment graphics.Alignment

	size   graphics.Size
	origin graphics.Offset

	parent   *Node
	children []*Node

	customData any
	attrs      map[string]string
	dirty      DirtyFlag
	disposed   bool
}

// New creates a node with wrap-content sizing on both axes. New nodes are
// fully dirty.
func New(id int64, typ Type, customID int32, flags Flags) *Node {
	return &Node{
		id:         id,
		typ:        typ,
		customID:   customID,
		Name:       fmt.Sprintf("%s#%d", typ, id),
		Flags:      flags,
		WidthSpec:  graphics.Undefined(),
		HeightSpec: graphics.Undefined(),
		dirty:      DirtyAll,
	}
}

// ID returns the node's process-wide id.
func (n *Node) ID() int64 { return n.id }

// Type returns the node's type tag.
func (n *Node) Type() Type { return n.typ }

// CustomID returns the key used to route custom-phase callbacks.
func (n *Node) CustomID() int32 { return n.customID }

func (n *Node) String() string { return n.Name }

// Size returns the size resolved by the last measure pass.
func (n *Node) Size() graphics.Size { return n.size }

// SetSize stores the resolved size.
func (n *Node) SetSize(size graphics.Size) { n.size = size }

// Origin returns the origin recorded by the last layout pass.
func (n *Node) Origin() graphics.Offset { return n.origin }

// SetOrigin stores the resolved origin.
func (n *Node) SetOrigin(origin graphics.Offset) { n.origin = origin }

// Bounds returns the node's laid-out rectangle.
func (n *Node) Bounds() graphics.Box {
	return graphics.Box{X: n.origin.X, Y: n.origin.Y, Width: n.size.Width, Height: n.size.Height}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Disposed reports whether Dispose has been called.
func (n *Node) Disposed() bool { return n.disposed }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the child at index, or nil when out of range.
func (n *Node) ChildAt(index int) *Node {
	if index < 0 || index >= len(n.children) {
		return nil
	}
	return n.children[index]
}

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// VisitChildren calls visitor for each child in list order.
func (n *Node) VisitChildren(visitor func(*Node)) {
	for _, child := range n.children {
		visitor(child)
	}
}

// IndexOf returns the position of child, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	return -1
}

// Depth returns the number of ancestors.
func (n *Node) Depth() int {
	depth := 0
	for p := n.parent; p != nil; p = p.parent {
		depth++
	}
	return depth
}

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	root := n
	for root.parent != nil {
		root = root.parent
	}
	return root
}

// CustomData returns the opaque payload.
func (n *Node) CustomData() any { return n.customData }

// SetCustomData replaces the opaque payload. A previous payload that
// implements Releaser is released.
func (n *Node) SetCustomData(data any) {
	if old, ok := n.customData.(Releaser); ok && any(old) != data {
		old.Release()
	}
	n.customData = data
}

// SetAttribute stores a component property. Properties are inert: nothing in
// the layout engine reads them.
func (n *Node) SetAttribute(name, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[name] = value
}

// Attribute returns a stored property.
func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// ResetAttribute removes a stored property.
func (n *Node) ResetAttribute(name string) {
	delete(n.attrs, name)
}

// Attributes returns the stored property names in sorted order.
func (n *Node) Attributes() []string {
	names := make([]string, 0, len(n.attrs))
	for name := range n.attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dirty returns the pending dirty flags.
func (n *Node) Dirty() DirtyFlag { return n.dirty }

// MarkDirty sets flags on this node and every ancestor, stopping at the first
// ancestor that already carries them.
func (n *Node) MarkDirty(flags DirtyFlag) {
	for node := n; node != nil; node = node.parent {
		if node != n && node.dirty&flags == flags {
			return
		}
		node.dirty |= flags
	}
}

// ClearDirty clears flags on this node only.
func (n *Node) ClearDirty(flags DirtyFlag) {
	n.dirty &^= flags
}

// Dispose tears the node down. The payload is released, the node is removed
// from its parent, and its children are detached and become roots. Children
// are not disposed; they are returned so the caller can dispose or reattach
// them. Dispose is idempotent.
func (n *Node) Dispose() []*Node {
	if n.disposed {
		return nil
	}
	n.SetCustomData(nil)
	if n.parent != nil {
		n.parent.RemoveChild(n)
	}
	orphans := n.children
	for _, child := range orphans {
		child.parent = nil
	}
	n.children = nil
	n.attrs = nil
	n.disposed = true
	return orphans
}

// DisposeTree disposes root and all of its descendants, children first.
func DisposeTree(root *Node) {
	if root == nil {
		return
	}
	for _, child := range root.Children() {
		DisposeTree(child)
	}
	root.Dispose()
}

// Walk visits n and its descendants in pre-order. Returning false from visit
// skips the node's subtree.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range n.children {
		Walk(child, visit)
	}
}
