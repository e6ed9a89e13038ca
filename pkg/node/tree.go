package node

import (
	"fmt"
	"strings"
)

// Fallback selects where InsertChildAfter and InsertChildBefore place a child
// when the named sibling is not a child of the parent.
type Fallback int

const (
	// FallbackAppend inserts at the end of the child list.
	FallbackAppend Fallback = iota
	// FallbackPrepend inserts at the start of the child list.
	FallbackPrepend
	// FallbackReject leaves the tree untouched and returns ErrSiblingNotFound.
	FallbackReject
)

func (f Fallback) String() string {
	switch f {
	case FallbackPrepend:
		return "prepend"
	case FallbackReject:
		return "reject"
	default:
		return "append"
	}
}

// ParseFallback parses the names produced by String.
func ParseFallback(s string) (Fallback, error) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "", "append":
		return FallbackAppend, nil
	case "prepend":
		return FallbackPrepend, nil
	case "reject":
		return FallbackReject, nil
	}
	return 0, fmt.Errorf("unknown insert fallback %q", s)
}

// Policy holds the tree mutation rules.
type Policy struct {
	// Fallback applies to relative inserts with a missing sibling.
	Fallback Fallback
	// AllowReparent moves a child that belongs to another parent instead of
	// rejecting it with ErrHasParent.
	AllowReparent bool
}

// DefaultPolicy appends on a missing sibling and rejects reparenting.
var DefaultPolicy = Policy{Fallback: FallbackAppend}

// AddChild appends child using DefaultPolicy.
func (n *Node) AddChild(child *Node) error {
	return DefaultPolicy.AddChild(n, child)
}

// InsertChildAt inserts child at position using DefaultPolicy.
func (n *Node) InsertChildAt(child *Node, position int) error {
	return DefaultPolicy.InsertChildAt(n, child, position)
}

// InsertChildAfter inserts child after sibling using DefaultPolicy.
func (n *Node) InsertChildAfter(child, sibling *Node) error {
	return DefaultPolicy.InsertChildAfter(n, child, sibling)
}

// InsertChildBefore inserts child before sibling using DefaultPolicy.
func (n *Node) InsertChildBefore(child, sibling *Node) error {
	return DefaultPolicy.InsertChildBefore(n, child, sibling)
}

// RemoveChild removes the first occurrence of child and clears its parent.
// It reports whether the child was present.
func (n *Node) RemoveChild(child *Node) bool {
	i := n.IndexOf(child)
	if i < 0 {
		return false
	}
	n.children = append(n.children[:i], n.children[i+1:]...)
	child.parent = nil
	n.MarkDirty(DirtyAll)
	return true
}

// AddChild appends child to parent. A child already in parent's list is
// moved to the end.
func (p Policy) AddChild(parent, child *Node) error {
	if err := p.adopt(parent, child); err != nil {
		return err
	}
	parent.children = append(parent.children, child)
	parent.MarkDirty(DirtyAll)
	return nil
}

// InsertChildAt inserts child at position, clamped into [0, ChildCount].
func (p Policy) InsertChildAt(parent, child *Node, position int) error {
	if err := p.adopt(parent, child); err != nil {
		return err
	}
	parent.insertAt(child, position)
	return nil
}

// InsertChildAfter inserts child directly after sibling.
func (p Policy) InsertChildAfter(parent, child, sibling *Node) error {
	return p.insertRelative(parent, child, sibling, 1)
}

// InsertChildBefore inserts child directly before sibling.
func (p Policy) InsertChildBefore(parent, child, sibling *Node) error {
	return p.insertRelative(parent, child, sibling, 0)
}

func (p Policy) insertRelative(parent, child, sibling *Node, delta int) error {
	if child != nil && child == sibling && child.parent == parent {
		return nil
	}
	if err := p.check(parent, child); err != nil {
		return err
	}
	idx := -1
	if sibling != nil && sibling != child {
		idx = parent.IndexOf(sibling)
	}
	if idx < 0 && p.Fallback == FallbackReject {
		return ErrSiblingNotFound
	}
	if err := p.adopt(parent, child); err != nil {
		return err
	}
	switch {
	case idx >= 0:
		// adopt may have removed child ahead of sibling.
		parent.insertAt(child, parent.IndexOf(sibling)+delta)
	case p.Fallback == FallbackPrepend:
		parent.insertAt(child, 0)
	default:
		parent.insertAt(child, len(parent.children))
	}
	return nil
}

// check validates a mutation without changing the tree.
func (p Policy) check(parent, child *Node) error {
	if child == nil {
		return ErrNilChild
	}
	if parent.disposed || child.disposed {
		return ErrDisposed
	}
	for a := parent; a != nil; a = a.parent {
		if a == child {
			return ErrCycle
		}
	}
	if child.parent != nil && child.parent != parent && !p.AllowReparent {
		return ErrHasParent
	}
	return nil
}

// adopt validates and detaches child from wherever it currently sits so that
// the caller can place it exactly once.
func (p Policy) adopt(parent, child *Node) error {
	if err := p.check(parent, child); err != nil {
		return err
	}
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = parent
	return nil
}

func (n *Node) insertAt(child *Node, position int) {
	position = max(0, min(position, len(n.children)))
	n.children = append(n.children, nil)
	copy(n.children[position+1:], n.children[position:])
	n.children[position] = child
	child.parent = n
	n.MarkDirty(DirtyAll)
}
