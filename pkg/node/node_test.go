package node

import (
	"errors"
	"slices"
	"testing"
)

var testIDs IDGenerator

func newTestNode(typ Type) *Node {
	return New(testIDs.Next(), typ, 0, FlagNone)
}

func children(n *Node) []*Node {
	return n.Children()
}

func TestIDGeneratorMonotonic(t *testing.T) {
	var g IDGenerator
	prev := int64(0)
	for i := 0; i < 100; i++ {
		id := g.Next()
		if id <= prev {
			t.Fatalf("id %d not greater than previous %d", id, prev)
		}
		prev = id
	}
	if g.Last() != prev {
		t.Errorf("Last() = %d, want %d", g.Last(), prev)
	}
}

func TestNewDefaults(t *testing.T) {
	n := New(7, TypeStack, 99, FlagCustomDraw)
	if n.ID() != 7 || n.Type() != TypeStack || n.CustomID() != 99 {
		t.Errorf("identity = (%d, %v, %d)", n.ID(), n.Type(), n.CustomID())
	}
	if n.Name != "stack#7" {
		t.Errorf("Name = %q, want %q", n.Name, "stack#7")
	}
	if !n.WidthSpec.IsWrap() || !n.HeightSpec.IsWrap() {
		t.Error("new nodes should wrap content on both axes")
	}
	if n.Dirty() != DirtyAll {
		t.Errorf("Dirty() = %b, want %b", n.Dirty(), DirtyAll)
	}
}

func TestAddRemoveRoundTrip(t *testing.T) {
	parent := newTestNode(TypeColumn)
	a, b := newTestNode(TypeText), newTestNode(TypeText)
	if err := parent.AddChild(a); err != nil {
		t.Fatal(err)
	}
	if err := parent.AddChild(b); err != nil {
		t.Fatal(err)
	}
	before := children(parent)

	c := newTestNode(TypeButton)
	if err := parent.AddChild(c); err != nil {
		t.Fatal(err)
	}
	if c.Parent() != parent {
		t.Error("AddChild should set the parent back-reference")
	}
	if !parent.RemoveChild(c) {
		t.Fatal("RemoveChild reported child missing")
	}

	if !slices.Equal(children(parent), before) {
		t.Errorf("children after round trip = %v, want %v", children(parent), before)
	}
	if c.Parent() != nil {
		t.Error("RemoveChild should clear the parent back-reference")
	}
}

func TestRemoveMissingChild(t *testing.T) {
	parent := newTestNode(TypeColumn)
	if parent.RemoveChild(newTestNode(TypeText)) {
		t.Error("RemoveChild of a stranger should report false")
	}
}

func TestAddChildRejectsForeignParent(t *testing.T) {
	p1, p2 := newTestNode(TypeColumn), newTestNode(TypeRow)
	c := newTestNode(TypeText)
	if err := p1.AddChild(c); err != nil {
		t.Fatal(err)
	}
	if err := p2.AddChild(c); !errors.Is(err, ErrHasParent) {
		t.Fatalf("AddChild to second parent = %v, want ErrHasParent", err)
	}
	if p2.ChildCount() != 0 || c.Parent() != p1 {
		t.Error("rejected AddChild must not change either tree")
	}
}

func TestAllowReparentMovesChild(t *testing.T) {
	p1, p2 := newTestNode(TypeColumn), newTestNode(TypeRow)
	c := newTestNode(TypeText)
	policy := Policy{AllowReparent: true}
	if err := policy.AddChild(p1, c); err != nil {
		t.Fatal(err)
	}
	if err := policy.AddChild(p2, c); err != nil {
		t.Fatal(err)
	}
	if p1.ChildCount() != 0 || p2.ChildCount() != 1 || c.Parent() != p2 {
		t.Errorf("child not moved: p1=%d p2=%d parent=%v", p1.ChildCount(), p2.ChildCount(), c.Parent())
	}
}

func TestReAddMovesWithoutDuplicating(t *testing.T) {
	parent := newTestNode(TypeColumn)
	a, b := newTestNode(TypeText), newTestNode(TypeText)
	parent.AddChild(a)
	parent.AddChild(b)
	if err := parent.AddChild(a); err != nil {
		t.Fatal(err)
	}
	if got, want := children(parent), []*Node{b, a}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestAddChildRejectsCycle(t *testing.T) {
	root := newTestNode(TypeColumn)
	mid := newTestNode(TypeRow)
	leaf := newTestNode(TypeText)
	root.AddChild(mid)
	mid.AddChild(leaf)

	if err := leaf.AddChild(root); !errors.Is(err, ErrCycle) {
		t.Errorf("AddChild(ancestor) = %v, want ErrCycle", err)
	}
	if err := root.AddChild(root); !errors.Is(err, ErrCycle) {
		t.Errorf("AddChild(self) = %v, want ErrCycle", err)
	}
	if err := root.AddChild(nil); !errors.Is(err, ErrNilChild) {
		t.Errorf("AddChild(nil) = %v, want ErrNilChild", err)
	}
}

func TestInsertChildAtClamps(t *testing.T) {
	tests := []struct {
		name     string
		position func(count int) int
		wantIdx  func(count int) int
	}{
		{"negative clamps to first", func(int) int { return -1 }, func(int) int { return 0 }},
		{"past end clamps to last", func(c int) int { return c + 100 }, func(c int) int { return c }},
		{"middle", func(int) int { return 1 }, func(int) int { return 1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parent := newTestNode(TypeColumn)
			for i := 0; i < 3; i++ {
				parent.AddChild(newTestNode(TypeText))
			}
			count := parent.ChildCount()
			c := newTestNode(TypeButton)
			if err := parent.InsertChildAt(c, tt.position(count)); err != nil {
				t.Fatalf("InsertChildAt: %v", err)
			}
			if got := parent.IndexOf(c); got != tt.wantIdx(count) {
				t.Errorf("IndexOf = %d, want %d", got, tt.wantIdx(count))
			}
			if parent.ChildCount() != count+1 {
				t.Errorf("ChildCount = %d, want %d", parent.ChildCount(), count+1)
			}
		})
	}
}

func TestInsertRelative(t *testing.T) {
	parent := newTestNode(TypeColumn)
	a, b := newTestNode(TypeText), newTestNode(TypeText)
	parent.AddChild(a)
	parent.AddChild(b)

	after := newTestNode(TypeButton)
	if err := parent.InsertChildAfter(after, a); err != nil {
		t.Fatal(err)
	}
	before := newTestNode(TypeButton)
	if err := parent.InsertChildBefore(before, a); err != nil {
		t.Fatal(err)
	}

	if got, want := children(parent), []*Node{before, a, after, b}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestInsertRelativeMovesExistingChild(t *testing.T) {
	parent := newTestNode(TypeColumn)
	a, b, c := newTestNode(TypeText), newTestNode(TypeText), newTestNode(TypeText)
	parent.AddChild(a)
	parent.AddChild(b)
	parent.AddChild(c)

	if err := parent.InsertChildAfter(a, c); err != nil {
		t.Fatal(err)
	}
	if got, want := children(parent), []*Node{b, c, a}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
	if err := parent.InsertChildBefore(a, b); err != nil {
		t.Fatal(err)
	}
	if got, want := children(parent), []*Node{a, b, c}; !slices.Equal(got, want) {
		t.Errorf("children = %v, want %v", got, want)
	}
}

func TestInsertRelativeMissingSiblingFallback(t *testing.T) {
	tests := []struct {
		fallback Fallback
		wantIdx  int
		wantErr  error
	}{
		{FallbackAppend, 2, nil},
		{FallbackPrepend, 0, nil},
		{FallbackReject, -1, ErrSiblingNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.fallback.String(), func(t *testing.T) {
			parent := newTestNode(TypeColumn)
			parent.AddChild(newTestNode(TypeText))
			parent.AddChild(newTestNode(TypeText))
			stranger := newTestNode(TypeText)

			c := newTestNode(TypeButton)
			policy := Policy{Fallback: tt.fallback}
			err := policy.InsertChildAfter(parent, c, stranger)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if got := parent.IndexOf(c); got != tt.wantIdx {
				t.Errorf("IndexOf = %d, want %d", got, tt.wantIdx)
			}
			if tt.wantErr != nil && c.Parent() != nil {
				t.Error("rejected insert must leave the child parentless")
			}
		})
	}
}

func TestDisposeIsNotCascading(t *testing.T) {
	root := newTestNode(TypeColumn)
	mid := newTestNode(TypeRow)
	leaf := newTestNode(TypeText)
	root.AddChild(mid)
	mid.AddChild(leaf)

	orphans := mid.Dispose()
	if !mid.Disposed() {
		t.Error("mid should be disposed")
	}
	if root.ChildCount() != 0 {
		t.Error("disposed node should be removed from its parent")
	}
	if len(orphans) != 1 || orphans[0] != leaf {
		t.Fatalf("orphans = %v, want [leaf]", orphans)
	}
	if leaf.Disposed() || leaf.Parent() != nil {
		t.Error("children must be detached but not disposed")
	}
	if err := mid.AddChild(newTestNode(TypeText)); !errors.Is(err, ErrDisposed) {
		t.Errorf("AddChild on disposed node = %v, want ErrDisposed", err)
	}
	if mid.Dispose() != nil {
		t.Error("second Dispose should be a no-op")
	}
}

type countingReleaser struct{ released int }

func (r *countingReleaser) Release() { r.released++ }

func TestDisposeTreeReleasesPayloads(t *testing.T) {
	root := newTestNode(TypeList)
	var payloads []*countingReleaser
	for i := 0; i < 3; i++ {
		c := newTestNode(TypeListItem)
		r := &countingReleaser{}
		c.SetCustomData(r)
		payloads = append(payloads, r)
		root.AddChild(c)
	}
	kids := root.Children()

	DisposeTree(root)

	if !root.Disposed() {
		t.Error("root should be disposed")
	}
	for i, c := range kids {
		if !c.Disposed() {
			t.Errorf("child %d not disposed", i)
		}
		if payloads[i].released != 1 {
			t.Errorf("payload %d released %d times, want 1", i, payloads[i].released)
		}
	}
}

func TestSetCustomDataReleasesPrevious(t *testing.T) {
	n := newTestNode(TypeList)
	first, second := &countingReleaser{}, &countingReleaser{}
	n.SetCustomData(first)
	n.SetCustomData(first)
	if first.released != 0 {
		t.Error("re-setting the same payload must not release it")
	}
	n.SetCustomData(second)
	if first.released != 1 || second.released != 0 {
		t.Errorf("released = (%d, %d), want (1, 0)", first.released, second.released)
	}
}

func TestMarkDirtyPropagatesToAncestors(t *testing.T) {
	root := newTestNode(TypeColumn)
	mid := newTestNode(TypeRow)
	leaf := newTestNode(TypeText)
	root.AddChild(mid)
	mid.AddChild(leaf)
	for _, n := range []*Node{root, mid, leaf} {
		n.ClearDirty(DirtyAll)
	}

	leaf.MarkDirty(DirtyLayout)

	for _, n := range []*Node{root, mid, leaf} {
		if n.Dirty() != DirtyLayout {
			t.Errorf("%v dirty = %b, want %b", n, n.Dirty(), DirtyLayout)
		}
	}
}

func TestAttributesAreInert(t *testing.T) {
	n := newTestNode(TypeText)
	n.SetAttribute("fontColor", "#ff0000")
	n.SetAttribute("backgroundColor", "#000000")
	if v, ok := n.Attribute("fontColor"); !ok || v != "#ff0000" {
		t.Errorf("Attribute(fontColor) = %q, %v", v, ok)
	}
	if got, want := n.Attributes(), []string{"backgroundColor", "fontColor"}; !slices.Equal(got, want) {
		t.Errorf("Attributes() = %v, want %v", got, want)
	}
	n.ResetAttribute("fontColor")
	if _, ok := n.Attribute("fontColor"); ok {
		t.Error("ResetAttribute should remove the property")
	}
	if n.Size().Width != 0 || n.Dirty() != DirtyAll {
		t.Error("attributes must not affect geometry or dirty state")
	}
}

func TestParseTypeAndFlags(t *testing.T) {
	for _, typ := range []Type{TypeText, TypeListItemGroup, TypeTabContent} {
		got, err := ParseType(typ.String())
		if err != nil || got != typ {
			t.Errorf("ParseType(%q) = %v, %v", typ.String(), got, err)
		}
	}
	fl, err := ParseFlags("measure|draw")
	if err != nil {
		t.Fatal(err)
	}
	if !fl.Has(FlagCustomMeasure) || !fl.Has(FlagCustomDraw) || fl.Has(FlagCustomLayout) {
		t.Errorf("ParseFlags = %v", fl)
	}
	if fl.String() != "measure|draw" {
		t.Errorf("Flags.String() = %q", fl.String())
	}
	if _, err := ParseFlags("paint"); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestWalkPreOrder(t *testing.T) {
	root := newTestNode(TypeColumn)
	a, b := newTestNode(TypeRow), newTestNode(TypeRow)
	a1 := newTestNode(TypeText)
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a1)

	var order []*Node
	Walk(root, func(n *Node) bool {
		order = append(order, n)
		return true
	})
	if want := []*Node{root, a, a1, b}; !slices.Equal(order, want) {
		t.Errorf("Walk order = %v, want %v", order, want)
	}
	if a1.Depth() != 2 || a1.Root() != root {
		t.Errorf("Depth = %d, Root = %v", a1.Depth(), a1.Root())
	}
}
