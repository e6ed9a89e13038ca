package layout

import (
	"testing"
	"time"

	"github.com/go-drift/scene/pkg/callback"
	"github.com/go-drift/scene/pkg/graphics"
	"github.com/go-drift/scene/pkg/instrument"
	"github.com/go-drift/scene/pkg/node"
)

var ids node.IDGenerator

func newNode(w, h graphics.Dimension) *node.Node {
	n := node.New(ids.Next(), node.TypeStack, int32(ids.Last()), node.FlagNone)
	n.WidthSpec = w
	n.HeightSpec = h
	return n
}

func fixed(w, h float32) *node.Node {
	return newNode(graphics.Px(w), graphics.Px(h))
}

func wrap() *node.Node {
	return newNode(graphics.Undefined(), graphics.Undefined())
}

// fakeVM answers measure calls with a fixed size and records everything.
type fakeVM struct {
	size  graphics.Size
	calls []callback.Call
	ids   []int32
}

func (v *fakeVM) CallInt(vm callback.VMContext, id int32, args []callback.Arg) int32 {
	call, err := callback.DecodeCall(args)
	if err != nil {
		return -1
	}
	v.calls = append(v.calls, call)
	v.ids = append(v.ids, id)
	if call.Op == callback.OpMeasure {
		args[0] = callback.Float32(v.size.Width)
		args[1] = callback.Float32(v.size.Height)
	}
	return 0
}

// phaseCounter is the call-count probe.
type phaseCounter map[*node.Node]map[instrument.Phase]int

func (c phaseCounter) EnterPhase(phase instrument.Phase, n *node.Node) {
	if c[n] == nil {
		c[n] = make(map[instrument.Phase]int)
	}
	c[n][phase]++
}

func newEngine(t *testing.T, vm *fakeVM) (*Engine, phaseCounter) {
	t.Helper()
	d := &callback.Dispatcher{}
	if vm != nil {
		if err := d.SetMethod(vm); err != nil {
			t.Fatal(err)
		}
	}
	counter := phaseCounter{}
	return &Engine{Dispatcher: d, Tracer: counter}, counter
}

func TestEndToEndScenario(t *testing.T) {
	e, _ := newEngine(t, nil)
	root := wrap()
	small := fixed(100, 50)
	large := fixed(200, 80)
	small.Alignment = graphics.AlignCenter
	root.AddChild(small)
	root.AddChild(large)

	size := e.Measure(root, graphics.Constraints{MinWidth: 0, MinHeight: 0, MaxWidth: 800, MaxHeight: 600})
	if size != (graphics.Size{Width: 200, Height: 80}) {
		t.Fatalf("root size = %+v, want 200x80", size)
	}

	e.Layout(root, graphics.BoxFromSize(size))
	if got := small.Origin(); got.X != 50 || got.Y != 15 {
		t.Errorf("centered child origin = %+v, want (50, 15)", got)
	}
	if got := large.Origin(); got.X != 0 || got.Y != 0 {
		t.Errorf("top-start child origin = %+v, want (0, 0)", got)
	}
}

func TestWrapContentIsMaxNotSum(t *testing.T) {
	tests := []struct {
		name  string
		sizes [][2]float32
		wantW float32
		wantH float32
	}{
		{"single", [][2]float32{{30, 40}}, 30, 40},
		{"max per axis", [][2]float32{{30, 90}, {120, 10}, {60, 60}}, 120, 90},
		{"no children", nil, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(t, nil)
			root := wrap()
			for _, s := range tt.sizes {
				root.AddChild(fixed(s[0], s[1]))
			}
			got := e.Measure(root, graphics.Constraints{MaxWidth: 1000, MaxHeight: 1000})
			if got.Width != tt.wantW || got.Height != tt.wantH {
				t.Errorf("size = %+v, want %vx%v", got, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestWrapOnOneAxisOnly(t *testing.T) {
	e, _ := newEngine(t, nil)
	root := newNode(graphics.Px(300), graphics.Undefined())
	root.AddChild(fixed(500, 20))
	root.AddChild(fixed(10, 70))
	got := e.Measure(root, graphics.Constraints{MaxWidth: 800, MaxHeight: 600})
	if got.Width != 300 || got.Height != 70 {
		t.Errorf("size = %+v, want 300x70", got)
	}
}

func TestFixedIgnoresConstraints(t *testing.T) {
	e, _ := newEngine(t, nil)
	for _, c := range []graphics.Constraints{
		{},
		{MinWidth: 900, MinHeight: 900, MaxWidth: 1000, MaxHeight: 1000},
		{MaxWidth: 10, MaxHeight: 10},
	} {
		n := fixed(123, 45)
		if got := e.Measure(n, c); got.Width != 123 || got.Height != 45 {
			t.Errorf("Measure(%+v) = %+v, want 123x45", c, got)
		}
	}
}

func TestPercentResolvesAgainstParentExtent(t *testing.T) {
	e, _ := newEngine(t, nil)
	root := fixed(400, 200)
	child := newNode(graphics.Percent(25), graphics.Percent(50))
	root.AddChild(child)

	e.Measure(root, graphics.Constraints{MaxWidth: 800, MaxHeight: 600})

	if got := child.Size(); got.Width != 100 || got.Height != 100 {
		t.Errorf("percent child = %+v", got)
	}
}

func TestChildConstraintsKeepSourceSlotOrder(t *testing.T) {
	vm := &fakeVM{}
	e, _ := newEngine(t, vm)

	root := newNode(graphics.Undefined(), graphics.Px(300))
	probe := wrap()
	probe.Flags = node.FlagCustomMeasure
	root.AddChild(probe)

	e.Measure(root, graphics.Constraints{MinWidth: 11, MinHeight: 22, MaxWidth: 800, MaxHeight: 600})

	if len(vm.calls) != 1 {
		t.Fatalf("got %d callback calls, want 1", len(vm.calls))
	}
	want := graphics.Constraints{MinWidth: 11, MinHeight: 300, MaxWidth: 22, MaxHeight: 600}
	if got := vm.calls[0].Constraints; got != want {
		t.Errorf("child constraints = %+v, want %+v", got, want)
	}
}

func TestCustomMeasureSkipsChildren(t *testing.T) {
	vm := &fakeVM{size: graphics.Size{Width: 42, Height: 24}}
	e, counter := newEngine(t, vm)

	root := wrap()
	root.Flags = node.FlagCustomMeasure
	kids := []*node.Node{fixed(100, 100), wrap()}
	for _, k := range kids {
		root.AddChild(k)
	}
	kids[1].AddChild(fixed(5, 5))

	got := e.Measure(root, graphics.Constraints{MaxWidth: 800, MaxHeight: 600})

	if got != vm.size || root.Size() != vm.size {
		t.Errorf("size = %+v, want %+v", got, vm.size)
	}
	if vm.ids[0] != root.CustomID() {
		t.Errorf("callback routed to %d, want %d", vm.ids[0], root.CustomID())
	}
	for _, k := range kids {
		if n := counter[k][instrument.PhaseMeasure]; n != 0 {
			t.Errorf("child %v measured %d times, want 0", k, n)
		}
	}
	if counter[root][instrument.PhaseMeasure] != 1 {
		t.Errorf("root measured %d times", counter[root][instrument.PhaseMeasure])
	}
}

func TestCustomPhasesSettleSkippedSubtree(t *testing.T) {
	tests := []struct {
		name  string
		flags node.Flags
		dirty node.DirtyFlag
	}{
		{"measure", node.FlagCustomMeasure, node.DirtyMeasure},
		{"layout", node.FlagCustomLayout, node.DirtyLayout},
		{"draw", node.FlagCustomDraw, node.DirtyDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEngine(t, &fakeVM{size: graphics.Size{Width: 10, Height: 10}})
			root := wrap()
			custom := fixed(50, 50)
			custom.Flags = tt.flags
			mid := wrap()
			leaf := fixed(5, 5)
			root.AddChild(custom)
			custom.AddChild(mid)
			mid.AddChild(leaf)

			e.MeasureLayoutAndDraw(root, graphics.Constraints{MaxWidth: 100, MaxHeight: 100}, DrawContext{})
			for _, n := range []*node.Node{root, custom, mid, leaf} {
				if n.Dirty() != 0 {
					t.Errorf("%v still dirty: %b", n, n.Dirty())
				}
			}

			leaf.MarkDirty(tt.dirty)
			if root.Dirty()&tt.dirty == 0 {
				t.Errorf("mark on leaf did not reach root")
			}
		})
	}
}

func TestCustomLayoutSkipsChildren(t *testing.T) {
	vm := &fakeVM{}
	e, counter := newEngine(t, vm)
	root := fixed(100, 100)
	root.Flags = node.FlagCustomLayout
	child := fixed(10, 10)
	root.AddChild(child)

	box := graphics.Box{X: 5, Y: 6, Width: 100, Height: 100}
	if got := e.Layout(root, box); got != box {
		t.Errorf("Layout returned %+v, want %+v", got, box)
	}
	if counter[child][instrument.PhaseLayout] != 0 {
		t.Error("child of a custom-layout node must not be laid out")
	}
	if vm.calls[0].Op != callback.OpLayout || vm.calls[0].Box != box {
		t.Errorf("callback call = %+v", vm.calls[0])
	}
}

func TestAlignmentOffsetsWithinParent(t *testing.T) {
	tests := []struct {
		align graphics.Alignment
		wantX float32
		wantY float32
	}{
		{graphics.AlignTopStart, 0, 0},
		{graphics.AlignCenter, 50, 15},
		{graphics.AlignBottomEnd, 100, 30},
		{graphics.AlignEnd, 100, 15},
		{graphics.AlignBottom, 50, 30},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			e, _ := newEngine(t, nil)
			root := fixed(200, 80)
			child := fixed(100, 50)
			child.Alignment = tt.align
			root.AddChild(child)
			size := e.Measure(root, graphics.Constraints{MaxWidth: 800, MaxHeight: 600})
			e.Layout(root, graphics.BoxFromSize(size))
			if got := child.Origin(); got.X != tt.wantX || got.Y != tt.wantY {
				t.Errorf("origin = %+v, want (%v, %v)", got, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestLayoutStartIsIdempotent(t *testing.T) {
	e, _ := newEngine(t, nil)
	root := fixed(300, 300)
	child := fixed(40, 40)
	child.Alignment = graphics.AlignTopStart
	root.AddChild(child)
	e.Measure(root, graphics.Constraints{})

	box := graphics.Box{X: 12, Y: 34, Width: 300, Height: 300}
	e.Layout(root, box)
	first := child.Origin()
	e.Layout(root, box)
	if second := child.Origin(); first != second || first.X != 12 || first.Y != 34 {
		t.Errorf("origins differ: %+v then %+v", first, second)
	}
}

func TestNestedOriginsAreAbsolute(t *testing.T) {
	e, _ := newEngine(t, nil)
	root := fixed(400, 400)
	mid := fixed(200, 200)
	mid.Alignment = graphics.AlignCenter
	leaf := fixed(50, 50)
	leaf.Alignment = graphics.AlignBottomEnd
	root.AddChild(mid)
	mid.AddChild(leaf)

	size := e.Measure(root, graphics.Constraints{})
	e.Layout(root, graphics.BoxFromSize(size))

	// mid receives the root's box shifted by (100, 100); leaf aligns inside
	// that 400x400 box.
	if got := mid.Origin(); got.X != 100 || got.Y != 100 {
		t.Errorf("mid origin = %+v", got)
	}
	if got := leaf.Origin(); got.X != 450 || got.Y != 450 {
		t.Errorf("leaf origin = %+v", got)
	}
}

func TestDrawReachesCustomDescendants(t *testing.T) {
	vm := &fakeVM{}
	e, counter := newEngine(t, vm)
	root := wrap()
	mid := wrap()
	painter := fixed(10, 10)
	painter.Flags = node.FlagCustomDraw
	hidden := fixed(1, 1)
	painter.AddChild(hidden)
	root.AddChild(mid)
	mid.AddChild(painter)

	e.Draw(root, DrawContext{Canvas: 0xfeed}, graphics.Box{X: 1, Y: 2, Width: 3, Height: 4})

	if len(vm.calls) != 1 {
		t.Fatalf("got %d draw callbacks, want 1", len(vm.calls))
	}
	call := vm.calls[0]
	if call.Op != callback.OpDraw || call.Canvas != 0xfeed {
		t.Errorf("draw call = %+v", call)
	}
	if call.Box != (graphics.Box{}) {
		t.Errorf("descendants should be drawn with a zero box, got %+v", call.Box)
	}
	if counter[hidden][instrument.PhaseDraw] != 0 {
		t.Error("children of a custom-draw node must not be drawn natively")
	}
}

func TestPhasesClearDirtyFlags(t *testing.T) {
	e, _ := newEngine(t, nil)
	root := wrap()
	child := fixed(10, 10)
	root.AddChild(child)

	e.MeasureLayoutAndDraw(root, graphics.Constraints{MaxWidth: 100, MaxHeight: 100}, DrawContext{})

	for _, n := range []*node.Node{root, child} {
		if n.Dirty() != 0 {
			t.Errorf("%v still dirty: %b", n, n.Dirty())
		}
	}
}

func TestInstrumentationDelaysApplied(t *testing.T) {
	var slept time.Duration
	delays := instrument.NewTable()
	delays.Sleep = func(d time.Duration) { slept += d }
	delays.Set(instrument.PhaseMeasure, node.TypeStack, time.Millisecond)
	delays.Set(instrument.PhaseDraw, node.TypeStack, 2*time.Millisecond)

	e := &Engine{Dispatcher: &callback.Dispatcher{}, Delays: delays}
	root := wrap()
	root.AddChild(fixed(1, 1))
	e.MeasureLayoutAndDraw(root, graphics.Constraints{}, DrawContext{})

	// Two stack nodes, each measured and drawn once.
	if want := 6 * time.Millisecond; slept != want {
		t.Errorf("slept %v, want %v", slept, want)
	}
}
