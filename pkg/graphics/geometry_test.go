package graphics

import "testing"

func TestDimensionResolve(t *testing.T) {
	tests := []struct {
		name   string
		dim    Dimension
		parent float32
		want   float32
	}{
		{"px ignores parent", Px(120), 999, 120},
		{"percent of parent", Percent(25), 800, 200},
		{"vp falls back to raw", Dimension{Value: 12, Unit: UnitVP}, 400, 12},
		{"calc falls back to raw", Dimension{Value: 7, Unit: UnitCalc}, 400, 7},
		{"undefined resolves to zero", Undefined(), 400, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dim.Resolve(tt.parent); got != tt.want {
				t.Errorf("Resolve(%v) = %v, want %v", tt.parent, got, tt.want)
			}
		})
	}
}

func TestDimensionPercentExact(t *testing.T) {
	for _, p := range []float32{0, 1, 333, 640.5, 1920} {
		for _, v := range []float32{0, 12.5, 33, 100, 150} {
			want := p / 100 * v
			if got := Percent(v).Resolve(p); got != want {
				t.Errorf("Percent(%v).Resolve(%v) = %v, want %v", v, p, got, want)
			}
		}
	}
}

func TestParseDimension(t *testing.T) {
	tests := []struct {
		in   string
		want Dimension
	}{
		{"", Undefined()},
		{"auto", Undefined()},
		{"100", Px(100)},
		{"10px", Px(10)},
		{"50%", Percent(50)},
		{"12vp", Dimension{Value: 12, Unit: UnitVP}},
		{"3lpx", Dimension{Value: 3, Unit: UnitLPX}},
		{"14 fp", Dimension{Value: 14, Unit: UnitFP}},
	}
	for _, tt := range tests {
		got, err := ParseDimension(tt.in)
		if err != nil {
			t.Fatalf("ParseDimension(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseDimension(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseDimension("wide"); err == nil {
		t.Error("expected error for non-numeric dimension")
	}
}

func TestAlignmentOffsets(t *testing.T) {
	parent := Box{X: 10, Y: 20, Width: 200, Height: 80}
	child := Size{Width: 100, Height: 50}

	tests := []struct {
		align Alignment
		wantX float32
		wantY float32
	}{
		{AlignTopStart, 10, 20},
		{AlignTop, 60, 20},
		{AlignTopEnd, 110, 20},
		{AlignStart, 10, 35},
		{AlignCenter, 60, 35},
		{AlignEnd, 110, 35},
		{AlignBottomStart, 10, 50},
		{AlignBottom, 60, 50},
		{AlignBottomEnd, 110, 50},
	}
	for _, tt := range tests {
		got := tt.align.Within(parent, child)
		if got.X != tt.wantX || got.Y != tt.wantY {
			t.Errorf("%v: origin = (%v, %v), want (%v, %v)", tt.align, got.X, got.Y, tt.wantX, tt.wantY)
		}
		if got.Width != parent.Width || got.Height != parent.Height {
			t.Errorf("%v: extent changed to %vx%v", tt.align, got.Width, got.Height)
		}
	}
}

func TestAlignmentParseRoundTrip(t *testing.T) {
	for a := AlignTopStart; a <= AlignBottomEnd; a++ {
		got, err := ParseAlignment(a.String())
		if err != nil {
			t.Fatalf("ParseAlignment(%q): %v", a.String(), err)
		}
		if got != a {
			t.Errorf("ParseAlignment(%q) = %v, want %v", a.String(), got, a)
		}
	}
	if _, err := ParseAlignment("middle-ish"); err == nil {
		t.Error("expected error for unknown alignment")
	}
}

func TestInvalidAlignmentBehavesAsStart(t *testing.T) {
	a := Alignment(42)
	if a.Horizontal() != AxisStart || a.Vertical() != AxisStart {
		t.Errorf("invalid alignment should place at start, got %v/%v", a.Horizontal(), a.Vertical())
	}
}

func TestBoxContains(t *testing.T) {
	b := Box{X: 10, Y: 10, Width: 20, Height: 20}
	if !b.Contains(Offset{X: 10, Y: 30}) {
		t.Error("edge point should be contained")
	}
	if b.Contains(Offset{X: 31, Y: 15}) {
		t.Error("point right of box should not be contained")
	}
}
