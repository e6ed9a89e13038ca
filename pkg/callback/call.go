package callback

import (
	"fmt"

	"github.com/go-drift/scene/pkg/graphics"
)

// Opcode identifies the phase in slot 0.
type Opcode int32

const (
	OpMeasure Opcode = 1
	OpLayout  Opcode = 2
	OpDraw    Opcode = 3
)

func (o Opcode) String() string {
	switch o {
	case OpMeasure:
		return "measure"
	case OpLayout:
		return "layout"
	case OpDraw:
		return "draw"
	default:
		return fmt.Sprintf("Opcode(%d)", int32(o))
	}
}

// Call is a phase request. Exactly one payload is meaningful, selected by Op.
type Call struct {
	Op Opcode
	// Constraints is the measure payload.
	Constraints graphics.Constraints
	// Box is the layout and draw payload.
	Box graphics.Box
	// Canvas is the opaque drawing surface passed through on draw.
	Canvas uintptr
}

// MeasureCall builds a measure request.
func MeasureCall(c graphics.Constraints) Call {
	return Call{Op: OpMeasure, Constraints: c}
}

// LayoutCall builds a layout request.
func LayoutCall(box graphics.Box) Call {
	return Call{Op: OpLayout, Box: box}
}

// DrawCall builds a draw request.
func DrawCall(canvas uintptr, box graphics.Box) Call {
	return Call{Op: OpDraw, Canvas: canvas, Box: box}
}

// Args packs the call into its positional slot array.
func (c Call) Args() []Arg {
	switch c.Op {
	case OpMeasure:
		s := c.Constraints.Slots()
		return []Arg{Int32(int32(OpMeasure)), Float32(s[0]), Float32(s[1]), Float32(s[2]), Float32(s[3])}
	case OpLayout:
		s := c.Box.Slots()
		return []Arg{Int32(int32(OpLayout)), Float32(s[0]), Float32(s[1]), Float32(s[2]), Float32(s[3])}
	case OpDraw:
		lo, hi := SplitHandle(c.Canvas)
		s := c.Box.Slots()
		return []Arg{
			Int32(int32(OpDraw)), Uint32(lo), Uint32(hi),
			Float32(s[0]), Float32(s[1]), Float32(s[2]), Float32(s[3]),
		}
	default:
		return []Arg{Int32(int32(c.Op))}
	}
}

// DecodeCall rebuilds a Call from its slots. VM-side test doubles use it to
// inspect what the engine sent.
func DecodeCall(args []Arg) (Call, error) {
	if len(args) == 0 {
		return Call{}, fmt.Errorf("empty argument array")
	}
	op := Opcode(args[0].I32())
	want := map[Opcode]int{OpMeasure: 5, OpLayout: 5, OpDraw: 7}[op]
	if want == 0 {
		return Call{}, fmt.Errorf("unknown opcode %d", int32(op))
	}
	if len(args) < want {
		return Call{}, fmt.Errorf("%s call needs %d slots, got %d", op, want, len(args))
	}
	switch op {
	case OpMeasure:
		return MeasureCall(graphics.Constraints{
			MinWidth: args[1].F32(), MinHeight: args[2].F32(),
			MaxWidth: args[3].F32(), MaxHeight: args[4].F32(),
		}), nil
	case OpLayout:
		return LayoutCall(graphics.Box{
			X: args[1].F32(), Y: args[2].F32(), Width: args[3].F32(), Height: args[4].F32(),
		}), nil
	default:
		return DrawCall(JoinHandle(args[1].U32(), args[2].U32()), graphics.Box{
			X: args[3].F32(), Y: args[4].F32(), Width: args[5].F32(), Height: args[6].F32(),
		}), nil
	}
}

// Result is what the VM hands back for a call.
type Result struct {
	// Status is the VM's return code.
	Status int32
	// Size is the measured size; only set for measure calls.
	Size graphics.Size
}
