// Package callback routes custom measure, layout and draw phases to an
// external scripting VM.
//
// Arguments travel as a positional array of 32-bit tagged values. Slot 0 is
// always the phase opcode; the remaining slots carry the phase payload:
//
//	measure: [OpMeasure, minWidth, minHeight, maxWidth, maxHeight]
//	layout:  [OpLayout, x, y, width, height]
//	draw:    [OpDraw, canvasLow, canvasHigh, x, y, width, height]
//
// After a measure call the VM writes the resolved width and height into
// slots 0 and 1 as float32 values.
package callback

import (
	"fmt"
	"math"
)

// Kind tags the value stored in an Arg.
type Kind uint8

const (
	KindInt32 Kind = iota
	KindUint32
	KindFloat32
)

func (k Kind) String() string {
	switch k {
	case KindInt32:
		return "i32"
	case KindUint32:
		return "u32"
	case KindFloat32:
		return "f32"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Arg is one 32-bit slot of a callback argument array.
type Arg struct {
	kind Kind
	bits uint32
}

// Int32 returns a signed integer slot.
func Int32(v int32) Arg { return Arg{kind: KindInt32, bits: uint32(v)} }

// Uint32 returns an unsigned integer slot.
func Uint32(v uint32) Arg { return Arg{kind: KindUint32, bits: v} }

// Float32 returns a float slot.
func Float32(v float32) Arg { return Arg{kind: KindFloat32, bits: math.Float32bits(v)} }

// Kind returns the slot's tag.
func (a Arg) Kind() Kind { return a.kind }

// I32 reinterprets the slot as a signed integer.
func (a Arg) I32() int32 { return int32(a.bits) }

// U32 reinterprets the slot as an unsigned integer.
func (a Arg) U32() uint32 { return a.bits }

// F32 reinterprets the slot as a float.
func (a Arg) F32() float32 { return math.Float32frombits(a.bits) }

func (a Arg) String() string {
	switch a.kind {
	case KindFloat32:
		return fmt.Sprintf("f32(%g)", a.F32())
	case KindUint32:
		return fmt.Sprintf("u32(%d)", a.U32())
	default:
		return fmt.Sprintf("i32(%d)", a.I32())
	}
}

// SplitHandle splits a pointer-sized handle into low and high 32-bit halves.
func SplitHandle(h uintptr) (low, high uint32) {
	v := uint64(h)
	return uint32(v), uint32(v >> 32)
}

// JoinHandle is the inverse of SplitHandle.
func JoinHandle(low, high uint32) uintptr {
	return uintptr(uint64(high)<<32 | uint64(low))
}
