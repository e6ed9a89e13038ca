package graphics

import (
	"fmt"
	"strings"
)

// Alignment positions a child inside its parent's resolved box.
// Values match the native alignment enum.
type Alignment int32

const (
	AlignTopStart Alignment = iota
	AlignTop
	AlignTopEnd
	AlignStart
	AlignCenter
	AlignEnd
	AlignBottomStart
	AlignBottom
	AlignBottomEnd
)

// AxisAlign is the placement along a single axis.
type AxisAlign int

const (
	AxisStart AxisAlign = iota
	AxisCenter
	AxisEnd
)

var alignmentNames = [...]string{
	"top-start", "top", "top-end",
	"start", "center", "end",
	"bottom-start", "bottom", "bottom-end",
}

// Valid reports whether a is one of the nine defined alignments.
func (a Alignment) Valid() bool {
	return a >= AlignTopStart && a <= AlignBottomEnd
}

func (a Alignment) String() string {
	if a.Valid() {
		return alignmentNames[a]
	}
	return fmt.Sprintf("Alignment(%d)", int32(a))
}

// Horizontal returns the placement on the x axis.
// Undefined alignments behave as top-start.
func (a Alignment) Horizontal() AxisAlign {
	if !a.Valid() {
		return AxisStart
	}
	return AxisAlign(a % 3)
}

// Vertical returns the placement on the y axis.
func (a Alignment) Vertical() AxisAlign {
	if !a.Valid() {
		return AxisStart
	}
	return AxisAlign(a / 3)
}

// Offset returns how far a child of childExtent is shifted inside a parent
// of parentExtent.
func (x AxisAlign) Offset(parentExtent, childExtent float32) float32 {
	switch x {
	case AxisCenter:
		return (parentExtent - childExtent) / 2
	case AxisEnd:
		return parentExtent - childExtent
	default:
		return 0
	}
}

// Within returns parent shifted so that a child of the given size sits at
// this alignment. Width and height are left untouched.
func (a Alignment) Within(parent Box, child Size) Box {
	parent.X += a.Horizontal().Offset(parent.Width, child.Width)
	parent.Y += a.Vertical().Offset(parent.Height, child.Height)
	return parent
}

// ParseAlignment accepts the names produced by String.
func ParseAlignment(s string) (Alignment, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return AlignTopStart, nil
	}
	for i, name := range alignmentNames {
		if name == s {
			return Alignment(i), nil
		}
	}
	return 0, fmt.Errorf("unknown alignment %q", s)
}
