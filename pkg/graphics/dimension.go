package graphics

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit identifies how a Dimension value is interpreted.
type Unit int32

const (
	// UnitUndefined marks an axis as wrap-content: its extent comes from children.
	UnitUndefined Unit = -1
	// UnitPX is an absolute pixel value.
	UnitPX Unit = 0
	// UnitVP is a virtual pixel. Density resolution is external; the raw value is used.
	UnitVP Unit = 1
	// UnitFP is a font pixel. Resolved like UnitVP.
	UnitFP Unit = 2
	// UnitPercent is a percentage of the parent's extent on the same axis.
	UnitPercent Unit = 3
	// UnitLPX is a logical pixel. Resolved like UnitVP.
	UnitLPX Unit = 4
	// UnitAuto is resolved like UnitVP.
	UnitAuto Unit = 5
	// UnitCalc is resolved like UnitVP.
	UnitCalc Unit = 6
)

var unitNames = map[Unit]string{
	UnitUndefined: "undefined",
	UnitPX:        "px",
	UnitVP:        "vp",
	UnitFP:        "fp",
	UnitPercent:   "%",
	UnitLPX:       "lpx",
	UnitAuto:      "auto",
	UnitCalc:      "calc",
}

func (u Unit) String() string {
	if name, ok := unitNames[u]; ok {
		return name
	}
	return fmt.Sprintf("Unit(%d)", int32(u))
}

// Dimension is a (value, unit) pair describing one axis's size.
type Dimension struct {
	Value float32
	Unit  Unit
}

// Undefined returns a wrap-content dimension.
func Undefined() Dimension {
	return Dimension{Unit: UnitUndefined}
}

// Px returns an absolute dimension.
func Px(v float32) Dimension {
	return Dimension{Value: v, Unit: UnitPX}
}

// Percent returns a dimension relative to the parent's extent.
func Percent(v float32) Dimension {
	return Dimension{Value: v, Unit: UnitPercent}
}

// IsWrap reports whether the axis sizes to its content.
func (d Dimension) IsWrap() bool {
	return d.Unit == UnitUndefined
}

// Resolve converts the dimension to an absolute extent. parent is the
// parent's extent on the same axis and is only consulted for percentages.
// Wrap-content dimensions resolve to zero; callers grow them from children.
func (d Dimension) Resolve(parent float32) float32 {
	switch d.Unit {
	case UnitUndefined:
		return 0
	case UnitPX:
		return d.Value
	case UnitPercent:
		return parent / 100 * d.Value
	default:
		return d.Value
	}
}

func (d Dimension) String() string {
	switch d.Unit {
	case UnitUndefined:
		return "auto"
	case UnitPX:
		return strconv.FormatFloat(float64(d.Value), 'g', -1, 32)
	case UnitPercent:
		return strconv.FormatFloat(float64(d.Value), 'g', -1, 32) + "%"
	default:
		return strconv.FormatFloat(float64(d.Value), 'g', -1, 32) + d.Unit.String()
	}
}

// ParseDimension parses the textual form used in scene files: "auto" or an
// empty string for wrap-content, a bare number for pixels, or a number with a
// unit suffix ("50%", "12vp", "10px", "14fp", "3lpx").
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" || s == "auto" || s == "wrap" {
		return Undefined(), nil
	}
	unit := UnitPX
	number := s
	for _, suffix := range []struct {
		text string
		unit Unit
	}{
		{"%", UnitPercent},
		{"lpx", UnitLPX},
		{"px", UnitPX},
		{"vp", UnitVP},
		{"fp", UnitFP},
	} {
		if strings.HasSuffix(s, suffix.text) {
			unit = suffix.unit
			number = strings.TrimSpace(strings.TrimSuffix(s, suffix.text))
			break
		}
	}
	v, err := strconv.ParseFloat(number, 32)
	if err != nil {
		return Dimension{}, fmt.Errorf("invalid dimension %q: %w", s, err)
	}
	return Dimension{Value: float32(v), Unit: unit}, nil
}
