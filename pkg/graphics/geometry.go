package graphics

// Offset represents a 2D point in scene coordinates.
type Offset struct {
	X float32
	Y float32
}

// Size represents resolved width and height.
type Size struct {
	Width  float32
	Height float32
}

// Box is the rectangle a parent allots to a child during layout, stored as
// origin plus extent.
type Box struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// BoxFromSize returns a box at the origin with the given size.
func BoxFromSize(size Size) Box {
	return Box{Width: size.Width, Height: size.Height}
}

// Origin returns the top-left corner of the box.
func (b Box) Origin() Offset {
	return Offset{X: b.X, Y: b.Y}
}

// Size returns the extent of the box.
func (b Box) Size() Size {
	return Size{Width: b.Width, Height: b.Height}
}

// Contains reports whether the point lies inside the box, edges included.
func (b Box) Contains(p Offset) bool {
	return p.X >= b.X && p.Y >= b.Y && p.X <= b.X+b.Width && p.Y <= b.Y+b.Height
}

// Translate returns a new box offset by (dx, dy).
func (b Box) Translate(dx, dy float32) Box {
	b.X += dx
	b.Y += dy
	return b
}

// Constraints is the box a parent passes down during measure.
//
// Field order matches the four slots of the native measure payload:
// MinWidth, MinHeight, MaxWidth, MaxHeight.
type Constraints struct {
	MinWidth  float32
	MinHeight float32
	MaxWidth  float32
	MaxHeight float32
}

// Loose returns constraints with zero minimums and the given maximums.
func Loose(size Size) Constraints {
	return Constraints{MaxWidth: size.Width, MaxHeight: size.Height}
}

// Slots returns the constraints in payload order.
func (c Constraints) Slots() [4]float32 {
	return [4]float32{c.MinWidth, c.MinHeight, c.MaxWidth, c.MaxHeight}
}

// Slots returns the box in payload order: x, y, width, height.
func (b Box) Slots() [4]float32 {
	return [4]float32{b.X, b.Y, b.Width, b.Height}
}
