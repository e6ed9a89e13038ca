package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/tiff"

	"github.com/go-drift/scene/pkg/graphics"
	"github.com/go-drift/scene/pkg/node"
)

// maxWireframeSide caps each image dimension.
const maxWireframeSide = 4096

var (
	background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	labelColor = color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff}
	palette    = []color.RGBA{
		{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
		{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
		{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
		{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
		{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	}
)

// Wireframe draws the outline and name of every node at its laid-out bounds.
// Custom-draw nodes are filled lightly. The canvas covers the union of all
// bounds, scaled by scale.
func Wireframe(root *node.Node, scale float64) *image.RGBA {
	if scale <= 0 {
		scale = 1
	}
	extent := graphics.Box{}
	node.Walk(root, func(n *node.Node) bool {
		b := n.Bounds()
		extent.Width = max(extent.Width, b.X+b.Width)
		extent.Height = max(extent.Height, b.Y+b.Height)
		return true
	})
	w := clampSide(float64(extent.Width) * scale)
	h := clampSide(float64(extent.Height) * scale)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	drawer := &font.Drawer{Dst: img, Src: image.NewUniform(labelColor), Face: face}
	ascent := face.Metrics().Ascent

	depthOf := map[*node.Node]int{}
	node.Walk(root, func(n *node.Node) bool {
		depth := 0
		if p := n.Parent(); p != nil {
			depth = depthOf[p] + 1
		}
		depthOf[n] = depth

		r := scaled(n.Bounds(), scale)
		c := palette[depth%len(palette)]
		if n.Flags.Has(node.FlagCustomDraw) {
			fill := color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0x30}
			draw.Draw(img, r, image.NewUniform(fill), image.Point{}, draw.Over)
		}
		outline(img, r, c)

		drawer.Dot = fixed.Point26_6{
			X: fixed.I(r.Min.X + 2),
			Y: fixed.I(r.Min.Y+1) + ascent,
		}
		if r.Dy() > 0 && r.Dx() > 0 {
			drawer.DrawString(n.Name)
		}
		return true
	})
	return img
}

func clampSide(v float64) int {
	side := int(math.Ceil(v))
	if side < 1 {
		return 1
	}
	return min(side, maxWireframeSide)
}

func scaled(b graphics.Box, scale float64) image.Rectangle {
	x0 := int(math.Floor(float64(b.X) * scale))
	y0 := int(math.Floor(float64(b.Y) * scale))
	x1 := int(math.Ceil(float64(b.X+b.Width) * scale))
	y1 := int(math.Ceil(float64(b.Y+b.Height) * scale))
	return image.Rect(x0, y0, x1, y1)
}

func outline(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetRGBA(x, r.Min.Y, c)
		img.SetRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetRGBA(r.Min.X, y, c)
		img.SetRGBA(r.Max.X-1, y, c)
	}
}

// Format is an image encoding for WriteImage.
type Format string

const (
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
)

// FormatFor picks a format from a file extension. Unknown extensions get PNG.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return FormatPNG
	}
}

// WriteImage encodes img in format.
func WriteImage(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG, "":
		return png.Encode(w, img)
	case FormatBMP:
		return bmp.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported image format %q", format)
	}
}

// WritePNG encodes img as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return WriteImage(w, img, FormatPNG)
}
