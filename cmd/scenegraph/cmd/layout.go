package cmd

import (
	"fmt"
	"os"

	"github.com/go-drift/scene/pkg/debug"
)

func init() {
	RegisterCommand(&Command{
		Name:  "layout",
		Short: "Lay out a scene file and print the tree",
		Long: `Build the tree described by a scene file, run one measure, layout and
draw pass against the viewport and print the resulting tree as JSON.

With --png the wireframe is written as an image. The format follows the
file extension: .png, .bmp or .tiff.`,
		Usage: "scenegraph layout <scene.yaml> [--width W] [--height H] [--png FILE] [--scale S]",
		Run:   runLayout,
	})
}

type layoutOptions struct {
	width  float64
	height float64
	image  string
	scale  float64
}

func parseLayoutArgs(args []string) ([]string, layoutOptions, error) {
	opts := layoutOptions{scale: 1}
	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		var err error
		switch args[i] {
		case "--width":
			opts.width, err = parseFloatFlag(args, i, "--width")
			i++
		case "--height":
			opts.height, err = parseFloatFlag(args, i, "--height")
			i++
		case "--scale":
			opts.scale, err = parseFloatFlag(args, i, "--scale")
			i++
		case "--png", "--image":
			if i+1 >= len(args) {
				return nil, opts, fmt.Errorf("%s requires a file path", args[i])
			}
			opts.image = args[i+1]
			i++
		default:
			filtered = append(filtered, args[i])
		}
		if err != nil {
			return nil, opts, err
		}
	}
	if opts.width < 0 || opts.height < 0 {
		return nil, opts, fmt.Errorf("viewport size must not be negative")
	}
	if opts.scale <= 0 {
		return nil, opts, fmt.Errorf("--scale must be positive")
	}
	return filtered, opts, nil
}

func runLayout(args []string) error {
	rest, opts, err := parseLayoutArgs(args)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("layout takes exactly one scene file")
	}

	rt, file, root, err := loadScene(rest[0])
	if err != nil {
		return err
	}
	defer rt.DisposeTree(root)

	if opts.width > 0 {
		file.Viewport.Width = float32(opts.width)
	}
	if opts.height > 0 {
		file.Viewport.Height = float32(opts.height)
	}
	rt.MeasureLayoutAndDraw(root, file.Viewport.Constraints(), 0)

	data, err := debug.MarshalTree(root)
	if err != nil {
		return fmt.Errorf("failed to encode tree: %w", err)
	}
	fmt.Fprintln(stdout, string(data))

	if opts.image == "" {
		return nil
	}
	f, err := os.Create(opts.image)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.image, err)
	}
	if err := debug.WriteImage(f, debug.Wireframe(root, opts.scale), debug.FormatFor(opts.image)); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", opts.image, err)
	}
	return f.Close()
}
