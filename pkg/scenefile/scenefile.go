// Package scenefile reads YAML scene descriptions and builds node trees from
// them.
//
//	viewport: {width: 800, height: 600}
//	root:
//	  type: stack
//	  children:
//	    - {type: text, width: 100, height: 50, align: center}
//	    - {type: image, width: 50%, height: auto, flags: measure}
package scenefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/scene/pkg/graphics"
	"github.com/go-drift/scene/pkg/node"
)

// File is a parsed scene description.
type File struct {
	Viewport Viewport `yaml:"viewport"`
	Root     Node     `yaml:"root"`
}

// Viewport is the area the root is measured against.
type Viewport struct {
	Width  float32 `yaml:"width"`
	Height float32 `yaml:"height"`
}

// Constraints returns tight constraints for the viewport.
func (v Viewport) Constraints() graphics.Constraints {
	return graphics.Constraints{
		MinWidth:  v.Width,
		MinHeight: v.Height,
		MaxWidth:  v.Width,
		MaxHeight: v.Height,
	}
}

// Node describes one node and its subtree.
type Node struct {
	Type       string            `yaml:"type"`
	Name       string            `yaml:"name,omitempty"`
	Width      string            `yaml:"width,omitempty"`
	Height     string            `yaml:"height,omitempty"`
	Align      string            `yaml:"align,omitempty"`
	Flags      string            `yaml:"flags,omitempty"`
	CustomID   int32             `yaml:"customId,omitempty"`
	Attributes map[string]string `yaml:"attributes,omitempty"`
	Children   []Node            `yaml:"children,omitempty"`
}

// Builder creates and links nodes. scene.Runtime implements it.
type Builder interface {
	CreateNode(typ node.Type, customID int32, flags node.Flags) (*node.Node, error)
	AddChild(parent, child *node.Node) error
}

// Read decodes a scene description. Unknown keys are rejected.
func Read(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	f := &File{Viewport: Viewport{Width: 800, Height: 600}}
	if err := dec.Decode(f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty scene file")
		}
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if f.Root.Type == "" {
		return nil, fmt.Errorf("scene has no root node")
	}
	return f, nil
}

// Parse decodes a scene description from data.
func Parse(data []byte) (*File, error) {
	return Read(bytes.NewReader(data))
}

// Load reads the scene file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	return Parse(data)
}

// Build creates the described tree with b. On failure every node created so
// far is disposed and the error names the offending node path.
func (f *File) Build(b Builder) (*node.Node, error) {
	return build(b, &f.Root, "root")
}

func build(b Builder, desc *Node, path string) (*node.Node, error) {
	typ, err := node.ParseType(desc.Type)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	flags, err := node.ParseFlags(desc.Flags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	width, err := graphics.ParseDimension(desc.Width)
	if err != nil {
		return nil, fmt.Errorf("%s.width: %w", path, err)
	}
	height, err := graphics.ParseDimension(desc.Height)
	if err != nil {
		return nil, fmt.Errorf("%s.height: %w", path, err)
	}
	align, err := graphics.ParseAlignment(desc.Align)
	if err != nil {
		return nil, fmt.Errorf("%s.align: %w", path, err)
	}

	n, err := b.CreateNode(typ, desc.CustomID, flags)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if desc.Name != "" {
		n.Name = desc.Name
	}
	n.WidthSpec = width
	n.HeightSpec = height
	n.Alignment = align

	keys := make([]string, 0, len(desc.Attributes))
	for k := range desc.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		n.SetAttribute(k, desc.Attributes[k])
	}

	for i := range desc.Children {
		child, err := build(b, &desc.Children[i], fmt.Sprintf("%s.children[%d]", path, i))
		if err == nil {
			err = b.AddChild(n, child)
			if err != nil {
				node.DisposeTree(child)
			}
		}
		if err != nil {
			node.DisposeTree(n)
			return nil, err
		}
	}
	return n, nil
}

// Describe converts a live tree back into a description. Layout results are
// not included.
func Describe(n *node.Node) Node {
	desc := Node{
		Type:     n.Type().String(),
		Name:     n.Name,
		Width:    dimensionText(n.WidthSpec),
		Height:   dimensionText(n.HeightSpec),
		CustomID: n.CustomID(),
	}
	if n.Alignment != graphics.AlignTopStart {
		desc.Align = n.Alignment.String()
	}
	if n.Flags != node.FlagNone {
		desc.Flags = n.Flags.String()
	}
	if names := n.Attributes(); len(names) > 0 {
		desc.Attributes = make(map[string]string, len(names))
		for _, name := range names {
			desc.Attributes[name], _ = n.Attribute(name)
		}
	}
	n.VisitChildren(func(child *node.Node) {
		desc.Children = append(desc.Children, Describe(child))
	})
	return desc
}

func dimensionText(d graphics.Dimension) string {
	if d.IsWrap() {
		return ""
	}
	return d.String()
}

// Write encodes f as YAML.
func (f *File) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
