// Package debug inspects laid-out scene trees: JSON snapshots, wireframe
// images and an HTTP server exposing both.
package debug

import (
	"encoding/json"
	"math"

	"github.com/go-drift/scene/pkg/node"
)

// maxTreeDepth limits recursion depth to prevent stack overflow from malformed trees.
const maxTreeDepth = 500

// SafeFloat wraps a float64 to handle Inf/NaN in JSON encoding.
type SafeFloat float64

func (f SafeFloat) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsInf(v, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(v, -1) {
		return []byte(`"-Infinity"`), nil
	}
	if math.IsNaN(v) {
		return []byte(`"NaN"`), nil
	}
	return json.Marshal(v)
}

// SafeSize is a JSON-safe size.
type SafeSize struct {
	Width  SafeFloat `json:"width"`
	Height SafeFloat `json:"height"`
}

// SafeOffset is a JSON-safe origin.
type SafeOffset struct {
	X SafeFloat `json:"x"`
	Y SafeFloat `json:"y"`
}

// TreeNode is one node in a serialized tree.
type TreeNode struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	CustomID   int32             `json:"customId,omitempty"`
	Flags      string            `json:"flags,omitempty"`
	Width      string            `json:"width"`
	Height     string            `json:"height"`
	Align      string            `json:"align"`
	Size       SafeSize          `json:"size"`
	Origin     SafeOffset        `json:"origin"`
	Depth      int               `json:"depth"`
	Dirty      bool              `json:"dirty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Children   []TreeNode        `json:"children,omitempty"`
}

// Snapshot serializes root and its subtree.
func Snapshot(root *node.Node) TreeNode {
	return snapshot(root, 0)
}

func snapshot(n *node.Node, depth int) TreeNode {
	size, origin := n.Size(), n.Origin()
	tn := TreeNode{
		ID:       n.ID(),
		Name:     n.Name,
		Type:     n.Type().String(),
		CustomID: n.CustomID(),
		Width:    n.WidthSpec.String(),
		Height:   n.HeightSpec.String(),
		Align:    n.Alignment.String(),
		Size:     SafeSize{Width: SafeFloat(size.Width), Height: SafeFloat(size.Height)},
		Origin:   SafeOffset{X: SafeFloat(origin.X), Y: SafeFloat(origin.Y)},
		Depth:    depth,
		Dirty:    n.Dirty() != 0,
	}
	if n.Flags != node.FlagNone {
		tn.Flags = n.Flags.String()
	}
	if names := n.Attributes(); len(names) > 0 {
		tn.Attributes = make(map[string]string, len(names))
		for _, name := range names {
			tn.Attributes[name], _ = n.Attribute(name)
		}
	}
	if depth < maxTreeDepth {
		n.VisitChildren(func(child *node.Node) {
			tn.Children = append(tn.Children, snapshot(child, depth+1))
		})
	}
	return tn
}

// MarshalTree encodes a snapshot of root as indented JSON.
func MarshalTree(root *node.Node) ([]byte, error) {
	return json.MarshalIndent(Snapshot(root), "", "  ")
}
