package export

import (
	"github.com/jerrinot/jfrview/internal/flame"
)

// FlameNode is the serialized form of a flame graph node.
type FlameNode struct {
	Name     string       `json:"name" yaml:"name"`
	Value    int          `json:"value" yaml:"value"`
	Children []*FlameNode `json:"children" yaml:"children"`
}

// FlameTree converts g into a tree under a synthetic "Root" node. Nodes
// without ticks under the chosen view are left out; g is not modified.
func FlameTree(g *flame.Graph, includeNative bool) *FlameNode {
	names := newFrameNames()
	var convert func(f *flame.Frame) *FlameNode
	convert = func(f *flame.Frame) *FlameNode {
		n := &FlameNode{
			Name:     names.name(f.Method),
			Value:    f.Ticks(includeNative),
			Children: []*FlameNode{},
		}
		for _, c := range f.Children() {
			if !c.HasNoSamples(includeNative) {
				n.Children = append(n.Children, convert(c))
			}
		}
		return n
	}
	root := &FlameNode{Name: RootName, Value: g.Ticks(includeNative), Children: []*FlameNode{}}
	for _, f := range g.Roots() {
		if !f.HasNoSamples(includeNative) {
			root.Children = append(root.Children, convert(f))
		}
	}
	return root
}
