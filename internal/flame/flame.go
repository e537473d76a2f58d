// Package flame folds execution samples into a call tree with separate
// managed and native tick counts per node.
package flame

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/jerrinot/jfrview/internal/jfr"
)

type children = orderedmap.OrderedMap[jfr.Method, *Frame]

// Frame is one node of the call tree. Children keep the order in which they
// were first seen.
type Frame struct {
	Method      jfr.Method
	JVMTicks    int
	NativeTicks int
	children    *children
}

// Ticks sums the managed bucket and, when includeNative is set, the native
// bucket.
func (f *Frame) Ticks(includeNative bool) int {
	if includeNative {
		return f.JVMTicks + f.NativeTicks
	}
	return f.JVMTicks
}

func (f *Frame) HasNoSamples(includeNative bool) bool {
	return f.Ticks(includeNative) == 0
}

// SelfTicks is the part of Ticks not attributed to any child.
func (f *Frame) SelfTicks(includeNative bool) int {
	self := f.Ticks(includeNative)
	for _, c := range f.Children() {
		self -= c.Ticks(includeNative)
	}
	return self
}

// Children returns the direct callees in first-seen order.
func (f *Frame) Children() []*Frame {
	return values(f.children)
}

// Child returns the callee for m, or nil.
func (f *Frame) Child(m jfr.Method) *Frame {
	if f.children == nil {
		return nil
	}
	c, _ := f.children.Get(m)
	return c
}

// Graph is the root level of the call tree.
type Graph struct {
	roots     *children
	depth     int
	samples   int
	truncated int
}

func New() *Graph {
	return &Graph{roots: orderedmap.New[jfr.Method, *Frame]()}
}

// Add folds one sample into the graph. Truncated samples and samples without
// frames are not recorded; Add reports whether s was.
func (g *Graph) Add(s jfr.ExecutionSample) bool {
	if s.StackTrace.Truncated {
		g.truncated++
		return false
	}
	frames := s.StackTrace.Frames
	if len(frames) == 0 {
		return false
	}
	level := g.roots
	for i, sf := range frames {
		f := findOrCreate(level, sf.Method)
		if s.Native {
			f.NativeTicks++
		} else {
			f.JVMTicks++
		}
		if i == len(frames)-1 {
			break
		}
		if f.children == nil {
			f.children = orderedmap.New[jfr.Method, *Frame]()
		}
		level = f.children
	}
	g.depth = max(g.depth, len(frames))
	g.samples++
	return true
}

func findOrCreate(level *children, m jfr.Method) *Frame {
	if f, ok := level.Get(m); ok {
		return f
	}
	f := &Frame{Method: m}
	level.Set(m, f)
	return f
}

// Ticks sums the ticks of all root frames.
func (g *Graph) Ticks(includeNative bool) int {
	n := 0
	for pair := g.roots.Oldest(); pair != nil; pair = pair.Next() {
		n += pair.Value.Ticks(includeNative)
	}
	return n
}

func (g *Graph) HasNoSamples(includeNative bool) bool {
	return g.Ticks(includeNative) == 0
}

// Depth is the length of the longest recorded stack.
func (g *Graph) Depth() int { return g.depth }

// Samples is the number of samples recorded.
func (g *Graph) Samples() int { return g.samples }

// Truncated is the number of samples skipped because their stack was cut
// short by the recorder.
func (g *Graph) Truncated() int { return g.truncated }

// Roots returns the outermost frames in first-seen order.
func (g *Graph) Roots() []*Frame {
	return values(g.roots)
}

// Root returns the root frame for m, or nil.
func (g *Graph) Root(m jfr.Method) *Frame {
	f, _ := g.roots.Get(m)
	return f
}

// Walk visits every frame depth-first in first-seen order. path holds the
// frames from the root down to and including the visited frame; it is reused
// between calls. Returning false from fn skips the frame's callees.
func (g *Graph) Walk(fn func(path []*Frame) bool) {
	var path []*Frame
	var visit func(f *Frame)
	visit = func(f *Frame) {
		path = append(path, f)
		if fn(path) {
			for _, c := range f.Children() {
				visit(c)
			}
		}
		path = path[:len(path)-1]
	}
	for _, r := range g.Roots() {
		visit(r)
	}
}

// Build folds every sample of src into a new Graph. No graph is returned on
// error.
func Build(src jfr.Source, opts jfr.Options) (*Graph, jfr.Report, error) {
	g := New()
	rep, err := jfr.VisitSamples(src, opts, func(s jfr.ExecutionSample) {
		g.Add(s)
	})
	if err != nil {
		return nil, rep, err
	}
	return g, rep, nil
}

func values(m *children) []*Frame {
	if m == nil {
		return nil
	}
	out := make([]*Frame, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}
