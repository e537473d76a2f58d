package export

import (
	"encoding/json"

	"github.com/pkg/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/jerrinot/jfrview/internal/jfr"
)

// Kind tells what a folded node stands for.
type Kind int

const (
	Other Kind = iota
	Exec
	Thread
)

func (k Kind) String() string {
	switch k {
	case Exec:
		return "Exec"
	case Thread:
		return "Thread"
	}
	return "Other"
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Exec":
		*k = Exec
	case "Thread":
		*k = Thread
	case "Other":
		*k = Other
	default:
		return errors.Errorf("unknown node kind %q", b)
	}
	return nil
}

// RootName names the synthetic root of folded trees and flame-graph JSON.
const RootName = "Root"

// NoThreadName groups samples recorded without a thread.
const NoThreadName = "(no thread)"

// Sample is a node of the folded tree. Nodes are identified by name alone: a
// child is looked up by name regardless of its kind or value.
type Sample struct {
	Name     string
	Kind     Kind
	Value    int
	children *orderedmap.OrderedMap[string, *Sample]
}

// Children returns the child nodes in first-seen order.
func (s *Sample) Children() []*Sample {
	if s.children == nil {
		return nil
	}
	out := make([]*Sample, 0, s.children.Len())
	for pair := s.children.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// Child returns the child called name, or nil.
func (s *Sample) Child(name string) *Sample {
	if s.children == nil {
		return nil
	}
	c, _ := s.children.Get(name)
	return c
}

// enter finds or creates the child called name, counts one sample in it and
// returns it.
func (s *Sample) enter(name string, kind Kind) *Sample {
	if s.children == nil {
		s.children = orderedmap.New[string, *Sample]()
	}
	c, ok := s.children.Get(name)
	if !ok {
		c = &Sample{Name: name, Kind: kind}
		s.children.Set(name, c)
	}
	c.Value++
	return c
}

type sampleDoc struct {
	Name     string    `json:"name" yaml:"name"`
	Kind     Kind      `json:"kind" yaml:"kind"`
	Value    int       `json:"value" yaml:"value"`
	Children []*Sample `json:"children" yaml:"children"`
}

func (s *Sample) doc() sampleDoc {
	children := s.Children()
	if children == nil {
		children = []*Sample{}
	}
	return sampleDoc{Name: s.Name, Kind: s.Kind, Value: s.Value, Children: children}
}

func (s *Sample) MarshalJSON() ([]byte, error) { return json.Marshal(s.doc()) }

func (s *Sample) MarshalYAML() (interface{}, error) {
	d := s.doc()
	return struct {
		Name     string    `yaml:"name"`
		Kind     string    `yaml:"kind"`
		Value    int       `yaml:"value"`
		Children []*Sample `yaml:"children"`
	}{d.Name, d.Kind.String(), d.Value, d.Children}, nil
}

// Folded aggregates samples by composed frame name, optionally under one node
// per thread.
type Folded struct {
	IncludeNative bool
	GroupByThread bool
	Root          *Sample
	names         *frameNames
}

func NewFolded(includeNative, groupByThread bool) *Folded {
	return &Folded{
		IncludeNative: includeNative,
		GroupByThread: groupByThread,
		Root:          &Sample{Name: RootName, Kind: Other},
		names:         newFrameNames(),
	}
}

// Add folds s into the tree and reports whether it was accepted.
func (f *Folded) Add(s jfr.ExecutionSample) bool {
	if s.StackTrace.Truncated || (s.Native && !f.IncludeNative) {
		return false
	}
	f.Root.Value++
	at := f.Root
	if f.GroupByThread {
		at = at.enter(threadName(s.Thread), Thread)
	}
	for _, sf := range s.StackTrace.Frames {
		at = at.enter(f.names.name(sf.Method), Exec)
	}
	return true
}

func threadName(t *jfr.Thread) string {
	if t == nil {
		return NoThreadName
	}
	return t.DisplayName()
}

// BuildFolded runs a whole pass over src.
func BuildFolded(src jfr.Source, opts jfr.Options, includeNative, groupByThread bool) (*Folded, jfr.Report, error) {
	f := NewFolded(includeNative, groupByThread)
	rep, err := jfr.VisitSamples(src, opts, func(s jfr.ExecutionSample) {
		f.Add(s)
	})
	if err != nil {
		return nil, rep, err
	}
	return f, rep, nil
}
