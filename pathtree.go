package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jerrinot/jfrview/internal/flame"
	"github.com/jerrinot/jfrview/internal/jfr"
)

// pathTree holds path-aggregated sample counts for tree/callers/trace
// display. Percentages are relative to every decoded sample, not only the
// ones that matched.
type pathTree struct {
	graph        *flame.Graph
	jvmTotal     int
	nativeTotal  int
	matchedNames map[string]bool
}

type treeOptions struct {
	maxDepth      int
	minPct        float64
	showSelf      bool
	includeNative bool
	fqn           bool
}

func (pt *pathTree) total(includeNative bool) int {
	if includeNative {
		return pt.jvmTotal + pt.nativeTotal
	}
	return pt.jvmTotal
}

// aggregateFromRoot builds a path tree starting from the root of all stacks.
func aggregateFromRoot(src jfr.Source) (*pathTree, error) {
	return aggregatePaths(src, "", nil)
}

// aggregatePaths finds the first frame of each sample matching pattern and
// folds the path returned by extract into the tree. extract receives the
// root-first frames and the index of the matched frame. A nil extract keeps
// whole stacks.
func aggregatePaths(src jfr.Source, pattern string, extract func(frames []jfr.StackFrame, j int) []jfr.StackFrame) (*pathTree, error) {
	pt := &pathTree{graph: flame.New(), matchedNames: make(map[string]bool)}
	err := visitSamples(src, func(s jfr.ExecutionSample) {
		frames := s.StackTrace.Frames
		if s.StackTrace.Truncated || len(frames) == 0 {
			return
		}
		if s.Native {
			pt.nativeTotal++
		} else {
			pt.jvmTotal++
		}
		if extract == nil {
			pt.graph.Add(s)
			return
		}
		for j, fr := range frames {
			if matchesMethod(fr.Method, pattern) {
				pt.matchedNames[shortName(fr.Method)] = true
				s.StackTrace.Frames = extract(frames, j)
				pt.graph.Add(s)
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	return pt, nil
}

// descendants keeps the matched frame and everything it calls.
func descendants(frames []jfr.StackFrame, j int) []jfr.StackFrame {
	return frames[j:]
}

// ancestors turns matched frame → root into a path, callers becoming children.
func ancestors(frames []jfr.StackFrame, j int) []jfr.StackFrame {
	path := make([]jfr.StackFrame, j+1)
	for k := 0; k <= j; k++ {
		path[j-k] = frames[k]
	}
	return path
}

func (pt *pathTree) printMatched(w io.Writer) {
	if len(pt.matchedNames) <= 1 {
		return
	}
	names := make([]string, 0, len(pt.matchedNames))
	for n := range pt.matchedNames {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintf(w, "# matched %d methods: %s\n", len(pt.matchedNames), strings.Join(names, ", "))
}

// sortedChildren orders frames by ticks descending, ties by name.
func sortedChildren(frames []*flame.Frame, names *nameCache, includeNative bool) []*flame.Frame {
	out := make([]*flame.Frame, 0, len(frames))
	for _, f := range frames {
		if !f.HasNoSamples(includeNative) {
			out = append(out, f)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].Ticks(includeNative), out[j].Ticks(includeNative)
		if ti != tj {
			return ti > tj
		}
		return names.name(out[i].Method) < names.name(out[j].Method)
	})
	return out
}

// printTree prints the aggregated path tree. With showSelf, nodes annotate
// their self-time percentage.
func (pt *pathTree) printTree(w io.Writer, title string, opts treeOptions) {
	if pt.graph.HasNoSamples(opts.includeNative) {
		fmt.Fprintf(w, "no frames matching '%s'\n", title)
		return
	}
	pt.printMatched(w)

	names := newNameCache(opts.fqn)
	total := pt.total(opts.includeNative)

	var walk func(f *flame.Frame, depth int)
	walk = func(f *flame.Frame, depth int) {
		p := pct(f.Ticks(opts.includeNative), total)
		if p < opts.minPct {
			return
		}
		selfSuffix := ""
		if opts.showSelf {
			if self := f.SelfTicks(opts.includeNative); self > 0 {
				if selfPct := pct(self, total); selfPct >= opts.minPct {
					selfSuffix = fmt.Sprintf("  ← self=%.1f%%", selfPct)
				}
			}
		}
		fmt.Fprintf(w, "%s[%.1f%%] %s%s\n", strings.Repeat("  ", depth-1), p, names.name(f.Method), selfSuffix)
		if depth >= opts.maxDepth {
			return
		}
		for _, c := range sortedChildren(f.Children(), names, opts.includeNative) {
			walk(c, depth+1)
		}
	}

	roots := pt.graph.Roots()
	sort.SliceStable(roots, func(i, j int) bool { return names.name(roots[i].Method) < names.name(roots[j].Method) })
	for _, r := range roots {
		if !r.HasNoSamples(opts.includeNative) {
			walk(r, 1)
		}
	}
}
