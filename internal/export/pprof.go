package export

import (
	"io"

	"github.com/google/pprof/profile"
	"github.com/pkg/errors"

	"github.com/jerrinot/jfrview/internal/flame"
	"github.com/jerrinot/jfrview/internal/jfr"
)

// PprofProfile converts g into a pprof profile with one sample per call
// path that has self ticks. sampleType names the value, e.g. "cpu" or "wall".
func PprofProfile(g *flame.Graph, includeNative bool, sampleType string) *profile.Profile {
	prof := &profile.Profile{
		SampleType: []*profile.ValueType{{Type: sampleType, Unit: "count"}},
		PeriodType: &profile.ValueType{Type: sampleType, Unit: "count"},
		Period:     1,
	}
	names := newFrameNames()
	functions := make(map[jfr.Method]*profile.Function)
	// a location stands for one node of the graph
	locations := make(map[*flame.Frame]*profile.Location)

	location := func(f *flame.Frame) *profile.Location {
		if loc, ok := locations[f]; ok {
			return loc
		}
		fn, ok := functions[f.Method]
		if !ok {
			fn = &profile.Function{
				ID:         uint64(len(prof.Function) + 1),
				Name:       names.name(f.Method),
				SystemName: f.Method.Class.Name + "." + f.Method.Name,
				Filename:   f.Method.Class.PrettyName(),
			}
			functions[f.Method] = fn
			prof.Function = append(prof.Function, fn)
		}
		loc := &profile.Location{
			ID:   uint64(len(prof.Location) + 1),
			Line: []profile.Line{{Function: fn}},
		}
		locations[f] = loc
		prof.Location = append(prof.Location, loc)
		return loc
	}

	g.Walk(func(path []*flame.Frame) bool {
		leaf := path[len(path)-1]
		if leaf.HasNoSamples(includeNative) {
			return false
		}
		if self := leaf.SelfTicks(includeNative); self > 0 {
			// pprof stacks are leaf-first
			locs := make([]*profile.Location, len(path))
			for i, f := range path {
				locs[len(path)-1-i] = location(f)
			}
			prof.Sample = append(prof.Sample, &profile.Sample{
				Location: locs,
				Value:    []int64{int64(self)},
			})
		}
		return true
	})
	return prof
}

// WritePprof writes g as a gzip-compressed pprof protobuf.
func WritePprof(w io.Writer, g *flame.Graph, includeNative bool, sampleType string) error {
	prof := PprofProfile(g, includeNative, sampleType)
	if err := prof.CheckValid(); err != nil {
		return errors.Wrap(err, "invalid pprof profile")
	}
	return errors.Wrap(prof.Write(w), "write pprof")
}
