package export

import (
	"github.com/jerrinot/jfrview/internal/jfr"
)

// MethodSample is one accepted sample with its frame names root-first.
type MethodSample struct {
	Frames []string `json:"frames" yaml:"frames"`
	Native bool     `json:"native" yaml:"native"`
}

// Flat keeps one MethodSample per accepted sample in arrival order. Native
// samples are dropped unless IncludeNative is set.
type Flat struct {
	IncludeNative bool
	Samples       []MethodSample
	names         *frameNames
}

func NewFlat(includeNative bool) *Flat {
	return &Flat{IncludeNative: includeNative, names: newFrameNames()}
}

// Add appends s and reports whether it was kept.
func (f *Flat) Add(s jfr.ExecutionSample) bool {
	if s.StackTrace.Truncated || (s.Native && !f.IncludeNative) {
		return false
	}
	frames := make([]string, len(s.StackTrace.Frames))
	for i, sf := range s.StackTrace.Frames {
		frames[i] = f.names.name(sf.Method)
	}
	f.Samples = append(f.Samples, MethodSample{Frames: frames, Native: s.Native})
	return true
}

// BuildFlat runs a whole pass over src.
func BuildFlat(src jfr.Source, opts jfr.Options, includeNative bool) (*Flat, jfr.Report, error) {
	f := NewFlat(includeNative)
	rep, err := jfr.VisitSamples(src, opts, func(s jfr.ExecutionSample) {
		f.Add(s)
	})
	if err != nil {
		return nil, rep, err
	}
	return f, rep, nil
}
