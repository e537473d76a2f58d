package main

import (
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/jerrinot/jfrview/internal/filter"
	"github.com/jerrinot/jfrview/internal/flame"
	"github.com/jerrinot/jfrview/internal/jfr"
	"github.com/jerrinot/jfrview/internal/metrics"
)

const (
	eventCPU    = "cpu"
	eventWall   = "wall"
	eventMalloc = "malloc"
)

// pipeline counts decode work. It stays nil unless a command serves metrics.
var pipeline *metrics.Pipeline

// openCapture reads a .jfr or .jfr.gz capture; "-" reads stdin.
func openCapture(path string) (*jfr.Reader, error) {
	if path == "-" {
		return jfr.ReadFrom(os.Stdin)
	}
	return jfr.Open(path)
}

func sampleTypes(event string) (jfr.SampleTypes, error) {
	switch event {
	case "", eventCPU:
		return jfr.DefaultSampleTypes, nil
	case eventWall:
		return jfr.WallClockSampleTypes, nil
	case eventMalloc:
		return jfr.MallocSampleTypes, nil
	}
	return jfr.SampleTypes{}, errors.Errorf("unknown event type %q (valid: cpu, wall, malloc)", event)
}

// sampleOptions turns the global flags into decode options.
func sampleOptions() (jfr.Options, error) {
	types, err := sampleTypes(flagEvent)
	if err != nil {
		return jfr.Options{}, err
	}
	opts := jfr.Options{Types: types, Metrics: pipeline}
	if flagLenient {
		opts.Policy = jfr.Lenient
	}
	var where filter.Func
	if flagWhere != "" {
		expr, err := filter.Compile(flagWhere)
		if err != nil {
			return jfr.Options{}, err
		}
		where = expr.Func()
	}
	opts.Filter = filter.All(filter.Thread(flagThread), where)
	return opts, nil
}

// visitSamples hands every selected sample of src to fn.
func visitSamples(src jfr.Source, fn func(jfr.ExecutionSample)) error {
	opts, err := sampleOptions()
	if err != nil {
		return err
	}
	rep, err := jfr.VisitSamples(src, opts, fn)
	if err != nil {
		return err
	}
	warnSkipped(rep)
	return nil
}

func warnSkipped(rep jfr.Report) {
	if rep.Skipped > 0 {
		slog.Warn("some events could not be decoded and were skipped",
			slog.Int("skipped", rep.Skipped),
			slog.Int("decoded", rep.Decoded))
	}
}

// loadGraph folds the selected samples of src into a flame graph.
func loadGraph(src jfr.Source) (*flame.Graph, error) {
	g := flame.New()
	if err := visitSamples(src, func(s jfr.ExecutionSample) { g.Add(s) }); err != nil {
		return nil, err
	}
	if n := g.Truncated(); n > 0 {
		slog.Debug("truncated stacks left out", slog.Int("samples", n))
	}
	return g, nil
}
