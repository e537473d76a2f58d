package jfr

import (
	"log/slog"
	"time"

	"github.com/jerrinot/jfrview/internal/metrics"
)

// Policy decides what happens when a single event fails to decode.
type Policy int

const (
	// Strict aborts the pass on the first event that fails to decode.
	Strict Policy = iota
	// Lenient logs the failure, skips the event and keeps going.
	Lenient
)

func (p Policy) String() string {
	if p == Lenient {
		return "lenient"
	}
	return "strict"
}

// Options configures VisitSamples. The zero value decodes CPU and native
// samples strictly.
type Options struct {
	Types   SampleTypes
	Policy  Policy
	Logger  *slog.Logger
	Metrics *metrics.Pipeline
	// Filter, when set, decides which decoded samples reach the callback.
	// A Filter error aborts the pass under either policy.
	Filter func(ExecutionSample) (bool, error)
}

func (o Options) types() SampleTypes {
	if o.Types.Sample == "" {
		return DefaultSampleTypes
	}
	return o.Types
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// Report summarizes one pass over a Source.
type Report struct {
	Events  int // all events surfaced by the source
	Decoded int // samples handed to the callback
	Skipped int // samples dropped under Lenient
	Dropped int // samples rejected by Options.Filter
}

// VisitSamples decodes every sample event of src and hands it to fn in file
// order. Events of other classes are counted and otherwise ignored.
func VisitSamples(src Source, opts Options, fn func(ExecutionSample)) (Report, error) {
	sel := opts.types()
	log := opts.logger()
	var rep Report
	began := time.Now()

	err := src.Events(func(ev Event) error {
		idx := rep.Events
		rep.Events++
		opts.Metrics.Event()
		if !sel.Match(ev.Class) {
			return nil
		}
		s, err := sel.Decode(ev)
		if err != nil {
			opts.Metrics.DecodeError()
			if opts.Policy == Strict {
				return &EventError{Index: idx, Class: ev.Class, Err: err}
			}
			rep.Skipped++
			log.Warn("skipping undecodable event",
				slog.Int("event", idx),
				slog.String("class", ev.Class),
				slog.String("error", err.Error()))
			return nil
		}
		opts.Metrics.Sample(s.Native)
		if opts.Filter != nil {
			keep, err := opts.Filter(s)
			if err != nil {
				return &EventError{Index: idx, Class: ev.Class, Err: err}
			}
			if !keep {
				rep.Dropped++
				return nil
			}
		}
		rep.Decoded++
		fn(s)
		return nil
	})
	opts.Metrics.ParseDone(time.Since(began).Seconds())
	if err != nil {
		return rep, err
	}
	log.Debug("samples decoded",
		slog.Int("events", rep.Events),
		slog.Int("decoded", rep.Decoded),
		slog.Int("skipped", rep.Skipped),
		slog.Int("dropped", rep.Dropped),
		slog.String("policy", opts.Policy.String()))
	return rep, nil
}

// Slice is a Source over events already held in memory.
type Slice []Event

func (e Slice) Events(fn func(Event) error) error {
	for _, ev := range e {
		if err := fn(ev); err != nil {
			return err
		}
	}
	return nil
}
