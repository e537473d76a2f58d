// Package stats summarizes the time range and event mix of a capture.
package stats

import (
	"log/slog"
	"math"
	"sort"
	"strconv"

	"github.com/pkg/errors"

	"github.com/jerrinot/jfrview/internal/jfr"
)

// Stats spans all events of a capture. Start and End are raw event start
// times in recorder ticks.
type Stats struct {
	Start  int64          `json:"start" yaml:"start"`
	End    int64          `json:"end" yaml:"end"`
	Events []string       `json:"events" yaml:"events"`
	Counts map[string]int `json:"counts" yaml:"counts"`
}

// EmptyRangeError reports a capture without any event.
type EmptyRangeError struct{}

func (EmptyRangeError) Error() string { return "no events in capture" }

type Options struct {
	// Target selects the event class summarized in Stats.Events. Defaults to
	// jdk.ExecutionSample.
	Target string
	Policy jfr.Policy
	Logger *slog.Logger
}

// Compute scans src once. The time range covers events of every class; only
// events of the target class are summarized.
func Compute(src jfr.Source, opts Options) (*Stats, error) {
	target := opts.Target
	if target == "" {
		target = jfr.ExecutionSampleType
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Stats{
		Start:  math.MaxInt64,
		End:    math.MinInt64,
		Events: []string{},
		Counts: make(map[string]int),
	}
	idx := 0
	err := src.Events(func(ev jfr.Event) error {
		defer func() { idx++ }()
		start, err := jfr.Int(ev, "startTime")
		if err == nil && ev.Class == target {
			var summary string
			summary, err = summarize(ev)
			if err == nil {
				s.Events = append(s.Events, summary)
			}
		}
		if err != nil {
			if opts.Policy == jfr.Strict {
				return &jfr.EventError{Index: idx, Class: ev.Class, Err: err}
			}
			log.Warn("skipping undecodable event",
				slog.Int("event", idx),
				slog.String("class", ev.Class),
				slog.String("error", err.Error()))
			return nil
		}
		s.Start = min(s.Start, start)
		s.End = max(s.End, start)
		s.Counts[ev.Class]++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if s.Start == math.MaxInt64 || s.End == math.MinInt64 {
		return nil, EmptyRangeError{}
	}
	return s, nil
}

func summarize(ev jfr.Event) (string, error) {
	switch ev.Class {
	case jfr.GCPhasePauseType:
		d, err := jfr.Int(ev, "duration")
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(d, 10), nil
	case jfr.ActiveSettingType:
		name, err := settingName(ev)
		if err != nil {
			return "", err
		}
		value, err := jfr.String(ev, "value")
		if err != nil {
			return "", err
		}
		return name + "=" + value, nil
	}
	return ev.Class, nil
}

// settingName prefers the resolved setting name and falls back to the id of
// the event type the setting belongs to.
func settingName(ev jfr.Event) (string, error) {
	name, err := jfr.String(ev, "name")
	if err == nil {
		return name, nil
	}
	var missing *jfr.FieldMissingError
	if !errors.As(err, &missing) {
		return "", err
	}
	id, err := jfr.Int(ev, "settingFor")
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(id, 10), nil
}

// ClassCount is the number of events of one class.
type ClassCount struct {
	Class string `json:"class" yaml:"class"`
	Count int    `json:"count" yaml:"count"`
}

// Ranked returns Counts ordered by count descending, then by class name.
func (s *Stats) Ranked() []ClassCount {
	out := make([]ClassCount, 0, len(s.Counts))
	for c, n := range s.Counts {
		out = append(out, ClassCount{c, n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Class < out[j].Class
	})
	return out
}

// Span is End minus Start.
func (s *Stats) Span() int64 { return s.End - s.Start }
