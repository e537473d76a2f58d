// Package jfrtest builds in-memory JFR events shaped like the ones the
// grafana/jfr-parser adapter produces.
package jfrtest

import (
	"strings"

	"github.com/jerrinot/jfrview/internal/jfr"
)

// Frame returns a stack frame record for class.method with internal
// (slash-separated) class name. Like the parser's frames it has no
// bytecodeIndex.
func Frame(class, method string) jfr.Record {
	return jfr.Record{
		"lineNumber": int32(0),
		"method": jfr.Record{
			"name": jfr.Record{"string": method},
			"type": jfr.Record{"name": jfr.Record{"string": class}},
		},
	}
}

// Line returns a copy of frame with its line number set.
func Line(frame jfr.Record, line int32) jfr.Record {
	out := make(jfr.Record, len(frame))
	for k, v := range frame {
		out[k] = v
	}
	out["lineNumber"] = line
	return out
}

// Path turns "Class.method" names into frame records, keeping their order.
// The class part may use slashes or dots.
func Path(names ...string) []jfr.Record {
	frames := make([]jfr.Record, len(names))
	for i, n := range names {
		class, method := n, ""
		if dot := strings.LastIndexByte(n, '.'); dot >= 0 {
			class, method = n[:dot], n[dot+1:]
		}
		frames[i] = Frame(strings.ReplaceAll(class, ".", "/"), method)
	}
	return frames
}

// Thread returns a thread record. An empty name is recorded as null.
func Thread(id int64, name string) jfr.Record {
	t := jfr.Record{"javaThreadId": id, "javaName": nil}
	if name != "" {
		t["javaName"] = name
	}
	return t
}

// Sample builds a jdk.ExecutionSample. frames are root-first and are stored
// leaf-first, the way a recording lays them out. A nil thread is recorded as
// null.
func Sample(start int64, thread jfr.Record, frames ...jfr.Record) jfr.Event {
	return sampleOf(jfr.ExecutionSampleType, start, thread, false, frames)
}

// NativeSample builds a jdk.NativeMethodSample.
func NativeSample(start int64, thread jfr.Record, frames ...jfr.Record) jfr.Event {
	return sampleOf(jfr.NativeMethodSampleType, start, thread, false, frames)
}

// WallSample builds a profiler.WallClockSample.
func WallSample(start int64, thread jfr.Record, frames ...jfr.Record) jfr.Event {
	return sampleOf(jfr.WallClockSampleType, start, thread, false, frames)
}

// TruncatedSample builds a jdk.ExecutionSample whose stack trace is marked
// truncated.
func TruncatedSample(start int64, thread jfr.Record, frames ...jfr.Record) jfr.Event {
	return sampleOf(jfr.ExecutionSampleType, start, thread, true, frames)
}

func sampleOf(class string, start int64, thread jfr.Record, truncated bool, frames []jfr.Record) jfr.Event {
	leafFirst := make([]jfr.Record, len(frames))
	for i, f := range frames {
		leafFirst[len(frames)-1-i] = f
	}
	r := jfr.Record{
		"startTime":     start,
		"sampledThread": nil,
		"stackTrace": jfr.Record{
			"truncated": truncated,
			"frames":    leafFirst,
		},
	}
	if thread != nil {
		r["sampledThread"] = thread
	}
	return jfr.Event{Class: class, Accessor: r}
}

// Event builds an event of any class with the given start time and extra
// fields.
func Event(class string, start int64, fields jfr.Record) jfr.Event {
	r := jfr.Record{"startTime": start}
	for k, v := range fields {
		r[k] = v
	}
	return jfr.Event{Class: class, Accessor: r}
}
