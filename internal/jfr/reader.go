package jfr

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/grafana/jfr-parser/parser"
	"github.com/grafana/jfr-parser/parser/types"
	"github.com/grafana/jfr-parser/parser/types/def"
)

var (
	jfrMagic  = []byte{'F', 'L', 'R', 0}
	gzipMagic = []byte{0x1f, 0x8b}
)

// Source yields decoded events in file order. The Event passed to fn is only
// valid for the duration of the call.
type Source interface {
	Events(fn func(Event) error) error
}

// Reader is a Source backed by github.com/grafana/jfr-parser. The whole
// capture is held in memory; every call to Events is an independent pass.
type Reader struct {
	buf []byte
}

func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// ReadFrom reads a capture, transparently decompressing gzip input.
func ReadFrom(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	var src io.Reader = br
	if head, _ := br.Peek(len(gzipMagic)); bytes.Equal(head, gzipMagic) {
		gr, err := gzip.NewReader(br)
		if err != nil {
			return nil, &FormatError{Reason: "gzip", Err: err}
		}
		defer gr.Close()
		src = gr
	}
	buf, err := io.ReadAll(src)
	if err != nil {
		return nil, &IOError{Err: err}
	}
	return NewReader(buf), nil
}

// Open reads a .jfr or .jfr.gz file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	defer f.Close()
	r, err := ReadFrom(f)
	if ioErr, ok := err.(*IOError); ok {
		ioErr.Path = path
	}
	return r, err
}

// Len returns the size of the capture in bytes.
func (r *Reader) Len() int { return len(r.buf) }

// Events decodes the capture and calls fn for every event jfr-parser knows.
// The parser binds a fixed set of types (see the cases below); everything else,
// jdk.NativeMethodSample and jdk.GCPhasePause included, is skipped by the
// parser itself and never reaches fn.
func (r *Reader) Events(fn func(Event) error) error {
	if len(r.buf) < len(jfrMagic) || !bytes.Equal(r.buf[:len(jfrMagic)], jfrMagic) {
		return &FormatError{Reason: "missing FLR magic"}
	}

	p := parser.NewParser(r.buf, parser.Options{})
	for {
		typ, perr := parseEvent(p)
		if perr == io.EOF {
			return nil
		}
		if perr != nil {
			return perr
		}

		var ev Event
		switch typ {
		case p.TypeMap.T_EXECUTION_SAMPLE:
			s := &p.ExecutionSample
			ev = sampleEvent(p, ExecutionSampleType, s.StartTime, s.SampledThread, s.StackTrace)
		case p.TypeMap.T_WALL_CLOCK_SAMPLE:
			s := &p.WallClockSample
			ev = sampleEvent(p, WallClockSampleType, s.StartTime, s.SampledThread, s.StackTrace)
		case p.TypeMap.T_ALLOC_IN_NEW_TLAB:
			s := &p.ObjectAllocationInNewTLAB
			ev = threadEvent(p, "jdk.ObjectAllocationInNewTLAB", s.StartTime, s.EventThread, s.StackTrace,
				attr{"tlabSize", s.TlabSize})
		case p.TypeMap.T_ALLOC_OUTSIDE_TLAB:
			s := &p.ObjectAllocationOutsideTLAB
			ev = threadEvent(p, "jdk.ObjectAllocationOutsideTLAB", s.StartTime, s.EventThread, s.StackTrace,
				attr{"allocationSize", s.AllocationSize})
		case p.TypeMap.T_ALLOC_SAMPLE:
			s := &p.ObjectAllocationSample
			ev = threadEvent(p, "jdk.ObjectAllocationSample", s.StartTime, s.EventThread, s.StackTrace,
				attr{"weight", s.Weight})
		case p.TypeMap.T_MONITOR_ENTER:
			s := &p.JavaMonitorEnter
			ev = threadEvent(p, "jdk.JavaMonitorEnter", s.StartTime, s.EventThread, s.StackTrace,
				attr{"duration", s.Duration})
		case p.TypeMap.T_THREAD_PARK:
			s := &p.ThreadPark
			ev = threadEvent(p, "jdk.ThreadPark", s.StartTime, s.EventThread, s.StackTrace,
				attr{"duration", s.Duration})
		case p.TypeMap.T_ACTIVE_SETTING:
			s := &p.ActiveSetting
			ev = Event{Class: ActiveSettingType, Accessor: &eventRecord{
				p:         p,
				startTime: s.StartTime,
				attrs:     []attr{{"name", s.Name}, {"value", s.Value}},
			}}
		case p.TypeMap.T_MALLOC:
			s := &p.Malloc
			ev = threadEvent(p, MallocType, s.StartTime, s.EventThread, s.StackTrace,
				attr{"address", s.Address}, attr{"size", s.Size})
		case p.TypeMap.T_FREE:
			s := &p.Free
			ev = threadEvent(p, FreeType, s.StartTime, s.EventThread, s.StackTrace,
				attr{"address", s.Address})
		case p.TypeMap.T_LIVE_OBJECT:
			s := &p.LiveObject
			ev = threadEvent(p, LiveObjectType, s.StartTime, s.EventThread, s.StackTrace,
				attr{"allocationSize", s.AllocationSize}, attr{"allocationTime", s.AllocationTime})
		default:
			continue
		}
		if err := fn(ev); err != nil {
			return err
		}
	}
}

// parseEvent advances p by one event. The parser indexes into the buffer
// without bounds checks on corrupt input, so its panics become FormatErrors
// here; panics raised by the caller's callback are left alone.
func parseEvent(p *parser.Parser) (typ def.TypeID, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &FormatError{Reason: fmt.Sprintf("parser panic: %v", rec)}
		}
	}()
	typ, err = p.ParseEvent()
	if err != nil && err != io.EOF {
		err = &FormatError{Reason: "parse event", Err: err}
	}
	return typ, err
}

type attr struct {
	name string
	v    any
}

func sampleEvent(p *parser.Parser, class string, start uint64, thread types.ThreadRef, st types.StackTraceRef) Event {
	return Event{Class: class, Accessor: &eventRecord{
		p:           p,
		startTime:   start,
		threadField: "sampledThread",
		thread:      thread,
		hasStack:    true,
		stack:       st,
	}}
}

func threadEvent(p *parser.Parser, class string, start uint64, thread types.ThreadRef, st types.StackTraceRef, attrs ...attr) Event {
	return Event{Class: class, Accessor: &eventRecord{
		p:           p,
		startTime:   start,
		threadField: "eventThread",
		thread:      thread,
		hasStack:    true,
		stack:       st,
		attrs:       attrs,
	}}
}

// eventRecord exposes a typed jfr-parser event through Accessor, resolving
// pooled references on demand.
type eventRecord struct {
	p           *parser.Parser
	startTime   uint64
	threadField string
	thread      types.ThreadRef
	hasStack    bool
	stack       types.StackTraceRef
	attrs       []attr
}

func (r *eventRecord) Field(name string) (Accessor, bool) {
	switch {
	case name == "startTime":
		return Primitive{V: r.startTime}, true
	case r.threadField != "" && name == r.threadField:
		return threadValue{p: r.p, ref: r.thread}, true
	case r.hasStack && name == "stackTrace":
		st := r.p.GetStacktrace(r.stack)
		if st == nil {
			return Primitive{}, true
		}
		return stackTraceValue{p: r.p, st: st}, true
	}
	for _, a := range r.attrs {
		if a.name == name {
			return Primitive{V: a.v}, true
		}
	}
	return nil, false
}

func (r *eventRecord) Value() any { return nil }
func (r *eventRecord) Null() bool { return false }
func (r *eventRecord) Elements() ([]Accessor, bool) { return nil, false }

type threadValue struct {
	p   *parser.Parser
	ref types.ThreadRef
}

func (t threadValue) thread() *types.Thread {
	idx, ok := t.p.Threads.IDMap[t.ref]
	if !ok {
		return nil
	}
	return &t.p.Threads.Thread[idx]
}

func (t threadValue) Field(name string) (Accessor, bool) {
	th := t.thread()
	if th == nil {
		return nil, false
	}
	switch name {
	case "javaThreadId":
		return Primitive{V: th.JavaThreadId}, true
	case "javaName":
		return nullableString(th.JavaName), true
	case "osThreadId":
		return Primitive{V: th.OsThreadId}, true
	case "osName":
		return nullableString(th.OsName), true
	}
	return nil, false
}

func (t threadValue) Value() any { return nil }
func (t threadValue) Null() bool { return t.thread() == nil }
func (t threadValue) Elements() ([]Accessor, bool) { return nil, false }

type stackTraceValue struct {
	p  *parser.Parser
	st *types.StackTrace
}

func (s stackTraceValue) Field(name string) (Accessor, bool) {
	switch name {
	case "truncated":
		return Primitive{V: s.st.Truncated}, true
	case "frames":
		frames := make(Array, len(s.st.Frames))
		for i := range s.st.Frames {
			frames[i] = frameValue{p: s.p, f: &s.st.Frames[i]}
		}
		return frames, true
	}
	return nil, false
}

func (s stackTraceValue) Value() any { return nil }
func (s stackTraceValue) Null() bool { return false }
func (s stackTraceValue) Elements() ([]Accessor, bool) { return nil, false }

// frameValue has no bytecodeIndex field: jfr-parser does not keep it.
type frameValue struct {
	p *parser.Parser
	f *types.StackFrame
}

func (f frameValue) Field(name string) (Accessor, bool) {
	switch name {
	case "lineNumber":
		// stored unsigned; -1 marks a frame without line information
		return Primitive{V: int32(f.f.LineNumber)}, true
	case "method":
		return methodValue{p: f.p, m: f.p.GetMethod(f.f.Method)}, true
	}
	return nil, false
}

func (f frameValue) Value() any { return nil }
func (f frameValue) Null() bool { return false }
func (f frameValue) Elements() ([]Accessor, bool) { return nil, false }

type methodValue struct {
	p *parser.Parser
	m *types.Method
}

func (m methodValue) Field(name string) (Accessor, bool) {
	if m.m == nil {
		return nil, false
	}
	switch name {
	case "name":
		return Primitive{V: m.p.GetSymbolString(m.m.Name)}, true
	case "type":
		return classValue{p: m.p, c: m.p.GetClass(m.m.Type)}, true
	}
	return nil, false
}

func (m methodValue) Value() any { return nil }
func (m methodValue) Null() bool { return m.m == nil }
func (m methodValue) Elements() ([]Accessor, bool) { return nil, false }

type classValue struct {
	p *parser.Parser
	c *types.Class
}

func (c classValue) Field(name string) (Accessor, bool) {
	if c.c == nil || name != "name" {
		return nil, false
	}
	return Primitive{V: c.p.GetSymbolString(c.c.Name)}, true
}

func (c classValue) Value() any { return nil }
func (c classValue) Null() bool { return c.c == nil }
func (c classValue) Elements() ([]Accessor, bool) { return nil, false }

func nullableString(s string) Primitive {
	if s == "" {
		return Primitive{}
	}
	return Primitive{V: s}
}
