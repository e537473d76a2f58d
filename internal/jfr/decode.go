package jfr

import (
	"github.com/pkg/errors"
)

// SampleTypes names the event classes decoded into ExecutionSamples.
type SampleTypes struct {
	Sample string
	Native string
}

var DefaultSampleTypes = SampleTypes{Sample: ExecutionSampleType, Native: NativeMethodSampleType}

// WallClockSampleTypes decodes async-profiler wall-clock samples in place of
// CPU samples.
var WallClockSampleTypes = SampleTypes{Sample: WallClockSampleType, Native: NativeMethodSampleType}

// MallocSampleTypes treats async-profiler native allocations as samples. The
// allocating thread is read from eventThread.
var MallocSampleTypes = SampleTypes{Sample: MallocType}

// Match reports whether class is one of the sample classes.
func (t SampleTypes) Match(class string) bool {
	return class == t.Sample || (t.Native != "" && class == t.Native)
}

// Decode converts ev into an ExecutionSample. ev.Class must satisfy Match.
func (t SampleTypes) Decode(ev Event) (ExecutionSample, error) {
	native := t.Native != "" && ev.Class == t.Native
	return decodeExecutionSample(ev.Accessor, native)
}

// DecodeExecutionSample decodes ev with the default sample classes.
func DecodeExecutionSample(ev Event) (ExecutionSample, error) {
	return DefaultSampleTypes.Decode(ev)
}

func decodeExecutionSample(a Accessor, native bool) (ExecutionSample, error) {
	startTime, err := Int(a, "startTime")
	if err != nil {
		return ExecutionSample{}, err
	}
	thread, err := decodeOptionalThread(a, "sampledThread")
	if err != nil {
		return ExecutionSample{}, err
	}
	if thread == nil {
		// allocation events name the thread that made them
		if thread, err = decodeOptionalThread(a, "eventThread"); err != nil {
			return ExecutionSample{}, err
		}
	}
	st, err := Child(a, "stackTrace")
	if err != nil {
		return ExecutionSample{}, err
	}
	trace, err := decodeStackTrace(st)
	if err != nil {
		return ExecutionSample{}, errors.Wrap(err, "stackTrace")
	}
	return ExecutionSample{
		StartTime:  startTime,
		Thread:     thread,
		StackTrace: trace,
		Native:     native,
	}, nil
}

func decodeOptionalThread(a Accessor, name string) (*Thread, error) {
	v, ok := a.Field(name)
	if !ok || v.Null() {
		return nil, nil
	}
	t, err := decodeThread(v)
	if err != nil {
		return nil, errors.Wrap(err, name)
	}
	return t, nil
}

func decodeThread(a Accessor) (*Thread, error) {
	id, err := Int(a, "javaThreadId")
	if err != nil {
		return nil, err
	}
	name, hasName, err := NullableString(a, "javaName")
	if err != nil {
		var missing *FieldMissingError
		if !errors.As(err, &missing) {
			return nil, err
		}
	}
	return &Thread{JavaThreadID: id, JavaName: name, HasName: hasName}, nil
}

// decodeStackTrace reverses the leaf-first frames of the recording so that
// the result is root-first. A null stack trace decodes as an empty one.
func decodeStackTrace(a Accessor) (StackTrace, error) {
	if a.Null() {
		return StackTrace{}, nil
	}
	truncated, err := Bool(a, "truncated")
	if err != nil {
		return StackTrace{}, err
	}
	elems, err := Elements(a, "frames")
	if err != nil {
		return StackTrace{}, err
	}
	n := len(elems)
	frames := make([]StackFrame, n)
	for i, e := range elems {
		f, err := decodeFrame(e)
		if err != nil {
			return StackTrace{}, errors.Wrapf(err, "frame %d", i)
		}
		frames[n-1-i] = f
	}
	return StackTrace{Truncated: truncated, Frames: frames}, nil
}

// decodeFrame reads a stack frame. bytecodeIndex is optional and defaults to
// 0: grafana/jfr-parser drops it while decoding the constant pool.
func decodeFrame(a Accessor) (StackFrame, error) {
	var bci int32
	if _, ok := a.Field("bytecodeIndex"); ok {
		var err error
		if bci, err = Int32(a, "bytecodeIndex"); err != nil {
			return StackFrame{}, err
		}
	}
	line, err := Int32(a, "lineNumber")
	if err != nil {
		return StackFrame{}, err
	}
	m, err := Child(a, "method")
	if err != nil {
		return StackFrame{}, err
	}
	method, err := decodeMethod(m)
	if err != nil {
		return StackFrame{}, errors.Wrap(err, "method")
	}
	return StackFrame{LineNumber: line, BytecodeIndex: bci, Method: method}, nil
}

// unknownMethod stands in for a frame whose method reference is not in the
// constant pool.
var unknownMethod = Method{Name: "<unknown>"}

func decodeMethod(a Accessor) (Method, error) {
	if a.Null() {
		return unknownMethod, nil
	}
	name, err := Symbol(a, "name")
	if err != nil {
		return Method{}, err
	}
	t, err := Child(a, "type")
	if err != nil {
		return Method{}, err
	}
	class, err := decodeClass(t)
	if err != nil {
		return Method{}, errors.Wrap(err, "type")
	}
	return Method{Name: name, Class: class}, nil
}

func decodeClass(a Accessor) (Class, error) {
	if a.Null() {
		return Class{}, nil
	}
	name, err := Symbol(a, "name")
	if err != nil {
		return Class{}, err
	}
	return Class{Name: name}, nil
}
