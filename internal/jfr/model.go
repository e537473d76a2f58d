package jfr

import (
	"strconv"

	"github.com/jerrinot/jfrview/internal/symbol"
)

const (
	ExecutionSampleType    = "jdk.ExecutionSample"
	NativeMethodSampleType = "jdk.NativeMethodSample"
	WallClockSampleType    = "profiler.WallClockSample"
	ActiveSettingType      = "jdk.ActiveSetting"
	GCPhasePauseType       = "jdk.GCPhasePause"
	MallocType             = "profiler.Malloc"
	FreeType               = "profiler.Free"
	LiveObjectType         = "profiler.LiveObject"
)

// ExecutionSample is one observation of a thread's call stack.
type ExecutionSample struct {
	StartTime  int64
	Thread     *Thread // nil when the event carries no thread
	StackTrace StackTrace
	Native     bool
}

// StackTrace holds frames root-first: Frames[0] is the outermost caller.
type StackTrace struct {
	Truncated bool
	Frames    []StackFrame
}

type StackFrame struct {
	LineNumber    int32
	BytecodeIndex int32
	Method        Method
}

// Method is compared by value so that separately decoded copies of the same
// logical method are equal map keys.
type Method struct {
	Name  string
	Class Class
}

// String renders "com.example.Foo:bar".
func (m Method) String() string {
	if m.Class.Name == "" {
		return m.Name
	}
	return m.Class.PrettyName() + ":" + m.Name
}

// Class holds a raw slash-separated internal class name.
type Class struct {
	Name string
}

func (c Class) PrettyName() string { return symbol.Pretty(c.Name) }

func (c Class) AbbreviatedName() string { return symbol.Abbreviate(c.Name) }

func (c Class) String() string { return c.Name }

type Thread struct {
	JavaThreadID int64
	JavaName     string
	HasName      bool
}

// Equal compares threads by Java thread id only.
func (t *Thread) Equal(o *Thread) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.JavaThreadID == o.JavaThreadID
}

// DisplayName returns the Java thread name, or the decimal thread id when the
// thread is unnamed.
func (t *Thread) DisplayName() string {
	if t.HasName {
		return t.JavaName
	}
	return strconv.FormatInt(t.JavaThreadID, 10)
}
