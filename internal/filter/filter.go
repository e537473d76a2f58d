// Package filter selects samples with user supplied predicates.
package filter

import (
	"strings"

	"github.com/pkg/errors"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/jerrinot/jfrview/internal/jfr"
)

// Func reports whether a sample should be kept.
type Func func(jfr.ExecutionSample) (bool, error)

// All keeps a sample only when every non-nil predicate keeps it. It returns
// nil when there is nothing to check.
func All(preds ...Func) Func {
	var active []Func
	for _, p := range preds {
		if p != nil {
			active = append(active, p)
		}
	}
	switch len(active) {
	case 0:
		return nil
	case 1:
		return active[0]
	}
	return func(s jfr.ExecutionSample) (bool, error) {
		for _, p := range active {
			ok, err := p(s)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
}

// Thread keeps samples whose thread display name contains sub. Samples without
// a thread never match.
func Thread(sub string) Func {
	if sub == "" {
		return nil
	}
	return func(s jfr.ExecutionSample) (bool, error) {
		return s.Thread != nil && strings.Contains(s.Thread.DisplayName(), sub), nil
	}
}

// Expr is a compiled Starlark sample predicate. The expression sees
//
//	thread  the thread display name, or None
//	frames  the frame names root-first, as "com.example.Foo:bar"
//	native  whether the sample came from native code
//	start   the sample start time
//
// An Expr is not safe for concurrent use.
type Expr struct {
	src    string
	fn     starlark.Callable
	thread *starlark.Thread
	names  map[jfr.Method]starlark.Value
}

// Compile parses expr once so it can be evaluated for every sample.
func Compile(expr string) (*Expr, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, errors.New("empty filter expression")
	}
	src := "def keep(thread, frames, native, start):\n    return (" + expr + "\n    )\n"
	th := &starlark.Thread{Name: "where"}
	globals, err := starlark.ExecFileOptions(&syntax.FileOptions{}, th, "where", src, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "compile filter %q", expr)
	}
	fn, ok := globals["keep"].(starlark.Callable)
	if !ok {
		return nil, errors.Errorf("compile filter %q: no predicate", expr)
	}
	return &Expr{src: expr, fn: fn, thread: th, names: make(map[jfr.Method]starlark.Value)}, nil
}

func (e *Expr) String() string { return e.src }

// Keep evaluates the expression for s using Starlark truthiness.
func (e *Expr) Keep(s jfr.ExecutionSample) (bool, error) {
	var thread starlark.Value = starlark.None
	if s.Thread != nil {
		thread = starlark.String(s.Thread.DisplayName())
	}
	frames := make([]starlark.Value, len(s.StackTrace.Frames))
	for i, f := range s.StackTrace.Frames {
		frames[i] = e.name(f.Method)
	}
	args := starlark.Tuple{
		thread,
		starlark.NewList(frames),
		starlark.Bool(s.Native),
		starlark.MakeInt64(s.StartTime),
	}
	v, err := starlark.Call(e.thread, e.fn, args, nil)
	if err != nil {
		return false, errors.Wrapf(err, "filter %q", e.src)
	}
	return bool(v.Truth()), nil
}

// Func adapts e to the jfr.Options filter hook.
func (e *Expr) Func() Func { return e.Keep }

func (e *Expr) name(m jfr.Method) starlark.Value {
	if v, ok := e.names[m]; ok {
		return v
	}
	v := starlark.String(m.String())
	e.names[m] = v
	return v
}
