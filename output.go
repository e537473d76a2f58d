package main

import (
	"io"
	"os"
	"slices"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/jerrinot/jfrview/internal/export"
)

const (
	formatJSON       = "json"
	formatYAML       = "yaml"
	formatText       = "text"
	formatPprof      = "pprof"
	formatSpeedscope = "speedscope"
	formatCollapsed  = "collapsed"
)

const flagFormatName = "format"

func validateFormat(format string, allowed ...string) error {
	if slices.Contains(allowed, format) {
		return nil
	}
	return errors.Errorf("unsupported --%s %q (valid: %s)", flagFormatName, format, strings.Join(allowed, ", "))
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeDocument encodes v as JSON or YAML. JSON is indented for terminals.
func writeDocument(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		return export.WriteJSON(w, v, isTerminal(w))
	case formatYAML:
		return export.WriteYAML(w, v)
	}
	return errors.Errorf("cannot write %s document", format)
}

// createOutput opens path for writing, or returns w when path is empty or "-".
func createOutput(w io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return w, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create %s", path)
	}
	return f, f.Close, nil
}
