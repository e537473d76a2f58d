package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/jfr"
)

var linesCmd = &cobra.Command{
	Use:   "lines FILE",
	Short: "Break a method's samples down by source line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdLines(cmd.OutOrStdout(), src, linesFlags.method, linesFlags.top, linesFlags.fqn, linesFlags.native)
	},
}

var linesFlags struct {
	method string
	top    int
	fqn    bool
	native bool
}

func init() {
	linesCmd.Flags().StringVarP(&linesFlags.method, flagMethodName, "m", "", "substring match on the method name")
	linesCmd.Flags().IntVar(&linesFlags.top, flagTopName, 10, "limit output rows")
	linesCmd.Flags().BoolVar(&linesFlags.fqn, flagFqnName, false, "show fully-qualified names instead of Class.method")
	linesCmd.Flags().BoolVar(&linesFlags.native, flagNativeName, false, "include native samples")
	_ = linesCmd.MarkFlagRequired(flagMethodName)
	rootCmd.AddCommand(linesCmd)
}

type lineEntry struct {
	name    string
	line    int32
	samples int
}

type lineReport struct {
	entries   []lineEntry
	total     int
	hasMethod bool // some frame matched, with or without line info
}

// computeLines counts samples per source line of frames matching method. A
// line is counted once per sample even when recursion repeats it.
func computeLines(src jfr.Source, method string, top int, fqn, includeNative bool) (lineReport, error) {
	type lineKey struct {
		name string
		line int32
	}
	var rep lineReport
	names := newNameCache(fqn)
	counts := make(map[lineKey]int)

	err := visitSamples(src, func(s jfr.ExecutionSample) {
		if s.StackTrace.Truncated || len(s.StackTrace.Frames) == 0 || (s.Native && !includeNative) {
			return
		}
		rep.total++
		var seen map[lineKey]bool
		for _, fr := range s.StackTrace.Frames {
			if !matchesMethod(fr.Method, method) {
				continue
			}
			rep.hasMethod = true
			if fr.LineNumber <= 0 {
				continue
			}
			key := lineKey{names.name(fr.Method), fr.LineNumber}
			if seen[key] {
				continue
			}
			if seen == nil {
				seen = make(map[lineKey]bool)
			}
			seen[key] = true
			counts[key]++
		}
	})
	if err != nil {
		return lineReport{}, err
	}

	for k, c := range counts {
		rep.entries = append(rep.entries, lineEntry{k.name, k.line, c})
	}
	sort.Slice(rep.entries, func(i, j int) bool {
		a, b := rep.entries[i], rep.entries[j]
		if a.samples != b.samples {
			return a.samples > b.samples
		}
		if a.name != b.name {
			return a.name < b.name
		}
		return a.line < b.line
	})
	rep.entries = rep.entries[:truncate(len(rep.entries), top)]
	return rep, nil
}

func cmdLines(w io.Writer, src jfr.Source, method string, top int, fqn, includeNative bool) error {
	rep, err := computeLines(src, method, top, fqn, includeNative)
	if err != nil {
		return err
	}
	if len(rep.entries) == 0 {
		if rep.hasMethod {
			return errors.Errorf("no line info for frames matching '%s'", method)
		}
		fmt.Fprintf(w, "no frames matching '%s'\n", method)
		return nil
	}

	fmt.Fprintf(w, "%-40s %9s %7s\n", "SOURCE:LINE", "SAMPLES", "PCT")
	for _, e := range rep.entries {
		loc := fmt.Sprintf("%s:%d", e.name, e.line)
		fmt.Fprintf(w, "%-40s %9d %6.1f%%\n", loc, e.samples, pct(e.samples, rep.total))
	}
	return nil
}
