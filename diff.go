package main

import (
	"fmt"
	"io"
	"math"
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/jfr"
)

var diffCmd = &cobra.Command{
	Use:   "diff BEFORE AFTER",
	Short: "Compare self time per method between two captures",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		before, err := openCapture(args[0])
		if err != nil {
			return err
		}
		after, err := openCapture(args[1])
		if err != nil {
			return err
		}
		return cmdDiff(cmd.OutOrStdout(), before, after, diffFlags.minDelta, diffFlags.top, diffFlags.fqn, diffFlags.native)
	},
}

var diffFlags struct {
	minDelta float64
	top      int
	fqn      bool
	native   bool
}

const flagMinDeltaName = "min-delta"

func init() {
	diffCmd.Flags().Float64Var(&diffFlags.minDelta, flagMinDeltaName, 0.5, "hide changes smaller than this many percentage points")
	diffCmd.Flags().IntVar(&diffFlags.top, flagTopName, 0, "limit rows per section (0 = all)")
	diffCmd.Flags().BoolVar(&diffFlags.fqn, flagFqnName, false, "show fully-qualified names instead of Class.method")
	diffCmd.Flags().BoolVar(&diffFlags.native, flagNativeName, false, "include native samples")
	rootCmd.AddCommand(diffCmd)
}

// selfPcts maps each method with self time to its share of all samples.
func selfPcts(src jfr.Source, fqn, includeNative bool) (map[string]float64, error) {
	g, err := loadGraph(src)
	if err != nil {
		return nil, err
	}
	total := g.Ticks(includeNative)
	pcts := make(map[string]float64)
	for _, e := range computeHot(g, fqn, includeNative) {
		if e.selfCount > 0 {
			pcts[e.name] = pct(e.selfCount, total)
		}
	}
	return pcts, nil
}

func keySet(m map[string]float64) mapset.Set[string] {
	s := mapset.NewThreadUnsafeSet[string]()
	for k := range m {
		s.Add(k)
	}
	return s
}

type diffEntry struct {
	name   string
	before float64
	after  float64
	delta  float64
}

type diffReport struct {
	regressions, improvements, added, gone []diffEntry
}

func (r diffReport) empty() bool {
	return len(r.regressions)+len(r.improvements)+len(r.added)+len(r.gone) == 0
}

func computeDiff(beforePct, afterPct map[string]float64, minDelta float64, top int) diffReport {
	var r diffReport
	beforeSet, afterSet := keySet(beforePct), keySet(afterPct)

	beforeSet.Intersect(afterSet).Each(func(m string) bool {
		b, a := beforePct[m], afterPct[m]
		delta := a - b
		switch {
		case math.Abs(delta) < minDelta:
		case delta > 0:
			r.regressions = append(r.regressions, diffEntry{m, b, a, delta})
		default:
			r.improvements = append(r.improvements, diffEntry{m, b, a, delta})
		}
		return false
	})
	afterSet.Difference(beforeSet).Each(func(m string) bool {
		if a := afterPct[m]; a >= minDelta {
			r.added = append(r.added, diffEntry{m, 0, a, a})
		}
		return false
	})
	beforeSet.Difference(afterSet).Each(func(m string) bool {
		if b := beforePct[m]; b >= minDelta {
			r.gone = append(r.gone, diffEntry{m, b, 0, -b})
		}
		return false
	})

	byKey := func(es []diffEntry, key func(diffEntry) float64) []diffEntry {
		sort.Slice(es, func(i, j int) bool {
			ki, kj := key(es[i]), key(es[j])
			if ki != kj {
				return ki > kj
			}
			return es[i].name < es[j].name
		})
		return es[:truncate(len(es), top)]
	}
	r.regressions = byKey(r.regressions, func(e diffEntry) float64 { return e.delta })
	r.improvements = byKey(r.improvements, func(e diffEntry) float64 { return -e.delta })
	r.added = byKey(r.added, func(e diffEntry) float64 { return e.after })
	r.gone = byKey(r.gone, func(e diffEntry) float64 { return e.before })
	return r
}

func cmdDiff(w io.Writer, before, after jfr.Source, minDelta float64, top int, fqn, includeNative bool) error {
	beforePct, err := selfPcts(before, fqn, includeNative)
	if err != nil {
		return err
	}
	afterPct, err := selfPcts(after, fqn, includeNative)
	if err != nil {
		return err
	}
	r := computeDiff(beforePct, afterPct, minDelta, top)
	if r.empty() {
		fmt.Fprintln(w, "no significant changes")
		return nil
	}

	if len(r.regressions) > 0 {
		fmt.Fprintln(w, "REGRESSION")
		for _, e := range r.regressions {
			fmt.Fprintf(w, "  %-50s %5.1f%% -> %5.1f%%  (+%.1f%%)\n", e.name, e.before, e.after, e.delta)
		}
	}
	if len(r.improvements) > 0 {
		fmt.Fprintln(w, "IMPROVEMENT")
		for _, e := range r.improvements {
			fmt.Fprintf(w, "  %-50s %5.1f%% -> %5.1f%%  (%.1f%%)\n", e.name, e.before, e.after, e.delta)
		}
	}
	if len(r.added) > 0 {
		fmt.Fprintln(w, "NEW")
		for _, e := range r.added {
			fmt.Fprintf(w, "  %-50s %.1f%%\n", e.name, e.after)
		}
	}
	if len(r.gone) > 0 {
		fmt.Fprintln(w, "GONE")
		for _, e := range r.gone {
			fmt.Fprintf(w, "  %-50s %.1f%%\n", e.name, e.before)
		}
	}
	return nil
}
