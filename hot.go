package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/flame"
	"github.com/jerrinot/jfrview/internal/jfr"
)

var hotCmd = &cobra.Command{
	Use:   "hot FILE",
	Short: "Rank methods by self time (leaf cost)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdHot(cmd.OutOrStdout(), src, hotFlags.top, hotFlags.fqn, hotFlags.native, hotFlags.assertBelow)
	},
}

var hotFlags struct {
	top         int
	fqn         bool
	native      bool
	assertBelow float64
}

const (
	flagTopName         = "top"
	flagFqnName         = "fqn"
	flagAssertBelowName = "assert-below"
)

func init() {
	hotCmd.Flags().IntVar(&hotFlags.top, flagTopName, 10, "limit output rows")
	hotCmd.Flags().BoolVar(&hotFlags.fqn, flagFqnName, false, "show fully-qualified names instead of Class.method")
	hotCmd.Flags().BoolVar(&hotFlags.native, flagNativeName, false, "include native samples")
	hotCmd.Flags().Float64Var(&hotFlags.assertBelow, flagAssertBelowName, 0, "fail if the top method's self% is at or above this value (CI gate)")
	rootCmd.AddCommand(hotCmd)
}

type hotEntry struct {
	name       string
	selfCount  int
	totalCount int
}

// computeHot ranks methods by self ticks. A method's total counts each
// sample once even when the method recurses.
func computeHot(g *flame.Graph, fqn, includeNative bool) []hotEntry {
	if g.HasNoSamples(includeNative) {
		return nil
	}
	names := newNameCache(fqn)
	selfCounts := make(map[string]int)
	totalCounts := make(map[string]int)

	g.Walk(func(path []*flame.Frame) bool {
		f := path[len(path)-1]
		if f.HasNoSamples(includeNative) {
			return false
		}
		name := names.name(f.Method)
		if self := f.SelfTicks(includeNative); self > 0 {
			selfCounts[name] += self
		}
		for _, anc := range path[:len(path)-1] {
			if names.name(anc.Method) == name {
				return true
			}
		}
		totalCounts[name] += f.Ticks(includeNative)
		return true
	})

	ranked := make([]hotEntry, 0, len(totalCounts))
	for name, tc := range totalCounts {
		ranked = append(ranked, hotEntry{name, selfCounts[name], tc})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].selfCount != ranked[j].selfCount {
			return ranked[i].selfCount > ranked[j].selfCount
		}
		return ranked[i].name < ranked[j].name
	})
	return ranked
}

func printHotTables(w io.Writer, ranked []hotEntry, top, totalSamples int, showTopN bool) {
	selfRanked := ranked[:truncate(len(ranked), top)]

	if showTopN {
		fmt.Fprintf(w, "=== RANK BY SELF TIME (top %d) ===\n", len(selfRanked))
	} else {
		fmt.Fprintln(w, "=== RANK BY SELF TIME ===")
	}
	fmt.Fprintf(w, "%-50s %7s %7s %9s\n", "METHOD", "SELF%", "TOTAL%", "SAMPLES")
	for _, e := range selfRanked {
		fmt.Fprintf(w, "%-50s %6.1f%% %6.1f%% %9d\n", e.name, pct(e.selfCount, totalSamples), pct(e.totalCount, totalSamples), e.selfCount)
	}

	totalRanked := make([]hotEntry, len(ranked))
	copy(totalRanked, ranked)
	sort.SliceStable(totalRanked, func(i, j int) bool { return totalRanked[i].totalCount > totalRanked[j].totalCount })
	totalRanked = totalRanked[:truncate(len(totalRanked), top)]

	fmt.Fprintln(w)
	if showTopN {
		fmt.Fprintf(w, "=== RANK BY TOTAL TIME (top %d) ===\n", len(totalRanked))
	} else {
		fmt.Fprintln(w, "=== RANK BY TOTAL TIME ===")
	}
	fmt.Fprintf(w, "%-50s %7s %7s %9s\n", "METHOD", "SELF%", "TOTAL%", "SAMPLES")
	for _, e := range totalRanked {
		fmt.Fprintf(w, "%-50s %6.1f%% %6.1f%% %9d\n", e.name, pct(e.selfCount, totalSamples), pct(e.totalCount, totalSamples), e.totalCount)
	}
}

func cmdHot(w io.Writer, src jfr.Source, top int, fqn, includeNative bool, assertBelow float64) error {
	g, err := loadGraph(src)
	if err != nil {
		return err
	}
	ranked := computeHot(g, fqn, includeNative)
	if len(ranked) == 0 {
		return nil
	}
	total := g.Ticks(includeNative)
	printHotTables(w, ranked, top, total, false)

	// assert-below looks at self time only
	if assertBelow > 0 {
		selfPct := pct(ranked[0].selfCount, total)
		if selfPct >= assertBelow {
			return errors.Errorf("ASSERT FAILED: %s self=%.1f%% >= threshold %.1f%%", ranked[0].name, selfPct, assertBelow)
		}
	}
	return nil
}
