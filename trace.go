package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/flame"
	"github.com/jerrinot/jfrview/internal/jfr"
)

var traceCmd = &cobra.Command{
	Use:   "trace FILE",
	Short: "Follow the hottest path below a method down to its hottest leaf",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdTrace(cmd.OutOrStdout(), src, traceFlags.method, treeOptions{
			minPct:        traceFlags.minPct,
			includeNative: traceFlags.native,
			fqn:           traceFlags.fqn,
		})
	},
}

var traceFlags pathFlags

func init() {
	traceFlags.register(traceCmd, true, 0.5)
	traceCmd.Flags().BoolVar(&traceFlags.fqn, flagFqnName, false, "show fully-qualified names instead of Class.method")
	rootCmd.AddCommand(traceCmd)
}

func cmdTrace(w io.Writer, src jfr.Source, method string, opts treeOptions) error {
	pt, err := aggregatePaths(src, method, descendants)
	if err != nil {
		return err
	}
	if pt.total(opts.includeNative) == 0 {
		return nil
	}
	if pt.graph.HasNoSamples(opts.includeNative) {
		fmt.Fprintf(w, "no frames matching '%s'\n", method)
		return nil
	}
	pt.printMatched(w)

	names := newNameCache(opts.fqn)
	for _, root := range sortedChildren(pt.graph.Roots(), names, opts.includeNative) {
		pt.traceHottestPath(w, root, names, opts)
	}
	return nil
}

// childrenAboveMinPct returns the callees of f at or above minPct, hottest
// first.
func (pt *pathTree) childrenAboveMinPct(f *flame.Frame, names *nameCache, opts treeOptions) []*flame.Frame {
	total := pt.total(opts.includeNative)
	var out []*flame.Frame
	for _, c := range sortedChildren(f.Children(), names, opts.includeNative) {
		if pct(c.Ticks(opts.includeNative), total) >= opts.minPct {
			out = append(out, c)
		}
	}
	return out
}

// traceHottestPath walks from root following the hottest child at each
// level. The line of each picked child says how many siblings it beat.
func (pt *pathTree) traceHottestPath(w io.Writer, root *flame.Frame, names *nameCache, opts treeOptions) {
	total := pt.total(opts.includeNative)
	f := root
	indent := 0
	siblingAnnotation := ""

	for {
		p := pct(f.Ticks(opts.includeNative), total)
		if p < opts.minPct {
			return
		}
		name := names.name(f.Method)
		line := fmt.Sprintf("%s[%.1f%%] %s%s", strings.Repeat("  ", indent), p, name, siblingAnnotation)

		children := pt.childrenAboveMinPct(f, names, opts)
		if len(children) == 0 {
			selfPct := pct(f.SelfTicks(opts.includeNative), total)
			if selfPct > 0 && selfPct >= opts.minPct {
				line += fmt.Sprintf("  ← self=%.1f%%", selfPct)
			}
			fmt.Fprintln(w, line)
			fmt.Fprintf(w, "Hottest leaf: %s (self=%.1f%%)\n", name, selfPct)
			return
		}
		fmt.Fprintln(w, line)

		siblingAnnotation = ""
		if n := len(children) - 1; n > 0 {
			next := children[1]
			word := "siblings"
			if n == 1 {
				word = "sibling"
			}
			siblingAnnotation = fmt.Sprintf("  (+%d %s, next: %.1f%% %s)", n, word,
				pct(next.Ticks(opts.includeNative), total), names.name(next.Method))
		}
		f = children[0]
		indent++
	}
}
