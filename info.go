package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/jfr"
)

var infoCmd = &cobra.Command{
	Use:   "info FILE",
	Short: "One-shot triage: events, threads, hot methods and optional drill-down",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdInfo(cmd.OutOrStdout(), src, infoFlags.expand, infoFlags.topThreads, infoFlags.topMethods, infoFlags.native)
	},
}

var infoFlags struct {
	expand     int
	topThreads int
	topMethods int
	native     bool
}

const (
	flagExpandName     = "expand"
	flagTopThreadsName = "top-threads"
	flagTopMethodsName = "top-methods"
)

func init() {
	infoCmd.Flags().IntVar(&infoFlags.expand, flagExpandName, 3, "drill into the N hottest methods (0 to disable)")
	infoCmd.Flags().IntVar(&infoFlags.topThreads, flagTopThreadsName, 10, "threads to list")
	infoCmd.Flags().IntVar(&infoFlags.topMethods, flagTopMethodsName, 20, "methods to list")
	infoCmd.Flags().BoolVar(&infoFlags.native, flagNativeName, false, "include native samples")
	rootCmd.AddCommand(infoCmd)
}

func cmdInfo(w io.Writer, src jfr.Source, expand, topThreads, topMethods int, includeNative bool) error {
	s, err := computeStats(src, "")
	if err != nil {
		slog.Warn("could not summarize events", slog.Any("error", err))
	} else {
		fmt.Fprintln(w, "=== EVENTS ===")
		for _, c := range s.Ranked() {
			fmt.Fprintf(w, "%-30s %9d\n", c.Class, c.Count)
		}
		fmt.Fprintln(w)
	}

	threads, err := computeThreads(src, includeNative)
	if err != nil {
		return err
	}
	if threads.hasThread() {
		shown := threads.ranked[:truncate(len(threads.ranked), topThreads)]
		fmt.Fprintf(w, "=== THREADS (top %d) ===\n", len(shown))
		for _, e := range shown {
			fmt.Fprintf(w, "%-30s %9d %6.1f%%\n", e.name, e.samples, pct(e.samples, threads.total))
		}
		fmt.Fprintln(w)
	}

	g, err := loadGraph(src)
	if err != nil {
		return err
	}
	total := g.Ticks(includeNative)
	hot := computeHot(g, false, includeNative)
	if len(hot) > 0 {
		printHotTables(w, hot, topMethods, total, true)
	}

	fmt.Fprintf(w, "\nTotal samples: %d\n", total)

	if expand <= 0 || len(hot) == 0 {
		return nil
	}
	opts := treeOptions{maxDepth: 3, minPct: 1.0, includeNative: includeNative}
	for _, h := range hot[:truncate(len(hot), expand)] {
		fmt.Fprintf(w, "\n=== DRILL-DOWN: %s (self=%.1f%%) ===\n", h.name, pct(h.selfCount, total))

		fmt.Fprintln(w, "--- tree (callees) ---")
		treeOpts := opts
		treeOpts.showSelf = true
		if err := cmdTree(w, src, h.name, treeOpts); err != nil {
			return err
		}

		fmt.Fprintln(w, "--- callers ---")
		if err := cmdCallers(w, src, h.name, opts); err != nil {
			return err
		}

		lines, err := computeLines(src, h.name, 5, false, includeNative)
		if err != nil {
			return err
		}
		if len(lines.entries) > 0 {
			fmt.Fprintln(w, "--- lines ---")
			for _, le := range lines.entries {
				fmt.Fprintf(w, "%s:%-8d %8d %6.1f%%\n", le.name, le.line, le.samples, pct(le.samples, lines.total))
			}
		}
	}
	return nil
}
