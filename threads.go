package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/export"
	"github.com/jerrinot/jfrview/internal/jfr"
)

var threadsCmd = &cobra.Command{
	Use:   "threads FILE",
	Short: "Rank threads by sample count",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdThreads(cmd.OutOrStdout(), src, threadsFlags.top, threadsFlags.native)
	},
}

var threadsFlags struct {
	top    int
	native bool
}

func init() {
	threadsCmd.Flags().IntVar(&threadsFlags.top, flagTopName, 10, "limit output rows")
	threadsCmd.Flags().BoolVar(&threadsFlags.native, flagNativeName, false, "include native samples")
	rootCmd.AddCommand(threadsCmd)
}

type threadEntry struct {
	name    string
	samples int
}

type threadReport struct {
	ranked   []threadEntry
	noThread int
	total    int
}

func (r threadReport) hasThread() bool { return len(r.ranked) > 0 }

// computeThreads reads the thread level of a by-thread folded tree.
func computeThreads(src jfr.Source, includeNative bool) (threadReport, error) {
	f, err := buildFolded(src, includeNative, true)
	if err != nil {
		return threadReport{}, err
	}
	rep := threadReport{total: f.Root.Value}
	for _, t := range f.Root.Children() {
		if t.Name == export.NoThreadName {
			rep.noThread += t.Value
			continue
		}
		rep.ranked = append(rep.ranked, threadEntry{t.Name, t.Value})
	}
	sort.SliceStable(rep.ranked, func(i, j int) bool { return rep.ranked[i].samples > rep.ranked[j].samples })
	return rep, nil
}

func cmdThreads(w io.Writer, src jfr.Source, top int, includeNative bool) error {
	rep, err := computeThreads(src, includeNative)
	if err != nil {
		return err
	}
	if !rep.hasThread() {
		if rep.total > 0 {
			fmt.Fprintln(w, "no thread info in this file")
		}
		return nil
	}

	fmt.Fprintf(w, "%-30s %9s %7s\n", "THREAD", "SAMPLES", "PCT")
	for _, e := range rep.ranked[:truncate(len(rep.ranked), top)] {
		fmt.Fprintf(w, "%-30s %9d %6.1f%%\n", e.name, e.samples, pct(e.samples, rep.total))
	}
	if rep.noThread > 0 {
		fmt.Fprintf(w, "%-30s %9d %6.1f%%\n", "(no thread info)", rep.noThread, pct(rep.noThread, rep.total))
	}
	return nil
}
