package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/jfr"
	"github.com/jerrinot/jfrview/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats FILE",
	Short: "Show the time range of a capture and summarize one event type",
	Long: `Scans every event once. The range covers events of all types; the summary lists
one line per event of --type. jdk.GCPhasePause events show their duration and
jdk.ActiveSetting events show name=value.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(statsFlags.format, formatText, formatJSON, formatYAML)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdStats(cmd.OutOrStdout(), src, statsFlags.eventType, statsFlags.format)
	},
}

var statsFlags struct {
	eventType string
	format    string
}

const flagTypeName = "type"

func init() {
	statsCmd.Flags().StringVar(&statsFlags.eventType, flagTypeName, jfr.ExecutionSampleType, "event type to summarize")
	statsCmd.Flags().StringVar(&statsFlags.format, flagFormatName, formatText, "output format: text, json or yaml")
	rootCmd.AddCommand(statsCmd)
}

func computeStats(src jfr.Source, target string) (*stats.Stats, error) {
	opts := stats.Options{Target: target}
	if flagLenient {
		opts.Policy = jfr.Lenient
	}
	return stats.Compute(src, opts)
}

func cmdStats(w io.Writer, src jfr.Source, target, format string) error {
	s, err := computeStats(src, target)
	if err != nil {
		return err
	}
	if format != formatText {
		return writeDocument(w, format, s)
	}
	fmt.Fprintf(w, "start:  %d\n", s.Start)
	fmt.Fprintf(w, "end:    %d\n", s.End)
	fmt.Fprintf(w, "span:   %d\n", s.Span())
	fmt.Fprintf(w, "%s: %d events\n", target, len(s.Events))
	for _, e := range s.Events {
		fmt.Fprintf(w, "  %s\n", e)
	}
	return nil
}
