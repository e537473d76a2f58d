// jfrview: turn Java Flight Recorder captures into flame graphs, speedscope
// samples and folded call trees, and query them from the command line.
//
// Usage:
//
//	jfrview <command> [flags] <file.jfr>
//
// Input: .jfr and .jfr.gz captures; "-" reads a capture from stdin.
//
// Export commands: flamegraph, speedscope, folded, collapse, stats
// Query commands: info, hot, tree, callers, trace, lines, threads, filter, events, diff
// Server: mcp
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const appName = "jfrview"

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var examples = []string{
	"  Triage a capture:                 $ jfrview info profile.jfr",
	"  Flame graph as JSON:              $ jfrview flamegraph profile.jfr --native",
	"  Open in speedscope:               $ jfrview speedscope profile.jfr --format speedscope > profile.speedscope.json",
	"  Folded tree per thread:           $ jfrview folded profile.jfr --by-thread",
	"  Hot methods of one thread pool:   $ jfrview hot profile.jfr -t http-nio --top 20",
	"  Only samples ending in HashMap:   $ jfrview hot profile.jfr --where '\"HashMap\" in frames[-1]'",
	"  Compare two captures:             $ jfrview diff before.jfr after.jfr --min-delta 0.5",
}

var rootCmd = &cobra.Command{
	Use:               appName,
	Version:           version,
	Short:             "Analyze Java Flight Recorder captures",
	Long:              appName + " reads JFR captures and produces flame graphs, speedscope samples and folded call trees.",
	Example:           strings.Join(examples, "\n"),
	PersistentPreRunE: initializeApplication,
	SilenceErrors:     true,
	SilenceUsage:      true,
}

var (
	flagDebug   bool
	flagEvent   string
	flagLenient bool
	flagWhere   string
	flagThread  string
)

const (
	flagDebugName   = "debug"
	flagEventName   = "event"
	flagLenientName = "lenient"
	flagWhereName   = "where"
	flagThreadName  = "thread"
)

func init() {
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.PersistentFlags().BoolVar(&flagDebug, flagDebugName, false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&flagEvent, flagEventName, "e", eventCPU, "sample event: cpu, wall or malloc")
	rootCmd.PersistentFlags().BoolVar(&flagLenient, flagLenientName, false, "skip events that fail to decode instead of aborting")
	rootCmd.PersistentFlags().StringVar(&flagWhere, flagWhereName, "", "Starlark expression over thread, frames, native and start selecting samples")
	rootCmd.PersistentFlags().StringVarP(&flagThread, flagThreadName, "t", "", "keep samples of threads whose name contains this substring")
}

func initializeApplication(cmd *cobra.Command, args []string) error {
	var logOpts slog.HandlerOptions
	if flagDebug {
		logOpts.Level = slog.LevelDebug
		logOpts.AddSource = true
	} else {
		logOpts.Level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &logOpts)))
	slog.Debug("starting", slog.String("command", cmd.CommandPath()), slog.Any("args", args))
	cmd.Flags().Visit(func(f *pflag.Flag) {
		slog.Debug("flag set", slog.String("name", f.Name), slog.String("value", f.Value.String()))
	})
	if _, err := sampleTypes(flagEvent); err != nil {
		return err
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
