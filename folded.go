package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/export"
	"github.com/jerrinot/jfrview/internal/jfr"
)

var foldedCmd = &cobra.Command{
	Use:   "folded FILE",
	Short: "Fold samples into a tree keyed by frame name",
	Long: `Folds complete samples into a {name, kind, value, children} tree whose children
keep first-seen order. --by-thread adds one level of thread nodes under the root.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(foldedFlags.format, formatJSON, formatYAML, formatCollapsed)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdFolded(cmd.OutOrStdout(), src, foldedFlags.format, foldedFlags.native, foldedFlags.byThread)
	},
}

var foldedFlags struct {
	native   bool
	byThread bool
	format   string
}

const flagByThreadName = "by-thread"

func init() {
	foldedCmd.Flags().BoolVar(&foldedFlags.native, flagNativeName, false, "include native samples")
	foldedCmd.Flags().BoolVar(&foldedFlags.byThread, flagByThreadName, false, "group samples under one node per thread")
	foldedCmd.Flags().StringVar(&foldedFlags.format, flagFormatName, formatJSON, "output format: json, yaml or collapsed")
	rootCmd.AddCommand(foldedCmd)
}

func buildFolded(src jfr.Source, includeNative, byThread bool) (*export.Folded, error) {
	f := export.NewFolded(includeNative, byThread)
	if err := visitSamples(src, func(s jfr.ExecutionSample) { f.Add(s) }); err != nil {
		return nil, err
	}
	return f, nil
}

func cmdFolded(w io.Writer, src jfr.Source, format string, includeNative, byThread bool) error {
	f, err := buildFolded(src, includeNative, byThread)
	if err != nil {
		return err
	}
	if format == formatCollapsed {
		return export.WriteCollapsed(w, f.Root)
	}
	return writeDocument(w, format, f.Root)
}
