package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/export"
	"github.com/jerrinot/jfrview/internal/jfr"
)

var collapseCmd = &cobra.Command{
	Use:   "collapse FILE",
	Short: "Emit collapsed-stack text, one line per call path",
	Long: `Writes "[thread];frame;frame count" lines as consumed by flamegraph.pl and
most flame graph viewers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdCollapse(cmd.OutOrStdout(), src, collapseFlags.native, !collapseFlags.noThread)
	},
}

var collapseFlags struct {
	native   bool
	noThread bool
}

const flagNoThreadName = "no-thread"

func init() {
	collapseCmd.Flags().BoolVar(&collapseFlags.native, flagNativeName, false, "include native samples")
	collapseCmd.Flags().BoolVar(&collapseFlags.noThread, flagNoThreadName, false, "leave out the [thread] prefix")
	rootCmd.AddCommand(collapseCmd)
}

func cmdCollapse(w io.Writer, src jfr.Source, includeNative, byThread bool) error {
	f, err := buildFolded(src, includeNative, byThread)
	if err != nil {
		return err
	}
	return export.WriteCollapsed(w, f.Root)
}
