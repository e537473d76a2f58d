package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/jfr"
)

var callersCmd = &cobra.Command{
	Use:   "callers FILE",
	Short: "Print who calls a method, callers nested below callees",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdCallers(cmd.OutOrStdout(), src, callersFlags.method, treeOptions{
			maxDepth:      callersFlags.depth,
			minPct:        callersFlags.minPct,
			includeNative: callersFlags.native,
		})
	},
}

var callersFlags pathFlags

func init() {
	callersFlags.register(callersCmd, true, 1.0)
	callersCmd.Flags().IntVar(&callersFlags.depth, flagDepthName, 4, "maximum tree depth")
	rootCmd.AddCommand(callersCmd)
}

func cmdCallers(w io.Writer, src jfr.Source, method string, opts treeOptions) error {
	pt, err := aggregatePaths(src, method, ancestors)
	if err != nil {
		return err
	}
	if pt.total(opts.includeNative) == 0 {
		return nil
	}
	pt.printTree(w, method, opts)
	return nil
}
