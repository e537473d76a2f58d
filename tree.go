package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/jfr"
)

var treeCmd = &cobra.Command{
	Use:   "tree FILE",
	Short: "Print the call tree below a method, or from the roots when no method is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdTree(cmd.OutOrStdout(), src, treeFlags.method, treeOptions{
			maxDepth:      treeFlags.depth,
			minPct:        treeFlags.minPct,
			showSelf:      true,
			includeNative: treeFlags.native,
		})
	},
}

var treeFlags pathFlags

// pathFlags are shared by tree, callers and trace.
type pathFlags struct {
	method string
	depth  int
	minPct float64
	native bool
	fqn    bool
}

const (
	flagMethodName = "method"
	flagDepthName  = "depth"
	flagMinPctName = "min-pct"
)

func (f *pathFlags) register(cmd *cobra.Command, methodRequired bool, minPct float64) {
	cmd.Flags().StringVarP(&f.method, flagMethodName, "m", "", "substring match on the method name")
	cmd.Flags().Float64Var(&f.minPct, flagMinPctName, minPct, "hide nodes below this percentage")
	cmd.Flags().BoolVar(&f.native, flagNativeName, false, "include native samples")
	if methodRequired {
		_ = cmd.MarkFlagRequired(flagMethodName)
	}
}

func init() {
	treeFlags.register(treeCmd, false, 1.0)
	treeCmd.Flags().IntVar(&treeFlags.depth, flagDepthName, 4, "maximum tree depth")
	rootCmd.AddCommand(treeCmd)
}

func cmdTree(w io.Writer, src jfr.Source, method string, opts treeOptions) error {
	var (
		pt  *pathTree
		err error
	)
	if method == "" {
		pt, err = aggregateFromRoot(src)
	} else {
		pt, err = aggregatePaths(src, method, descendants)
	}
	if err != nil {
		return err
	}
	if pt.total(opts.includeNative) == 0 {
		return nil
	}
	title := method
	if title == "" {
		title = "(all)"
	}
	pt.printTree(w, title, opts)
	return nil
}
