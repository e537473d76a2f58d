package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/export"
	"github.com/jerrinot/jfrview/internal/jfr"
)

var filterCmd = &cobra.Command{
	Use:   "filter FILE",
	Short: "Emit collapsed stacks passing through a method",
	Long: `Writes the samples that pass through a method as collapsed-stack text,
starting at the method unless --include-callers keeps the full stack. The
output can be piped into any flame graph viewer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdFilter(cmd.OutOrStdout(), src, filterFlags.method, filterFlags.includeCallers, filterFlags.native)
	},
}

var filterFlags struct {
	method         string
	includeCallers bool
	native         bool
}

const flagIncludeCallersName = "include-callers"

func init() {
	filterCmd.Flags().StringVarP(&filterFlags.method, flagMethodName, "m", "", "substring match on the method name")
	filterCmd.Flags().BoolVar(&filterFlags.includeCallers, flagIncludeCallersName, false, "keep the frames above the matched method")
	filterCmd.Flags().BoolVar(&filterFlags.native, flagNativeName, false, "include native samples")
	_ = filterCmd.MarkFlagRequired(flagMethodName)
	rootCmd.AddCommand(filterCmd)
}

func cmdFilter(w io.Writer, src jfr.Source, method string, includeCallers, includeNative bool) error {
	f := export.NewFolded(includeNative, true)
	err := visitSamples(src, func(s jfr.ExecutionSample) {
		for j, fr := range s.StackTrace.Frames {
			if matchesMethod(fr.Method, method) {
				if !includeCallers {
					s.StackTrace.Frames = s.StackTrace.Frames[j:]
				}
				f.Add(s)
				return
			}
		}
	})
	if err != nil {
		return err
	}
	return export.WriteCollapsed(w, f.Root)
}
