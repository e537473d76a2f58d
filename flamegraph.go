package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/export"
	"github.com/jerrinot/jfrview/internal/flame"
)

var flamegraphCmd = &cobra.Command{
	Use:   "flamegraph FILE",
	Short: "Aggregate samples into a flame graph",
	Long: `Folds every complete stack into a call tree keyed by method. Managed and native
ticks are counted separately; --native adds native ticks to the written values.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flamegraphFlags.format, formatJSON, formatYAML, formatPprof)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		g, err := loadGraph(src)
		if err != nil {
			return err
		}
		w, closeOut, err := createOutput(cmd.OutOrStdout(), flamegraphFlags.output)
		if err != nil {
			return err
		}
		if err := writeFlameGraph(w, g, flamegraphFlags.format, flamegraphFlags.native); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	},
}

var flamegraphFlags struct {
	native bool
	format string
	output string
}

const (
	flagNativeName = "native"
	flagOutputName = "output"
)

func init() {
	flamegraphCmd.Flags().BoolVar(&flamegraphFlags.native, flagNativeName, false, "include native samples")
	flamegraphCmd.Flags().StringVar(&flamegraphFlags.format, flagFormatName, formatJSON, "output format: json, yaml or pprof")
	flamegraphCmd.Flags().StringVarP(&flamegraphFlags.output, flagOutputName, "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(flamegraphCmd)
}

func writeFlameGraph(w io.Writer, g *flame.Graph, format string, includeNative bool) error {
	if format == formatPprof {
		return export.WritePprof(w, g, includeNative, sampleTypeName())
	}
	return writeDocument(w, format, export.FlameTree(g, includeNative))
}

// sampleTypeName names the sampled resource in pprof output.
func sampleTypeName() string {
	if flagEvent == eventWall {
		return eventWall
	}
	return eventCPU
}
