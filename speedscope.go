package main

import (
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/export"
	"github.com/jerrinot/jfrview/internal/jfr"
)

var speedscopeCmd = &cobra.Command{
	Use:   "speedscope FILE",
	Short: "List every sample in arrival order",
	Long: `Writes one record per complete sample with its frames root-first. The default
json and yaml formats write the bare sample list; --format speedscope writes a
document that https://www.speedscope.app opens directly.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(speedscopeFlags.format, formatJSON, formatYAML, formatSpeedscope)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		w, closeOut, err := createOutput(cmd.OutOrStdout(), speedscopeFlags.output)
		if err != nil {
			return err
		}
		if err := cmdSpeedscope(w, src, filepath.Base(args[0]), speedscopeFlags.format, speedscopeFlags.native); err != nil {
			closeOut()
			return err
		}
		return closeOut()
	},
}

var speedscopeFlags struct {
	native bool
	format string
	output string
}

func init() {
	speedscopeCmd.Flags().BoolVar(&speedscopeFlags.native, flagNativeName, false, "include native samples")
	speedscopeCmd.Flags().StringVar(&speedscopeFlags.format, flagFormatName, formatJSON, "output format: json, yaml or speedscope")
	speedscopeCmd.Flags().StringVarP(&speedscopeFlags.output, flagOutputName, "o", "", "write to this file instead of stdout")
	rootCmd.AddCommand(speedscopeCmd)
}

func cmdSpeedscope(w io.Writer, src jfr.Source, name, format string, includeNative bool) error {
	flat := export.NewFlat(includeNative)
	if err := visitSamples(src, func(s jfr.ExecutionSample) { flat.Add(s) }); err != nil {
		return err
	}
	if format == formatSpeedscope {
		return export.WriteJSON(w, flat.SpeedscopeDocument(name, appName), false)
	}
	samples := flat.Samples
	if samples == nil {
		samples = []export.MethodSample{}
	}
	return writeDocument(w, format, samples)
}
