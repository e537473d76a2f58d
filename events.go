package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jerrinot/jfrview/internal/jfr"
	"github.com/jerrinot/jfrview/internal/stats"
)

var eventsCmd = &cobra.Command{
	Use:   "events FILE",
	Short: "Count the events of each type in a capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := openCapture(args[0])
		if err != nil {
			return err
		}
		return cmdEvents(cmd.OutOrStdout(), src)
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}

func cmdEvents(w io.Writer, src jfr.Source) error {
	s, err := computeStats(src, "")
	var empty stats.EmptyRangeError
	if errors.As(err, &empty) {
		fmt.Fprintln(w, "no events found")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%-40s %9s\n", "EVENT", "COUNT")
	for _, e := range s.Ranked() {
		fmt.Fprintf(w, "%-40s %9d\n", e.Class, e.Count)
	}
	return nil
}
