package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/samuelfneumann/rlcore/core/trackers"
	"github.com/samuelfneumann/rlcore/plot"
	"github.com/spf13/cobra"
)

func newPlotCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "plot <returns.bin>...",
		Short: "Plot episodic returns saved by a run as an HTML chart",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			curve := plot.NewLearningCurve("Episodic return", "Episode")
			for _, filename := range args {
				var returns []float64
				if err := trackers.LoadData(filename, &returns); err != nil {
					return fmt.Errorf("plot: %v", err)
				}
				name := strings.TrimSuffix(filepath.Base(filename),
					filepath.Ext(filename))
				curve.AddSeries(name, returns)
			}

			if err := curve.Save(out); err != nil {
				return fmt.Errorf("plot: %v", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %v\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "returns.html",
		"file to save the chart to")
	return cmd
}
