package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skerry/tidedash/pkg/admiralty/splines"
)

var step time.Duration

var curveCmd = &cobra.Command{
	Use:   "curve",
	Short: "Print interpolated tide heights between the predicted extrema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if step <= 0 {
			return fmt.Errorf("--step must be positive, got %s", step)
		}
		table, err := fetchTable()
		if err != nil {
			return err
		}
		if table.Len() < 2 {
			return fmt.Errorf("not enough events to interpolate (got %d)", table.Len())
		}

		events := table.Events()
		spl := splines.CurvesBetween(events)

		tstart := events[0].Time()
		tend := events[len(events)-1].Time()
		for t := tstart; !t.After(tend); t = t.Add(step) {
			fmt.Printf("%s\t%.2f\n", t.Format(time.RFC3339), spl.Eval(t))
		}
		return nil
	},
}

func init() {
	curveCmd.Flags().DurationVar(&step, "step", 2*time.Hour, "sampling interval")
	rootCmd.AddCommand(curveCmd)
}
