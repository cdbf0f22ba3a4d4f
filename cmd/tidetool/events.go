package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the predicted tidal events for a station",
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := fetchTable()
		if err != nil {
			return err
		}

		now := time.Now()
		for _, evt := range table.Events() {
			h, m := evt.TimeFrom(now)
			rel := "from now"
			if evt.Time().Before(now) {
				rel = "ago"
			}
			fmt.Printf("%s %dh%02dm %s\n", evt.String(), h, m, rel)
		}
		if n := table.Skipped(); n > 0 {
			fmt.Printf("(%d malformed records skipped)\n", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
}
