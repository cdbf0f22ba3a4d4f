package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skerry/tidedash/pkg/admiralty"
)

var at string

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the first tidal event after a time (default now)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery((*admiralty.EventTable).Next, "after")
	},
}

var previousCmd = &cobra.Command{
	Use:   "previous",
	Short: "Show the last tidal event at or before a time (default now)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery((*admiralty.EventTable).Previous, "at or before")
	},
}

func runQuery(query func(*admiralty.EventTable, time.Time) admiralty.TidalEvent, side string) error {
	t := time.Now()
	if at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("bad --at time %q: %w", at, err)
		}
		t = parsed
	}

	table, err := fetchTable()
	if err != nil {
		return err
	}

	evt := query(table, t)
	if !evt.Valid {
		return fmt.Errorf("no tidal event %s %s in the forecast window", side, t.Format(time.RFC3339))
	}

	h, m := evt.TimeFrom(t)
	fmt.Printf("%s (%dh%02dm from %s)\n", evt.String(), h, m, t.Format(time.RFC3339))
	return nil
}

func init() {
	for _, cmd := range []*cobra.Command{nextCmd, previousCmd} {
		cmd.Flags().StringVar(&at, "at", "", "query time in RFC 3339 (default now)")
		rootCmd.AddCommand(cmd)
	}
}
