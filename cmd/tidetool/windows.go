package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/skerry/tidedash/pkg/admiralty"
	"github.com/skerry/tidedash/pkg/meta"
	"github.com/skerry/tidedash/pkg/sunset"
)

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "List good times to walk the shore",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}

		station := admiralty.Station(viper.GetString("station"))
		table, err := client.TidalEvents(&admiralty.EventQuery{
			Station: station,
			Days:    viper.GetInt("days"),
		})
		if err != nil {
			return err
		}

		place := sunset.Leith
		if info, err := client.Station(station); err == nil {
			place = sunset.PlaceForStation(info.Lat, info.Lon)
		}
		duration := time.Duration(viper.GetInt("days")) * 24 * time.Hour
		sunevents := sunset.GetSunEvents(time.Now(), duration, place)

		var opts meta.Options
		if cmd.Flags().Changed("max-low") {
			f, _ := cmd.Flags().GetFloat64("max-low")
			opts.MaxLow = &f
		}
		if cmd.Flags().Changed("min-high") {
			f, _ := cmd.Flags().GetFloat64("min-high")
			opts.MinHigh = &f
		}

		goodTimes := meta.GoodTimes(meta.Conditions{Tides: table, SunEvents: sunevents}, opts)
		if len(goodTimes) == 0 {
			fmt.Println("No good times in the forecast window.")
			return nil
		}
		for _, gt := range goodTimes {
			fmt.Println(gt.String())
		}
		return nil
	},
}

func init() {
	windowsCmd.Flags().Float64("max-low", 1.0, "highest qualifying low water in metres")
	windowsCmd.Flags().Float64("min-high", 0, "also report high waters at or above this height in metres")
	rootCmd.AddCommand(windowsCmd)
}
