package meta

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/skerry/tidedash/pkg/admiralty"
	"github.com/skerry/tidedash/pkg/sunset"
)

func lowAt(t time.Time, height float64) admiralty.TidalEvent {
	return admiralty.TidalEvent{
		EpochTime: t.Unix(),
		Height:    height,
		DateTime:  t.Format("2006-01-02T15:04:05"),
		Valid:     true,
	}
}

func highAt(t time.Time, height float64) admiralty.TidalEvent {
	e := lowAt(t, height)
	e.HighTide = true
	return e
}

func eventTable(events ...admiralty.TidalEvent) *admiralty.EventTable {
	tbl := admiralty.NewEventTable()
	for _, e := range events {
		tbl.Append(e)
	}
	return tbl
}

func TestGoodTimes(t *testing.T) {
	day := func(d, h, m int) time.Time {
		return time.Date(2018, time.October, d, h, m, 0, 0, time.UTC)
	}

	sunEvents := sunset.SunEvents{
		{Time: day(17, 7, 30), Event: sunset.Sunrise},
		{Time: day(17, 18, 15), Event: sunset.Sunset},
		{Time: day(18, 7, 32), Event: sunset.Sunrise},
		{Time: day(18, 18, 13), Event: sunset.Sunset},
	}

	tides := eventTable(
		lowAt(day(17, 3, 0), 0.9),   // deep night, no window
		lowAt(day(17, 7, 10), 0.7),  // 20 minutes before sunrise
		lowAt(day(17, 11, 30), 0.8), // plain daylight
		lowAt(day(17, 18, 25), 0.5), // 10 minutes after sunset
		highAt(day(18, 12, 0), 5.2), // daylight high water
		lowAt(day(18, 13, 0), 1.4),  // too high to count
	)

	table := []struct {
		name string
		opts Options
		want []GoodTime
	}{{
		name: "defaults",
		opts: Options{},
		want: []GoodTime{{
			Time:    day(17, 7, 10),
			Reasons: []string{"tide is low at 0.7m", "only 20 minutes before sunrise"},
		}, {
			Time:    day(17, 11, 30),
			Reasons: []string{"tide is low at 0.8m"},
		}, {
			Time:    day(17, 18, 15),
			Reasons: []string{"tide is low at 0.5m", "10 minutes after sunset"},
		}},
	}, {
		name: "stricter low threshold",
		opts: Options{MaxLow: ptr(0.6)},
		want: []GoodTime{{
			Time:    day(17, 18, 15),
			Reasons: []string{"tide is low at 0.5m", "10 minutes after sunset"},
		}},
	}, {
		name: "watching for big high waters",
		opts: Options{MinHigh: ptr(5.0)},
		want: []GoodTime{{
			Time:    day(17, 7, 10),
			Reasons: []string{"tide is low at 0.7m", "only 20 minutes before sunrise"},
		}, {
			Time:    day(17, 11, 30),
			Reasons: []string{"tide is low at 0.8m"},
		}, {
			Time:    day(17, 18, 15),
			Reasons: []string{"tide is low at 0.5m", "10 minutes after sunset"},
		}, {
			Time:    day(18, 12, 0),
			Reasons: []string{"tide is high at 5.2m"},
		}},
	}, {
		name: "high threshold above every tide",
		opts: Options{MaxLow: ptr(0.1), MinHigh: ptr(9.0)},
		want: []GoodTime{},
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			got := GoodTimes(Conditions{Tides: tides, SunEvents: sunEvents}, tc.opts)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("GoodTimes (-want,+got):\n%s", diff)
			}
		})
	}
}

func TestGoodTimesNoSunData(t *testing.T) {
	tides := eventTable(
		lowAt(time.Date(2018, time.October, 17, 11, 30, 0, 0, time.UTC), 0.5),
	)
	got := GoodTimes(Conditions{Tides: tides}, Options{})
	if len(got) != 0 {
		t.Errorf("GoodTimes with no sun events = %v, want none", got)
	}
}

func ptr(f float64) *float64 {
	return &f
}
