package meta

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/skerry/tidedash/pkg/admiralty"
	"github.com/skerry/tidedash/pkg/sunset"
)

const (
	// defaultMaxLow is the highest low water, in metres, that still
	// uncovers enough shore to be worth a visit.
	defaultMaxLow = 1.0

	firstLightThresh = 30 * time.Minute
)

var notFound = errors.New("not found")

// Conditions is the set of data we can perform meta analysis on.
type Conditions struct {
	Tides     *admiralty.EventTable
	SunEvents sunset.SunEvents
}

// Options tune which tides count, normally from a user's saved
// preferences. Nil fields choose the defaults.
type Options struct {
	// MaxLow is the highest qualifying low water in metres.
	MaxLow *float64
	// MinHigh, when set, also reports high waters at or above this
	// height in metres.
	MinHigh *float64
}

func (o Options) maxLow() float64 {
	if o.MaxLow != nil {
		return *o.MaxLow
	}
	return defaultMaxLow
}

// GoodTimes analyzes a set of Conditions to find good times to walk
// the shore: qualifying tides that fall in daylight, or near enough to
// first light that setting out is still worthwhile.
func GoodTimes(c Conditions, opts Options) []GoodTime {
	result := []GoodTime{}
	for _, tide := range c.Tides.Events() {
		reason, ok := windowReason(tide, opts)
		if !ok {
			continue
		}

		t := tide.Time()

		// Find last sun event that comes before the tide event
		suni, err := indexOfLastEventBefore(t, c.SunEvents)
		if err != nil {
			// No sun event before this tide.
			// It is possible it happens before sunrise.
			if len(c.SunEvents) > 0 && c.SunEvents[0].Event == sunset.Sunrise {
				if gt, err := dawnPatrol(tide, reason, c.SunEvents[0]); err == nil {
					result = append(result, gt)
				}
			}
			// Assuming there is not a "sunset first" case and the alternative
			// is no data.
			continue
		}

		if c.SunEvents[suni].Event == sunset.Sunset {
			// After sunset? Can't do that, unless ..
			if diff := t.Sub(c.SunEvents[suni].Time); diff < firstLightThresh {
				// Unless it's close to right after sunset
				result = append(result, GoodTime{
					Time: c.SunEvents[suni].Time,
					Reasons: []string{
						reason,
						fmt.Sprintf("%.0f minutes after sunset", diff.Minutes()),
					},
				})

			} else if suni+1 < len(c.SunEvents) {
				// Check if sunrise is coming up..
				if gt, err := dawnPatrol(tide, reason, c.SunEvents[suni+1]); err == nil {
					result = append(result, gt)
				}
			}
		} else if c.SunEvents[suni].Event == sunset.Sunrise {
			// Qualifying tide during the day
			result = append(result, GoodTime{
				Time:    t,
				Reasons: []string{reason},
			})
		}
	}

	return result
}

// windowReason decides whether a tide qualifies under opts and, if so,
// words the reason.
func windowReason(tide admiralty.TidalEvent, opts Options) (string, bool) {
	if tide.HighTide {
		// High water is only interesting when the user asked to watch
		// for big tides.
		if opts.MinHigh == nil || tide.Height < *opts.MinHigh {
			return "", false
		}
		return fmt.Sprintf("tide is high at %.1fm", tide.Height), true
	}

	// If the low tide is still pretty high, not interested
	if tide.Height > opts.maxLow() {
		return "", false
	}
	return fmt.Sprintf("tide is low at %.1fm", tide.Height), true
}

// dawnPatrol finds a GoodTime before dawn.
func dawnPatrol(tide admiralty.TidalEvent, reason string, event sunset.SunEvent) (GoodTime, error) {
	t := tide.Time()
	diff := event.Time.Sub(t)
	if diff > firstLightThresh {
		return GoodTime{}, notFound
	}
	return GoodTime{
		Time: t,
		Reasons: []string{
			reason,
			fmt.Sprintf("only %.0f minutes before sunrise", diff.Minutes()),
		},
	}, nil
}

// Returns last event before time t, or an error if there is none.
func indexOfLastEventBefore(t time.Time, events sunset.SunEvents) (int, error) {
	// Remember, sort.Search finds the FIRST element. We have to reverse the
	// index.
	n := len(events)
	revi := sort.Search(n, func(revtesti int) bool {
		testi := n - 1 - revtesti
		return events[testi].Time.Before(t)
	})
	result := n - 1 - revi
	if result < 0 || result >= n {
		// no element found
		return -1, notFound
	}
	return result, nil
}
