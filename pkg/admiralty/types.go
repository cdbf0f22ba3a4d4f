package admiralty

import (
	"fmt"
	"time"
)

// Station identifies a tide gauge in the Admiralty station list.
// Identifiers are opaque strings assigned by the UKHO.
type Station string

const (
	Leith Station = "0113"
)

// TidalEvent is one predicted high or low water extremum.
type TidalEvent struct {
	// EpochTime is the event time in seconds since the Unix epoch. The
	// feed timestamps are naive UTC; no zone offset is applied.
	EpochTime int64 `json:"epochTime"`
	// HighTide is true for high water, false for low water.
	HighTide bool `json:"highTide"`
	// Height is the predicted height in metres.
	Height float64 `json:"heightM"`
	// DateTime is the timestamp exactly as the feed sent it, retained
	// for diagnostics.
	DateTime string `json:"dateTime"`
	// Valid is false on the zero value, which doubles as the "no such
	// event" answer from the table queries. Check it before trusting
	// the other fields.
	Valid bool `json:"valid"`
}

// Time returns the event time in UTC.
func (e TidalEvent) Time() time.Time {
	return time.Unix(e.EpochTime, 0).UTC()
}

// Type returns the feed's name for the event classification.
func (e TidalEvent) Type() string {
	if e.HighTide {
		return "HighWater"
	}
	return "LowWater"
}

// TimeFrom returns the whole hours and remaining whole minutes between
// the event and t, regardless of which comes first. Seconds beyond the
// last full minute are dropped.
func (e TidalEvent) TimeFrom(t time.Time) (hours, minutes int) {
	diff := e.EpochTime - t.Unix()
	if diff < 0 {
		diff = -diff
	}
	return int(diff / 3600), int(diff % 3600 / 60)
}

func (e TidalEvent) String() string {
	return fmt.Sprintf("{t: %s, h: %.2fm, type: %s}",
		e.Time().Format(time.RFC822),
		e.Height,
		e.Type())
}

// EventQuery selects the window of tidal events to fetch; see
// (*Client).TidalEvents.
type EventQuery struct {
	Station Station
	// Days is the forecast horizon. The API accepts 1 through 7 and
	// rejects anything else; the value is forwarded untouched.
	Days int
}

// StationInfo is the name and position record for a station, from the
// stations endpoint.
type StationInfo struct {
	ID   Station
	Name string
	Lat  float64
	Lon  float64
}
