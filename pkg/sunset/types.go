package sunset

import (
	"fmt"
	"time"
)

// Place is a lat/long coordinate on the Earth matched with its time zone.
type Place struct {
	Lat, Long float64
	Location  *time.Location
}

var (
	// Leith is the default place, co-sited with the default tide
	// station in the Forth.
	Leith = Place{
		55.9898, -3.1818,
		locationOrPanic("Europe/London"),
	}
)

// PlaceForStation sites sun computation at a tide station's
// coordinates. The tidal API covers UK ports, which all keep London
// time.
func PlaceForStation(lat, long float64) Place {
	return Place{lat, long, locationOrPanic("Europe/London")}
}

// SunEvents is a time series of SunEvent.
type SunEvents []SunEvent

// SunEvent is a sunrise or sunset event.
type SunEvent struct {
	Time  time.Time
	Event Event
}

func (s *SunEvent) String() string {
	return fmt.Sprintf("%s %s",
		s.Time.Format(time.RFC822),
		func() string {
			if s.Event == Sunrise {
				return "Sunrise"
			} else {
				return "Sunset"
			}
		}())
}

// Event encodes a sunrise or sunset event.
type Event bool

const (
	Sunrise Event = true
	Sunset        = false
)

func locationOrPanic(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}
