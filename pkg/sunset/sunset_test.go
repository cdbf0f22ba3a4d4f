package sunset

import (
	"testing"
	"time"

	"github.com/skerry/tidedash/pkg/timetricks"
)

func TestGetSunEvents(t *testing.T) {
	start := time.Date(2018, time.October, 17, 0, 0, 0, 0, Leith.Location)
	days := 3
	events := GetSunEvents(start, time.Duration(days)*24*time.Hour, Leith)

	if got, want := len(events), days*2; got != want {
		t.Fatalf("got %d events, want %d", got, want)
	}

	for i, e := range events {
		// Events alternate, starting with a sunrise.
		wantRise := i%2 == 0
		if got := e.Event == Sunrise; got != wantRise {
			t.Errorf("event %d: sunrise = %t, want %t", i, got, wantRise)
		}
		// Each pair belongs to its own day of the window.
		day := start.Add(time.Duration(i/2) * 24 * time.Hour)
		if !timetricks.SameDay(e.Time, day) {
			t.Errorf("event %d at %v, want it on %v", i, e.Time, day)
		}
		// And the series is strictly ordered.
		if i > 0 && !events[i-1].Time.Before(e.Time) {
			t.Errorf("event %d at %v does not follow event %d at %v",
				i, e.Time, i-1, events[i-1].Time)
		}
	}

	// Mid-October Edinburgh daylight runs roughly 07:30 to 18:15.
	if h := events[0].Time.Hour(); h < 6 || h > 9 {
		t.Errorf("first sunrise at hour %d, want morning", h)
	}
	if h := events[1].Time.Hour(); h < 16 || h > 19 {
		t.Errorf("first sunset at hour %d, want evening", h)
	}
}

func TestPlaceForStation(t *testing.T) {
	p := PlaceForStation(55.9898, -3.1818)
	if p.Lat != 55.9898 || p.Long != -3.1818 {
		t.Errorf("got (%v, %v), want station coordinates", p.Lat, p.Long)
	}
	if got, want := p.Location.String(), "Europe/London"; got != want {
		t.Errorf("location = %q, want %q", got, want)
	}
}
