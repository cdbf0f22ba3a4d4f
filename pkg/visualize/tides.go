package visualize

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/skerry/tidedash/pkg/admiralty"
	"github.com/skerry/tidedash/pkg/admiralty/splines"
	"github.com/skerry/tidedash/pkg/sunset"
	"github.com/skerry/tidedash/pkg/timetricks"
)

const (
	width  = 1200
	height = 300

	// The chart maps tide heights in [lowestM, lowestM+spanM) metres
	// onto the full image height.
	lowestM = -1.0
	spanM   = 8.0
)

type Tidal struct {
	date      time.Time
	events    []admiralty.TidalEvent
	sunEvents sunset.SunEvents
}

func NewTidal(tides *admiralty.EventTable, sunEvents sunset.SunEvents) *Tidal {
	return &Tidal{
		events:    tides.Events(),
		sunEvents: sunEvents,
	}
}

func (img *Tidal) SetDate(t time.Time) {
	img.date = timetricks.TrimClock(t)
}

func (img *Tidal) Encode(w io.Writer) (int, error) {
	if len(img.events) == 0 {
		return 0, fmt.Errorf("no tide data")
	}

	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" onclick="" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Calculate dawn/dusk and draw the sunshine.
	sunupIndex, ok := img.sunup(img.date)
	if !ok || sunupIndex+1 >= len(img.sunEvents) {
		return n, fmt.Errorf("not enough sun data")
	}
	sunup := img.sunEvents[sunupIndex]
	sundown := img.sunEvents[sunupIndex+1]
	risex := img.timeToX(sunup.Time)
	setx := img.timeToX(sundown.Time)
	io(fmt.Fprintf(w, `<rect class="daytime" fill="lightyellow" x="%d" y="%d" width="%d" height="%d"/>`,
		risex, 0,
		setx-risex, height))

	// Draw markers for tide levels.
	io(fmt.Fprintf(w, `<rect class="two_metre" fill="#e76f51" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(2),
		width, tideHeightToY(1)-tideHeightToY(2)+1))
	io(fmt.Fprintf(w, `<rect class="one_metre" fill="#f4a261" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(1),
		width, tideHeightToY(0)-tideHeightToY(1)+1))
	io(fmt.Fprintf(w, `<rect class="zero_metre" fill="#e9c46a" x="%d" y="%d" width="%d" height="%d"/>`,
		0, tideHeightToY(0),
		width, tideHeightToY(lowestM)-tideHeightToY(0)+1))

	// Choose the first tidal event to start from. Should be off screen; if
	// not, just start at the beginning.
	i, ok := img.indexEventPreceding(img.date)
	if !ok {
		i = 0
	}
	startEventI, endEventI := i, i

	for ; i+1 < len(img.events); i += 1 {
		x1 := img.timeToX(img.events[i].Time())
		y1 := tideHeightToY(img.events[i].Height)
		if int(x1) > width {
			break
		}
		endEventI = i + 1
		io(fmt.Fprintf(w, `<path class="tide" fill="skyblue" d="M %d,%d `, x1, y1))

		x2 := img.timeToX(img.events[i+1].Time()) + 1 // +1 to create overlap
		y2 := tideHeightToY(img.events[i+1].Height)

		cx1, cy1 := (x1+x2)/2, y1
		cx2, cy2 := cx1, y2

		io(fmt.Fprintf(w, `C %d,%d %d,%d %d,%d `,
			cx1, cy1,
			cx2, cy2,
			x2, y2))

		io(fmt.Fprintf(w, `L %d,%d L %d,%d z"/>`, x2, height, x1, height))
	}

	// Draw the night time shadows.
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		0, 0,
		risex, height))
	io(fmt.Fprintf(w, `<rect class="night" fill="blue" fill-opacity="25%%" x="%d" y="%d" width="%d" height="%d"/>`,
		setx, 0,
		width-setx, height))

	// Insert spline data as JSON.
	splineEvents := img.events[startEventI : endEventI+1]
	spline := splines.CurvesBetween(splineEvents)
	io(fmt.Fprintf(w, `<text class="spline" visibility="hidden">`))
	json.NewEncoder(w).Encode(spline)
	io(fmt.Fprintf(w, `</text>`))

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

func (img *Tidal) indexEventPreceding(t time.Time) (int, bool) {
	left, right := 0, len(img.events)
	for right-left > 1 {
		mid := (left + right) / 2
		midt := img.events[mid].Time()
		if midt.Before(t) {
			left = mid
		} else if midt.After(t) {
			right = mid
		} else if midt.Equal(t) {
			return mid, true
		}
	}
	ok := left < len(img.events)
	return left, ok
}

func (img *Tidal) sunup(t time.Time) (int, bool) {
	for i := 0; i < len(img.sunEvents); i++ {
		if img.sunEvents[i].Time.After(t) {
			return i, true
		}
	}
	return 0, false
}

func tideHeightToY(tideHeight float64) int {
	return height - int((tideHeight-lowestM)*(height/spanM)) // scaling ratio of img height to 8 metres of tide range
}

func (img *Tidal) timeToX(t time.Time) int {
	return int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
}
