// Package splines draws a continuous tide curve through the discrete
// high and low water events the feed provides.
package splines

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"github.com/skerry/tidedash/pkg/admiralty"
)

// Curve links one tidal event to the next with a cubic whose slope is
// zero at both ends, which is how the tide behaves at its extrema. It
// is undefined outside Start and End.
type Curve struct {
	Start, End time.Time
	A, B, C, D float64
}

// A Spline is a slice of curves linked together to form a full picture.
type Spline []Curve

// CurvesBetween identifies curves linking successive tidal events.
// Fewer than two events cannot form a curve.
func CurvesBetween(events []admiralty.TidalEvent) Spline {
	if len(events) < 2 {
		return nil
	}

	curves := make([]Curve, len(events)-1)
	for i := range curves {
		curves[i] = curveBetween(
			events[i].Time(), events[i].Height,
			events[i+1].Time(), events[i+1].Height)
	}
	return curves
}

// Discrete samples n evenly spaced heights across the span of a
// Spline.
func Discrete(spline Spline, n int) []float64 {
	if len(spline) < 1 {
		return nil
	}
	start := spline[0].Start
	end := spline[len(spline)-1].End
	dur := end.Sub(start)
	step := time.Duration(float64(dur) / float64(n-1))

	result := make([]float64, n)
	for i := range result {
		result[i] = spline.Eval(start.Add(step * time.Duration(i)))
	}
	return result
}

// curveBetween solves h(x) = Ax³ + Bx² + Cx + D for h(0) = h1,
// h(x2) = h2, h'(0) = h'(x2) = 0, where x counts seconds from time1.
// Measuring x from the curve's own start keeps the coefficients away
// from float trouble.
func curveBetween(time1 time.Time, h1 float64, time2 time.Time, h2 float64) Curve {
	x2 := xrel(time1, time2)
	return Curve{
		Start: time1,
		End:   time2,
		A:     2 * (h1 - h2) / (x2 * x2 * x2),
		B:     -3 * (h1 - h2) / (x2 * x2),
		C:     0,
		D:     h1,
	}
}

// Eval computes the tide height at t, or NaN where the spline is not
// defined. Curves are contiguous and time-ordered, so this is a binary
// search.
func (s Spline) Eval(t time.Time) float64 {
	left, right := 0, len(s)
	for left < right {
		mid := left + (right-left)/2
		if t.Before(s[mid].Start) {
			right = mid
		} else if t.After(s[mid].End) {
			left = mid + 1
		} else {
			return s[mid].Eval(t)
		}
	}
	return math.NaN()
}

func (c Curve) Eval(t time.Time) float64 {
	if t.Before(c.Start) || t.After(c.End) {
		return math.NaN()
	}
	x := xrel(c.Start, t)
	return c.A*x*x*x + c.B*x*x + c.C*x + c.D
}

// xrel computes an x coordinate for t relative to origin.
func xrel(origin time.Time, t time.Time) float64 {
	return float64(t.Unix() - origin.Unix())
}

// MarshalJSON writes the curve in the compact form the dashboard's
// client-side hooks read back.
func (c Curve) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	_, err := fmt.Fprintf(&buf, `{"start":%d,"end":%d,"a":%g,"b":%g,"c":%g,"d":%g}`,
		c.Start.Unix(), c.End.Unix(),
		c.A, c.B, c.C, c.D)
	return buf.Bytes(), err
}
