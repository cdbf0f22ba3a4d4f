package admiralty

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedTimestamp reports a feed timestamp that does not follow
// the fixed YYYY-MM-DDTHH:MM:SS layout.
var ErrMalformedTimestamp = errors.New("malformed timestamp")

// timeFields are the fixed character offsets of the feed's timestamp
// layout, e.g. "2018-10-17T17:25:00". A fractional second suffix may
// follow the last field and is ignored.
var timeFields = [...]struct {
	name   string
	lo, hi int
}{
	{"year", 0, 4},
	{"month", 5, 7},
	{"day", 8, 10},
	{"hour", 11, 13},
	{"minute", 14, 16},
	{"second", 17, 19},
}

const eventTimeLen = 19

// parseEventTime converts a feed timestamp to a UTC time. The feed
// sends naive ISO-8601 with no zone, so the fields are cut by position
// rather than scanned. Strings shorter than the layout or with
// non-digit field characters fail with ErrMalformedTimestamp.
func parseEventTime(s string) (time.Time, error) {
	if len(s) < eventTimeLen {
		return time.Time{}, fmt.Errorf("timestamp %q shorter than %d chars: %w",
			s, eventTimeLen, ErrMalformedTimestamp)
	}
	var v [len(timeFields)]int
	for i, f := range timeFields {
		n, err := atoi(s[f.lo:f.hi])
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp %q has non-numeric %s: %w",
				s, f.name, ErrMalformedTimestamp)
		}
		v[i] = n
	}
	return time.Date(v[0], time.Month(v[1]), v[2], v[3], v[4], v[5], 0, time.UTC), nil
}

// atoi parses a fixed-width run of decimal digits. Unlike
// strconv.Atoi it rejects signs and spaces; the feed's fields are bare
// digits or garbage.
func atoi(s string) (int, error) {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("byte %q is not a digit", c)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}
