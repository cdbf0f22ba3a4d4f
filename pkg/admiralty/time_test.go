package admiralty

import (
	"errors"
	"testing"
	"time"
)

func TestParseEventTime(t *testing.T) {
	table := []struct {
		input string
		want  time.Time
	}{{
		input: "2018-10-17T17:25:00",
		want:  time.Date(2018, time.October, 17, 17, 25, 0, 0, time.UTC),
	}, {
		// Fractional seconds are dropped, not rounded.
		input: "2018-10-17T17:25:00.972",
		want:  time.Date(2018, time.October, 17, 17, 25, 0, 0, time.UTC),
	}, {
		input: "2020-02-29T00:00:01",
		want:  time.Date(2020, time.February, 29, 0, 0, 1, 0, time.UTC),
	}}

	for _, tc := range table {
		t.Run(tc.input, func(t *testing.T) {
			got, err := parseEventTime(tc.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("got %v, want %v", got, tc.want)
			}
		})
	}
}

func TestParseEventTimeEpoch(t *testing.T) {
	// Oracle computed independently with standard UTC calendar
	// arithmetic.
	got, err := parseEventTime("2018-10-17T17:25:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := int64(1539797100); got.Unix() != want {
		t.Errorf("got epoch %d, want %d", got.Unix(), want)
	}
}

func TestParseEventTimeMalformed(t *testing.T) {
	table := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"truncated", "2018-10-17T17:25"},
		{"alpha year", "20XX-10-17T17:25:00"},
		{"alpha second", "2018-10-17T17:25:0x"},
		{"signed field", "2018-10-17T17:25:-1"},
		{"spaces", "2018-10-17T17:25:  "},
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseEventTime(tc.input); !errors.Is(err, ErrMalformedTimestamp) {
				t.Errorf("got %v, want ErrMalformedTimestamp", err)
			}
		})
	}
}
