package meta

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/skerry/tidedash/pkg/timetricks"
)

func TestGoodTimeString(t *testing.T) {
	table := []struct {
		gt   GoodTime
		want string
	}{{
		gt: GoodTime{
			// seconds and nseconds should be unused
			Time:    time.Date(1999, time.January, 5, 5, 35, 20, 4, time.Local),
			Reasons: []string{"the causeway is clear"},
		},
		want: "01/05 at 5:35 AM, the causeway is clear",
	}, {
		gt: GoodTime{
			Time: timetricks.SetClock(time.Now(), 16, 27),
			Reasons: []string{
				"the sun is up",
				"the rock pools are exposed",
			},
		},
		want: "Today at 4:27 PM, the sun is up and the rock pools are exposed",
	}, {
		gt: GoodTime{
			Time: timetricks.SetClock(time.Now().Add(24*time.Hour), 12, 55),
			Reasons: []string{
				"the sun is up",
				"the rock pools are exposed",
				"it's lunch time",
			},
		},
		want: "Tomorrow at 12:55 PM, the sun is up and the rock pools are exposed and it's lunch time",
	}, {
		gt: GoodTime{
			// Set the time to three days from now so as not to trigger
			// today/tomorrow behavior.
			Time:    timetricks.SetClock(time.Now().Add(3*24*time.Hour), 13, 0),
			Reasons: []string{"the weather is nice"},
		},
		want: fmt.Sprintf("%s at 1:00 PM, the weather is nice", time.Now().Add(3*24*time.Hour).Weekday().String()),
	}}

	for _, tc := range table {
		t.Run(tc.want, func(t *testing.T) {
			got := tc.gt.String()
			if got != tc.want {
				t.Errorf("got %q, wanted %q", got, tc.want)
			}
		})
	}
}

func TestGoodTimeRoundTrip(t *testing.T) {
	gt := GoodTime{
		Time:    time.Date(1999, time.January, 5, 5, 35, 20, 4, time.Local),
		Reasons: []string{"the causeway is clear"},
	}

	blob, err := json.Marshal(&gt)
	if err != nil {
		t.Errorf("unexpected: %v", err)
	}
	var got GoodTime
	if err := json.Unmarshal(blob, &got); err != nil {
		t.Errorf("unexpected: %v", err)
	}

	if diff := cmp.Diff(gt.String(), got.String()); diff != "" {
		t.Errorf("failed round trip (-want,+got):\n%s", diff)
	}
}
