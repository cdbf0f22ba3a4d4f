package admiralty

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/skerry/tidedash/pkg/jsontok"
)

// assembler folds the token stream of one feed document into an
// EventTable. One assembler serves exactly one parse session, and all
// session state lives on it; nothing is shared across sessions.
type assembler struct {
	table *EventTable
	key   string // most recent object key

	// Record under construction. Reset at each object start, published
	// to the table only when the object closes holding a usable
	// timestamp.
	cur      TidalEvent
	curTime  time.Time
	haveTime bool
}

// DecodeEvents consumes one tidal events feed document and returns the
// assembled table. The stream is read once, front to back, with no
// whole-body buffering. If the stream dies mid-document, the returned
// table still holds every record finalized before the failure (never
// the partial one) alongside the error that ended the session.
func DecodeEvents(r io.Reader) (*EventTable, error) {
	a := assembler{table: NewEventTable()}
	sc := jsontok.NewScanner(r)
	for {
		tok, err := sc.Next()
		if err == io.EOF {
			return a.table, nil
		}
		if err != nil {
			return a.table, fmt.Errorf("decode tidal events: %w", err)
		}
		a.fold(tok)
	}
}

// fold advances the assembler by one token. Array and document
// boundaries carry no record state; object boundaries alone delimit
// records.
func (a *assembler) fold(tok jsontok.Token) {
	switch tok.Kind {
	case jsontok.ObjectStart:
		a.cur = TidalEvent{}
		a.curTime = time.Time{}
		a.haveTime = false
	case jsontok.Key:
		a.key = tok.Text
	case jsontok.Value:
		a.dispatch(tok.Text)
	case jsontok.ObjectEnd:
		a.finalize()
	}
}

// dispatch folds one scalar into the current record based on the key
// it was paired with. Unknown keys are ignored so new feed fields
// cannot break the decode.
func (a *assembler) dispatch(value string) {
	switch a.key {
	case "EventType":
		a.cur.HighTide = value == "HighWater"
	case "DateTime":
		a.cur.DateTime = value
		t, err := parseEventTime(value)
		if err == nil {
			a.curTime = t
			a.haveTime = true
		}
	case "Height":
		// A junk height zeroes one record; it should not fail the
		// whole fetch.
		h, err := strconv.ParseFloat(value, 64)
		if err != nil {
			h = 0
		}
		a.cur.Height = h
	}
}

// finalize publishes the current record. A record without a usable
// timestamp has no place on the timeline and is skipped, keeping the
// table's every-entry-is-valid invariant intact.
func (a *assembler) finalize() {
	if !a.haveTime {
		a.table.skipped++
		return
	}
	a.cur.EpochTime = a.curTime.Unix()
	a.cur.Valid = true
	a.table.Append(a.cur)
	a.haveTime = false
}
