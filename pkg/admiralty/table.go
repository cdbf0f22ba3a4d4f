package admiralty

import "time"

// MaxEvents caps how many events one fetch may retain. Seven days of
// UK tides is at most 28 extrema, so this leaves slack without letting
// a misbehaving feed grow the table unbounded.
const MaxEvents = 40

// EventTable holds one fetch's worth of tidal events in feed order.
// The feed arrives pre-sorted, so entries are chronologically
// non-decreasing; the table never re-sorts. A table is populated once,
// by DecodeEvents or a test fixture, and is read-only afterwards.
// Queries never mutate it, so a built table may be shared freely.
type EventTable struct {
	events  []TidalEvent
	dropped int
	skipped int
}

// NewEventTable returns an empty table.
func NewEventTable() *EventTable {
	return &EventTable{events: make([]TidalEvent, 0, MaxEvents)}
}

// Append adds e at the end of the table, trusting the caller to append
// in chronological order. Once the table holds MaxEvents entries,
// further events are counted as dropped and discarded rather than
// stored; Append reports whether e was stored.
func (tbl *EventTable) Append(e TidalEvent) bool {
	if len(tbl.events) == MaxEvents {
		tbl.dropped++
		return false
	}
	tbl.events = append(tbl.events, e)
	return true
}

// Len returns the number of stored events.
func (tbl *EventTable) Len() int {
	return len(tbl.events)
}

// At returns the i'th event in feed order.
func (tbl *EventTable) At(i int) TidalEvent {
	return tbl.events[i]
}

// Events returns the stored events in feed order. The slice aliases
// the table's storage; callers must not modify it.
func (tbl *EventTable) Events() []TidalEvent {
	return tbl.events
}

// Dropped reports how many finalized events were discarded because the
// table was already full.
func (tbl *EventTable) Dropped() int {
	return tbl.dropped
}

// Skipped reports how many feed records closed without a usable
// timestamp and were never stored.
func (tbl *EventTable) Skipped() int {
	return tbl.skipped
}

// Previous returns the last event at or before t. The zero TidalEvent
// (Valid == false) means nothing qualifies: the table is empty or t
// falls before its first event.
func (tbl *EventTable) Previous(t time.Time) TidalEvent {
	var best TidalEvent
	unix := t.Unix()
	// Events are in time order, so the scan can stop at the first
	// event past t.
	for _, e := range tbl.events {
		if e.EpochTime > unix {
			break
		}
		best = e
	}
	return best
}

// Next returns the first event strictly after t, or the zero
// TidalEvent when there is none. Previous and Next split the timeline
// at t: an event exactly at t belongs to Previous, never Next.
func (tbl *EventTable) Next(t time.Time) TidalEvent {
	unix := t.Unix()
	for _, e := range tbl.events {
		if e.EpochTime > unix {
			return e
		}
	}
	return TidalEvent{}
}
