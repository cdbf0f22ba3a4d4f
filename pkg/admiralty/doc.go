// Package admiralty implements a client for the UK Admiralty tidal
// forecast API. Tidal events are requested per station for a number of
// days ahead (see EventQuery); a successful fetch yields an EventTable of
// high and low water predictions in time order, with time, height, and
// classification, queryable for the nearest event on either side of an
// instant. All times are naive UTC as the feed sends them.
package admiralty
