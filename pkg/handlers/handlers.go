package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/skerry/tidedash/pkg/admiralty"
	"github.com/skerry/tidedash/pkg/cache"
	"github.com/skerry/tidedash/pkg/meta"
	"github.com/skerry/tidedash/pkg/metrics"
	"github.com/skerry/tidedash/pkg/sunset"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	day = 24 * time.Hour

	// The Admiralty API serves one to seven days of events starting now.
	forecastDays   = 7
	forecastLength = forecastDays * day

	// cacheTTL is short because the forecast horizon starts at "now",
	// which drifts even though the predictions themselves never change.
	cacheTTL = 1 * time.Hour
)

// Config wires the handlers to an Admiralty client and the station they
// serve by default. Requests may name another station explicitly.
type Config struct {
	Prefix  string
	Client  *admiralty.Client
	Station admiralty.Station
}

func Register(r *mux.Router, cfg Config) {
	tides := newTableSource(cfg.Client, cacheTTL)
	where := newPlaceSource(cfg.Client)

	r.Handle("/", makeServerSideIndex(cfg, tides, where))
	r.Handle("/config", makeConfigTideParameters(cfg))
	r.Handle("/api/v1/tides", makeServeTides(cfg, tides))
	r.Handle("/api/v1/tides/previous", makeServeQuery(cfg, tides, (*admiralty.EventTable).Previous))
	r.Handle("/api/v1/tides/next", makeServeQuery(cfg, tides, (*admiralty.EventTable).Next))
	r.Handle("/api/v1/windows", makeServeWindows(cfg, tides, where))
	r.Handle("/metrics", promhttp.Handler())
}

// tableSource caches one event table per station. Tables are immutable
// once decoded; a refresh swaps in a whole new table, so handlers can
// hold and query a table without locking.
type tableSource struct {
	client *admiralty.Client
	ttl    time.Duration

	mu      sync.Mutex
	entries map[admiralty.Station]tableEntry
}

type tableEntry struct {
	table   *admiralty.EventTable
	fetched time.Time
}

func newTableSource(client *admiralty.Client, ttl time.Duration) *tableSource {
	return &tableSource{
		client:  client,
		ttl:     ttl,
		entries: make(map[admiralty.Station]tableEntry),
	}
}

func (s *tableSource) get(station admiralty.Station) (*admiralty.EventTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ent, ok := s.entries[station]
	if ok && time.Since(ent.fetched) < s.ttl {
		return ent.table, nil
	}

	table, err := s.client.TidalEvents(&admiralty.EventQuery{Station: station, Days: forecastDays})
	metrics.CountTideFetch(string(station), err)
	if err != nil {
		if ok {
			// A stale table beats an empty dashboard.
			log.Printf("Serving stale tide data for station %s: %v", station, err)
			return ent.table, nil
		}
		return nil, err
	}
	metrics.CountDiscardedEvents(table.Dropped() + table.Skipped())

	s.entries[station] = tableEntry{table: table, fetched: time.Now()}
	return table, nil
}

// placeSource resolves stations to places for the sun calculations,
// memoized forever because stations do not move.
type placeSource struct {
	client *admiralty.Client

	mu     sync.Mutex
	places map[admiralty.Station]sunset.Place
}

func newPlaceSource(client *admiralty.Client) *placeSource {
	return &placeSource{
		client: client,
		places: make(map[admiralty.Station]sunset.Place),
	}
}

func (p *placeSource) get(station admiralty.Station) sunset.Place {
	p.mu.Lock()
	defer p.mu.Unlock()

	if place, ok := p.places[station]; ok {
		return place
	}

	info, err := p.client.Station(station)
	if err != nil {
		log.Printf("Failed to locate station %s, assuming Leith: %v", station, err)
		return sunset.Leith
	}

	place := sunset.PlaceForStation(info.Lat, info.Lon)
	p.places[station] = place
	return place
}

func stationParam(r *http.Request, fallback admiralty.Station) admiralty.Station {
	if s := r.FormValue("station"); s != "" {
		return admiralty.Station(s)
	}
	return fallback
}

type tidesResponse struct {
	Station admiralty.Station      `json:"station"`
	Events  []admiralty.TidalEvent `json:"events"`
	Dropped int                    `json:"dropped,omitempty"`
	Skipped int                    `json:"skipped,omitempty"`
}

func makeServeTides(cfg Config, tides *tableSource) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		station := stationParam(r, cfg.Station)
		table, err := tides.get(station)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Failed to get data: %+v", err)
			log.Printf("Failed to get data: %+v", err)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(tidesResponse{
			Station: station,
			Events:  table.Events(),
			Dropped: table.Dropped(),
			Skipped: table.Skipped(),
		}); err != nil {
			log.Printf("Failed to encode JSON result: %+v", err)
		}
	})
}

// makeServeQuery serves the tidal event on one side of a query time.
// The zero event with valid=false means there was no such event.
func makeServeQuery(cfg Config, tides *tableSource, query func(*admiralty.EventTable, time.Time) admiralty.TidalEvent) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		at := time.Now()
		if tstr := r.FormValue("t"); tstr != "" {
			parsed, err := time.Parse(time.RFC3339, tstr)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, "Failed to read time %q: %v", tstr, err)
				return
			}
			at = parsed
		}

		station := stationParam(r, cfg.Station)
		table, err := tides.get(station)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Failed to get data: %+v", err)
			log.Printf("Failed to get data: %+v", err)
			return
		}

		w.Header().Add("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(query(table, at)); err != nil {
			log.Printf("Failed to encode JSON result: %+v", err)
		}
	})
}

func fetchGoodTimes(tides *tableSource, where *placeSource, station admiralty.Station, opts meta.Options) ([]meta.GoodTime, error) {
	table, err := tides.get(station)
	if err != nil {
		return nil, err
	}

	sunevents := sunset.GetSunEvents(time.Now(), forecastLength, where.get(station))

	goodTimes := meta.GoodTimes(meta.Conditions{Tides: table, SunEvents: sunevents}, opts)
	return goodTimes, nil
}

func optionsFromQuery(r *http.Request) meta.Options {
	var opts meta.Options
	if f, err := strconv.ParseFloat(r.FormValue("max_low"), 64); err == nil {
		opts.MaxLow = &f
	}
	if f, err := strconv.ParseFloat(r.FormValue("min_high"), 64); err == nil {
		opts.MinHigh = &f
	}
	return opts
}

func makeServeWindows(cfg Config, tides *tableSource, where *placeSource) http.Handler {
	timeCache := cache.NewTimed(cacheTTL)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// cache based on method and URL, which should encapsulate the query
		key := fmt.Sprintf("%s %s", r.Method, r.URL)

		contentType := "text/plain"
		if r.FormValue("o") == "json" {
			contentType = "application/json"
		}

		// serve cached version from memory if possible
		if cached, ok := timeCache.Get(key); ok {
			w.Header().Add("Content-Type", contentType)
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		log.Println("No cache data")

		station := stationParam(r, cfg.Station)
		goodTimes, err := fetchGoodTimes(tides, where, station, optionsFromQuery(r))
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Failed to get data: %+v", err)
			log.Printf("Failed to get data: %+v", err)
			return
		}

		// duplicate the http response onto a buffer for the cache
		var toCache bytes.Buffer
		mw := io.MultiWriter(w, &toCache)

		// serve result
		w.Header().Add("Content-Type", contentType)
		w.WriteHeader(http.StatusOK)
		if contentType == "application/json" {
			if err := json.NewEncoder(mw).Encode(goodTimes); err != nil {
				log.Printf("Failed to encode JSON result: %+v", err)
			}
		} else {
			for i, gt := range goodTimes {
				fmt.Fprintf(mw, "%s", gt.String())
				if i+1 < len(goodTimes) {
					fmt.Fprintf(mw, "\n")
				}
			}
		}

		// save the result asynchronously as the cache may block
		go func() {
			timeCache.Set(key, toCache.Bytes())
		}()
	})
}
