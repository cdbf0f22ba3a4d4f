package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "tidedash",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)
	userRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "user_requests_total",
			Subsystem: "tidedash",
			Help:      "Page views by whether the session carried a known user id.",
		},
		[]string{"known"},
	)
	tideFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "tide_fetches_total",
			Subsystem: "tidedash",
			Help:      "Upstream tidal event fetches by station and outcome.",
		},
		[]string{"station", "outcome"},
	)
	discardedEvents = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:      "tide_events_discarded_total",
			Subsystem: "tidedash",
			Help:      "Feed records dropped at capacity or skipped as malformed.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		userRequests,
		tideFetches,
		discardedEvents,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveUserRequest counts a page view. id is the session's user id
// value, nil when the visitor has never saved preferences.
func ObserveUserRequest(id interface{}) {
	known := "false"
	if id != nil {
		known = "true"
	}
	userRequests.With(prometheus.Labels{"known": known}).Inc()
}

// CountTideFetch records one upstream fetch attempt for a station.
func CountTideFetch(station string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	tideFetches.With(prometheus.Labels{"station": station, "outcome": outcome}).Inc()
}

// CountDiscardedEvents records feed records that never made it into an
// event table, whether dropped at capacity or skipped as malformed.
func CountDiscardedEvents(n int) {
	if n > 0 {
		discardedEvents.Add(float64(n))
	}
}

// statusRecorder captures the code a handler writes so LatencyHandler
// can label its observation.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, strconv.Itoa(rec.code), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}
