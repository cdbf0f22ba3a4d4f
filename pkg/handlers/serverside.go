package handlers

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/skerry/tidedash/pkg/admiralty"
	"github.com/skerry/tidedash/pkg/data"
	"github.com/skerry/tidedash/pkg/meta"
	"github.com/skerry/tidedash/pkg/metrics"
	"github.com/skerry/tidedash/pkg/sunset"
	"github.com/skerry/tidedash/pkg/timetricks"
	"github.com/skerry/tidedash/pkg/visualize"
	"golang.org/x/crypto/pbkdf2"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"gorm.io/gorm"
)

const (
	sessionName       = "shore-times"
	sessionLastViewed = "last-viewed-referrer"
	userID            = "userid"
	// See https://developer.chrome.com/blog/cookie-max-age-expires.
	defaultMaxAge = 60 * 60 * 24 * 400 // 400 days in seconds.
)

var (
	store = &sessions.CookieStore{
		Codecs: securecookie.CodecsFromPairs(
			getSessionKey(),
			getEncryptionKey(),
			getSessionKey(),
			nil,
			[]byte("deadbeef"), // TODO: Remove.
			nil,
		),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   defaultMaxAge,
			Secure:   true,
			HttpOnly: true,
		},
	}
	db = postgresOrNil()
)

func init() {
	store.MaxAge(defaultMaxAge)
}

// postgresOrNil connects to the preferences database. The dashboard
// works without one; saved preferences just stop round tripping.
func postgresOrNil() *gorm.DB {
	conn, err := data.PostgresFromEnv()
	if err != nil {
		log.Printf("Running without saved preferences: %v", err)
		return nil
	}
	return conn
}

const indexTemplateText = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>tidedash</title>
<style>
body { font-family: sans-serif; max-width: 1200px; margin: 1em auto; padding: 0 1em; }
section.day svg { width: 100%; height: auto; }
footer { margin-top: 2em; }
</style>
</head>
<body>
<h1>Good times to walk the shore</h1>
{{- if .Name}}
<p>Hello, {{.Name}}.</p>
{{- end}}
{{- range .PresentationElements}}
<section class="day">
<h2>{{.Date}}</h2>
<ul>
{{- range .GoodTimes}}
<li>{{.PrettyTime}}{{range .Reasons}}, {{.}}{{end}}</li>
{{- end}}
</ul>
{{.TideImage}}
</section>
{{- else}}
<p>No good times this week. The sea does what it wants.</p>
{{- end}}
<footer><a href="config">preferences</a></footer>
</body>
</html>
`

const configTemplateText = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>tidedash preferences</title>
</head>
<body>
<h1>Preferences</h1>
<form method="POST" action="config">
<p><label>Name <input type="text" name="name" value="{{with .User}}{{.Name}}{{end}}"></label></p>
<p><label>Station <input type="text" name="station" value="{{with .User}}{{.Station}}{{end}}"></label></p>
<p><label>Highest low water (m) <input type="number" step="0.1" name="max_low" value="{{with .Options.MaxLow}}{{.}}{{end}}"></label></p>
<p><label>Lowest high water (m) <input type="number" step="0.1" name="min_high" value="{{with .Options.MinHigh}}{{.}}{{end}}"></label></p>
<p><input type="submit" value="Save"></p>
</form>
</body>
</html>
`

type TemplateInput struct {
	PresentationElements []PresentationElement
	Name                 string
}

type PresentationElement struct {
	Date      string
	GoodTimes []meta.GoodTime
	TideImage template.HTML
}

// makeServerSideIndex serves a good times page fully rendered on the
// server.
func makeServerSideIndex(cfg Config, tides *tableSource, where *placeSource) http.HandlerFunc {
	indexTemplate := template.Must(template.New("index").Parse(indexTemplateText))

	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		metrics.ObserveUserRequest(session.Values[userID])
		session.Values[sessionLastViewed] = r.URL.String()
		if err := session.Save(r, w); err != nil {
			log.Println("save session err", err)
		}

		opts, user := goodTimeOptionsFromSession(session)

		station := cfg.Station
		if user != nil && user.Station != "" {
			station = admiralty.Station(user.Station)
		}

		table, err := tides.get(station)
		if err != nil {
			err := fmt.Errorf("failed to fetch from the Admiralty API: %w", err)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprintf(w, "Failed to fetch good times: %+v", err)
			log.Printf("Failed to fetch good times: %+v", err)
			return
		}

		// Compute sun events, goodtimes, and set up tide images. The
		// extra day of sun data pads the last graph.
		sunevents := sunset.GetSunEvents(time.Now(), forecastLength+day, where.get(station))
		goodTimes := meta.GoodTimes(meta.Conditions{Tides: table, SunEvents: sunevents}, opts)
		tideimages := visualize.NewTidal(table, sunevents)

		presElems := goodTimesToPresentationElements(tideimages, goodTimes)

		name, _ := session.Values["name"].(string)
		tinput := TemplateInput{
			PresentationElements: presElems,
			Name:                 name,
		}

		w.Header().Add("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)
		if err := indexTemplate.Execute(w, tinput); err != nil {
			log.Printf("Failed to execute template: %v", err)
		}
	}
}

func imgToString(img *visualize.Tidal, t time.Time) string {
	img.SetDate(t)
	var b bytes.Buffer
	img.Encode(&b)
	return b.String()
}

func goodTimesToPresentationElements(tideimages *visualize.Tidal, goodTimes []meta.GoodTime) []PresentationElement {
	var f func(result []PresentationElement, goodTimes []meta.GoodTime) []PresentationElement
	f = func(result []PresentationElement, goodTimes []meta.GoodTime) []PresentationElement {
		if len(goodTimes) == 0 {
			return result
		}

		resultLen := len(result)
		gt := goodTimes[0]
		gt.UpdatePrettyTime()

		if len(result) != 0 && result[resultLen-1].Date == timetricks.Day(gt.Time) {
			// There is already an entry in the result that corresponds to the
			// same day as the next time we're entering.
			result[resultLen-1].GoodTimes = append(result[resultLen-1].GoodTimes, gt)
		} else {
			// Normal case.
			result = append(result, PresentationElement{
				Date:      timetricks.Day(gt.Time),
				GoodTimes: []meta.GoodTime{gt},
				TideImage: template.HTML(imgToString(tideimages, gt.Time)),
			})
		}

		return f(result, goodTimes[1:])
	}

	return f(nil, goodTimes)
}

func goodTimeOptionsFromSession(s *sessions.Session) (meta.Options, *data.User) {
	opts := meta.Options{}

	if db == nil {
		return opts, nil
	}
	id, ok := s.Values[userID]
	if !ok {
		return opts, nil
	}

	// Note the db lookup can fail here, and that's
	// fine. We'll just use default options.
	var user data.User
	if r := db.First(&user, id); r.Error != nil {
		log.Printf("Failed to find user %v: %v", id, r.Error)
		return opts, nil
	}

	// Log the time since we last saw the user.
	if !user.LastSeen.IsZero() {
		sinceLastSeen := time.Since(user.LastSeen)
		log.Printf("User %d (%q) was last seen %s ago", user.ID, user.Name, sinceLastSeen)
	}
	user.LastSeen = time.Now()
	db.Save(&user)

	opts.MaxLow = user.MaxLow
	opts.MinHigh = user.MinHigh

	return opts, &user
}

func makeConfigTideParameters(cfg Config) http.HandlerFunc {
	configTemplate := template.Must(template.New("config").Parse(configTemplateText))

	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := store.Get(r, sessionName)
		metrics.ObserveUserRequest(session.Values[userID])

		if r.Method == "GET" {
			session.Save(r, w)
			opts, user := goodTimeOptionsFromSession(session)
			if err := configTemplate.Execute(w, map[string]any{
				"Options": opts,
				"User":    user,
			}); err != nil {
				log.Printf("Failed to write configTemplate: %v", err)
			}
			return
		}
		// The remainder of this function assumes method is POST.
		if r.Method != "POST" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if db == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprint(w, "Saved preferences are not available")
			return
		}

		// Parse the form data.
		if err := r.ParseForm(); err != nil {
			msg := fmt.Sprintf("Failed to parse form: %v", err)
			log.Println(msg)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, msg)
			return
		}

		var user data.User
		if id, ok := session.Values[userID].(uint); ok {
			// Read-modify-write if the user provided an ID.
			// Otherwise, one will be generated with db.Save later.
			db.First(&user, id)
		}
		if f, err := strconv.ParseFloat(r.PostForm.Get("max_low"), 64); err == nil {
			user.MaxLow = &f
		} else {
			user.MaxLow = nil
		}
		if f, err := strconv.ParseFloat(r.PostForm.Get("min_high"), 64); err == nil {
			user.MinHigh = &f
		} else {
			user.MinHigh = nil
		}
		user.Station = r.PostForm.Get("station")

		// Log the time since the last update.
		if user.UpdatedAt.IsZero() {
			log.Printf("User %q has never been updated", user.Name)
		} else {
			sinceLastUpdate := time.Since(user.UpdatedAt)
			log.Printf("User %d (%q) was last updated %s ago", user.ID, user.Name, sinceLastUpdate)
		}

		// Set the LastSeen column to the current time.
		user.LastSeen = time.Now()
		user.Name = r.PostForm.Get("name")
		if tx := db.Save(&user); tx.Error != nil {
			msg := fmt.Sprintf("Failed to save preferences: %v", tx.Error)
			log.Println(msg)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, msg)
			return
		}
		session.Values[userID] = user.ID
		session.Values["name"] = r.PostForm.Get("name")
		session.Save(r, w)

		// Redirect to whatever they saw last, or the index.
		referredFrom, ok := session.Values[sessionLastViewed].(string)
		if !ok || referredFrom == "/config" {
			referredFrom = "/"
		}
		redirectTo := pathJoinPreservePrefix(cfg.Prefix, referredFrom)
		http.Redirect(w, r, redirectTo, http.StatusFound)
	}
}

func pathJoinPreservePrefix(prefix string, suffix string) string {
	trimmedPrefix := path.Join(prefix, "")
	result := path.Join(prefix, suffix)
	if result == trimmedPrefix {
		return prefix
	}
	return result
}

// getSessionKey returns a key to encrypt session cookies defined in the
// environment.
// If it is not set, it uses a compile-time default.
func getSessionKey() []byte {
	defaultKey := []byte("deadbeef")
	if key := os.Getenv("SESSION_KEY"); key != "" {
		return []byte(key)
	} else {
		return defaultKey
	}
}

func getEncryptionKey() []byte {
	password := "deadbeef"
	if fromEnv := os.Getenv("ENCRYPTION_KEY"); fromEnv != "" {
		password = fromEnv
	}
	return pbkdf2.Key([]byte(password), []byte{}, 4096, 32, sha1.New)
}
