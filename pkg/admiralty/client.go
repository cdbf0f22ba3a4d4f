package admiralty

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const (
	// DefaultBaseURL is the public host of the UK Admiralty tidal API.
	DefaultBaseURL = "https://admiraltyapi.azure-api.net"

	stationsPath = "/uktidalapi/api/V1/Stations"

	subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"
)

var defaultHTTPClient = &http.Client{Timeout: 10 * time.Second}

// Client calls the UK Admiralty tidal API. The zero value talks to the
// public host; Key must be set to a subscription key from the
// Admiralty developer portal or the API rejects every request.
type Client struct {
	// Key is sent on every request in the Ocp-Apim-Subscription-Key
	// header.
	Key string
	// BaseURL overrides the API host, mostly for tests.
	BaseURL string
	// HTTPClient overrides the default client, which carries a 10
	// second timeout.
	HTTPClient *http.Client
}

// TidalEvents fetches the predicted tidal events for q and assembles
// them into an EventTable. The response body is decoded as it streams;
// it is never buffered whole. Like DecodeEvents, a table holding the
// records finalized before a mid-stream failure is returned alongside
// the error.
func (c *Client) TidalEvents(q *EventQuery) (*EventTable, error) {
	u := fmt.Sprintf("%s%s/%s/TidalEvents", c.base(), stationsPath, url.PathEscape(string(q.Station)))
	if q.Days != 0 {
		u += fmt.Sprintf("?duration=%d", q.Days)
	}

	resp, err := c.get(u)
	if err != nil {
		return nil, fmt.Errorf("tidal events for station %s: %w", q.Station, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tidal events for station %s: unexpected status %s", q.Station, resp.Status)
	}

	return DecodeEvents(resp.Body)
}

// Station fetches the name and position of a tide station. The
// stations endpoint answers GeoJSON; only the fields needed to site
// sun computations are kept.
func (c *Client) Station(id Station) (StationInfo, error) {
	u := fmt.Sprintf("%s%s/%s", c.base(), stationsPath, url.PathEscape(string(id)))

	resp, err := c.get(u)
	if err != nil {
		return StationInfo{}, fmt.Errorf("station %s: %w", id, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return StationInfo{}, fmt.Errorf("station %s: unexpected status %s", id, resp.Status)
	}

	var feature struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"` // lon, lat
		} `json:"geometry"`
		Properties struct {
			Name string `json:"Name"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&feature); err != nil {
		return StationInfo{}, fmt.Errorf("station %s: %w", id, err)
	}

	info := StationInfo{ID: id, Name: feature.Properties.Name}
	if len(feature.Geometry.Coordinates) == 2 {
		info.Lon = feature.Geometry.Coordinates[0]
		info.Lat = feature.Geometry.Coordinates[1]
	}
	return info, nil
}

func (c *Client) get(u string) (*http.Response, error) {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(subscriptionKeyHeader, c.Key)
	return c.httpClient().Do(req)
}

func (c *Client) base() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultBaseURL
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return defaultHTTPClient
}
