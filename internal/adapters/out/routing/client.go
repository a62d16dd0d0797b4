// Package routing proxies route lookups to an OSRM-compatible provider,
// with a small TTL cache so repeated lookups of the same waypoints do
// not hit the provider again.
package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"ridehail/internal/core/domain/model/kernel"
)

const (
	// DefaultProviderURL is the public OSRM demo server.
	DefaultProviderURL = "https://router.project-osrm.org"

	defaultRequestTimeout = 5 * time.Second
	defaultCacheTTL       = 30 * time.Second
)

// Route is a single driving route between the requested waypoints.
type Route struct {
	DistanceKm      float64      `json:"distanceKm"`
	DurationMinutes float64      `json:"durationMinutes"`
	Geometry        [][2]float64 `json:"geometry"`
	FromCache       bool         `json:"fromCache"`
}

type cacheEntry struct {
	route     Route
	expiresAt time.Time
}

// Client fetches driving routes from an OSRM HTTP server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cacheTTL   time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewClient creates a routing client for the given provider base URL.
// An empty baseURL falls back to DefaultProviderURL.
func NewClient(baseURL string, cacheTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultProviderURL
	}
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
		cacheTTL:   cacheTTL,
		cache:      make(map[string]cacheEntry),
	}
}

// GetRoute fetches the driving route through the given waypoints.
// At least two waypoints are required.
func (c *Client) GetRoute(ctx context.Context, waypoints []kernel.GeoPoint) (Route, error) {
	if len(waypoints) < 2 {
		return Route{}, fmt.Errorf("route needs at least 2 waypoints, got %d", len(waypoints))
	}

	key := cacheKey(waypoints)

	c.mu.Lock()
	if entry, ok := c.cache[key]; ok && entry.expiresAt.After(time.Now()) {
		c.mu.Unlock()
		route := entry.route
		route.FromCache = true
		return route, nil
	}
	c.mu.Unlock()

	route, err := c.fetch(ctx, key)
	if err != nil {
		return Route{}, err
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{route: route, expiresAt: time.Now().Add(c.cacheTTL)}
	c.mu.Unlock()

	return route, nil
}

func (c *Client) fetch(ctx context.Context, coordinates string) (Route, error) {
	query := url.Values{}
	query.Set("alternatives", "false")
	query.Set("overview", "full")
	query.Set("geometries", "geojson")
	query.Set("steps", "false")

	endpoint := fmt.Sprintf("%s/route/v1/driving/%s?%s", c.baseURL, coordinates, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Route{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Route{}, fmt.Errorf("routing provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Route{}, fmt.Errorf("routing provider error: status %d", resp.StatusCode)
	}

	var payload struct {
		Code   string `json:"code"`
		Routes []struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
			Geometry struct {
				Coordinates [][2]float64 `json:"coordinates"`
			} `json:"geometry"`
		} `json:"routes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Route{}, fmt.Errorf("decode routing response: %w", err)
	}

	if payload.Code != "Ok" || len(payload.Routes) == 0 {
		return Route{}, fmt.Errorf("routing provider returned no routes: %s", payload.Code)
	}

	best := payload.Routes[0]
	return Route{
		DistanceKm:      best.Distance / 1000,
		DurationMinutes: best.Duration / 60,
		Geometry:        best.Geometry.Coordinates,
	}, nil
}

// EstimateRoute resolves the driving distance and duration between two
// points. Durations round to whole minutes, with a one minute floor so
// trivially short rides still price.
func (c *Client) EstimateRoute(ctx context.Context, pickup, dropoff kernel.GeoPoint) (float64, int, error) {
	route, err := c.GetRoute(ctx, []kernel.GeoPoint{pickup, dropoff})
	if err != nil {
		return 0, 0, err
	}

	durationMinutes := int(math.Round(route.DurationMinutes))
	if durationMinutes < 1 {
		durationMinutes = 1
	}

	return route.DistanceKm, durationMinutes, nil
}

// cacheKey renders waypoints as the OSRM coordinate path, which doubles
// as the cache key: lon,lat pairs rounded to six decimals.
func cacheKey(waypoints []kernel.GeoPoint) string {
	parts := make([]string, 0, len(waypoints))
	for _, point := range waypoints {
		parts = append(parts, fmt.Sprintf("%.6f,%.6f", point.Longitude(), point.Latitude()))
	}

	return strings.Join(parts, ";")
}
