package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com"

// TravelDurations is the normalized result of a Directions lookup. Traffic
// minutes fall back to the free-flow value when the provider omits
// duration_in_traffic.
type TravelDurations struct {
	Minutes          int
	InTrafficMinutes int
}

// StatusError is returned when the Directions API answers with a non-OK
// status (NOT_FOUND, ZERO_RESULTS, OVER_QUERY_LIMIT, ...). The transport
// succeeded; the provider rejected the query.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("maps: %s: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("maps: %s", e.Status)
}

// Client calls the Google Maps web services. The limiter bounds request
// rate across all callers sharing the client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL points the client at a different host. Tests use it with
// httptest servers.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit caps requests per second.
func WithRateLimit(perSecond int) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), perSecond)
		}
	}
}

// NewClient creates a Directions/Places client for the given API key.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// directionsResponse is the subset of the Directions API response the
// checker cares about.
type directionsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Routes       []struct {
		Legs []struct {
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
			DurationInTraffic *struct {
				Value int `json:"value"` // seconds
			} `json:"duration_in_traffic"`
		} `json:"legs"`
	} `json:"routes"`
}

// Directions asks the provider for the current travel time between two
// addresses, departing at departAt, and returns whole-minute durations.
func (c *Client) Directions(ctx context.Context, origin, destination string, departAt time.Time) (*TravelDurations, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("maps: rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("origin", origin)
	q.Set("destination", destination)
	q.Set("departure_time", strconv.FormatInt(departAt.Unix(), 10))
	q.Set("key", c.apiKey)

	reqURL := c.baseURL + "/maps/api/directions/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("maps: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("maps: call directions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("maps: read body: %w", err)
	}

	var directions directionsResponse
	if err := json.Unmarshal(body, &directions); err != nil {
		return nil, fmt.Errorf("maps: unmarshal: %w", err)
	}

	if directions.Status != "OK" {
		return nil, &StatusError{Status: directions.Status, Message: directions.ErrorMessage}
	}
	if len(directions.Routes) == 0 || len(directions.Routes[0].Legs) == 0 {
		return nil, &StatusError{Status: "ZERO_RESULTS", Message: "no route returned"}
	}

	leg := directions.Routes[0].Legs[0]
	seconds := leg.Duration.Value
	trafficSeconds := seconds
	if leg.DurationInTraffic != nil {
		trafficSeconds = leg.DurationInTraffic.Value
	}

	return &TravelDurations{
		Minutes:          roundToMinutes(seconds),
		InTrafficMinutes: roundToMinutes(trafficSeconds),
	}, nil
}

func roundToMinutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60.0))
}
