package maps

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func directionsJSON(durationSec int, trafficSec *int) string {
	leg := `{"duration":{"value":` + strconv.Itoa(durationSec) + `}`
	if trafficSec != nil {
		leg += `,"duration_in_traffic":{"value":` + strconv.Itoa(*trafficSec) + `}`
	}
	leg += `}`
	return `{"status":"OK","routes":[{"legs":[` + leg + `]}]}`
}

func intPtr(v int) *int { return &v }

func TestDirections_RoundsSecondsToMinutes(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/maps/api/directions/json", r.URL.Path)
		q := r.URL.Query()
		gotQuery = map[string]string{
			"origin":         q.Get("origin"),
			"destination":    q.Get("destination"),
			"departure_time": q.Get("departure_time"),
			"key":            q.Get("key"),
		}
		w.Write([]byte(directionsJSON(2220, intPtr(2765))))
	}))
	defer srv.Close()

	client := NewClient("secret-key", WithBaseURL(srv.URL))
	departAt := time.Date(2024, time.January, 15, 16, 0, 0, 0, time.UTC)

	got, err := client.Directions(context.Background(), "Oakland, CA", "San Francisco, CA", departAt)
	require.NoError(t, err)
	require.Equal(t, 37, got.Minutes)          // 2220s
	require.Equal(t, 46, got.InTrafficMinutes) // 2765s rounds up

	require.Equal(t, "Oakland, CA", gotQuery["origin"])
	require.Equal(t, "San Francisco, CA", gotQuery["destination"])
	require.Equal(t, strconv.FormatInt(departAt.Unix(), 10), gotQuery["departure_time"])
	require.Equal(t, "secret-key", gotQuery["key"])
}

func TestDirections_TrafficFallsBackToFreeFlow(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(directionsJSON(1800, nil)))
	}))
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	got, err := client.Directions(context.Background(), "a", "b", time.Now())
	require.NoError(t, err)
	require.Equal(t, 30, got.Minutes)
	require.Equal(t, 30, got.InTrafficMinutes)
}

func TestDirections_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"NOT_FOUND","error_message":"origin unknown","routes":[]}`))
	}))
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	_, err := client.Directions(context.Background(), "nowhere", "b", time.Now())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, "NOT_FOUND", statusErr.Status)
	require.Equal(t, "origin unknown", statusErr.Message)
}

func TestDirections_OKWithoutRoutes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","routes":[]}`))
	}))
	defer srv.Close()

	client := NewClient("key", WithBaseURL(srv.URL))
	_, err := client.Directions(context.Background(), "a", "b", time.Now())

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, "ZERO_RESULTS", statusErr.Status)
}

func TestDirections_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	client := NewClient("key", WithBaseURL(srv.URL))
	_, err := client.Directions(context.Background(), "a", "b", time.Now())
	require.Error(t, err)

	var statusErr *StatusError
	require.False(t, errors.As(err, &statusErr))
}
