package logs

import (
	"context"
	"testing"
	"time"

	"commute-watch/internal/models"

	"github.com/stretchr/testify/require"
)

type fakeLogRepo struct {
	logs []*models.CommuteLog
}

func (f *fakeLogRepo) Insert(ctx context.Context, log *models.CommuteLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func (f *fakeLogRepo) ListByRouteBetween(ctx context.Context, routeID string, from, to time.Time) ([]*models.CommuteLog, error) {
	return nil, nil
}

func (f *fakeLogRepo) ListByRouteID(ctx context.Context, routeID string) ([]*models.CommuteLog, error) {
	var out []*models.CommuteLog
	for _, l := range f.logs {
		if l.RouteID == routeID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeRouteSource struct {
	route *models.Route
}

func (f *fakeRouteSource) GetRoute(ctx context.Context, routeID, userID string) (*models.Route, error) {
	if f.route == nil || f.route.ID != routeID || f.route.UserID != userID {
		return nil, models.ErrNotFound
	}
	return f.route, nil
}

func trafficLog(routeID string, trafficMin int) *models.CommuteLog {
	return &models.CommuteLog{
		RouteID:                  routeID,
		DurationMinutes:          trafficMin - 5,
		DurationInTrafficMinutes: trafficMin,
	}
}

func TestRouteHistory_ComputesStatsOverTrafficMinutes(t *testing.T) {
	repo := &fakeLogRepo{logs: []*models.CommuteLog{
		trafficLog("route-1", 40),
		trafficLog("route-1", 46),
		trafficLog("route-1", 55),
		trafficLog("route-2", 999), // other route, excluded
	}}
	routes := &fakeRouteSource{route: &models.Route{ID: "route-1", UserID: "user-1"}}
	s := NewService(repo, routes)

	got, err := s.RouteHistory(context.Background(), "route-1", "user-1")
	require.NoError(t, err)
	require.Len(t, got.Logs, 3)
	require.NotNil(t, got.Stats)
	require.Equal(t, 47, got.Stats.AvgMinutes) // (40+46+55)/3 = 47
	require.Equal(t, 40, got.Stats.MinMinutes)
	require.Equal(t, 55, got.Stats.MaxMinutes)
}

func TestRouteHistory_EmptyRouteHasNoStats(t *testing.T) {
	routes := &fakeRouteSource{route: &models.Route{ID: "route-1", UserID: "user-1"}}
	s := NewService(&fakeLogRepo{}, routes)

	got, err := s.RouteHistory(context.Background(), "route-1", "user-1")
	require.NoError(t, err)
	require.Empty(t, got.Logs)
	require.Nil(t, got.Stats)
}

func TestRouteHistory_EnforcesOwnership(t *testing.T) {
	repo := &fakeLogRepo{logs: []*models.CommuteLog{trafficLog("route-1", 40)}}
	routes := &fakeRouteSource{route: &models.Route{ID: "route-1", UserID: "owner"}}
	s := NewService(repo, routes)

	_, err := s.RouteHistory(context.Background(), "route-1", "intruder")
	require.ErrorIs(t, err, models.ErrNotFound)
}
