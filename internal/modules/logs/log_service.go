package logs

import (
	"context"
	"fmt"
	"math"

	"commute-watch/internal/models"
)

// RouteSource is the slice of the route module the history service needs to
// enforce ownership.
type RouteSource interface {
	GetRoute(ctx context.Context, routeID, userID string) (*models.Route, error)
}

// ServiceInterface defines the contract for the history service.
type ServiceInterface interface {
	RouteHistory(ctx context.Context, routeID, userID string) (*models.RouteHistory, error)
}

// Service implements the history reads.
type Service struct {
	repo   RepositoryInterface
	routes RouteSource
}

// NewService creates a new history service.
func NewService(repo RepositoryInterface, routes RouteSource) *Service {
	return &Service{repo: repo, routes: routes}
}

// RouteHistory returns a route's logs oldest-first with aggregate stats over
// the traffic-aware minutes.
func (s *Service) RouteHistory(ctx context.Context, routeID, userID string) (*models.RouteHistory, error) {
	route, err := s.routes.GetRoute(ctx, routeID, userID)
	if err != nil {
		return nil, err
	}

	list, err := s.repo.ListByRouteID(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("service.RouteHistory: %w", err)
	}
	if list == nil {
		list = []*models.CommuteLog{}
	}

	return &models.RouteHistory{
		Route: route,
		Logs:  list,
		Stats: computeStats(list),
	}, nil
}

func computeStats(list []*models.CommuteLog) *models.HistoryStats {
	if len(list) == 0 {
		return nil
	}

	sum := 0
	minMin := math.MaxInt
	maxMin := 0
	for _, l := range list {
		m := l.DurationInTrafficMinutes
		sum += m
		if m < minMin {
			minMin = m
		}
		if m > maxMin {
			maxMin = m
		}
	}

	return &models.HistoryStats{
		AvgMinutes: int(math.Round(float64(sum) / float64(len(list)))),
		MinMinutes: minMin,
		MaxMinutes: maxMin,
	}
}
