package routes

import (
	"context"
	"fmt"

	"commute-watch/internal/models"
)

// AccessChecker is the subscription collaborator: it reports whether a user
// may still have data collected, and starts the trial clock on first use.
type AccessChecker interface {
	Status(ctx context.Context, userID string) (*models.SubscriptionStatus, error)
	EnsureTrialStarted(ctx context.Context, userID string) error
}

// ServiceInterface defines the contract for the route service.
type ServiceInterface interface {
	CreateRoute(ctx context.Context, userID string, req models.CreateRouteRequest) (*models.Route, error)
	GetRoute(ctx context.Context, routeID, userID string) (*models.Route, error)
	ListRoutes(ctx context.Context, userID string) ([]*models.Route, error)
	UpdateRoute(ctx context.Context, routeID, userID string, req models.UpdateRouteRequest) (*models.Route, error)
	DeleteRoute(ctx context.Context, routeID, userID string) error
	DuplicateRoute(ctx context.Context, routeID, userID string) (*models.Route, error)
}

// Service implements the route business logic.
type Service struct {
	repo   RepositoryInterface
	access AccessChecker
}

// NewService creates a new route service.
func NewService(repo RepositoryInterface, access AccessChecker) *Service {
	return &Service{repo: repo, access: access}
}

// CreateRoute creates a route for the user. The first route a user creates
// starts their trial window; once the trial has lapsed without a lifetime
// purchase, new routes are refused.
func (s *Service) CreateRoute(ctx context.Context, userID string, req models.CreateRouteRequest) (*models.Route, error) {
	status, err := s.access.Status(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.CreateRoute: %w", err)
	}
	if status.TrialExpired && !status.HasLifetimeAccess {
		return nil, models.ErrTrialExpired
	}

	route, err := s.repo.Create(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("service.CreateRoute: %w", err)
	}

	if err := s.access.EnsureTrialStarted(ctx, userID); err != nil {
		// The route exists; a failed trial bookkeeping write must not undo it.
		return route, fmt.Errorf("service.CreateRoute: start trial: %w", err)
	}
	return route, nil
}

// GetRoute retrieves a single route, enforcing ownership.
func (s *Service) GetRoute(ctx context.Context, routeID, userID string) (*models.Route, error) {
	route, err := s.repo.FindByID(ctx, routeID)
	if err != nil {
		return nil, fmt.Errorf("service.GetRoute: %w", err)
	}
	if route.UserID != userID {
		return nil, models.ErrNotFound // avoid leaking other users' route ids
	}
	return route, nil
}

// ListRoutes retrieves all of a user's routes.
func (s *Service) ListRoutes(ctx context.Context, userID string) ([]*models.Route, error) {
	list, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service.ListRoutes: %w", err)
	}
	return list, nil
}

// UpdateRoute edits a route's name, addresses, schedule or active flag.
func (s *Service) UpdateRoute(ctx context.Context, routeID, userID string, req models.UpdateRouteRequest) (*models.Route, error) {
	route, err := s.repo.Update(ctx, routeID, userID, req)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateRoute: %w", err)
	}
	return route, nil
}

// DeleteRoute removes a route and, via the schema, its commute logs.
func (s *Service) DeleteRoute(ctx context.Context, routeID, userID string) error {
	return s.repo.Delete(ctx, routeID, userID)
}

// DuplicateRoute copies an existing route under "<name> (Copy)", active.
func (s *Service) DuplicateRoute(ctx context.Context, routeID, userID string) (*models.Route, error) {
	src, err := s.GetRoute(ctx, routeID, userID)
	if err != nil {
		return nil, err
	}

	copyReq := models.CreateRouteRequest{
		Name:               src.Name + " (Copy)",
		OriginAddress:      src.OriginAddress,
		DestinationAddress: src.DestinationAddress,
		CheckTimes:         src.CheckTimes,
		CheckDays:          src.CheckDays,
	}
	dup, err := s.repo.Create(ctx, userID, copyReq)
	if err != nil {
		return nil, fmt.Errorf("service.DuplicateRoute: %w", err)
	}
	return dup, nil
}
