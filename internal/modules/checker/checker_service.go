package checker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commute-watch/internal/models"
	"commute-watch/pkg/maps"

	"github.com/rs/zerolog"
)

// RouteSource lists the routes to fan out over at the start of a tick.
type RouteSource interface {
	ListActive(ctx context.Context) ([]*models.Route, error)
}

// SettingsSource loads one owner's settings; models.ErrNotFound means the
// user has never saved settings or created a route.
type SettingsSource interface {
	FindByUserID(ctx context.Context, userID string) (*models.UserSettings, error)
}

// LogStore is the checker's view of commute log storage.
type LogStore interface {
	Insert(ctx context.Context, log *models.CommuteLog) error
	ListByRouteBetween(ctx context.Context, routeID string, from, to time.Time) ([]*models.CommuteLog, error)
}

// DirectionsProvider fetches live travel durations.
type DirectionsProvider interface {
	Directions(ctx context.Context, origin, destination string, departAt time.Time) (*maps.TravelDurations, error)
}

// Service is the commute-check dispatcher. One RunCheckCycle call is one
// tick: it decides per route whether a check is due, fetches traffic for the
// due ones, persists results and reports per-route outcomes. Routes are
// processed sequentially; one route's failure never aborts the rest.
type Service struct {
	apiKey     string
	routes     RouteSource
	settings   SettingsSource
	logs       LogStore
	directions DirectionsProvider
	log        zerolog.Logger
	now        func() time.Time
}

// NewService creates the dispatcher. apiKey is the Directions key; an empty
// key fails every tick up front since no route could succeed.
func NewService(apiKey string, routes RouteSource, settings SettingsSource, logs LogStore, directions DirectionsProvider, log zerolog.Logger) *Service {
	return &Service{
		apiKey:     apiKey,
		routes:     routes,
		settings:   settings,
		logs:       logs,
		directions: directions,
		log:        log,
		now:        time.Now,
	}
}

// RunCheckCycle evaluates every active route once against the current
// instant and returns the aggregate summary. Only a missing API key or a
// failed route listing abort the cycle; everything else is contained in the
// per-route results.
func (s *Service) RunCheckCycle(ctx context.Context) (*models.CheckSummary, error) {
	now := s.now().UTC()
	s.log.Info().Time("now", now).Msg("commute check starting")

	if s.apiKey == "" {
		return nil, errors.New("checker: Google Maps API key not configured")
	}

	routes, err := s.routes.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("checker: list active routes: %w", err)
	}
	if len(routes) == 0 {
		s.log.Info().Msg("no active routes")
		return &models.CheckSummary{Message: "No active routes", Checked: 0, Results: []models.RouteCheckResult{}}, nil
	}

	summary := &models.CheckSummary{
		Message: "Commute check complete",
		Results: []models.RouteCheckResult{},
	}
	for _, route := range routes {
		result, checked := s.checkRoute(ctx, route, now)
		if checked {
			summary.Checked++
		}
		if result != nil {
			summary.Results = append(summary.Results, *result)
		}
	}

	s.log.Info().Int("checked", summary.Checked).Int("routes", len(routes)).Msg("commute check complete")
	return summary, nil
}

// checkRoute runs every gate and, when due, the fetch and insert for one
// route. The returned result is nil for silent skips (wrong day, wrong
// minute, already logged); checked is true only after a successful insert.
func (s *Service) checkRoute(ctx context.Context, route *models.Route, now time.Time) (result *models.RouteCheckResult, checked bool) {
	log := s.log.With().Str("route_id", route.ID).Logger()

	settings, err := s.settings.FindByUserID(ctx, route.UserID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			// Settings are advisory for gating; fall back to defaults rather
			// than failing the route.
			log.Warn().Err(err).Msg("settings lookup failed, using defaults")
		}
		settings = nil
	}

	slot, skip := evaluate(route, settings, now)
	if skip != SkipNone {
		if skip == SkipTrialExpired {
			log.Info().Msg("skipping, user trial expired and not paid")
			return &models.RouteCheckResult{RouteID: route.ID, Success: false, Message: "Trial expired"}, false
		}
		log.Debug().Stringer("reason", skip).Msg("skipping")
		return nil, false
	}

	log = log.With().Str("slot", slot.MatchedTime).Logger()

	existing, err := s.logs.ListByRouteBetween(ctx, route.ID, slot.DayStart.UTC(), slot.DayEnd.UTC())
	if err != nil {
		// The unique index still guards the insert; continue on a failed
		// pre-check rather than losing the slot.
		log.Warn().Err(err).Msg("duplicate pre-check failed")
	} else if alreadyLogged(existing, slot) {
		log.Debug().Msg("skipping, already checked this slot today")
		return nil, false
	}

	log.Info().
		Str("origin", route.OriginAddress).
		Str("destination", route.DestinationAddress).
		Msg("checking commute")

	durations, err := s.directions.Directions(ctx, route.OriginAddress, route.DestinationAddress, now)
	if err != nil {
		var statusErr *maps.StatusError
		if errors.As(err, &statusErr) {
			log.Error().Str("status", statusErr.Status).Str("detail", statusErr.Message).Msg("directions API error")
			return &models.RouteCheckResult{RouteID: route.ID, Success: false, Message: "Maps API: " + statusErr.Status}, false
		}
		log.Error().Err(err).Msg("directions call failed")
		return &models.RouteCheckResult{RouteID: route.ID, Success: false, Message: "API call failed"}, false
	}

	entry := &models.CommuteLog{
		RouteID:                  route.ID,
		DurationMinutes:          durations.Minutes,
		DurationInTrafficMinutes: durations.InTrafficMinutes,
		DayOfWeek:                slot.DayName,
		LocalDate:                slot.LocalDate,
		CheckSlot:                slot.MatchedTime,
		CheckedAt:                now,
	}
	if err := s.logs.Insert(ctx, entry); err != nil {
		if errors.Is(err, models.ErrAlreadyLogged) {
			// Lost the race to a concurrent tick; the invariant held.
			log.Debug().Msg("slot already logged by a concurrent tick")
			return nil, false
		}
		log.Error().Err(err).Msg("insert failed")
		return &models.RouteCheckResult{RouteID: route.ID, Success: false, Message: "Insert failed"}, false
	}

	log.Info().
		Int("duration_min", durations.Minutes).
		Int("in_traffic_min", durations.InTrafficMinutes).
		Msg("logged")
	return &models.RouteCheckResult{
		RouteID: route.ID,
		Success: true,
		Message: fmt.Sprintf("%dmin", durations.InTrafficMinutes),
	}, true
}
