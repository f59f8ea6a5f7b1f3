package settings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"commute-watch/internal/models"
)

// ServiceInterface defines the contract for the settings service.
type ServiceInterface interface {
	GetSettings(ctx context.Context, userID string) (*models.UserSettings, error)
	SaveSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.UserSettings, error)
	Status(ctx context.Context, userID string) (*models.SubscriptionStatus, error)
	EnsureTrialStarted(ctx context.Context, userID string) error
}

// Service implements the settings business logic. now is injectable for
// tests and defaults to time.Now.
type Service struct {
	repo RepositoryInterface
	now  func() time.Time
}

// NewService creates a new settings service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo, now: time.Now}
}

// GetSettings returns the stored settings, or defaults when the user has
// never saved any.
func (s *Service) GetSettings(ctx context.Context, userID string) (*models.UserSettings, error) {
	stored, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.UserSettings{UserID: userID, Timezone: models.DefaultTimezone}, nil
		}
		return nil, fmt.Errorf("service.GetSettings: %w", err)
	}
	if stored.Timezone == "" {
		stored.Timezone = models.DefaultTimezone
	}
	return stored, nil
}

// SaveSettings upserts the user's timezone. The timezone is verified against
// the IANA database before it is stored, so the checker never has to handle
// an unloadable location for a saved value.
func (s *Service) SaveSettings(ctx context.Context, userID string, req models.UpdateSettingsRequest) (*models.UserSettings, error) {
	if _, err := time.LoadLocation(req.Timezone); err != nil {
		return nil, fmt.Errorf("service.SaveSettings: %w: %s", models.ErrInvalidTimezone, req.Timezone)
	}
	stored, err := s.repo.UpsertTimezone(ctx, userID, req.Timezone)
	if err != nil {
		return nil, fmt.Errorf("service.SaveSettings: %w", err)
	}
	return stored, nil
}

// Status computes the paywall view of a user's access: lifetime flag, trial
// start, whether the 24 h window has lapsed, and how many hours remain. A
// user with no settings row has never started a trial and is not expired.
func (s *Service) Status(ctx context.Context, userID string) (*models.SubscriptionStatus, error) {
	stored, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.SubscriptionStatus{TrialHoursRemaining: models.TrialDuration.Hours()}, nil
		}
		return nil, fmt.Errorf("service.Status: %w", err)
	}

	status := &models.SubscriptionStatus{
		HasLifetimeAccess: stored.HasLifetimeAccess,
		TrialStartedAt:    stored.TrialStartedAt,
	}
	if stored.TrialStartedAt == nil {
		status.TrialHoursRemaining = models.TrialDuration.Hours()
		return status, nil
	}

	trialEnd := stored.TrialStartedAt.Add(models.TrialDuration)
	now := s.now()
	if now.After(trialEnd) {
		status.TrialExpired = true
		return status, nil
	}
	status.TrialHoursRemaining = trialEnd.Sub(now).Hours()
	return status, nil
}

// EnsureTrialStarted starts the trial clock if it has not started yet.
// Called on first route creation.
func (s *Service) EnsureTrialStarted(ctx context.Context, userID string) error {
	return s.repo.StartTrialIfUnset(ctx, userID)
}
