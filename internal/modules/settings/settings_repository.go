package settings

import (
	"context"
	"errors"
	"fmt"

	"commute-watch/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const settingsColumns = "user_id, timezone, trial_started_at, has_lifetime_access, created_at, updated_at"

// RepositoryInterface defines the contract for the settings repository.
type RepositoryInterface interface {
	FindByUserID(ctx context.Context, userID string) (*models.UserSettings, error)
	UpsertTimezone(ctx context.Context, userID, timezone string) (*models.UserSettings, error)
	StartTrialIfUnset(ctx context.Context, userID string) error
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new settings repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

func scanSettings(row pgx.Row) (*models.UserSettings, error) {
	var s models.UserSettings
	err := row.Scan(
		&s.UserID,
		&s.Timezone,
		&s.TrialStartedAt,
		&s.HasLifetimeAccess,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}
	return &s, nil
}

// FindByUserID retrieves a user's settings. Returns models.ErrNotFound when
// the user has never saved settings or created a route.
func (r *Repository) FindByUserID(ctx context.Context, userID string) (*models.UserSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM user_settings WHERE user_id = $1`

	s, err := scanSettings(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("repository.FindByUserID: %w", err)
	}
	return s, nil
}

// UpsertTimezone saves the user's timezone, creating the settings row if it
// does not exist yet.
func (r *Repository) UpsertTimezone(ctx context.Context, userID, timezone string) (*models.UserSettings, error) {
	query := `
		INSERT INTO user_settings (user_id, timezone)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET timezone = EXCLUDED.timezone, updated_at = NOW()
		RETURNING ` + settingsColumns

	s, err := scanSettings(r.db.QueryRow(ctx, query, userID, timezone))
	if err != nil {
		return nil, fmt.Errorf("repository.UpsertTimezone: %w", err)
	}
	return s, nil
}

// StartTrialIfUnset stamps trial_started_at = NOW() once, creating the
// settings row if needed. Subsequent calls are no-ops, so the trial clock
// never restarts.
func (r *Repository) StartTrialIfUnset(ctx context.Context, userID string) error {
	query := `
		INSERT INTO user_settings (user_id, trial_started_at)
		VALUES ($1, NOW())
		ON CONFLICT (user_id) DO UPDATE SET trial_started_at = NOW(), updated_at = NOW()
		WHERE user_settings.trial_started_at IS NULL`

	if _, err := r.db.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("repository.StartTrialIfUnset: %w", err)
	}
	return nil
}
