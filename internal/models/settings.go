package models

import "time"

// DefaultTimezone is used whenever a user has no settings row or an empty
// timezone. It matches the fallback the dashboard assumes.
const DefaultTimezone = "America/Los_Angeles"

// TrialDuration is the window during which routes are checked without a
// lifetime purchase, measured from the user's first route creation.
const TrialDuration = 24 * time.Hour

// UserSettings holds per-user preferences and subscription state. A row is
// created lazily on first route creation or first settings save. The checker
// reads it once per route per tick and never writes it.
type UserSettings struct {
	UserID            string     `json:"user_id" db:"user_id"`
	Timezone          string     `json:"timezone" db:"timezone"`
	TrialStartedAt    *time.Time `json:"trial_started_at" db:"trial_started_at"`
	HasLifetimeAccess bool       `json:"has_lifetime_access" db:"has_lifetime_access"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// UpdateSettingsRequest defines the request body for saving settings.
type UpdateSettingsRequest struct {
	Timezone string `json:"timezone" validate:"required,timezone"`
}

// SubscriptionStatus is the read-only access summary shown by the dashboard
// paywall.
type SubscriptionStatus struct {
	HasLifetimeAccess   bool       `json:"has_lifetime_access"`
	TrialStartedAt      *time.Time `json:"trial_started_at"`
	TrialExpired        bool       `json:"trial_expired"`
	TrialHoursRemaining float64    `json:"trial_hours_remaining"`
}
