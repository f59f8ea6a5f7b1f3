package models

import "time"

// Route is a user-defined origin/destination pair with a recurring check
// schedule. CheckTimes are local times of day ("HH:MM") interpreted in the
// owner's timezone; CheckDays are weekday indices with Sunday = 0.
type Route struct {
	ID                 string    `json:"id" db:"id"`
	UserID             string    `json:"user_id" db:"user_id"`
	Name               string    `json:"name" db:"name"`
	OriginAddress      string    `json:"origin_address" db:"origin_address"`
	DestinationAddress string    `json:"destination_address" db:"destination_address"`
	CheckTimes         []string  `json:"check_times" db:"check_times"`
	CheckDays          []int     `json:"check_days" db:"check_days"`
	IsActive           bool      `json:"is_active" db:"is_active"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time `json:"updated_at" db:"updated_at"`
}

// CreateRouteRequest defines the request body for creating a route.
type CreateRouteRequest struct {
	Name               string   `json:"name" validate:"required,min=1,max=100"`
	OriginAddress      string   `json:"origin_address" validate:"required,min=3"`
	DestinationAddress string   `json:"destination_address" validate:"required,min=3"`
	CheckTimes         []string `json:"check_times" validate:"required,min=1,dive,len=5"`
	CheckDays          []int    `json:"check_days" validate:"required,min=1,dive,gte=0,lte=6"`
}

// UpdateRouteRequest defines the request body for editing a route. All
// fields are optional; pointers distinguish "absent" from zero values (the
// is_active toggle in particular must be able to carry false).
type UpdateRouteRequest struct {
	Name               *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	OriginAddress      *string   `json:"origin_address,omitempty" validate:"omitempty,min=3"`
	DestinationAddress *string   `json:"destination_address,omitempty" validate:"omitempty,min=3"`
	CheckTimes         *[]string `json:"check_times,omitempty" validate:"omitempty,min=1,dive,len=5"`
	CheckDays          *[]int    `json:"check_days,omitempty" validate:"omitempty,min=1,dive,gte=0,lte=6"`
	IsActive           *bool     `json:"is_active,omitempty"`
}
