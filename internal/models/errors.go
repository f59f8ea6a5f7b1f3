package models

import "errors"

var (
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a resource already exists, e.g. a user
	// signing up with an email that is already registered.
	ErrConflict = errors.New("resource already exists")

	// ErrInvalidCredentials is returned when a login attempt fails.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrTrialExpired is returned when a user whose trial window has lapsed
	// and who has no lifetime access tries to create a new route.
	ErrTrialExpired = errors.New("trial expired")

	// ErrInvalidTimezone is returned when a settings save carries a timezone
	// the IANA database does not know.
	ErrInvalidTimezone = errors.New("unknown timezone")

	// ErrAlreadyLogged is returned by the log repository when an insert hits
	// the (route, local date, check slot) uniqueness constraint. The checker
	// treats it as a duplicate-tick skip, not a failure.
	ErrAlreadyLogged = errors.New("commute already logged for this slot")
)

// ErrorResponse is the shape of every error body returned by the API.
type ErrorResponse struct {
	Message string `json:"message"`
}
