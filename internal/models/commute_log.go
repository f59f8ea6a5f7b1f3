package models

import "time"

// CommuteLog is one traffic sample for a route. CheckedAt is the absolute
// UTC instant of the tick; LocalDate and CheckSlot are derived from it in
// the owner's timezone and together with RouteID form the uniqueness key
// that makes the idempotency guarantee hold under concurrent ticks.
type CommuteLog struct {
	ID                       string    `json:"id" db:"id"`
	RouteID                  string    `json:"route_id" db:"route_id"`
	DurationMinutes          int       `json:"duration_minutes" db:"duration_minutes"`
	DurationInTrafficMinutes int       `json:"duration_in_traffic_minutes" db:"duration_in_traffic_minutes"`
	DayOfWeek                string    `json:"day_of_week" db:"day_of_week"`
	LocalDate                time.Time `json:"local_date" db:"local_date"`
	CheckSlot                string    `json:"check_slot" db:"check_slot"`
	CheckedAt                time.Time `json:"checked_at" db:"checked_at"`
}

// RouteHistory is a route's log list plus the summary numbers the history
// page renders.
type RouteHistory struct {
	Route *Route        `json:"route"`
	Logs  []*CommuteLog `json:"logs"`
	Stats *HistoryStats `json:"stats,omitempty"`
}

// HistoryStats aggregates duration-in-traffic minutes over a log set.
type HistoryStats struct {
	AvgMinutes int `json:"avg_minutes"`
	MinMinutes int `json:"min_minutes"`
	MaxMinutes int `json:"max_minutes"`
}
