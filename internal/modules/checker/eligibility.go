package checker

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"commute-watch/internal/models"
)

// SkipReason says why a route was not checked on this tick.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipTrialExpired
	SkipNotCheckDay
	SkipNotCheckTime
)

func (r SkipReason) String() string {
	switch r {
	case SkipTrialExpired:
		return "trial expired"
	case SkipNotCheckDay:
		return "not a check day"
	case SkipNotCheckTime:
		return "not a check time"
	default:
		return "none"
	}
}

// Slot describes the check occurrence a route matched on this tick: which
// configured time matched, in which timezone, and the bounds of the owner's
// local calendar day expressed as absolute instants for the duplicate scan.
type Slot struct {
	Location    *time.Location
	MatchedTime string // normalized "HH:MM"
	DayName     string // local weekday name, e.g. "Monday"
	LocalDate   time.Time
	DayStart    time.Time
	DayEnd      time.Time
}

// evaluate runs the access, day and time gates for one route. It is pure:
// all inputs are passed in, nothing is fetched or written, which keeps the
// gating logic testable without storage or HTTP. settings may be nil (user
// has no settings row yet): the route is then eligible under the default
// timezone. A non-nil Slot means the route should be checked now, pending
// the duplicate scan against existing logs.
func evaluate(route *models.Route, settings *models.UserSettings, now time.Time) (*Slot, SkipReason) {
	timezone := models.DefaultTimezone
	if settings != nil {
		if settings.Timezone != "" {
			timezone = settings.Timezone
		}

		// Lifetime access always passes; an expired trial without it blocks
		// the route for this tick. A user with no trial record has not
		// created a route yet and is implicitly within the allowance.
		if !settings.HasLifetimeAccess && settings.TrialStartedAt != nil {
			trialEnd := settings.TrialStartedAt.Add(models.TrialDuration)
			if now.After(trialEnd) {
				return nil, SkipTrialExpired
			}
		}
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		loc, err = time.LoadLocation(models.DefaultTimezone)
		if err != nil {
			loc = time.UTC
		}
	}

	local := now.In(loc)
	weekday := int(local.Weekday()) // Sunday = 0

	if !containsDay(route.CheckDays, weekday) {
		return nil, SkipNotCheckDay
	}

	current := local.Format("15:04")
	matched := ""
	for _, checkTime := range route.CheckTimes {
		normalized, ok := normalizeClockTime(checkTime)
		if !ok {
			continue
		}
		if normalized == current {
			matched = normalized
			break
		}
	}
	if matched == "" {
		return nil, SkipNotCheckTime
	}

	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return &Slot{
		Location:    loc,
		MatchedTime: matched,
		DayName:     local.Weekday().String(),
		LocalDate:   time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		DayStart:    dayStart,
		DayEnd:      dayStart.Add(24*time.Hour - time.Second),
	}, SkipNone
}

// alreadyLogged reports whether any existing log, viewed in the slot's
// timezone, occupies the matched check time. This is the read half of the
// idempotency gate; the unique index on the logs table is the write half.
func alreadyLogged(existing []*models.CommuteLog, slot *Slot) bool {
	for _, l := range existing {
		if l.CheckedAt.In(slot.Location).Format("15:04") == slot.MatchedTime {
			return true
		}
	}
	return false
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

// normalizeClockTime turns "8:05", "08:05" or "08:05:00" into zero-padded
// "HH:MM". Malformed entries are skipped rather than failing the route.
func normalizeClockTime(s string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 {
		return "", false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", false
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}
