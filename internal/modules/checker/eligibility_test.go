package checker

import (
	"testing"
	"time"

	"commute-watch/internal/models"

	"github.com/stretchr/testify/require"
)

// mustUTC builds the UTC instant corresponding to a local wall-clock time
// in the given IANA zone.
func mustUTC(t *testing.T, tz string, y int, m time.Month, d, hh, mm int) time.Time {
	t.Helper()
	loc, err := time.LoadLocation(tz)
	require.NoError(t, err)
	return time.Date(y, m, d, hh, mm, 0, 0, loc).UTC()
}

func weekdayRoute() *models.Route {
	return &models.Route{
		ID:                 "route-1",
		UserID:             "user-1",
		Name:               "Home to office",
		OriginAddress:      "1 Main St, Oakland, CA",
		DestinationAddress: "100 Market St, San Francisco, CA",
		CheckTimes:         []string{"08:00"},
		CheckDays:          []int{1, 2, 3, 4, 5}, // Mon-Fri
		IsActive:           true,
	}
}

func laSettings(trialStart *time.Time, lifetime bool) *models.UserSettings {
	return &models.UserSettings{
		UserID:            "user-1",
		Timezone:          "America/Los_Angeles",
		TrialStartedAt:    trialStart,
		HasLifetimeAccess: lifetime,
	}
}

func TestEvaluate_MatchesExactMinute(t *testing.T) {
	route := weekdayRoute()
	// 2024-01-15 is a Monday.
	now := mustUTC(t, "America/Los_Angeles", 2024, time.January, 15, 8, 0)

	slot, skip := evaluate(route, laSettings(nil, false), now)
	require.Equal(t, SkipNone, skip)
	require.NotNil(t, slot)
	require.Equal(t, "08:00", slot.MatchedTime)
	require.Equal(t, "Monday", slot.DayName)

	// Day bounds cover the owner's local calendar day.
	require.Equal(t, mustUTC(t, "America/Los_Angeles", 2024, time.January, 15, 0, 0), slot.DayStart.UTC())
	require.Equal(t, mustUTC(t, "America/Los_Angeles", 2024, time.January, 15, 23, 59), slot.DayEnd.UTC().Truncate(time.Minute))
}

func TestEvaluate_OffByOneMinuteDoesNotMatch(t *testing.T) {
	route := weekdayRoute()

	for _, minute := range []int{59, 1} {
		hour := 8
		if minute == 59 {
			hour = 7
		}
		now := mustUTC(t, "America/Los_Angeles", 2024, time.January, 15, hour, minute)
		slot, skip := evaluate(route, laSettings(nil, false), now)
		require.Nil(t, slot)
		require.Equal(t, SkipNotCheckTime, skip)
	}
}

func TestEvaluate_SkipsNonCheckDay(t *testing.T) {
	route := weekdayRoute()
	// 2024-01-13 is a Saturday; 08:00 Pacific matches the time but not the day.
	now := mustUTC(t, "America/Los_Angeles", 2024, time.January, 13, 8, 0)

	slot, skip := evaluate(route, laSettings(nil, false), now)
	require.Nil(t, slot)
	require.Equal(t, SkipNotCheckDay, skip)
}

func TestEvaluate_WeekdayComputedInOwnerTimezone(t *testing.T) {
	// 2024-01-16 02:00 UTC is still Monday 18:00 in Los Angeles.
	route := weekdayRoute()
	route.CheckTimes = []string{"18:00"}
	now := time.Date(2024, time.January, 16, 2, 0, 0, 0, time.UTC)

	slot, skip := evaluate(route, laSettings(nil, false), now)
	require.Equal(t, SkipNone, skip)
	require.Equal(t, "Monday", slot.DayName)
}

func TestEvaluate_TrialGating(t *testing.T) {
	route := weekdayRoute()
	now := mustUTC(t, "America/Los_Angeles", 2024, time.January, 15, 8, 0)

	tests := []struct {
		name     string
		settings *models.UserSettings
		want     SkipReason
	}{
		{"no settings row", nil, SkipNone},
		{"no trial started, no access", laSettings(nil, false), SkipNone},
		{"within trial", laSettings(timePtr(now.Add(-23*time.Hour)), false), SkipNone},
		{"at trial end exactly", laSettings(timePtr(now.Add(-models.TrialDuration)), false), SkipNone},
		{"past trial end", laSettings(timePtr(now.Add(-models.TrialDuration-time.Second)), false), SkipTrialExpired},
		{"past trial end with lifetime access", laSettings(timePtr(now.Add(-48*time.Hour)), true), SkipNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, skip := evaluate(route, tt.settings, now)
			require.Equal(t, tt.want, skip)
		})
	}
}

func TestEvaluate_DefaultTimezoneWhenUnset(t *testing.T) {
	route := weekdayRoute()
	now := mustUTC(t, models.DefaultTimezone, 2024, time.January, 15, 8, 0)

	// Empty timezone falls back to the default, as does a nil settings row.
	settings := laSettings(nil, false)
	settings.Timezone = ""
	slot, skip := evaluate(route, settings, now)
	require.Equal(t, SkipNone, skip)
	require.Equal(t, "08:00", slot.MatchedTime)
}

func TestEvaluate_UnknownTimezoneFallsBack(t *testing.T) {
	route := weekdayRoute()
	settings := laSettings(nil, false)
	settings.Timezone = "Mars/Olympus_Mons"
	now := mustUTC(t, models.DefaultTimezone, 2024, time.January, 15, 8, 0)

	slot, skip := evaluate(route, settings, now)
	require.Equal(t, SkipNone, skip)
	require.NotNil(t, slot)
}

func TestNormalizeClockTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"08:00", "08:00", true},
		{"8:00", "08:00", true},
		{"08:05:00", "08:05", true},
		{" 17:30 ", "17:30", true},
		{"24:00", "", false},
		{"08:60", "", false},
		{"eight", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeClockTime(tt.in)
		require.Equal(t, tt.ok, ok, "input %q", tt.in)
		require.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestAlreadyLogged(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)

	slot := &Slot{Location: loc, MatchedTime: "08:00"}
	at0800 := mustUTC(t, "America/Los_Angeles", 2024, time.January, 15, 8, 0)
	at0830 := mustUTC(t, "America/Los_Angeles", 2024, time.January, 15, 8, 30)

	require.True(t, alreadyLogged([]*models.CommuteLog{{CheckedAt: at0800}}, slot))
	require.False(t, alreadyLogged([]*models.CommuteLog{{CheckedAt: at0830}}, slot))
	require.False(t, alreadyLogged(nil, slot))
}

func timePtr(t time.Time) *time.Time { return &t }
