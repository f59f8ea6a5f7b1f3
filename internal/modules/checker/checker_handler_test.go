package checker

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func runChecksRequest(t *testing.T, h *Handler, token string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/internal/checks/run", nil)
	if token != "" {
		req.Header.Set("X-Cron-Token", token)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h.RunChecks(e.NewContext(req, rec)))
	return rec
}

func TestRunChecks_TokenGuard(t *testing.T) {
	s := newTestService(t, &fakeRoutes{}, &fakeSettings{}, &fakeLogs{}, &fakeDirections{}, mondayMorning(t))
	h := NewHandler(s, "cron-secret")

	t.Run("valid token", func(t *testing.T) {
		rec := runChecksRequest(t, h, "cron-secret")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"message":"No active routes","checked":0,"results":[]}`, rec.Body.String())
	})

	t.Run("wrong token", func(t *testing.T) {
		rec := runChecksRequest(t, h, "guess")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := runChecksRequest(t, h, "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRunChecks_UnconfiguredTokenAlwaysRefuses(t *testing.T) {
	s := newTestService(t, &fakeRoutes{}, &fakeSettings{}, &fakeLogs{}, &fakeDirections{}, mondayMorning(t))
	h := NewHandler(s, "")

	rec := runChecksRequest(t, h, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
