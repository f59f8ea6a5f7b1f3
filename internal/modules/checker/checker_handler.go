package checker

import (
	"crypto/subtle"
	"net/http"

	"commute-watch/internal/models"

	"github.com/labstack/echo/v4"
)

// Handler exposes the "run a check cycle now" operation for an external
// scheduler hitting the service over HTTP.
type Handler struct {
	service   *Service
	cronToken string
}

// NewHandler creates a new checker handler. cronToken guards the endpoint;
// with an empty token the endpoint always refuses.
func NewHandler(service *Service, cronToken string) *Handler {
	return &Handler{service: service, cronToken: cronToken}
}

// RunChecks handles POST /internal/checks/run.
func (h *Handler) RunChecks(c echo.Context) error {
	token := c.Request().Header.Get("X-Cron-Token")
	if h.cronToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.cronToken)) != 1 {
		return c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Invalid cron token"})
	}

	summary, err := h.service.RunCheckCycle(c.Request().Context())
	if err != nil {
		c.Logger().Error("Handler.RunChecks: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Commute check failed"})
	}
	return c.JSON(http.StatusOK, summary)
}
