package logs

import (
	"errors"
	"net/http"

	"commute-watch/internal/models"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service ServiceInterface
}

// NewHandler creates a new history handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetRouteHistory(c echo.Context) error {
	uid, _ := c.Get("userID").(string)

	history, err := h.service.RouteHistory(c.Request().Context(), c.Param("routeId"), uid)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Route not found"})
		}
		c.Logger().Error("Handler.GetRouteHistory: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load route history"})
	}
	return c.JSON(http.StatusOK, history)
}
