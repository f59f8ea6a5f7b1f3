package settings

import (
	"errors"
	"net/http"

	"commute-watch/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type Handler struct {
	service  ServiceInterface
	validate *validator.Validate
}

// NewHandler creates a new settings handler.
func NewHandler(service ServiceInterface) *Handler {
	return &Handler{
		service:  service,
		validate: validator.New(),
	}
}

func userID(c echo.Context) string {
	id, _ := c.Get("userID").(string)
	return id
}

func (h *Handler) GetSettings(c echo.Context) error {
	stored, err := h.service.GetSettings(c.Request().Context(), userID(c))
	if err != nil {
		c.Logger().Error("Handler.GetSettings: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load settings"})
	}
	return c.JSON(http.StatusOK, stored)
}

func (h *Handler) SaveSettings(c echo.Context) error {
	var req models.UpdateSettingsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	stored, err := h.service.SaveSettings(c.Request().Context(), userID(c), req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidTimezone) {
			return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Unknown timezone"})
		}
		c.Logger().Error("Handler.SaveSettings: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to save settings"})
	}
	return c.JSON(http.StatusOK, stored)
}

func (h *Handler) GetSubscription(c echo.Context) error {
	status, err := h.service.Status(c.Request().Context(), userID(c))
	if err != nil {
		c.Logger().Error("Handler.GetSubscription: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load subscription status"})
	}
	return c.JSON(http.StatusOK, status)
}
