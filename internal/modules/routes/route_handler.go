package routes

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

// NewHandler creates a new route handler.
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

func (h *Handler) CreateRoute(c echo.Context) error {
	var req models.CreateRouteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	route, err := h.service.CreateRoute(c.Request().Context(), userID(c), req)
	if err != nil {
		if errors.Is(err, models.ErrTrialExpired) {
			return c.JSON(http.StatusPaymentRequired, models.ErrorResponse{Message: "Trial expired"})
		}
		c.Logger().Error("Handler.CreateRoute: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to create route"})
	}
	return c.JSON(http.StatusCreated, route)
}

func (h *Handler) ListRoutes(c echo.Context) error {
	list, err := h.service.ListRoutes(c.Request().Context(), userID(c))
	if err != nil {
		c.Logger().Error("Handler.ListRoutes: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to list routes"})
	}
	if list == nil {
		list = []*models.Route{}
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) GetRoute(c echo.Context) error {
	route, err := h.service.GetRoute(c.Request().Context(), c.Param("routeId"), userID(c))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Route not found"})
		}
		c.Logger().Error("Handler.GetRoute: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to load route"})
	}
	return c.JSON(http.StatusOK, route)
}

func (h *Handler) UpdateRoute(c echo.Context) error {
	var req models.UpdateRouteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Validation failed: " + err.Error()})
	}

	route, err := h.service.UpdateRoute(c.Request().Context(), c.Param("routeId"), userID(c), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Route not found"})
		}
		c.Logger().Error("Handler.UpdateRoute: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to update route"})
	}
	return c.JSON(http.StatusOK, route)
}

func (h *Handler) DeleteRoute(c echo.Context) error {
	err := h.service.DeleteRoute(c.Request().Context(), c.Param("routeId"), userID(c))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Route not found"})
		}
		c.Logger().Error("Handler.DeleteRoute: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to delete route"})
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) DuplicateRoute(c echo.Context) error {
	route, err := h.service.DuplicateRoute(c.Request().Context(), c.Param("routeId"), userID(c))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.ErrorResponse{Message: "Route not found"})
		}
		c.Logger().Error("Handler.DuplicateRoute: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Failed to duplicate route"})
	}
	return c.JSON(http.StatusCreated, route)
}
