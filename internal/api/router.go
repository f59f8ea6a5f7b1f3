package api

import (
	"net/http"

	"commute-watch/internal/api/middleware"
	"commute-watch/internal/modules/checker"
	"commute-watch/internal/modules/logs"
	"commute-watch/internal/modules/places"
	"commute-watch/internal/modules/routes"
	"commute-watch/internal/modules/settings"
	"commute-watch/internal/modules/users"

	"github.com/labstack/echo/v4"
)

// SetupRoutes sets up all the API endpoints for the application.
func SetupRoutes(
	e *echo.Echo,
	userHandler *users.Handler,
	routeHandler *routes.Handler,
	settingsHandler *settings.Handler,
	logHandler *logs.Handler,
	placesHandler *places.Handler,
	checkerHandler *checker.Handler,
	jwtSecret string,
) {
	authMiddleware := middleware.JWTAuth(jwtSecret)

	// --- Public Routes ---
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "Commute Watch API"})
	})

	authGroup := e.Group("/auth")
	{
		authGroup.POST("/signup", userHandler.Signup)
		authGroup.POST("/login", userHandler.Login)
	}

	// --- Profile ---
	e.GET("/profile", userHandler.GetMyProfile, authMiddleware)

	// --- Route Routes ---
	routeGroup := e.Group("/routes", authMiddleware)
	{
		routeGroup.POST("", routeHandler.CreateRoute)
		routeGroup.GET("", routeHandler.ListRoutes)
		routeGroup.GET("/:routeId", routeHandler.GetRoute)
		routeGroup.PUT("/:routeId", routeHandler.UpdateRoute)
		routeGroup.DELETE("/:routeId", routeHandler.DeleteRoute)
		routeGroup.POST("/:routeId/duplicate", routeHandler.DuplicateRoute)
		routeGroup.GET("/:routeId/logs", logHandler.GetRouteHistory)
	}

	// --- Settings & Subscription ---
	settingsGroup := e.Group("/settings", authMiddleware)
	{
		settingsGroup.GET("", settingsHandler.GetSettings)
		settingsGroup.PUT("", settingsHandler.SaveSettings)
		settingsGroup.GET("/subscription", settingsHandler.GetSubscription)
	}

	// --- Address autocomplete proxy ---
	e.POST("/places/autocomplete", placesHandler.Autocomplete, authMiddleware)

	// --- Internal: scheduler-triggered commute check ---
	// Guarded by the cron token, not by user JWTs.
	e.POST("/internal/checks/run", checkerHandler.RunChecks)
}
