package places

import (
	"context"
	"net/http"

	"commute-watch/internal/models"
	"commute-watch/pkg/maps"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AutocompleteProvider is the slice of the maps client this handler needs.
type AutocompleteProvider interface {
	Autocomplete(ctx context.Context, input, sessionToken string) ([]maps.Prediction, error)
}

// AutocompleteRequest is the body of POST /places/autocomplete.
type AutocompleteRequest struct {
	Input        string `json:"input"`
	SessionToken string `json:"session_token,omitempty"`
}

// AutocompleteResponse wraps the provider predictions. SessionToken echoes
// the token the lookup ran under so the client can reuse it for the
// remaining keystrokes of the same address.
type AutocompleteResponse struct {
	Predictions  []maps.Prediction `json:"predictions"`
	SessionToken string            `json:"session_token"`
}

// Handler proxies address autocomplete lookups so the Places API key never
// reaches the browser.
type Handler struct {
	provider AutocompleteProvider
}

// NewHandler creates a new places handler.
func NewHandler(provider AutocompleteProvider) *Handler {
	return &Handler{provider: provider}
}

// Autocomplete handles POST /places/autocomplete.
func (h *Handler) Autocomplete(c echo.Context) error {
	var req AutocompleteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Invalid request body"})
	}

	// The provider bills keystrokes of one lookup as a session; mint a
	// token on the first request if the client did not bring one.
	if req.SessionToken == "" {
		req.SessionToken = uuid.NewString()
	}

	predictions, err := h.provider.Autocomplete(c.Request().Context(), req.Input, req.SessionToken)
	if err != nil {
		c.Logger().Error("Handler.Autocomplete: ", err)
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{Message: "Address lookup failed"})
	}

	return c.JSON(http.StatusOK, AutocompleteResponse{Predictions: predictions, SessionToken: req.SessionToken})
}
