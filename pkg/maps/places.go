package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// Prediction is one address suggestion from the Places Autocomplete API.
type Prediction struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

type placesResponse struct {
	Status       string       `json:"status"`
	ErrorMessage string       `json:"error_message"`
	Predictions  []Prediction `json:"predictions"`
}

// Autocomplete returns address predictions for the given partial input.
// Inputs shorter than two characters return no predictions without a
// provider call. ZERO_RESULTS is not an error. The optional session token
// groups keystrokes of one lookup for provider billing.
func (c *Client) Autocomplete(ctx context.Context, input, sessionToken string) ([]Prediction, error) {
	if len(input) < 2 {
		return []Prediction{}, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("maps: rate limit wait: %w", err)
	}

	q := url.Values{}
	q.Set("input", input)
	q.Set("key", c.apiKey)
	q.Set("types", "address")
	if sessionToken != "" {
		q.Set("sessiontoken", sessionToken)
	}

	reqURL := c.baseURL + "/maps/api/place/autocomplete/json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("maps: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("maps: call autocomplete: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("maps: read body: %w", err)
	}

	var places placesResponse
	if err := json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("maps: unmarshal: %w", err)
	}

	if places.Status != "OK" && places.Status != "ZERO_RESULTS" {
		return nil, &StatusError{Status: places.Status, Message: places.ErrorMessage}
	}

	if places.Predictions == nil {
		return []Prediction{}, nil
	}
	return places.Predictions, nil
}
