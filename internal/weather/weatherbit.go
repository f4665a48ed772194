package weather

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"backend-travelplanner/internal/apperr"
	"backend-travelplanner/internal/shared/dates"
)

const providerName = "weatherbit"

// Client calls the Weatherbit v2.0 API.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch returns the "data" array of the current-conditions or daily-forecast endpoint.
func (c *Client) Fetch(ctx context.Context, endpoint dates.Endpoint, city string) ([]Observation, error) {
	q := url.Values{}
	q.Set("city", city)
	q.Set("key", c.apiKey)
	u := c.baseURL + "/" + endpoint.String() + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.ProviderError{Provider: providerName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		text := strings.TrimSpace(string(msg))
		if text == "" {
			text = resp.Status
		}
		return nil, apperr.ProviderError{Provider: providerName, Status: resp.StatusCode, Err: errors.New(text)}
	}
	// Weatherbit answers 204 for a city it does not know.
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var body struct {
		Data []Observation `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, apperr.ProviderError{Provider: providerName, Status: resp.StatusCode, Err: err}
	}
	return body.Data, nil
}
