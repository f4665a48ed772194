package image

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
)

const providerName = "pixabay"

type Hit struct {
	WebformatURL string `json:"webformatURL"`
}

// Client searches the Pixabay photo index.
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

func (c *Client) Search(ctx context.Context, query string) ([]Hit, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", query)
	q.Set("image_type", "photo")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+q.Encode(), nil)
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

	var body struct {
		Hits []Hit `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, apperr.ProviderError{Provider: providerName, Status: resp.StatusCode, Err: err}
	}
	return body.Hits, nil
}
