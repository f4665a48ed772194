package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"backend-travelplanner/internal/trip"
	"backend-travelplanner/internal/weather"
)

// StatusError is a non-200 answer from the planner API.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// APIClient talks to the backend under its API prefix, e.g.
// http://localhost:8000/api.
type APIClient struct {
	baseURL string
	http    *http.Client
}

func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *APIClient) ImageURL(ctx context.Context, query string) (string, error) {
	var out struct {
		ImageURL string `json:"imageURL"`
	}
	path := "/get-image-url?q=" + url.QueryEscape(query)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

func (c *APIClient) Weather(ctx context.Context, destination, date string) (weather.Summary, error) {
	var out weather.Summary
	req := weather.Request{Destination: destination, Date: date}
	if err := c.do(ctx, http.MethodPost, "/get-weather", req, &out); err != nil {
		return weather.Summary{}, err
	}
	return out, nil
}

func (c *APIClient) SaveTrip(ctx context.Context, rec trip.Record) (int64, error) {
	var out trip.SaveResponse
	if err := c.do(ctx, http.MethodPost, "/save-trip", rec, &out); err != nil {
		return 0, err
	}
	return out.TripCardID, nil
}

func (c *APIClient) Trips(ctx context.Context) ([]trip.Record, error) {
	var out []trip.Record
	if err := c.do(ctx, http.MethodGet, "/get-trips", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) DeleteTrip(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, "/delete-trip/"+strconv.FormatInt(id, 10), nil, nil)
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode: %w", method, path, err)
	}
	return nil
}
