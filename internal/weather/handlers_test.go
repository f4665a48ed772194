package weather

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-travelplanner/internal/apperr"
	"backend-travelplanner/internal/shared/dates"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(p Provider) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	RegisterRoutes(app.Group("/api"), newTestService(p, nil), nil)
	return app
}

func postWeather(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/get-weather", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return resp
}

func TestGetWeatherHandler(t *testing.T) {
	obs := Observation{HighTemp: high(20)}
	obs.Weather.Description = "Clear sky"
	p := &fakeProvider{data: []Observation{obs}}

	resp := postWeather(t, newTestApp(p), `{"destination":"Paris","date":"2026-10-29"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got["high"] != 20.0 || got["low"] != "N/A" || got["description"] != "Clear sky" {
		t.Fatalf("unexpected body %v", got)
	}
	if p.endpoints[0] != dates.Daily || p.cities[0] != "Paris" {
		t.Fatalf("unexpected provider call %v %v", p.endpoints, p.cities)
	}
}

func TestGetWeatherHandlerProviderFailure(t *testing.T) {
	p := &fakeProvider{err: apperr.ProviderError{Provider: "weatherbit", Status: http.StatusTooManyRequests}}

	resp := postWeather(t, newTestApp(p), `{"destination":"Paris","date":"2026-10-20"}`)
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"message":"Error retrieving weather data."}` {
		t.Fatalf("unexpected body %s", body)
	}
}

func TestGetWeatherHandlerBadPayload(t *testing.T) {
	resp := postWeather(t, newTestApp(&fakeProvider{}), `{"destination":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
