package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"backend-travelplanner/internal/logging"
	"backend-travelplanner/internal/trip"
	"backend-travelplanner/internal/weather"

	"go.uber.org/zap"
)

// DefaultFlightInfo is the placeholder flight shown on every new trip.
const DefaultFlightInfo = "ORD 3.00PM Flight 22 UDACITY AIR"

var ErrLocationRequired = errors.New("please enter a location")

// Backend is the planner API as seen by the client.
type Backend interface {
	ImageURL(ctx context.Context, query string) (string, error)
	Weather(ctx context.Context, destination, date string) (weather.Summary, error)
	SaveTrip(ctx context.Context, rec trip.Record) (int64, error)
	Trips(ctx context.Context) ([]trip.Record, error)
	DeleteTrip(ctx context.Context, id int64) error
}

type Deps struct {
	Backend    Backend
	Renderer   Renderer
	Form       FormControl
	Indicator  Indicator
	Log        *zap.Logger
	FlightInfo string
}

// Planner drives the user-facing trip flows against a Backend.
type Planner struct {
	backend    Backend
	render     Renderer
	form       FormControl
	loading    Loading
	log        *zap.Logger
	flightInfo string
	now        func() time.Time
}

func New(d Deps) *Planner {
	p := &Planner{
		backend:    d.Backend,
		render:     d.Renderer,
		form:       d.Form,
		loading:    NewLoading(d.Indicator),
		log:        logging.OrNop(d.Log),
		flightInfo: d.FlightInfo,
		now:        time.Now,
	}
	if p.render == nil {
		p.render = NewBoard(nil)
	}
	if p.form == nil {
		p.form = &Form{}
	}
	if p.flightInfo == "" {
		p.flightInfo = DefaultFlightInfo
	}
	return p
}

// CreateTrip runs the add-trip sequence: image lookup, weather lookup,
// save, render. Each step waits for the previous one. A failed image
// lookup aborts the whole sequence; weather falls back to a sentinel; a
// failed save still renders the card, without an id.
func (p *Planner) CreateTrip(ctx context.Context, location, departing string) (Card, error) {
	if strings.TrimSpace(location) == "" {
		p.log.Info(ErrLocationRequired.Error())
		return Card{}, ErrLocationRequired
	}

	guard := p.loading.Begin()
	defer guard.Release()

	imageURL, err := p.imageURL(ctx, location)
	if err != nil {
		return Card{}, err
	}

	summary := p.Weather(ctx, location, departing)

	rec := trip.Record{
		ImageURL:    imageURL,
		Location:    location,
		Departing:   departing,
		FlightInfo:  p.flightInfo,
		WeatherData: summary,
	}
	id := p.saveTrip(ctx, rec)

	card := NewCard(rec, id, p.now())
	p.render.Render(card)

	p.form.Clear()
	p.form.Hide()
	return card, nil
}

func (p *Planner) imageURL(ctx context.Context, location string) (string, error) {
	p.log.Debug("requesting image url", zap.String("q", location))
	imageURL, err := p.backend.ImageURL(ctx, location)
	if err != nil {
		p.log.Error("error fetching image url", zap.String("location", location), zap.Error(err))
		return "", fmt.Errorf("image lookup: %w", err)
	}
	p.log.Debug("received image url", zap.String("imageURL", imageURL))
	return imageURL, nil
}

// Weather never fails: any error becomes weather.FetchFailed().
func (p *Planner) Weather(ctx context.Context, destination, date string) weather.Summary {
	guard := p.loading.Begin()
	defer guard.Release()

	summary, err := p.backend.Weather(ctx, destination, date)
	if err != nil {
		p.log.Error("fetch error", zap.String("destination", destination), zap.Error(err))
		return weather.FetchFailed()
	}
	p.log.Debug("received weather data", zap.Any("weather", summary))
	return summary
}

// saveTrip returns nil when the backend did not accept the trip.
func (p *Planner) saveTrip(ctx context.Context, rec trip.Record) *int64 {
	guard := p.loading.Begin()
	defer guard.Release()

	id, err := p.backend.SaveTrip(ctx, rec)
	if err != nil {
		p.log.Error("error saving trip to server", zap.Error(err))
		return nil
	}
	return &id
}

// LoadTrips renders every saved trip in store order.
func (p *Planner) LoadTrips(ctx context.Context) error {
	guard := p.loading.Begin()
	defer guard.Release()

	trips, err := p.backend.Trips(ctx)
	if err != nil {
		p.log.Error("error loading trip cards from server", zap.Error(err))
		return fmt.Errorf("load trips: %w", err)
	}
	p.log.Debug("received trip cards", zap.Int("count", len(trips)))

	now := p.now()
	for _, rec := range trips {
		id := rec.ID
		p.render.Render(NewCard(rec, &id, now))
	}
	return nil
}

// RemoveTrip deletes a trip and, only once the backend confirmed, its card.
func (p *Planner) RemoveTrip(ctx context.Context, id int64) error {
	guard := p.loading.Begin()
	defer guard.Release()

	if err := p.backend.DeleteTrip(ctx, id); err != nil {
		p.log.Error("delete request failed", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("delete trip %d: %w", id, err)
	}
	p.render.Remove(id)
	return nil
}

// Apply mirrors a store change pushed by the backend.
func (p *Planner) Apply(ev trip.Event) {
	switch ev.Type {
	case trip.EventCreated:
		if ev.Trip == nil {
			return
		}
		rec, err := ev.Trip.Record()
		if err != nil {
			p.log.Warn("undecodable trip in event", zap.Int64("id", ev.ID), zap.Error(err))
			return
		}
		id := ev.ID
		p.render.Render(NewCard(rec, &id, p.now()))
	case trip.EventDeleted:
		p.render.Remove(ev.ID)
	default:
		p.log.Warn("unknown trip event", zap.String("type", ev.Type))
	}
}
