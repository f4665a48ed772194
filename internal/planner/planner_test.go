package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"backend-travelplanner/internal/trip"
	"backend-travelplanner/internal/weather"
)

var errBackend = errors.New("backend down")

type fakeBackend struct {
	calls []string

	imageURL   string
	imageErr   error
	summary    weather.Summary
	weatherErr error
	saveErr    error
	listErr    error
	deleteErr  error

	saved  []trip.Record
	trips  []trip.Record
	nextID int64
}

func (f *fakeBackend) ImageURL(_ context.Context, query string) (string, error) {
	f.calls = append(f.calls, "image:"+query)
	return f.imageURL, f.imageErr
}

func (f *fakeBackend) Weather(_ context.Context, destination, date string) (weather.Summary, error) {
	f.calls = append(f.calls, "weather:"+destination+":"+date)
	return f.summary, f.weatherErr
}

func (f *fakeBackend) SaveTrip(_ context.Context, rec trip.Record) (int64, error) {
	f.calls = append(f.calls, "save:"+rec.Location)
	if f.saveErr != nil {
		return 0, f.saveErr
	}
	f.nextID++
	rec.ID = f.nextID
	f.saved = append(f.saved, rec)
	return rec.ID, nil
}

func (f *fakeBackend) Trips(context.Context) ([]trip.Record, error) {
	f.calls = append(f.calls, "list")
	return f.trips, f.listErr
}

func (f *fakeBackend) DeleteTrip(_ context.Context, id int64) error {
	f.calls = append(f.calls, "delete")
	return f.deleteErr
}

type recordingIndicator struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingIndicator) Show() { r.record("show") }
func (r *recordingIndicator) Hide() { r.record("hide") }

func (r *recordingIndicator) record(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingIndicator) balanced() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	shows, hides := 0, 0
	for _, e := range r.events {
		if e == "show" {
			shows++
		} else {
			hides++
		}
	}
	return shows == hides && (len(r.events) == 0 || r.events[len(r.events)-1] == "hide")
}

var testNow = time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

func newTestPlanner(b Backend) (*Planner, *Board, *Form, *recordingIndicator, *bytes.Buffer) {
	out := &bytes.Buffer{}
	board := NewBoard(out)
	form := &Form{Location: "Paris", Departing: "2026-10-29", Visible: true}
	ind := &recordingIndicator{}
	p := New(Deps{Backend: b, Renderer: board, Form: form, Indicator: ind})
	p.now = func() time.Time { return testNow }
	return p, board, form, ind, out
}

func TestCreateTripEmptyLocation(t *testing.T) {
	b := &fakeBackend{}
	p, board, form, ind, _ := newTestPlanner(b)

	for _, loc := range []string{"", "  "} {
		if _, err := p.CreateTrip(context.Background(), loc, "2026-10-29"); !errors.Is(err, ErrLocationRequired) {
			t.Fatalf("expected ErrLocationRequired, got %v", err)
		}
	}
	if len(b.calls) != 0 {
		t.Fatalf("expected no network calls, got %v", b.calls)
	}
	if len(ind.events) != 0 {
		t.Fatalf("loading indicator must not toggle, got %v", ind.events)
	}
	if len(board.Cards()) != 0 || !form.Visible {
		t.Fatalf("nothing may change on validation failure")
	}
}

func TestCreateTripParis(t *testing.T) {
	b := &fakeBackend{
		imageURL: "https://img/paris.jpg",
		summary:  weather.Summary{High: weather.Degrees(18), Low: weather.Degrees(9), Description: "Overcast clouds"},
	}
	p, board, form, ind, out := newTestPlanner(b)

	card, err := p.CreateTrip(context.Background(), "Paris", "2026-10-29")
	if err != nil {
		t.Fatalf("create trip: %v", err)
	}

	want := []string{"image:Paris", "weather:Paris:2026-10-29", "save:Paris"}
	if strings.Join(b.calls, ",") != strings.Join(want, ",") {
		t.Fatalf("expected sequential calls %v, got %v", want, b.calls)
	}
	saved := b.saved[0]
	if saved.ImageURL != "https://img/paris.jpg" || saved.FlightInfo != DefaultFlightInfo || saved.WeatherData != b.summary || saved.Departing != "2026-10-29" {
		t.Fatalf("unexpected payload %+v", saved)
	}

	if card.ID == nil || *card.ID != 1 || card.DaysRemaining != "10" {
		t.Fatalf("unexpected card %+v", card)
	}
	text := out.String()
	for _, s := range []string{"Paris", "Departing: 2026-10-29", "[Remove Trip]", "Days Remaining: 10", "High: 18, Low: 9, Description: Overcast clouds", "[tripCard-1]"} {
		if !strings.Contains(text, s) {
			t.Fatalf("rendered card missing %q:\n%s", s, text)
		}
	}
	if len(board.Cards()) != 1 {
		t.Fatalf("expected one card on the board")
	}
	if form.Location != "" || form.Departing != "" || form.Visible {
		t.Fatalf("expected form cleared and hidden, got %+v", form)
	}
	if !ind.balanced() {
		t.Fatalf("loading indicator left on: %v", ind.events)
	}
}

func TestCreateTripImageFailureAborts(t *testing.T) {
	b := &fakeBackend{imageErr: StatusError{Method: "GET", Path: "/get-image-url", Code: 500}}
	p, board, form, ind, _ := newTestPlanner(b)

	_, err := p.CreateTrip(context.Background(), "Paris", "2026-10-29")
	var se StatusError
	if !errors.As(err, &se) || se.Code != 500 {
		t.Fatalf("expected wrapped status error, got %v", err)
	}
	if len(b.calls) != 1 {
		t.Fatalf("expected no calls after image failure, got %v", b.calls)
	}
	if len(board.Cards()) != 0 {
		t.Fatalf("no card may be rendered")
	}
	if form.Location != "Paris" || !form.Visible {
		t.Fatalf("form must be left as is")
	}
	if !ind.balanced() {
		t.Fatalf("loading indicator left on: %v", ind.events)
	}
}

func TestCreateTripWeatherFailureFallsBack(t *testing.T) {
	b := &fakeBackend{imageURL: "https://img/x.jpg", weatherErr: errBackend}
	p, _, _, _, _ := newTestPlanner(b)

	card, err := p.CreateTrip(context.Background(), "Oslo", "2026-10-20")
	if err != nil {
		t.Fatalf("weather failure must not abort: %v", err)
	}
	if card.Weather != weather.FetchFailed() {
		t.Fatalf("expected sentinel weather, got %+v", card.Weather)
	}
	if len(b.saved) != 1 || b.saved[0].WeatherData != weather.FetchFailed() {
		t.Fatalf("expected sentinel persisted")
	}
}

func TestCreateTripSaveFailureStillRenders(t *testing.T) {
	b := &fakeBackend{imageURL: "https://img/x.jpg", saveErr: errBackend}
	p, board, form, ind, out := newTestPlanner(b)

	card, err := p.CreateTrip(context.Background(), "Lima", "2026-12-01")
	if err != nil {
		t.Fatalf("save failure keeps rendering: %v", err)
	}
	if card.ID != nil {
		t.Fatalf("expected card without id")
	}
	if len(board.Cards()) != 1 || !strings.Contains(out.String(), "[tripCard-undefined]") {
		t.Fatalf("expected card rendered without id")
	}
	if form.Visible {
		t.Fatalf("expected form hidden")
	}
	if !ind.balanced() {
		t.Fatalf("loading indicator left on: %v", ind.events)
	}
}

type panicRenderer struct{}

func (panicRenderer) Render(Card)  { panic("render failed") }
func (panicRenderer) Remove(int64) {}

func TestCreateTripReleasesLoadingOnPanic(t *testing.T) {
	ind := &recordingIndicator{}
	p := New(Deps{Backend: &fakeBackend{imageURL: "x"}, Renderer: panicRenderer{}, Indicator: ind})

	func() {
		defer func() { _ = recover() }()
		_, _ = p.CreateTrip(context.Background(), "Paris", "2026-10-29")
	}()
	if !ind.balanced() {
		t.Fatalf("loading indicator left on after panic: %v", ind.events)
	}
}

func TestLoadingFlagLastWriterWins(t *testing.T) {
	flag := &Flag{}
	l := NewLoading(flag)

	outer := l.Begin()
	inner := l.Begin()
	inner.Release()
	if flag.Visible() {
		t.Fatalf("inner release hides the shared flag")
	}
	outer.Release()
	outer.Release()
	if flag.Visible() || flag.Shows() != 2 {
		t.Fatalf("unexpected flag state visible=%v shows=%d", flag.Visible(), flag.Shows())
	}
}

func TestWeatherAdapterAlwaysResolves(t *testing.T) {
	b := &fakeBackend{weatherErr: StatusError{Code: 500}}
	p, _, _, ind, _ := newTestPlanner(b)

	got := p.Weather(context.Background(), "Paris", "2026-10-20")
	if got != (weather.Summary{Description: "Fetch request failed."}) || got.High.String() != "N/A" || got.Low.String() != "N/A" {
		t.Fatalf("unexpected fallback %+v", got)
	}
	if !ind.balanced() || len(ind.events) != 2 {
		t.Fatalf("weather call must toggle loading once, got %v", ind.events)
	}
}

func TestLoadTrips(t *testing.T) {
	b := &fakeBackend{trips: []trip.Record{
		{ID: 2, Location: "Rome", Departing: "2026-10-19"},
		{ID: 5, Location: "Kyoto", Departing: "bad-date"},
	}}
	p, board, _, ind, _ := newTestPlanner(b)

	if err := p.LoadTrips(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	cards := board.Cards()
	if len(cards) != 2 || cards[0].Location != "Rome" || *cards[1].ID != 5 {
		t.Fatalf("unexpected cards %+v", cards)
	}
	if cards[0].DaysRemaining != "0" || cards[1].DaysRemaining != "N/A" {
		t.Fatalf("unexpected days remaining %s %s", cards[0].DaysRemaining, cards[1].DaysRemaining)
	}
	if !ind.balanced() {
		t.Fatalf("loading indicator left on")
	}

	b.listErr = errBackend
	if err := p.LoadTrips(context.Background()); !errors.Is(err, errBackend) {
		t.Fatalf("expected load error, got %v", err)
	}
}

func TestRemoveTrip(t *testing.T) {
	b := &fakeBackend{trips: []trip.Record{{ID: 1, Location: "Rome"}, {ID: 2, Location: "Oslo"}}}
	p, board, _, ind, _ := newTestPlanner(b)
	_ = p.LoadTrips(context.Background())

	if err := p.RemoveTrip(context.Background(), 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	cards := board.Cards()
	if len(cards) != 1 || cards[0].Location != "Oslo" {
		t.Fatalf("expected Rome removed, got %+v", cards)
	}

	b.deleteErr = errBackend
	if err := p.RemoveTrip(context.Background(), 2); !errors.Is(err, errBackend) {
		t.Fatalf("expected delete error, got %v", err)
	}
	if len(board.Cards()) != 1 {
		t.Fatalf("card must stay when the delete failed")
	}
	if !ind.balanced() {
		t.Fatalf("loading indicator left on")
	}
}

func TestApplyEvents(t *testing.T) {
	p, board, _, _, _ := newTestPlanner(&fakeBackend{})

	cairo, err := trip.NewDoc(trip.Record{ID: 3, Location: "Cairo"})
	if err != nil {
		t.Fatalf("doc: %v", err)
	}
	p.Apply(trip.Event{Type: trip.EventCreated, ID: 3, Trip: cairo})
	p.Apply(trip.Event{Type: trip.EventCreated, ID: 4})
	p.Apply(trip.Event{Type: trip.EventCreated, ID: 5, Trip: trip.Doc{"location": json.RawMessage(`42`)}})
	p.Apply(trip.Event{Type: "trip.renamed", ID: 3})
	if cards := board.Cards(); len(cards) != 1 || *cards[0].ID != 3 {
		t.Fatalf("unexpected cards %+v", cards)
	}
	p.Apply(trip.Event{Type: trip.EventDeleted, ID: 3})
	if len(board.Cards()) != 0 {
		t.Fatalf("expected card removed")
	}
}

func TestFormToggle(t *testing.T) {
	f := &Form{}
	f.Toggle()
	if !f.Visible {
		t.Fatalf("expected visible after toggle")
	}
	f.Toggle()
	if f.Visible {
		t.Fatalf("expected hidden after second toggle")
	}
}

func TestStreamURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:8000/api":    "ws://localhost:8000/api/stream/ws/trips",
		"https://planner.example/api/": "wss://planner.example/api/stream/ws/trips",
	}
	for in, want := range cases {
		if got := StreamURL(in); got != want {
			t.Fatalf("%s: expected %s, got %s", in, want, got)
		}
	}
}
