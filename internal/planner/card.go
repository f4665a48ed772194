package planner

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"backend-travelplanner/internal/shared/dates"
	"backend-travelplanner/internal/trip"
	"backend-travelplanner/internal/weather"
)

// Card is the rendered form of one trip. ID is nil when the trip could not
// be saved.
type Card struct {
	ID            *int64
	ImageURL      string
	Location      string
	Departing     string
	FlightInfo    string
	Weather       weather.Summary
	DaysRemaining string
}

func NewCard(rec trip.Record, id *int64, now time.Time) Card {
	return Card{
		ID:            id,
		ImageURL:      rec.ImageURL,
		Location:      rec.Location,
		Departing:     rec.Departing,
		FlightInfo:    rec.FlightInfo,
		Weather:       rec.WeatherData,
		DaysRemaining: DaysRemaining(now, rec.Departing),
	}
}

// DaysRemaining is the whole number of days until departing, or "N/A" when
// the date cannot be read.
func DaysRemaining(now time.Time, departing string) string {
	days, err := dates.DaysUntil(now, departing)
	if err != nil {
		return weather.NotAvailable
	}
	return strconv.Itoa(days)
}

func (c Card) Key() string {
	if c.ID == nil {
		return "tripCard-undefined"
	}
	return "tripCard-" + strconv.FormatInt(*c.ID, 10)
}

func (c Card) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]\n", c.Key())
	fmt.Fprintf(&b, "  Image: %s\n", c.ImageURL)
	fmt.Fprintf(&b, "  %s\n", c.Location)
	fmt.Fprintf(&b, "  Departing: %s\n", c.Departing)
	fmt.Fprintf(&b, "  %s\n", c.FlightInfo)
	b.WriteString("  [Add Lodging Info] [Add Packing List] [Add Notes]\n")
	fmt.Fprintf(&b, "  Location: %s, Days Remaining: %s\n", c.Location, c.DaysRemaining)
	fmt.Fprintf(&b, "  Weather: High: %s, Low: %s, Description: %s\n", c.Weather.High, c.Weather.Low, c.Weather.Description)
	b.WriteString("  [Remove Trip]\n")
	return b.String()
}

// Renderer shows and removes trip cards.
type Renderer interface {
	Render(card Card)
	Remove(id int64)
}

// Board is the visible list of cards. It prints each rendered card to out
// and keeps the cards in display order.
type Board struct {
	mu    sync.Mutex
	out   io.Writer
	cards []Card
}

func NewBoard(out io.Writer) *Board {
	if out == nil {
		out = io.Discard
	}
	return &Board{out: out}
}

func (b *Board) Render(card Card) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cards = append(b.cards, card)
	fmt.Fprint(b.out, card.String())
}

func (b *Board) Remove(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	kept := b.cards[:0]
	for _, c := range b.cards {
		if c.ID != nil && *c.ID == id {
			fmt.Fprintf(b.out, "removed %s\n", c.Key())
			continue
		}
		kept = append(kept, c)
	}
	b.cards = kept
}

func (b *Board) Cards() []Card {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Card, len(b.cards))
	copy(out, b.cards)
	return out
}
