package trip

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"

	"backend-travelplanner/internal/weather"
)

// Record is the typed view of a trip that the planner composes and renders.
type Record struct {
	ID          int64           `json:"id,omitempty"`
	Location    string          `json:"location"`
	Departing   string          `json:"departing"`
	FlightInfo  string          `json:"flightInfo"`
	ImageURL    string          `json:"imageURL"`
	WeatherData weather.Summary `json:"weatherData"`
}

var ErrNotObject = errors.New("trip body must be a JSON object")

// Doc is a trip exactly as the client posted it. The store only owns "id";
// every other field is kept verbatim, including ones Record does not know.
type Doc map[string]json.RawMessage

// ParseDoc reads a save-trip body. An empty body is an empty trip.
func ParseDoc(body []byte) (Doc, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Doc{}, nil
	}
	if body[0] != '{' && !bytes.Equal(body, []byte("null")) {
		return nil, ErrNotObject
	}
	var d Doc
	if err := json.Unmarshal(body, &d); err != nil {
		return nil, err
	}
	if d == nil {
		d = Doc{}
	}
	return d, nil
}

// NewDoc encodes a Record as a Doc.
func NewDoc(rec Record) (Doc, error) {
	raw, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	return ParseDoc(raw)
}

// ID is the store-assigned id, or 0 when the doc has none.
func (d Doc) ID() int64 {
	var id int64
	if raw, ok := d["id"]; ok {
		_ = json.Unmarshal(raw, &id)
	}
	return id
}

// WithID returns a copy of d carrying id. A client-sent id is overwritten.
func (d Doc) WithID(id int64) Doc {
	out := d.withoutID()
	out["id"] = json.RawMessage(strconv.FormatInt(id, 10))
	return out
}

func (d Doc) withoutID() Doc {
	out := make(Doc, len(d)+1)
	for k, v := range d {
		if k != "id" {
			out[k] = v
		}
	}
	return out
}

// Record decodes the fields the planner understands.
func (d Doc) Record() (Record, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

type SaveResponse struct {
	TripCardID int64 `json:"tripCardId"`
}

const (
	EventCreated = "trip.created"
	EventDeleted = "trip.deleted"
)

// Event is pushed to stream subscribers whenever the store changes.
type Event struct {
	Type string `json:"type"`
	ID   int64  `json:"id"`
	Trip Doc    `json:"trip,omitempty"`
}
