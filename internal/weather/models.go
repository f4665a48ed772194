package weather

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	NotAvailable       = "N/A"
	NoDescription      = "No description available"
	FetchFailedMessage = "Fetch request failed."
	ServerErrorMessage = "Error retrieving weather data."
)

// Temp is a temperature reading that may be missing. It encodes as a JSON
// number, or as "N/A" when missing. Anything that does not read as a number
// decodes as missing.
type Temp struct {
	Value float64
	Valid bool
}

func Degrees(v float64) Temp { return Temp{Value: v, Valid: true} }

func (t Temp) String() string {
	if !t.Valid {
		return NotAvailable
	}
	return strconv.FormatFloat(t.Value, 'f', -1, 64)
}

func (t Temp) MarshalJSON() ([]byte, error) {
	if !t.Valid {
		return json.Marshal(NotAvailable)
	}
	return []byte(strconv.FormatFloat(t.Value, 'f', -1, 64)), nil
}

func (t *Temp) UnmarshalJSON(b []byte) error {
	*t = Temp{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*t = Degrees(v)
		}
		return nil
	}
	if v, err := strconv.ParseFloat(string(b), 64); err == nil {
		*t = Degrees(v)
	}
	return nil
}

// Summary is the normalised weather shown on a trip card.
type Summary struct {
	High        Temp   `json:"high"`
	Low         Temp   `json:"low"`
	Description string `json:"description"`
}

// FetchFailed is what the planner shows when a weather lookup did not complete.
func FetchFailed() Summary {
	return Summary{Description: FetchFailedMessage}
}

type Request struct {
	Destination string `json:"destination"`
	Date        string `json:"date"`
}

// Observation is one entry of a Weatherbit "data" array. Current conditions
// carry no high/low.
type Observation struct {
	HighTemp *float64 `json:"high_temp"`
	LowTemp  *float64 `json:"low_temp"`
	Weather  struct {
		Description string `json:"description"`
	} `json:"weather"`
}

func (o Observation) Summary() Summary {
	s := Summary{Description: o.Weather.Description}
	if o.HighTemp != nil {
		s.High = Degrees(*o.HighTemp)
	}
	if o.LowTemp != nil {
		s.Low = Degrees(*o.LowTemp)
	}
	if s.Description == "" {
		s.Description = NoDescription
	}
	return s
}
