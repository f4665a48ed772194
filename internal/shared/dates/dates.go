package dates

import (
	"strings"
	"time"
)

// Layout is the format produced by an HTML date input.
const Layout = "2006-01-02"

// ForecastHorizonDays is the last day answered by current conditions.
const ForecastHorizonDays = 7

type Endpoint int

const (
	Current Endpoint = iota
	Daily
)

func (e Endpoint) String() string {
	if e == Daily {
		return "forecast/daily"
	}
	return "current"
}

// DaysUntil counts calendar days from now's date to date, both taken in
// now's location. Today is 0, tomorrow 1, yesterday -1.
func DaysUntil(now time.Time, date string) (int, error) {
	target, err := time.ParseInLocation(Layout, strings.TrimSpace(date), now.Location())
	if err != nil {
		return 0, err
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ty, tm, td := target.Date()
	day := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(day.Sub(today).Hours() / 24), nil
}

// ElapsedDays counts whole 24-hour days from now until midnight of date in
// now's location, dropping any remainder toward zero. A departure 8 calendar
// days out is 7 elapsed days once the morning has started. A change of UTC
// offset between the two instants is not counted as elapsed time.
func ElapsedDays(now time.Time, date string) (int, error) {
	target, err := time.ParseInLocation(Layout, strings.TrimSpace(date), now.Location())
	if err != nil {
		return 0, err
	}
	_, targetOffset := target.Zone()
	_, nowOffset := now.Zone()
	d := target.Sub(now) + time.Duration(targetOffset-nowOffset)*time.Second
	return int(d / (24 * time.Hour)), nil
}

// SelectEndpoint picks current conditions for anything up to a week out,
// past dates included, and the daily forecast beyond that. A date that could
// not be parsed (err != nil) selects the daily forecast.
func SelectEndpoint(days int, err error) Endpoint {
	if err != nil || days > ForecastHorizonDays {
		return Daily
	}
	return Current
}
