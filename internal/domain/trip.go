// Package domain contains the core data types of the trip planner: the
// records of each collection, the canonical id, the storage key names and
// the fixed trip window. It performs no I/O.
package domain

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout is the YYYY-MM-DD layout every record date uses.
const dateLayout = "2006-01-02"

// TripWindow is the fixed set of days the itinerary covers.
type TripWindow struct {
	Start time.Time
	Days  int
}

// DefaultTripWindow is the five-day trip the planner ships with.
var DefaultTripWindow = TripWindow{
	Start: time.Date(2026, time.February, 4, 0, 0, 0, 0, time.UTC),
	Days:  5,
}

// Dates returns every day of the window as YYYY-MM-DD strings.
func (w TripWindow) Dates() []string {
	out := make([]string, 0, w.Days)
	for i := range w.Days {
		out = append(out, w.Start.AddDate(0, 0, i).Format(dateLayout))
	}
	return out
}

// End returns the last day of the window.
func (w TripWindow) End() time.Time {
	return w.Start.AddDate(0, 0, w.Days-1)
}

// Contains reports whether date (YYYY-MM-DD) falls inside the window.
func (w TripWindow) Contains(date string) bool {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	return !d.Before(w.Start) && !d.After(w.End())
}

// DaysUntilStart returns the number of calendar days from now until the
// first day of the window. Zero means the trip starts today; negative values
// mean it has started.
func (w TripWindow) DaysUntilStart(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(w.Start.Sub(today).Hours() / 24)
}

// Countdown returns the short label shown above the timeline.
func (w TripWindow) Countdown(now time.Time) string {
	switch n := w.DaysUntilStart(now); {
	case n > 0:
		return fmt.Sprintf("%d days to go", n)
	case n == 0:
		return "departing today"
	case -n >= w.Days:
		return "trip ended"
	default:
		return "on the trip"
	}
}

// Today returns now's date in the record date layout.
func Today(now time.Time) string {
	return now.Format(dateLayout)
}

// NormalizeTripID trims and upper-cases a user-supplied trip label.
func NormalizeTripID(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
