package domain

import (
	"slices"
	"strings"
)

// Category classifies a schedule item.
type Category string

const (
	CategoryAttraction    Category = "attraction"
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryHotel         Category = "hotel"
	CategoryEntertainment Category = "entertainment"
)

// Categories lists the valid schedule categories in display order.
var Categories = []Category{
	CategoryAttraction, CategoryFood, CategoryTransport, CategoryHotel, CategoryEntertainment,
}

// ScheduleItem is one entry on the trip timeline.
// Time is "15:04" and Date is "2006-01-02"; both stay strings so legacy
// data round-trips byte for byte.
type ScheduleItem struct {
	ID       ID       `json:"id"`
	Time     string   `json:"time" validate:"required,datetime=15:04"`
	Title    string   `json:"title" validate:"required"`
	Location string   `json:"location"`
	Category Category `json:"category" validate:"required,oneof=attraction food transport hotel entertainment"`
	Date     string   `json:"date" validate:"required,datetime=2006-01-02"`
	Note     string   `json:"note,omitempty"`
	ImageURL string   `json:"imageUrl,omitempty" validate:"omitempty,url"`
	Extra    Extra    `json:"-"`
}

// UnmarshalJSON decodes onto the existing value and keeps undeclared members.
func (s *ScheduleItem) UnmarshalJSON(b []byte) error {
	type plain ScheduleItem
	return decodeRecord(b, (*plain)(s), &s.Extra)
}

// MarshalJSON writes the declared fields followed by Extra.
func (s ScheduleItem) MarshalJSON() ([]byte, error) {
	type plain ScheduleItem
	return encodeRecord(plain(s), s.Extra)
}

// RecordID implements Record.
func (s ScheduleItem) RecordID() ID { return s.ID }

// WithID implements Record.
func (s ScheduleItem) WithID(id ID) ScheduleItem {
	s.ID = id
	return s
}

// DayView returns the items on date ordered by time. The input slice is left
// in its persisted (insertion) order.
func DayView(items []ScheduleItem, date string) []ScheduleItem {
	out := make([]ScheduleItem, 0, len(items))
	for _, it := range items {
		if it.Date == date {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b ScheduleItem) int {
		return strings.Compare(a.Time, b.Time)
	})
	return out
}
