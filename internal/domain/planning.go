package domain

import (
	"fmt"
	"strings"
)

// ListType names one of the independent planning lists.
type ListType string

const (
	ListTodo     ListType = "todo"
	ListLuggage  ListType = "luggage"
	ListShopping ListType = "shopping"
	ListNotes    ListType = "notes"
)

// ListTypes lists every planning list in display order.
var ListTypes = []ListType{ListTodo, ListLuggage, ListShopping, ListNotes}

// ParseListType validates a list name taken from user input.
func ParseListType(s string) (ListType, error) {
	for _, lt := range ListTypes {
		if string(lt) == s {
			return lt, nil
		}
	}
	return "", fmt.Errorf("%w: unknown planning list %q", ErrValidation, s)
}

// PlanningItem is one entry on a planning list. URL is only used by the
// notes list.
type PlanningItem struct {
	ID         ID     `json:"id"`
	Text       string `json:"text" validate:"required"`
	Completed  bool   `json:"completed"`
	AssignedTo string `json:"assignedTo,omitempty"`
	URL        string `json:"url,omitempty" validate:"omitempty,url"`
	Extra      Extra  `json:"-"`
}

// RecordID implements Record.
func (p PlanningItem) RecordID() ID { return p.ID }

// WithID implements Record.
func (p PlanningItem) WithID(id ID) PlanningItem {
	p.ID = id
	return p
}

// UnmarshalJSON decodes onto the existing value so partial documents only
// touch the fields they carry. The legacy "user" field is read as AssignedTo;
// other undeclared members land in Extra.
func (p *PlanningItem) UnmarshalJSON(b []byte) error {
	type plain PlanningItem
	aux := struct {
		*plain
		User *string `json:"user"`
	}{plain: (*plain)(p)}
	if err := decodeRecord(b, &aux, &p.Extra); err != nil {
		return err
	}
	if aux.User != nil && p.AssignedTo == "" {
		p.AssignedTo = *aux.User
	}
	return nil
}

// MarshalJSON writes the declared fields followed by Extra.
func (p PlanningItem) MarshalJSON() ([]byte, error) {
	type plain PlanningItem
	return encodeRecord(plain(p), p.Extra)
}

// NormalizeNoteURL prefixes https:// to a url that does not already carry
// an http(s) scheme. Blank input stays blank.
func NormalizeNoteURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.HasPrefix(raw, "http") {
		return raw
	}
	return "https://" + raw
}

// PlanningBoard is the persisted shape of all planning lists: one object
// holding every list, stored under a single key.
type PlanningBoard struct {
	Todo     []PlanningItem `json:"todo"`
	Luggage  []PlanningItem `json:"luggage"`
	Shopping []PlanningItem `json:"shopping"`
	Notes    []PlanningItem `json:"notes"`
	Extra    Extra          `json:"-"`
}

// List returns the items of one list. A list missing from legacy data reads
// as empty.
func (b PlanningBoard) List(lt ListType) []PlanningItem {
	var items []PlanningItem
	switch lt {
	case ListTodo:
		items = b.Todo
	case ListLuggage:
		items = b.Luggage
	case ListShopping:
		items = b.Shopping
	case ListNotes:
		items = b.Notes
	}
	if items == nil {
		return []PlanningItem{}
	}
	return items
}

// SetList replaces one list, leaving the others untouched.
func (b *PlanningBoard) SetList(lt ListType, items []PlanningItem) {
	switch lt {
	case ListTodo:
		b.Todo = items
	case ListLuggage:
		b.Luggage = items
	case ListShopping:
		b.Shopping = items
	case ListNotes:
		b.Notes = items
	}
}

// UnmarshalJSON keeps members other than the four lists in Extra.
func (b *PlanningBoard) UnmarshalJSON(data []byte) error {
	type plain PlanningBoard
	return decodeRecord(data, (*plain)(b), &b.Extra)
}

// MarshalJSON writes every list, using [] rather than null for empty ones.
func (b PlanningBoard) MarshalJSON() ([]byte, error) {
	type plain PlanningBoard
	return encodeRecord(plain{
		Todo:     b.List(ListTodo),
		Luggage:  b.List(ListLuggage),
		Shopping: b.List(ListShopping),
		Notes:    b.List(ListNotes),
	}, b.Extra)
}
