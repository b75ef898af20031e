package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ID is the canonical identifier of a record: an opaque string.
//
// Older persisted data carries numeric ids (millisecond timestamps), newer
// data carries strings. Both decode into the same canonical form, so the
// number 3 and the string "3" are the same record.
type ID string

// NewID returns a fresh record identifier. UUIDv7 keeps ids time-ordered
// while the random tail rules out collisions between adds in the same
// millisecond.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does.
		return ID(uuid.NewString())
	}
	return ID(id.String())
}

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is empty.
func (id ID) IsZero() bool { return id == "" }

// MarshalJSON always writes the id as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

// UnmarshalJSON accepts a JSON string or a JSON number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("domain.ID: %w", err)
		}
		*id = ID(s)
		return nil
	}
	canon, err := canonicalNumber(string(b))
	if err != nil {
		return fmt.Errorf("domain.ID: %w", err)
	}
	*id = ID(canon)
	return nil
}

// NormalizeID converts any id representation seen in the wild to its
// canonical form. Unsupported types fall back to their fmt representation.
func NormalizeID(v any) ID {
	switch x := v.(type) {
	case nil:
		return ""
	case ID:
		return x
	case string:
		return ID(x)
	case json.Number:
		if canon, err := canonicalNumber(x.String()); err == nil {
			return ID(canon)
		}
		return ID(x.String())
	case int:
		return ID(strconv.Itoa(x))
	case int32:
		return ID(strconv.FormatInt(int64(x), 10))
	case int64:
		return ID(strconv.FormatInt(x, 10))
	case uint:
		return ID(strconv.FormatUint(uint64(x), 10))
	case uint32:
		return ID(strconv.FormatUint(uint64(x), 10))
	case uint64:
		return ID(strconv.FormatUint(x, 10))
	case float32:
		return ID(decimal.NewFromFloat32(x).String())
	case float64:
		return ID(decimal.NewFromFloat(x).String())
	case fmt.Stringer:
		return ID(x.String())
	default:
		return ID(fmt.Sprint(x))
	}
}

// SameID reports whether two ids, in any representation, name the same record.
func SameID(a, b any) bool {
	return NormalizeID(a) == NormalizeID(b)
}

// canonicalNumber renders a JSON number literal the way a browser's
// String(n) would for integral values: "3.0" and "3e0" both become "3".
func canonicalNumber(lit string) (string, error) {
	d, err := decimal.NewFromString(lit)
	if err != nil {
		return "", fmt.Errorf("invalid numeric id %q: %w", lit, err)
	}
	return d.String(), nil
}
