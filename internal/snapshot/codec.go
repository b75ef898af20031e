// Package snapshot converts the trip's durable key-value state to and from a
// single transportable JSON document, and that document to and from the
// compact form carried in a sync link.
//
// A stored value that is JSON structure (object or array) travels as
// structure; any other stored value travels as a JSON string. Decoding
// reverses that exactly, so export followed by import reproduces the same
// durable strings.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/pkordes/trip-planner/backend/internal/domain"
)

// Kind is the JSON shape a known key must have in an incoming document.
type Kind int

const (
	// KindAny accepts any JSON value.
	KindAny Kind = iota
	// KindArray requires a JSON array.
	KindArray
	// KindObject requires a JSON object.
	KindObject
	// KindString requires a JSON string.
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindString:
		return "string"
	default:
		return "any"
	}
}

// Field describes one key of the document.
type Field struct {
	Key  string
	Kind Kind
}

// Schema lists the known keys in document order. Keys outside the schema
// are ignored on decode and never written on encode.
type Schema []Field

// Keys returns the schema's keys in order.
func (s Schema) Keys() []string {
	out := make([]string, len(s))
	for i, f := range s {
		out[i] = f.Key
	}
	return out
}

// TripSchema is the document layout of a trip snapshot.
var TripSchema = Schema{
	{Key: domain.KeySchedule, Kind: KindArray},
	{Key: domain.KeyExpenses, Kind: KindArray},
	{Key: domain.KeyJournal, Kind: KindArray},
	{Key: domain.KeyPlanning, Kind: KindObject},
	{Key: domain.KeyTripID, Kind: KindString},
}

// Encode builds the document from stored values. Keys absent from values are
// left out of the document.
func Encode(schema Schema, values map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for _, f := range schema {
		v, ok := values[f.Key]
		if !ok {
			continue
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, _ := json.Marshal(f.Key) // marshalling a string cannot fail
		buf.Write(key)
		buf.WriteByte(':')
		if err := encodeValue(&buf, f, v); err != nil {
			return nil, fmt.Errorf("snapshot.Encode: %s: %w", f.Key, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// encodeValue embeds structured JSON verbatim (compacted) and quotes
// everything else. A KindString field is always quoted, even when its text
// happens to be valid JSON, so Decode accepts it back.
func encodeValue(buf *bytes.Buffer, f Field, v string) error {
	if f.Kind != KindString && isStructured([]byte(v)) {
		return json.Compact(buf, []byte(v))
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}

// Decode parses a document into the durable strings to store, one per known
// key present in it. The whole document is rejected with an error wrapping
// domain.ErrMalformedSnapshot when it is not a JSON object or when any known
// key has the wrong shape; nothing is returned for partial application.
// A known key whose value is null is treated as absent.
func Decode(schema Schema, doc []byte) (map[string]string, error) {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: document is not a JSON object", domain.ErrMalformedSnapshot)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}

	out := make(map[string]string, len(schema))
	for _, f := range schema {
		raw, ok := fields[f.Key]
		if !ok {
			continue
		}
		raw = bytes.TrimSpace(raw)
		if bytes.Equal(raw, []byte("null")) {
			continue
		}
		if err := checkKind(f, raw); err != nil {
			return nil, err
		}
		v, err := decodeValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrMalformedSnapshot, f.Key, err)
		}
		out[f.Key] = v
	}
	return out, nil
}

// decodeValue unquotes JSON strings and compacts everything else.
func decodeValue(raw json.RawMessage) (string, error) {
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func checkKind(f Field, raw json.RawMessage) error {
	var ok bool
	switch f.Kind {
	case KindArray:
		ok = raw[0] == '['
	case KindObject:
		ok = raw[0] == '{'
	case KindString:
		ok = raw[0] == '"'
	default:
		ok = true
	}
	if !ok {
		return fmt.Errorf("%w: %s must be a JSON %s", domain.ErrMalformedSnapshot, f.Key, f.Kind)
	}
	return nil
}

// isStructured reports whether b is a valid JSON object or array.
func isStructured(b []byte) bool {
	t := bytes.TrimSpace(b)
	if len(t) == 0 || (t[0] != '{' && t[0] != '[') {
		return false
	}
	return json.Valid(t)
}

// Indent pretty-prints a document for file export.
func Indent(doc []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, doc, "", "  "); err != nil {
		return nil, fmt.Errorf("snapshot.Indent: %w", err)
	}
	return buf.Bytes(), nil
}
