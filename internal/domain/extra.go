package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// Extra holds the members of a record's JSON object that its Go type does
// not declare. They are written back unchanged, so data from a newer or
// older client survives every rewrite of the collection.
type Extra map[string]json.RawMessage

// decodeRecord unmarshals b onto dst, a pointer to a struct without its own
// UnmarshalJSON, and merges every undeclared member into extra. Members
// already in extra are kept unless b carries them again.
func decodeRecord(b []byte, dst any, extra *Extra) error {
	if err := json.Unmarshal(b, dst); err != nil {
		return err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(b, &members); err != nil {
		return err
	}
	known := jsonNames(reflect.TypeOf(dst))
	var merged Extra
	for name, raw := range members {
		if known[strings.ToLower(name)] {
			continue
		}
		if merged == nil {
			merged = maps.Clone(*extra)
			if merged == nil {
				merged = Extra{}
			}
		}
		merged[name] = raw
	}
	if merged != nil {
		*extra = merged
	}
	return nil
}

// encodeRecord marshals v, a struct without its own MarshalJSON, and appends
// the members of extra it does not declare itself, in name order.
func encodeRecord(v any, extra Extra) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	known := jsonNames(reflect.TypeOf(v))

	var buf bytes.Buffer
	buf.Write(b[:len(b)-1])
	empty := len(bytes.TrimSpace(b[1:len(b)-1])) == 0
	for _, name := range slices.Sorted(maps.Keys(extra)) {
		if known[strings.ToLower(name)] {
			continue
		}
		if !empty {
			buf.WriteByte(',')
		}
		empty = false
		key, _ := json.Marshal(name)
		buf.Write(key)
		buf.WriteByte(':')
		raw := extra[name]
		if len(raw) == 0 {
			raw = json.RawMessage("null")
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

var jsonNamesCache sync.Map // reflect.Type -> map[string]bool

// jsonNames returns the lower-cased JSON member names the struct type t (or
// *t) declares, including those of untagged embedded structs. encoding/json
// matches member names case-insensitively, so lookups must too.
func jsonNames(t reflect.Type) map[string]bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := jsonNamesCache.Load(t); ok {
		return cached.(map[string]bool)
	}
	names := map[string]bool{}
	collectJSONNames(t, names)
	jsonNamesCache.Store(t, names)
	return names
}

func collectJSONNames(t reflect.Type, names map[string]bool) {
	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if f.Anonymous && name == "" {
			ft := f.Type
			for ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectJSONNames(ft, names)
				continue
			}
		}
		if !f.IsExported() {
			continue
		}
		if name == "" {
			name = f.Name
		}
		names[strings.ToLower(name)] = true
	}
}
