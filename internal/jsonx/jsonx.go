// Package jsonx carries JSON object members that a typed decode does not
// know about, so documents written by other releases survive a load/save
// cycle without losing fields.
package jsonx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// KnownFields returns the set of JSON member names encoded for struct type t.
// Fields tagged "-" and unexported fields are excluded.
func KnownFields(t reflect.Type) map[string]bool {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	known := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := f.Name
		if tag, ok := f.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		known[name] = true
	}
	return known
}

// Unknown returns the members of the JSON object in data whose names are not
// in known, compacted. It returns nil when data is not an object or every
// member is known.
func Unknown(data []byte, known map[string]bool) map[string]json.RawMessage {
	obj := gjson.ParseBytes(data)
	if !obj.IsObject() {
		return nil
	}
	var extra map[string]json.RawMessage
	obj.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if known[name] {
			return true
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[name] = compact(value.Raw)
		return true
	})
	return extra
}

// compact strips insignificant whitespace so captured members compare equal
// regardless of how the source document was indented.
func compact(raw string) json.RawMessage {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(raw)); err != nil {
		return json.RawMessage(raw)
	}
	return json.RawMessage(buf.Bytes())
}

// WithUnknown adds the members in extra to the JSON object in data. Members
// already present in data win; extra never overrides a typed field.
// Members are added in name order so the output is deterministic.
func WithUnknown(data []byte, extra map[string]json.RawMessage) ([]byte, error) {
	if len(extra) == 0 {
		return data, nil
	}
	names := make([]string, 0, len(extra))
	for name := range extra {
		names = append(names, name)
	}
	sort.Strings(names)

	out := data
	for _, name := range names {
		path := gjson.Escape(name)
		if gjson.GetBytes(out, path).Exists() {
			continue
		}
		raw := extra[name]
		if !json.Valid(raw) {
			return nil, fmt.Errorf("member %q: invalid JSON", name)
		}
		var err error
		out, err = sjson.SetRawBytes(out, path, raw)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", name, err)
		}
	}
	return out, nil
}

// IsObject reports whether data holds a single JSON object.
func IsObject(data []byte) bool {
	return json.Valid(data) && gjson.ParseBytes(data).IsObject()
}

// String returns the string member at name, and whether it was present as a string.
func String(data []byte, name string) (string, bool) {
	v := gjson.GetBytes(data, gjson.Escape(name))
	if v.Type != gjson.String {
		return "", false
	}
	return v.String(), true
}
