// Package catalog holds the model catalog data structures and the stages
// that reshape them: sorting, keying and truncation.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// IDField is the entry field promoted to the catalog key
const IDField = "id"

// Entry is one record from the listing endpoint. Fields keep the order and
// the exact bytes they arrived with; Field returns those bytes unchanged.
type Entry struct {
	fields *orderedmap.OrderedMap[string, json.RawMessage]
}

// NewEntry creates an empty entry
func NewEntry() Entry {
	return Entry{fields: orderedmap.New[string, json.RawMessage]()}
}

// Field returns the raw JSON value of a field
func (e Entry) Field(name string) (json.RawMessage, bool) {
	if e.fields == nil {
		return nil, false
	}
	return e.fields.Get(name)
}

// Set stores a raw JSON value, keeping the field's position if it exists
func (e *Entry) Set(name string, value json.RawMessage) {
	if e.fields == nil {
		e.fields = orderedmap.New[string, json.RawMessage]()
	}
	e.fields.Set(name, value)
}

// Len returns the number of fields
func (e Entry) Len() int {
	if e.fields == nil {
		return 0
	}
	return e.fields.Len()
}

// Names returns the field names in order
func (e Entry) Names() []string {
	names := make([]string, 0, e.Len())
	if e.fields == nil {
		return names
	}
	for pair := e.fields.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

// Without returns a copy of the entry minus the named field.
// The receiver is left untouched.
func (e Entry) Without(name string) Entry {
	out := NewEntry()
	if e.fields == nil {
		return out
	}
	for pair := e.fields.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Key == name {
			continue
		}
		out.fields.Set(pair.Key, pair.Value)
	}
	return out
}

// UnmarshalJSON decodes a JSON object, rejecting every other JSON type
func (e *Entry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("catalog entry must be a JSON object, got %s", excerpt(trimmed, 40))
	}

	fields := orderedmap.New[string, json.RawMessage]()
	if err := fields.UnmarshalJSON(trimmed); err != nil {
		return fmt.Errorf("failed to decode catalog entry: %w", err)
	}
	e.fields = fields
	return nil
}

// MarshalJSON writes the fields in order. Strings are re-encoded so escaped
// non-ASCII, HTML characters and slashes come out literally; numbers and
// literals keep their upstream bytes.
func (e Entry) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if e.fields != nil {
		first := true
		for pair := e.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err := writeKey(&buf, pair.Key); err != nil {
				return nil, err
			}
			if err := writeValue(&buf, pair.Value); err != nil {
				return nil, fmt.Errorf("field %q: %w", pair.Key, err)
			}
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeKey writes a quoted object key followed by a colon. HTML characters
// are left as-is.
func writeKey(buf *bytes.Buffer, key string) error {
	if err := writeString(buf, key); err != nil {
		return fmt.Errorf("key %q: %w", key, err)
	}
	buf.WriteByte(':')
	return nil
}

// writeValue writes raw with every string unescaped as far as JSON allows.
// Objects keep their key order.
func writeValue(buf *bytes.Buffer, raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		buf.WriteString("null")
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("failed to decode string: %w", err)
		}
		return writeString(buf, s)
	case '{':
		fields := orderedmap.New[string, json.RawMessage]()
		if err := fields.UnmarshalJSON(trimmed); err != nil {
			return fmt.Errorf("failed to decode object: %w", err)
		}
		buf.WriteByte('{')
		for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
			if pair != fields.Oldest() {
				buf.WriteByte(',')
			}
			if err := writeKey(buf, pair.Key); err != nil {
				return err
			}
			if err := writeValue(buf, pair.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("failed to decode array: %w", err)
		}
		buf.WriteByte('[')
		for i, item := range items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	}

	buf.Write(trimmed)
	return nil
}

func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("failed to encode string: %w", err)
	}
	// Encode terminates every value with a newline
	buf.Truncate(buf.Len() - 1)
	return nil
}

func excerpt(b []byte, maxLen int) string {
	if len(b) == 0 {
		return "empty input"
	}
	if len(b) <= maxLen {
		return string(b)
	}
	return string(b[:maxLen-3]) + "..."
}
