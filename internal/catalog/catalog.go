package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Catalog maps model id to record, in insertion order
type Catalog struct {
	records *orderedmap.OrderedMap[string, Entry]
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{records: orderedmap.New[string, Entry]()}
}

// Key builds a catalog from fetched entries. Each entry's id becomes the key
// and the remaining fields become the record. A repeated id keeps the
// position of its first occurrence and the record of its last.
func Key(entries []Entry) (*Catalog, error) {
	c := New()
	for i, e := range entries {
		raw, ok := e.Field(IDField)
		if !ok {
			return nil, &FieldError{Index: i, Field: IDField}
		}
		var id string
		if err := json.Unmarshal(raw, &id); err != nil {
			return nil, &FieldError{Index: i, Field: IDField, Cause: "is not a string"}
		}
		c.Set(id, e.Without(IDField))
	}
	return c, nil
}

// Set inserts or replaces a record
func (c *Catalog) Set(id string, record Entry) {
	c.records.Set(id, record)
}

// Get returns the record for id
func (c *Catalog) Get(id string) (Entry, bool) {
	return c.records.Get(id)
}

// Delete removes id and reports whether it was present
func (c *Catalog) Delete(id string) bool {
	_, present := c.records.Delete(id)
	return present
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return c.records.Len()
}

// IDs returns the keys in order
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, c.records.Len())
	for pair := c.records.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Range calls fn for every record in order until fn returns false.
// fn must not add or remove records.
func (c *Catalog) Range(fn func(id string, record Entry) bool) {
	for pair := c.records.Oldest(); pair != nil; pair = pair.Next() {
		if !fn(pair.Key, pair.Value) {
			return
		}
	}
}

// Truncate keeps the first n records. n == -1 keeps everything.
func (c *Catalog) Truncate(n int) error {
	if err := ValidateLimit(n); err != nil {
		return err
	}
	if n == -1 || c.records.Len() <= n {
		return nil
	}

	var drop []string
	i := 0
	for pair := c.records.Oldest(); pair != nil; pair = pair.Next() {
		if i >= n {
			drop = append(drop, pair.Key)
		}
		i++
	}
	for _, id := range drop {
		c.records.Delete(id)
	}
	return nil
}

// MarshalJSON writes the catalog as a JSON object in key order
func (c *Catalog) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	for pair := c.records.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		if err := writeKey(&buf, pair.Key); err != nil {
			return nil, err
		}
		record, err := pair.Value.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("failed to encode record %q: %w", pair.Key, err)
		}
		buf.Write(record)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of records, preserving key order
func (c *Catalog) UnmarshalJSON(data []byte) error {
	records := orderedmap.New[string, Entry]()
	if err := records.UnmarshalJSON(data); err != nil {
		return fmt.Errorf("failed to decode catalog: %w", err)
	}
	c.records = records
	return nil
}
