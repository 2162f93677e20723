package catalog

import (
	"bytes"
	"encoding/json"
	"math/big"
	"slices"
	"strings"
)

type valueKind int

const (
	kindOther valueKind = iota
	kindNumber
	kindString
)

// sortValue is a decoded sort key. Booleans count as the numbers 0 and 1.
type sortValue struct {
	kind valueKind
	num  *big.Rat
	str  string
	raw  string
}

func parseSortValue(raw json.RawMessage) sortValue {
	v := sortValue{raw: string(raw)}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return v
	}

	switch x := decoded.(type) {
	case json.Number:
		// exact, so integers past 2^53 stay distinct
		if n, ok := new(big.Rat).SetString(x.String()); ok {
			v.kind, v.num = kindNumber, n
		}
	case bool:
		v.kind, v.num = kindNumber, big.NewRat(0, 1)
		if x {
			v.num = big.NewRat(1, 1)
		}
	case string:
		v.kind, v.str = kindString, x
	}
	return v
}

func compareValues(a, b sortValue) int {
	switch a.kind {
	case kindNumber:
		return a.num.Cmp(b.num)
	case kindString:
		return strings.Compare(a.str, b.str)
	}
	return 0
}

// SortDescending orders entries by the value of key, largest first. Ties
// keep their fetch order. An empty key returns entries unchanged. Every
// entry must carry key, and the values must be all strings or all numbers,
// where true and false count as 1 and 0.
func SortDescending(entries []Entry, key string) ([]Entry, error) {
	if key == "" {
		return entries, nil
	}

	type keyed struct {
		entry Entry
		value sortValue
	}
	items := make([]keyed, len(entries))
	for i, e := range entries {
		raw, ok := e.Field(key)
		if !ok {
			return nil, &FieldError{Index: i, Field: key}
		}
		items[i] = keyed{entry: e, value: parseSortValue(raw)}
	}

	// A single value is never compared
	if len(items) > 1 {
		first := items[0].value
		for _, it := range items {
			if it.value.kind == kindOther || it.value.kind != first.kind {
				return nil, &CompareError{Field: key, Left: first.raw, Right: it.value.raw}
			}
		}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		return compareValues(b.value, a.value)
	})

	sorted := make([]Entry, len(items))
	for i, it := range items {
		sorted[i] = it.entry
	}
	return sorted, nil
}
