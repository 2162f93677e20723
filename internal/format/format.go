// Package format renders a catalog as dict, json or str output
package format

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sonemaro/ormf/internal/catalog"
)

// Format selects the output representation
type Format string

const (
	Dict Format = "dict"
	JSON Format = "json"
	Str  Format = "str"
)

// ErrInvalidFormat is returned for an unknown format selector
var ErrInvalidFormat = errors.New("invalid return format")

// Formats lists the accepted selectors
func Formats() []Format {
	return []Format{Dict, JSON, Str}
}

// Parse validates a selector
func Parse(s string) (Format, error) {
	switch f := Format(s); f {
	case Dict, JSON, Str:
		return f, nil
	}
	return "", fmt.Errorf("%w %q: must be one of dict, json, str", ErrInvalidFormat, s)
}

// Output is a rendered result. Catalog is always set; Text is empty for Dict.
type Output struct {
	Format  Format
	Catalog *catalog.Catalog
	Text    string
}

// Console returns the form printed on a terminal. Dict is shown as
// indented JSON.
func (o *Output) Console() (string, error) {
	if o.Format != Dict {
		return o.Text, nil
	}
	return IndentJSON(o.Catalog)
}

// Render produces the output for f
func Render(c *catalog.Catalog, f Format) (*Output, error) {
	out := &Output{Format: f, Catalog: c}
	switch f {
	case Dict:
		return out, nil
	case JSON:
		text, err := IndentJSON(c)
		if err != nil {
			return nil, err
		}
		out.Text = text
		return out, nil
	case Str:
		out.Text = strings.Join(c.IDs(), "\n")
		return out, nil
	}
	return nil, fmt.Errorf("%w %q", ErrInvalidFormat, string(f))
}

// IndentJSON serializes c with two-space indentation. Non-ASCII and HTML
// characters are written literally.
func IndentJSON(c *catalog.Catalog) (string, error) {
	compact, err := c.MarshalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return "", fmt.Errorf("failed to indent catalog: %w", err)
	}
	return buf.String(), nil
}
