// Package filter applies keep and remove patterns to model identifiers
package filter

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sonemaro/ormf/internal/catalog"
)

// Pattern is a compiled expression anchored at the start of an identifier
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// Source returns the expression as written
func (p Pattern) Source() string {
	return p.source
}

// Match reports whether id matches from its first character
func (p Pattern) Match(id string) bool {
	return p.re.MatchString(id)
}

// Patterns is the compiled keep and remove lists
type Patterns struct {
	Keep   []Pattern
	Remove []Pattern
}

// PatternError reports an expression that does not compile
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// SplitPatterns splits a comma-separated pattern list. An empty string
// yields no patterns.
func SplitPatterns(list string) []string {
	if list == "" {
		return nil
	}
	return strings.Split(list, ",")
}

// CompilePattern anchors expr at the start of the input and compiles it
func CompilePattern(expr string) (Pattern, error) {
	re, err := regexp.Compile(`^(?:` + expr + `)`)
	if err != nil {
		return Pattern{}, &PatternError{Pattern: expr, Err: err}
	}
	return Pattern{source: expr, re: re}, nil
}

// Compile builds the keep and remove lists from comma-separated strings.
// An empty keep string compiles to a single match-all pattern; an empty
// remove string compiles to no patterns.
func Compile(keep, remove string) (*Patterns, error) {
	keepExprs := strings.Split(keep, ",")
	p := &Patterns{
		Keep: make([]Pattern, 0, len(keepExprs)),
	}
	for _, expr := range keepExprs {
		pat, err := CompilePattern(expr)
		if err != nil {
			return nil, fmt.Errorf("keep patterns: %w", err)
		}
		p.Keep = append(p.Keep, pat)
	}
	for _, expr := range SplitPatterns(remove) {
		pat, err := CompilePattern(expr)
		if err != nil {
			return nil, fmt.Errorf("remove patterns: %w", err)
		}
		p.Remove = append(p.Remove, pat)
	}
	return p, nil
}

// Verdict is the outcome of checking a single identifier
type Verdict int

const (
	Keep Verdict = iota
	DropKeep
	DropRemove
)

// Check decides the fate of id. The remove list is only consulted once
// every keep pattern matched.
func (p *Patterns) Check(id string) Verdict {
	for _, k := range p.Keep {
		if !k.Match(id) {
			return DropKeep
		}
	}
	for _, r := range p.Remove {
		if r.Match(id) {
			return DropRemove
		}
	}
	return Keep
}

// Report summarises an Apply call
type Report struct {
	Kept            int
	DroppedByKeep   []string
	DroppedByRemove []string
}

// Apply removes every id from c that fails Check. Removals happen after the
// scan. An empty result is catalog.ErrNoEntriesKept.
func (p *Patterns) Apply(c *catalog.Catalog) (Report, error) {
	var report Report
	c.Range(func(id string, _ catalog.Entry) bool {
		switch p.Check(id) {
		case DropKeep:
			report.DroppedByKeep = append(report.DroppedByKeep, id)
		case DropRemove:
			report.DroppedByRemove = append(report.DroppedByRemove, id)
		}
		return true
	})

	for _, id := range report.DroppedByKeep {
		c.Delete(id)
	}
	for _, id := range report.DroppedByRemove {
		c.Delete(id)
	}

	report.Kept = c.Len()
	if report.Kept == 0 {
		return report, catalog.ErrNoEntriesKept
	}
	return report, nil
}
