// Package pipeline runs the catalog filter: fetch, sort, key, filter,
// truncate and format, in that order.
package pipeline

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sonemaro/ormf/internal/catalog"
	"github.com/sonemaro/ormf/internal/filter"
	"github.com/sonemaro/ormf/internal/format"
	"github.com/sonemaro/ormf/internal/openrouter"
)

const (
	DefaultKeepPatterns   = ".*:free"
	DefaultRemovePatterns = `.*\bbase\b.*,.*\binstruct\b.*,.*\bmath\b`
	DefaultSortKey        = "context_length"
)

// Fetcher retrieves the raw catalog entries at url
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]catalog.Entry, error)
}

// Options is the per-run filter configuration
type Options struct {
	Limit          int           // -1 for all, otherwise a positive count
	Format         format.Format // dict, json or str
	KeepPatterns   string        // comma-separated, all must match
	RemovePatterns string        // comma-separated, any match drops; empty disables
	SortKey        string        // field to sort on, descending; empty disables
	Endpoint       string
	ModelPath      string
}

// DefaultOptions returns a fresh set of defaults
func DefaultOptions() Options {
	return Options{
		Limit:          -1,
		Format:         format.Str,
		KeepPatterns:   DefaultKeepPatterns,
		RemovePatterns: DefaultRemovePatterns,
		SortKey:        DefaultSortKey,
		Endpoint:       openrouter.DefaultEndpoint,
		ModelPath:      openrouter.DefaultModelPath,
	}
}

// plan is everything derived from Options before the network is touched
type plan struct {
	url      string
	patterns *filter.Patterns
}

func (o Options) prepare() (*plan, error) {
	if err := catalog.ValidateLimit(o.Limit); err != nil {
		return nil, err
	}
	if _, err := format.Parse(string(o.Format)); err != nil {
		return nil, err
	}
	patterns, err := filter.Compile(o.KeepPatterns, o.RemovePatterns)
	if err != nil {
		return nil, err
	}
	url, err := openrouter.NormalizeURL(o.Endpoint, o.ModelPath)
	if err != nil {
		return nil, err
	}
	return &plan{url: url, patterns: patterns}, nil
}

// Validate reports configuration errors without running anything
func (o Options) Validate() error {
	_, err := o.prepare()
	return err
}

// Runner executes the pipeline against a Fetcher
type Runner struct {
	fetcher Fetcher
	logger  zerolog.Logger
}

// NewRunner creates a runner. Pass zerolog.Nop() to discard logs.
func NewRunner(f Fetcher, logger zerolog.Logger) *Runner {
	return &Runner{fetcher: f, logger: logger}
}

// Run executes one invocation. Configuration errors are returned before the
// fetch; every error is terminal.
func (r *Runner) Run(ctx context.Context, opts Options) (*format.Output, error) {
	p, err := opts.prepare()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	entries, err := r.fetcher.Fetch(ctx, p.url)
	if err != nil {
		return nil, err
	}
	r.logger.Debug().Int("entries", len(entries)).Str("url", p.url).Msg("catalog fetched")

	entries, err = catalog.SortDescending(entries, opts.SortKey)
	if err != nil {
		return nil, fmt.Errorf("sort by %q: %w", opts.SortKey, err)
	}

	c, err := catalog.Key(entries)
	if err != nil {
		return nil, fmt.Errorf("keying catalog: %w", err)
	}

	report, err := p.patterns.Apply(c)
	r.logger.Debug().
		Int("kept", report.Kept).
		Int("dropped_keep", len(report.DroppedByKeep)).
		Int("dropped_remove", len(report.DroppedByRemove)).
		Msg("patterns applied")
	if err != nil {
		return nil, err
	}

	if err := c.Truncate(opts.Limit); err != nil {
		return nil, err
	}

	return format.Render(c, opts.Format)
}
