package openrouter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const httpsScheme = "https://"

// ErrInvalidEndpoint is returned when the base endpoint has no https:// scheme
var ErrInvalidEndpoint = errors.New("invalid endpoint: expected an https:// URL")

var slashRun = regexp.MustCompile(`/+`)

// NormalizeURL joins base and path with a slash, collapses repeated slashes
// after the scheme and forces https.
func NormalizeURL(base, path string) (string, error) {
	joined := base + "/" + path
	_, rest, found := strings.Cut(joined, httpsScheme)
	if !found {
		return "", fmt.Errorf("%w (got %q)", ErrInvalidEndpoint, base)
	}
	return httpsScheme + slashRun.ReplaceAllString(rest, "/"), nil
}
