// Package source reads and validates the list of page URLs.
package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"pagefetch/internal/domain"
	"pagefetch/internal/observability/types"
)

// urlPattern accepts http(s) URLs whose host is a dotted name ending in an
// alphabetic TLD, localhost, or an IPv4 literal, with an optional port.
var urlPattern = regexp.MustCompile(
	`^https?://(?:[a-zA-Z0-9\-.]+\.[a-zA-Z]{2,}|localhost|\d{1,3}(?:\.\d{1,3}){3})(?::\d{1,5})?(?:/\S*)?$`,
)

// maxLineSize bounds a single URL line.
const maxLineSize = 1 << 20

// IsValidURL reports whether s is an acceptable page URL.
func IsValidURL(s string) bool {
	return urlPattern.MatchString(s)
}

// Loader reads one candidate URL per line, keeping the valid ones in order.
type Loader struct {
	logger types.Logger
}

// NewLoader creates a loader that reports skipped lines to logger.
func NewLoader(logger types.Logger) *Loader {
	return &Loader{logger: logger}
}

// LoadFile opens path and loads URLs from it.
func (l *Loader) LoadFile(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening file %s: %w", path, err)
	}
	defer f.Close()

	return l.Load(ctx, f)
}

// Load returns the valid URLs in r in input order. Blank lines are ignored and
// invalid lines are logged and skipped. It fails with domain.ErrNoValidURLs
// when nothing valid remains.
func (l *Loader) Load(ctx context.Context, r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !IsValidURL(line) {
			l.logger.Info(ctx, "Invalid URL skipped: "+line, nil)
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read URL list: %w", err)
	}

	if len(urls) == 0 {
		return nil, domain.ErrNoValidURLs
	}
	return urls, nil
}
