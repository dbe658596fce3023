// Package google scrapes the current share price out of a Google search
// results page. The finance knowledge panel shows the price next to a
// "Currency in XXX" note; the price itself uses a comma decimal separator
// and may group thousands with (non-breaking) spaces. This is deliberately
// a single fragile pattern match: if Google changes the markup, the fetch
// fails with ErrPriceNotFound rather than guessing.
package google

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/lordfoom/share-price-checker/internal/scraper"
)

const (
	defaultEndpoint = "https://www.google.com/search"
	currencyMarker  = "Currency in "
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

	// How far around the currency marker to look for the price. The panel
	// puts price and currency note within a few hundred bytes of markup.
	searchWindow = 2048
)

// priceRe matches a comma-decimal price whose thousands may be grouped by a
// regular, non-breaking, or narrow non-breaking space ("1 234,56"). Groups
// are exactly three digits so adjacent unrelated numbers don't fuse into one
// match. Tags are stripped from the window before matching.
var (
	priceRe = regexp.MustCompile(`\d+(?:[ \x{00a0}\x{202f}]\d{3})*,\d+`)
	tagRe   = regexp.MustCompile(`<[^>]*>`)
)

// Scraper fetches prices from Google search result pages.
type Scraper struct {
	client   *http.Client
	endpoint string
	now      func() time.Time
}

// New creates a Scraper with the given options applied.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		client:   &http.Client{Timeout: 30 * time.Second},
		endpoint: defaultEndpoint,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(s *Scraper) { s.client = c }
}

// WithEndpoint overrides the search endpoint.
func WithEndpoint(ep string) Option {
	return func(s *Scraper) { s.endpoint = ep }
}

// WithNow overrides the clock.
func WithNow(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// Source returns the scraper identifier.
func (s *Scraper) Source() string { return "google" }

// Fetch downloads the search results page for the code and extracts the
// first comma-decimal price that appears near a "Currency in" note.
func (s *Scraper) Fetch(ctx context.Context, code string) (scraper.Quote, error) {
	if code == "" {
		return scraper.Quote{}, fmt.Errorf("company code cannot be empty")
	}

	reqURL := fmt.Sprintf("%s?hl=en&q=%s", s.endpoint, url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return scraper.Quote{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := s.client.Do(req)
	if err != nil {
		return scraper.Quote{}, fmt.Errorf("google fetch: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return scraper.Quote{}, fmt.Errorf("google returned HTTP %d for %s", res.StatusCode, code)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return scraper.Quote{}, fmt.Errorf("google read body: %w", err)
	}

	raw, ok := extractPrice(string(body))
	if !ok {
		return scraper.Quote{}, fmt.Errorf("%s: %w", code, scraper.ErrPriceNotFound)
	}

	return scraper.Quote{RawPrice: raw, ObservedAt: s.now()}, nil
}

// extractPrice scans for the price pattern in a window of text preceding
// each "Currency in" occurrence. The panel renders the price at the start of
// that region, ahead of the percentage delta, so the first match wins.
func extractPrice(body string) (string, bool) {
	for offset := 0; offset < len(body); {
		rel := strings.Index(body[offset:], currencyMarker)
		if rel < 0 {
			return "", false
		}
		idx := offset + rel

		start := idx - searchWindow
		if start < 0 {
			start = 0
		}
		window := tagRe.ReplaceAllString(body[start:idx], " ")

		if m := priceRe.FindString(window); m != "" {
			return strings.TrimSpace(m), true
		}
		offset = idx + len(currencyMarker)
	}
	return "", false
}
