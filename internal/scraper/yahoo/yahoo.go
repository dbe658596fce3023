// Package yahoo fetches the current quote from the Yahoo Finance v8 chart
// API. Unlike the google source it returns a point-decimal raw price and an
// exchange-reported observation time.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/lordfoom/share-price-checker/internal/scraper"
)

const (
	defaultEndpoint = "https://query1.finance.yahoo.com/v8/finance/chart"
	userAgent       = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"
)

// Scraper fetches current quotes from Yahoo Finance.
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

// WithEndpoint overrides the chart API endpoint.
func WithEndpoint(ep string) Option {
	return func(s *Scraper) { s.endpoint = ep }
}

// WithNow overrides the clock used when the response carries no market time.
func WithNow(now func() time.Time) Option {
	return func(s *Scraper) { s.now = now }
}

// Source returns the scraper identifier.
func (s *Scraper) Source() string { return "yahoo" }

// Fetch requests the one-day chart for the code and reads the regular
// market price out of the chart metadata.
func (s *Scraper) Fetch(ctx context.Context, code string) (scraper.Quote, error) {
	if code == "" {
		return scraper.Quote{}, fmt.Errorf("company code cannot be empty")
	}

	reqURL := fmt.Sprintf("%s/%s?interval=1d&range=1d", s.endpoint, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return scraper.Quote{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := s.client.Do(req)
	if err != nil {
		return scraper.Quote{}, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		return scraper.Quote{}, fmt.Errorf("yahoo returned HTTP %d for %s", res.StatusCode, code)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return scraper.Quote{}, fmt.Errorf("yahoo read body: %w", err)
	}

	if apiErr := gjson.GetBytes(body, "chart.error.description"); apiErr.Exists() {
		return scraper.Quote{}, fmt.Errorf("yahoo chart error: %s", apiErr.String())
	}

	price := gjson.GetBytes(body, "chart.result.0.meta.regularMarketPrice")
	if !price.Exists() {
		return scraper.Quote{}, fmt.Errorf("%s: %w", code, scraper.ErrPriceNotFound)
	}

	observedAt := s.now()
	if ts := gjson.GetBytes(body, "chart.result.0.meta.regularMarketTime"); ts.Exists() {
		observedAt = time.Unix(ts.Int(), 0)
	}

	return scraper.Quote{RawPrice: price.String(), ObservedAt: observedAt}, nil
}
