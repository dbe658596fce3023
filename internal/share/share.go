// Package share holds the price observation model: a Share is one observed
// price for a company code, a Timeline is the current Share plus whatever
// historical Shares exist at the fixed comparison moments, and Movements
// derives the delta/percent change per moment.
package share

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the naive local-time format used for display and storage.
const DateLayout = "2006-01-02 15:04:05"

// MalformedPriceError reports a raw price string that could not be
// normalized into a decimal.
type MalformedPriceError struct {
	Raw string
}

func (e *MalformedPriceError) Error() string {
	return fmt.Sprintf("malformed price %q", e.Raw)
}

// Share is a single price observation for a company code.
// Immutable after construction.
type Share struct {
	Code       string
	Price      decimal.Decimal
	ObservedAt time.Time
}

// New builds a Share from a raw scraped or stored price string.
// The raw string is normalized before parsing; an unparsable or negative
// price yields a *MalformedPriceError.
func New(code, rawPrice string, observedAt time.Time) (Share, error) {
	price, err := ParsePrice(rawPrice)
	if err != nil {
		return Share{}, err
	}
	return Share{Code: code, Price: price, ObservedAt: observedAt}, nil
}

// DisplayDate renders the observation time for reports.
func (s Share) DisplayDate() string {
	return s.ObservedAt.Format(DateLayout)
}

// ParsePrice normalizes a raw price string into a non-negative decimal.
// Scraped prices use a comma as the decimal separator and may carry
// surrounding whitespace or space-grouped thousands ("1 234,56 "); pages
// sometimes group with non-breaking spaces, so those are stripped too.
func ParsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', ' ', ' ':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	price, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, &MalformedPriceError{Raw: raw}
	}
	if price.IsNegative() {
		return decimal.Decimal{}, &MalformedPriceError{Raw: raw}
	}
	return price, nil
}

// Timeline aggregates one company's current price with its available
// historical prices. History is sparse: a moment with no qualifying stored
// record is simply absent.
type Timeline struct {
	Current Share
	History map[Moment]Share
}

// NewTimeline starts a timeline from the freshly observed current Share.
func NewTimeline(current Share) *Timeline {
	return &Timeline{
		Current: current,
		History: make(map[Moment]Share),
	}
}

// AddHistory records the historical Share for a moment. The historical code
// must match the current code.
func (t *Timeline) AddHistory(m Moment, s Share) error {
	if s.Code != t.Current.Code {
		return fmt.Errorf("history code %q does not match timeline code %q", s.Code, t.Current.Code)
	}
	t.History[m] = s
	return nil
}
