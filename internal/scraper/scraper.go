// Package scraper defines the price source contract: given a company code,
// return the raw price string and observation time, or fail. Concrete
// sources live in subpackages and register themselves in a Registry.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrPriceNotFound means the source responded but no price pattern could be
// located for the code.
var ErrPriceNotFound = errors.New("no price found")

// Quote is one raw scraped observation. RawPrice is the unparsed string as
// it appeared at the source; normalization happens downstream.
type Quote struct {
	RawPrice   string
	ObservedAt time.Time
}

// Scraper fetches the current quote for a company code.
type Scraper interface {
	Source() string
	Fetch(ctx context.Context, code string) (Quote, error)
}

// Registry holds the available scrapers by source name.
type Registry struct {
	mu       sync.RWMutex
	scrapers map[string]Scraper
}

func NewRegistry() *Registry {
	return &Registry{
		scrapers: make(map[string]Scraper),
	}
}

func (r *Registry) Register(s Scraper) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scrapers[s.Source()] = s
}

func (r *Registry) Get(source string) (Scraper, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scrapers[source]
	if !ok {
		return nil, fmt.Errorf("scraper not found for source: %s", source)
	}
	return s, nil
}

func (r *Registry) Sources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sources := make([]string, 0, len(r.scrapers))
	for src := range r.scrapers {
		sources = append(sources, src)
	}
	return sources
}
