// Package checker runs one batch: scrape the current price per company
// code, load the comparison history per moment, and persist the fresh
// observations once the report has been rendered.
package checker

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lordfoom/share-price-checker/internal/apperror"
	"github.com/lordfoom/share-price-checker/internal/scraper"
	"github.com/lordfoom/share-price-checker/internal/share"
)

// Repository is the slice of storage the checker needs.
type Repository interface {
	SavePrice(ctx context.Context, s share.Share) error
	MostRecentOnOrBefore(ctx context.Context, code string, cutoff time.Time) (share.Share, bool, error)
}

// Result is the outcome for one company code. Exactly one of Timeline and
// Err is set.
type Result struct {
	Code     string
	Timeline *share.Timeline
	Err      *apperror.Error
}

// OK reports whether the code produced a usable timeline.
func (r Result) OK() bool { return r.Err == nil }

// Service orchestrates a single run.
type Service struct {
	scraper scraper.Scraper
	repo    Repository
	workers int
	now     func() time.Time
}

func NewService(sc scraper.Scraper, repo Repository, opts ...Option) *Service {
	s := &Service{
		scraper: sc,
		repo:    repo,
		workers: 1,
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Option configures a Service.
type Option func(*Service)

// WithWorkers bounds how many codes are fetched at once. The default of 1
// processes codes strictly in input order; results come back in input order
// either way.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithNow overrides the clock used for history cutoffs.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// CheckAll processes every code and returns one Result per code, in input
// order. A failing code never aborts the batch.
func (s *Service) CheckAll(ctx context.Context, codes []string) []Result {
	results := make([]Result, len(codes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, code := range codes {
		i, code := i, code
		g.Go(func() error {
			results[i] = s.check(ctx, code)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *Service) check(ctx context.Context, code string) Result {
	quote, err := s.scraper.Fetch(ctx, code)
	if err != nil {
		slog.Warn("scrape failed", "code", code, "error", err)
		return Result{Code: code, Err: apperror.New(code, apperror.StageScrape, err)}
	}

	current, err := share.New(code, quote.RawPrice, quote.ObservedAt)
	if err != nil {
		slog.Warn("current price unparsable", "code", code, "raw", quote.RawPrice, "error", err)
		return Result{Code: code, Err: apperror.New(code, apperror.StageParse, err)}
	}

	tl := share.NewTimeline(current)
	now := s.now()
	for _, m := range share.Moments() {
		cutoff := now.AddDate(0, 0, -m.MinAgeDays())
		hist, found, err := s.repo.MostRecentOnOrBefore(ctx, code, cutoff)
		if err != nil {
			// Ambiguous with "genuinely absent", which is acceptable for a
			// display fallback: the moment degrades to a filler cell.
			slog.Warn("history lookup failed", "code", code, "moment", m.String(), "error", err)
			continue
		}
		if !found {
			continue
		}
		if err := tl.AddHistory(m, hist); err != nil {
			slog.Warn("history rejected", "code", code, "moment", m.String(), "error", err)
		}
	}

	return Result{Code: code, Timeline: tl}
}

// Persist saves the current price of every successful result. Called after
// the report is rendered so a failed insert never suppresses it. Returns
// one error per code that failed to persist.
func (s *Service) Persist(ctx context.Context, results []Result) []*apperror.Error {
	var failures []*apperror.Error
	for _, res := range results {
		if !res.OK() {
			continue
		}
		if err := s.repo.SavePrice(ctx, res.Timeline.Current); err != nil {
			slog.Warn("persist failed", "code", res.Code, "error", err)
			failures = append(failures, apperror.New(res.Code, apperror.StagePersist, err))
		}
	}
	return failures
}
