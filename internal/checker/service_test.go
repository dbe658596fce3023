package checker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lordfoom/share-price-checker/internal/apperror"
	"github.com/lordfoom/share-price-checker/internal/scraper"
	"github.com/lordfoom/share-price-checker/internal/share"
)

// --- fake scraper ---

type fakeScraper struct {
	quotes map[string]scraper.Quote
	errs   map[string]error
}

func (f *fakeScraper) Source() string { return "fake" }

func (f *fakeScraper) Fetch(_ context.Context, code string) (scraper.Quote, error) {
	if err, ok := f.errs[code]; ok {
		return scraper.Quote{}, err
	}
	q, ok := f.quotes[code]
	if !ok {
		return scraper.Quote{}, scraper.ErrPriceNotFound
	}
	return q, nil
}

// --- fake repo ---

// fakeRepo serves canned history keyed by company code and cutoff age in
// days, matching how the service derives cutoffs from Moment.MinAgeDays.
type fakeRepo struct {
	history    map[string]map[int]share.Share
	historyErr error
	saveErr    error
	saved      []share.Share
	now        time.Time
}

func (f *fakeRepo) SavePrice(_ context.Context, s share.Share) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, s)
	return nil
}

func (f *fakeRepo) MostRecentOnOrBefore(_ context.Context, code string, cutoff time.Time) (share.Share, bool, error) {
	if f.historyErr != nil {
		return share.Share{}, false, f.historyErr
	}
	ageDays := int(f.now.Sub(cutoff).Round(time.Hour).Hours() / 24)
	s, ok := f.history[code][ageDays]
	return s, ok, nil
}

func mustShare(t *testing.T, code, raw string, at time.Time) share.Share {
	t.Helper()
	s, err := share.New(code, raw, at)
	if err != nil {
		t.Fatalf("build share: %v", err)
	}
	return s
}

func TestCheckAll_BuildsTimelines(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)
	sc := &fakeScraper{quotes: map[string]scraper.Quote{
		"GOOG": {RawPrice: "123,45", ObservedAt: now},
	}}
	repo := &fakeRepo{
		now: now,
		history: map[string]map[int]share.Share{
			"GOOG": {1: mustShare(t, "GOOG", "120,00", now.AddDate(0, 0, -1))},
		},
	}

	svc := NewService(sc, repo, WithNow(func() time.Time { return now }))
	results := svc.CheckAll(context.Background(), []string{"GOOG"})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	res := results[0]
	if !res.OK() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Timeline.Current.Price.StringFixed(2) != "123.45" {
		t.Errorf("expected current 123.45, got %s", res.Timeline.Current.Price.StringFixed(2))
	}
	if _, ok := res.Timeline.History[share.Yesterday]; !ok {
		t.Error("expected yesterday history present")
	}
	if _, ok := res.Timeline.History[share.LastMonth]; ok {
		t.Error("expected last-month history absent")
	}
}

func TestCheckAll_ScrapeFailureDoesNotAbortBatch(t *testing.T) {
	now := time.Now()
	sc := &fakeScraper{
		quotes: map[string]scraper.Quote{"GOOG": {RawPrice: "100,00", ObservedAt: now}},
		errs:   map[string]error{"BADCO": scraper.ErrPriceNotFound},
	}
	repo := &fakeRepo{now: now}

	svc := NewService(sc, repo)
	results := svc.CheckAll(context.Background(), []string{"BADCO", "GOOG"})

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].OK() {
		t.Error("expected BADCO to fail")
	}
	if results[0].Err.Stage != apperror.StageScrape {
		t.Errorf("expected scrape stage, got %s", results[0].Err.Stage)
	}
	if !results[1].OK() {
		t.Errorf("expected GOOG to succeed, got %v", results[1].Err)
	}
}

func TestCheckAll_MalformedCurrentPriceIsParseStage(t *testing.T) {
	sc := &fakeScraper{quotes: map[string]scraper.Quote{
		"GOOG": {RawPrice: "not a price", ObservedAt: time.Now()},
	}}
	svc := NewService(sc, &fakeRepo{})

	results := svc.CheckAll(context.Background(), []string{"GOOG"})
	if results[0].OK() {
		t.Fatal("expected failure for malformed price")
	}
	if results[0].Err.Stage != apperror.StageParse {
		t.Errorf("expected parse stage, got %s", results[0].Err.Stage)
	}
	var mpe *share.MalformedPriceError
	if !errors.As(results[0].Err, &mpe) {
		t.Errorf("expected MalformedPriceError, got %v", results[0].Err)
	}
}

func TestCheckAll_HistoryErrorDegradesToAbsent(t *testing.T) {
	now := time.Now()
	sc := &fakeScraper{quotes: map[string]scraper.Quote{
		"GOOG": {RawPrice: "100,00", ObservedAt: now},
	}}
	repo := &fakeRepo{now: now, historyErr: errors.New("db gone")}

	svc := NewService(sc, repo)
	results := svc.CheckAll(context.Background(), []string{"GOOG"})

	res := results[0]
	if !res.OK() {
		t.Fatalf("history errors must not fail the code, got %v", res.Err)
	}
	if len(res.Timeline.History) != 0 {
		t.Errorf("expected empty history, got %d entries", len(res.Timeline.History))
	}
}

func TestCheckAll_PreservesInputOrder(t *testing.T) {
	now := time.Now()
	sc := &fakeScraper{quotes: map[string]scraper.Quote{
		"A": {RawPrice: "1,00", ObservedAt: now},
		"B": {RawPrice: "2,00", ObservedAt: now},
		"C": {RawPrice: "3,00", ObservedAt: now},
	}}
	svc := NewService(sc, &fakeRepo{now: now}, WithWorkers(3))

	results := svc.CheckAll(context.Background(), []string{"C", "A", "B"})

	want := []string{"C", "A", "B"}
	for i, res := range results {
		if res.Code != want[i] {
			t.Errorf("result %d: expected %s, got %s", i, want[i], res.Code)
		}
	}
}

func TestPersist_SavesOnlySuccessesAndCollectsFailures(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{now: now}
	svc := NewService(&fakeScraper{}, repo)

	ok := Result{Code: "GOOG", Timeline: share.NewTimeline(mustShare(t, "GOOG", "100,00", now))}
	bad := Result{Code: "BADCO", Err: apperror.New("BADCO", apperror.StageScrape, scraper.ErrPriceNotFound)}

	failures := svc.Persist(context.Background(), []Result{ok, bad})
	if len(failures) != 0 {
		t.Fatalf("unexpected persist failures: %v", failures)
	}
	if len(repo.saved) != 1 || repo.saved[0].Code != "GOOG" {
		t.Fatalf("expected exactly GOOG saved, got %v", repo.saved)
	}
}

func TestPersist_ReportsPerCodeFailures(t *testing.T) {
	now := time.Now()
	repo := &fakeRepo{now: now, saveErr: errors.New("disk full")}
	svc := NewService(&fakeScraper{}, repo)

	res := Result{Code: "GOOG", Timeline: share.NewTimeline(mustShare(t, "GOOG", "100,00", now))}
	failures := svc.Persist(context.Background(), []Result{res})

	if len(failures) != 1 {
		t.Fatalf("expected 1 failure, got %d", len(failures))
	}
	if failures[0].Stage != apperror.StagePersist {
		t.Errorf("expected persist stage, got %s", failures[0].Stage)
	}
	if failures[0].CompanyCode != "GOOG" {
		t.Errorf("expected code GOOG, got %s", failures[0].CompanyCode)
	}
}
