// Command sharecheck scrapes the current share price for each company code
// given on the command line, compares it against previously recorded prices
// at fixed historical offsets, prints the comparison table, and records the
// fresh observations for future runs.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lordfoom/share-price-checker/internal/apperror"
	"github.com/lordfoom/share-price-checker/internal/checker"
	"github.com/lordfoom/share-price-checker/internal/config"
	"github.com/lordfoom/share-price-checker/internal/platform/sqlite"
	"github.com/lordfoom/share-price-checker/internal/render"
	"github.com/lordfoom/share-price-checker/internal/report"
	sharerepo "github.com/lordfoom/share-price-checker/internal/repository/share"
	"github.com/lordfoom/share-price-checker/internal/scraper"
	"github.com/lordfoom/share-price-checker/internal/scraper/google"
	"github.com/lordfoom/share-price-checker/internal/scraper/yahoo"
)

const version = "2.0.0"

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "sharecheck COMPANY_CODE [COMPANY_CODE...]",
		Short:         "Scrape share prices and compare them against recorded history",
		Version:       version,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args)
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, codes []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)).
		With("run_id", uuid.NewString()[:8]))

	cfgPath := config.DefaultPath
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() { _ = db.Close() }()

	sc, err := buildScraper(cfg)
	if err != nil {
		return err
	}
	slog.Info("starting run", "source", sc.Source(), "codes", len(codes))

	svc := checker.NewService(sc, sharerepo.NewRepository(db.DB), checker.WithWorkers(cfg.Workers))

	results := svc.CheckAll(ctx, codes)

	entries := make([]report.Entry, len(results))
	var checkFailures []*apperror.Error
	succeeded := 0
	for i, res := range results {
		entries[i] = report.Entry{Code: res.Code, Timeline: res.Timeline}
		if res.OK() {
			succeeded++
		} else {
			checkFailures = append(checkFailures, res.Err)
		}
	}

	render.Table(os.Stdout, report.Header(), report.Build(entries))
	render.FailureSummary(os.Stderr, "some codes could not be checked:", checkFailures)

	// Persist runs after the report so a write failure never costs the user
	// an already-assembled table.
	persistFailures := svc.Persist(ctx, results)
	render.FailureSummary(os.Stderr, "some prices could not be saved:", persistFailures)

	if succeeded == 0 {
		return fmt.Errorf("no company code could be checked")
	}
	return nil
}

func buildScraper(cfg *config.Config) (scraper.Scraper, error) {
	client := &http.Client{Timeout: cfg.HTTPTimeout()}
	if cfg.Scraper.Proxy != "" {
		if u, err := url.Parse(cfg.Scraper.Proxy); err == nil {
			client.Transport = &http.Transport{Proxy: http.ProxyURL(u)}
		}
	}

	registry := scraper.NewRegistry()
	registry.Register(google.New(google.WithClient(client)))
	registry.Register(yahoo.New(yahoo.WithClient(client)))

	return registry.Get(cfg.Scraper.Source)
}
