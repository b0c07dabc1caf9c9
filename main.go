package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shop-seeker/config"
	"shop-seeker/llm"
	"shop-seeker/scraper"
	"shop-seeker/scraper/commercialcafe"
	"shop-seeker/scraper/craigslist"
	"shop-seeker/scraper/loopnet"
	"shop-seeker/secrets"
	"shop-seeker/services"
	"shop-seeker/storage"
	"shop-seeker/utils"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(utils.LogOptions{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Error("Run failed: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *utils.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Shop Seeker run starting ===")
	logger.Info("Config — center: %.4f,%.4f | radius: %.1fmi | store: %s | detail fetches: %d",
		cfg.Search.CenterLat, cfg.Search.CenterLng, cfg.Search.RadiusMiles,
		cfg.Store.Backend, cfg.Sources.MaxDetailFetches)

	sec, err := secrets.Load(cfg.Store.Backend == "sheets")
	if err != nil {
		return fmt.Errorf("load credentials: %w", err)
	}

	store, err := storage.Open(ctx, cfg.Store, sec.GoogleCredentials)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}
	defer store.Close()

	sources, closeSources := buildSources(cfg.Sources, logger)
	defer closeSources()

	pipeline := services.NewPipeline(
		store,
		sources,
		services.NewSelector(cfg.Search, logger),
		services.NewReviewer(llm.NewOpenAIClient(cfg.LLM, sec.LLMAPIKey), cfg.Criteria, logger),
		logger,
		services.WithMaxDetailFetches(cfg.Sources.MaxDetailFetches),
	)

	summary, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	services.NewReportService(logger).Print(os.Stdout, pipeline.Report())

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// fetcherSet hands each source its page fetcher. Sources listed in
// BROWSER_SOURCES share one headless browser, started on first use.
// Craigslist tolerates bots and is told who is asking; the other sites get a
// browser user agent.
type fetcherSet struct {
	cfg     config.Sources
	logger  *utils.Logger
	bot     *scraper.HTTPFetcher
	plain   *scraper.HTTPFetcher
	browser *scraper.BrowserFetcher
}

func newFetcherSet(cfg config.Sources, logger *utils.Logger) *fetcherSet {
	httpFetcher := func(ua string) *scraper.HTTPFetcher {
		return scraper.NewHTTPFetcher(scraper.HTTPOptions{
			UserAgent:  ua,
			Timeout:    cfg.HTTPTimeout,
			MaxRetries: cfg.MaxRetries,
			Logger:     logger,
		})
	}
	return &fetcherSet{
		cfg:    cfg,
		logger: logger,
		bot:    httpFetcher(scraper.BotUserAgent),
		plain:  httpFetcher(scraper.BrowserUserAgent),
	}
}

func (f *fetcherSet) For(source string) scraper.Fetcher {
	if f.cfg.UsesBrowser(source) {
		if f.browser == nil {
			f.browser = scraper.NewBrowserFetcher(scraper.BrowserOptions{
				ChromeBin: f.cfg.ChromeBin,
				Timeout:   2 * f.cfg.HTTPTimeout,
				Logger:    f.logger,
			})
		}
		return f.browser
	}
	if source == "craigslist" {
		return f.bot
	}
	return f.plain
}

func (f *fetcherSet) Close() {
	if f.browser != nil {
		f.browser.Close()
	}
}

// buildSources creates the adapters in visiting order.
func buildSources(cfg config.Sources, logger *utils.Logger) ([]scraper.Source, func()) {
	fetchers := newFetcherSet(cfg, logger)

	sources := []scraper.Source{
		craigslist.New(craigslist.Options{
			Region:   cfg.CraigslistRegion,
			Fetcher:  fetchers.For("craigslist"),
			Throttle: utils.NewThrottle(cfg.DetailDelayMin, cfg.DetailDelayMax),
			Logger:   logger,
		}),
		loopnet.New(loopnet.Options{Fetcher: fetchers.For("loopnet"), Logger: logger}),
		commercialcafe.New(commercialcafe.Options{Fetcher: fetchers.For("commercialcafe"), Logger: logger}),
	}

	return sources, fetchers.Close
}
