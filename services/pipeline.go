package services

import (
	"context"
	"fmt"
	"time"

	"shop-seeker/models"
	"shop-seeker/scraper"
	"shop-seeker/storage"
	"shop-seeker/utils"
)

const dateLayout = "2006-01-02"

// Pipeline runs one scrape → select → review → record pass.
type Pipeline struct {
	store            storage.Store
	sources          []scraper.Source
	selector         *Selector
	reviewer         *Reviewer
	reports          *ReportService
	logger           *utils.Logger
	now              func() time.Time
	maxDetailFetches int

	report *models.RunReport
}

// PipelineOption customises a Pipeline.
type PipelineOption func(*Pipeline)

// WithClock overrides the clock used for the "date found" column.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) { p.now = now }
}

// WithMaxDetailFetches caps detail-page fetches across all sources for one
// run. A negative value removes the cap.
func WithMaxDetailFetches(n int) PipelineOption {
	return func(p *Pipeline) { p.maxDetailFetches = n }
}

// NewPipeline wires a Pipeline. Sources are visited in the order given.
func NewPipeline(store storage.Store, sources []scraper.Source, selector *Selector,
	reviewer *Reviewer, logger *utils.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	p := &Pipeline{
		store:            store,
		sources:          sources,
		selector:         selector,
		reviewer:         reviewer,
		reports:          NewReportService(logger),
		logger:           logger,
		now:              time.Now,
		maxDetailFetches: 25,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline once. It returns an error only when the run
// could not proceed: the seen links could not be loaded or ctx was
// cancelled. Source and persistence failures are logged, recorded in the
// summary's Errors and skipped over.
func (p *Pipeline) Run(ctx context.Context) (*models.RunSummary, error) {
	p.logger.Info("[pipeline] Run starting with %d sources", len(p.sources))
	summary := &models.RunSummary{}

	seen, err := p.store.LoadSeen(ctx)
	if err != nil {
		return nil, fmt.Errorf("pipeline: load seen links: %w", err)
	}
	p.logger.Info("[pipeline] Found %d previously seen links", seen.Size())

	all, err := p.scrape(ctx, summary)
	if err != nil {
		return nil, err
	}
	summary.Scraped = len(all)
	p.logger.Info("[pipeline] Scraped %d total listings", len(all))

	fresh, candidates := p.selector.Select(all, seen)
	summary.New = len(fresh)
	summary.Candidates = len(candidates)
	p.logger.Info("[pipeline] %d candidates for review", len(candidates))

	today := p.now().Format(dateLayout)
	reviewed := make([]models.ReviewedListing, 0, len(candidates))

	for i, l := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline: cancelled after %d of %d reviews: %w", i, len(candidates), err)
		}

		verdict := p.reviewer.Review(ctx, l)
		reviewed = append(reviewed, models.ReviewedListing{Listing: l, Verdict: verdict})
		rec := storage.NewRecord(l, verdict, today)

		if verdict.Approved {
			summary.Approved++
			err = p.store.AppendApproved(ctx, rec)
		} else {
			summary.Rejected++
			err = p.store.AppendRejected(ctx, rec)
		}
		if err != nil {
			p.logger.Error("[pipeline] Failed to record %s: %v", l.Link, err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("record %s: %v", l.Link, err))
		}
	}

	summary.Success = true
	p.logger.Info("[pipeline] Done. Approved: %d, Rejected: %d, Errors: %d",
		summary.Approved, summary.Rejected, len(summary.Errors))

	p.report = p.reports.Generate(today, all, reviewed, *summary)
	return summary, nil
}

func (p *Pipeline) scrape(ctx context.Context, summary *models.RunSummary) ([]*models.Listing, error) {
	var budget *scraper.DetailBudget
	if p.maxDetailFetches >= 0 {
		budget = scraper.NewDetailBudget(p.maxDetailFetches)
	}

	var all []*models.Listing
	for _, src := range p.sources {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("pipeline: cancelled before %s: %w", src.Name(), err)
		}

		listings, err := src.Fetch(ctx, budget)
		if err != nil {
			p.logger.Error("[pipeline] Source %s failed: %v", src.Name(), err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("source %s: %v", src.Name(), err))
			continue
		}
		p.logger.Info("[pipeline] %s returned %d listings", src.Name(), len(listings))
		all = append(all, listings...)
	}
	return all, nil
}

// Report returns the analytics for the last completed run, or nil.
func (p *Pipeline) Report() *models.RunReport {
	return p.report
}
