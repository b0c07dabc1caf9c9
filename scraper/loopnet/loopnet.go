// Package loopnet scrapes commercial lease listings from LoopNet.
package loopnet

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shop-seeker/models"
	"shop-seeker/scraper"
	"shop-seeker/utils"
)

const (
	platform    = "loopnet"
	defaultBase = "https://www.loopnet.com"
	searchPath  = "/search/commercial-real-estate/san-francisco-ca/for-lease/"

	// Akamai serves this container instead of results when it wants a challenge solved.
	challengeSelector = "#sec-if-cpt-container"
)

// Options configures a LoopNet Scraper.
type Options struct {
	BaseURL string
	Fetcher scraper.Fetcher
	Logger  *utils.Logger
}

// Scraper implements scraper.Source for LoopNet. It never fetches detail pages.
type Scraper struct {
	baseURL string
	fetcher scraper.Fetcher
	logger  *utils.Logger
}

func New(opts Options) *Scraper {
	base := opts.BaseURL
	if base == "" {
		base = defaultBase
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	return &Scraper{
		baseURL: strings.TrimRight(base, "/"),
		fetcher: opts.Fetcher,
		logger:  opts.Logger,
	}
}

func (s *Scraper) Name() string { return platform }

func (s *Scraper) Fetch(ctx context.Context, _ *scraper.DetailBudget) ([]*models.Listing, error) {
	searchURL := s.baseURL + searchPath
	s.logger.Info("[loopnet] Fetching %s", searchURL)

	doc, err := s.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("loopnet: search page: %w", err)
	}

	if doc.Find(challengeSelector).Length() > 0 {
		s.logger.Warn("[loopnet] Bot challenge served, skipping source")
		return nil, nil
	}

	listings := s.parse(doc)
	if len(listings) == 0 {
		s.logger.Warn("[loopnet] No listings found on results page")
	} else {
		s.logger.Info("[loopnet] Found %d listings", len(listings))
	}
	return listings, nil
}

func (s *Scraper) parse(doc *goquery.Document) []*models.Listing {
	var out []*models.Listing

	doc.Find("article.placard").Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find("a[href]").First().Attr("href")
		link := scraper.ResolveLink(s.baseURL, href)
		if link == "" {
			return
		}

		points := card.Find(".data-points-2c-value")
		out = append(out, &models.Listing{
			Title:   scraper.Text(card.Find("h4").First()),
			Price:   scraper.Text(points.Eq(0)),
			Sqft:    scraper.Text(points.Eq(1)),
			Address: scraper.Text(card.Find(".placard-carousel-address").First()),
			Link:    link,
			Source:  platform,
		})
	})

	return out
}
