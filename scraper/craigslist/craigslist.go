// Package craigslist scrapes office/commercial listings from Craigslist and
// enriches each one from its posting page.
package craigslist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shop-seeker/models"
	"shop-seeker/scraper"
	"shop-seeker/utils"
)

const (
	platform   = "craigslist"
	searchPath = "/search/san-francisco-ca/off"
)

// Options configures a Craigslist Scraper.
type Options struct {
	Region   string // subdomain, e.g. "sfbay"
	BaseURL  string // overrides https://{region}.craigslist.org
	Fetcher  scraper.Fetcher
	Throttle *utils.Throttle // spaces detail-page fetches
	Logger   *utils.Logger
}

// Scraper implements scraper.Source for Craigslist.
type Scraper struct {
	baseURL  string
	fetcher  scraper.Fetcher
	throttle *utils.Throttle
	logger   *utils.Logger
}

// New creates a Craigslist Scraper.
func New(opts Options) *Scraper {
	base := opts.BaseURL
	if base == "" {
		region := opts.Region
		if region == "" {
			region = "sfbay"
		}
		base = fmt.Sprintf("https://%s.craigslist.org", region)
	}
	if opts.Logger == nil {
		opts.Logger = utils.NewNopLogger()
	}
	return &Scraper{
		baseURL:  strings.TrimRight(base, "/"),
		fetcher:  opts.Fetcher,
		throttle: opts.Throttle,
		logger:   opts.Logger,
	}
}

func (s *Scraper) Name() string { return platform }

// Fetch reads the search results page and then visits each posting while the
// budget allows, filling in description, coordinates and address.
func (s *Scraper) Fetch(ctx context.Context, budget *scraper.DetailBudget) ([]*models.Listing, error) {
	searchURL := s.baseURL + searchPath
	s.logger.Info("[craigslist] Fetching %s", searchURL)

	doc, err := s.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return nil, fmt.Errorf("craigslist: search page: %w", err)
	}

	listings := s.parseResults(doc)
	s.logger.Info("[craigslist] Found %d results", len(listings))

	enriched := 0
	for _, l := range listings {
		if !budget.Take() {
			s.logger.Info("[craigslist] Detail fetch budget exhausted after %d postings", enriched)
			break
		}
		if err := s.throttle.Wait(ctx); err != nil {
			return listings, nil
		}
		if err := s.enrich(ctx, l); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return listings, nil
			}
			s.logger.Warn("[craigslist] Detail fetch failed for %s: %v", l.Link, err)
			continue
		}
		enriched++
	}

	return listings, nil
}

func (s *Scraper) parseResults(doc *goquery.Document) []*models.Listing {
	var out []*models.Listing

	doc.Find("li.cl-static-search-result").Each(func(_ int, item *goquery.Selection) {
		a := item.Find("a[href]").First()
		href, _ := a.Attr("href")
		link := scraper.ResolveLink(s.baseURL, href)
		if link == "" {
			return
		}

		title := scraper.Text(item.Find(".title").First())
		if title == "" {
			title = scraper.Text(a)
		}

		out = append(out, &models.Listing{
			Title:  title,
			Price:  scraper.Text(item.Find(".price").First()),
			Link:   link,
			Source: platform,
		})
	})

	return out
}

func (s *Scraper) enrich(ctx context.Context, l *models.Listing) error {
	doc, err := s.fetcher.Fetch(ctx, l.Link)
	if err != nil {
		return err
	}

	if body := doc.Find("#postingbody").First(); body.Length() > 0 {
		// The body opens with a "QR Code Link to This Post" print-only block.
		body.Find(".print-information, .print-qrcode-container").Remove()
		l.FullText = scraper.Text(body)
	}

	if m := doc.Find("#map").First(); m.Length() > 0 {
		lat, latOK := parseCoord(m.AttrOr("data-latitude", ""))
		lng, lngOK := parseCoord(m.AttrOr("data-longitude", ""))
		if latOK && lngOK {
			l.SetCoordinates(lat, lng)
		}
	}

	if addr := scraper.Text(doc.Find(".mapaddress").First()); addr != "" {
		l.Address = addr
	}
	return nil
}

func parseCoord(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
