// Package commercialcafe scrapes lease listings from CommercialCafe.
package commercialcafe

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"shop-seeker/models"
	"shop-seeker/scraper"
	"shop-seeker/utils"
)

const (
	platform    = "commercialcafe"
	defaultBase = "https://www.commercialcafe.com"
	searchPath  = "/commercial-real-estate/us/ca/san-francisco/?ListingType=Lease"
)

// Options configures a CommercialCafe Scraper.
type Options struct {
	BaseURL string
	Fetcher scraper.Fetcher
	Logger  *utils.Logger
}

// Scraper implements scraper.Source for CommercialCafe.
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

// Fetch reads the results page. The site sits behind Cloudflare and usually
// answers plain clients with 403, so a failed fetch yields no listings rather
// than an error.
func (s *Scraper) Fetch(ctx context.Context, _ *scraper.DetailBudget) ([]*models.Listing, error) {
	searchURL := s.baseURL + searchPath
	s.logger.Info("[commercialcafe] Fetching %s", searchURL)

	doc, err := s.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		s.logger.Warn("[commercialcafe] Results page unavailable (likely bot protection): %v", err)
		return nil, nil
	}

	listings := s.parse(doc)
	s.logger.Info("[commercialcafe] Found %d listings", len(listings))
	return listings, nil
}

func (s *Scraper) parse(doc *goquery.Document) []*models.Listing {
	var out []*models.Listing

	doc.Find("li.property-details").Each(func(_ int, card *goquery.Selection) {
		a := card.Find("h2.building-name a").First()
		href, _ := a.Attr("href")
		link := scraper.ResolveLink(s.baseURL, href)
		if link == "" {
			return
		}

		var sqft string
		card.Find(".availability li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
			text := scraper.Text(li)
			if strings.Contains(strings.ToLower(text), "sqft") {
				sqft = text
				return false
			}
			return true
		})

		out = append(out, &models.Listing{
			Title:   scraper.Text(a),
			Price:   scraper.Text(card.Find(".price span").First()),
			Sqft:    sqft,
			Address: scraper.Text(card.Find(".building-address").First()),
			Link:    link,
			Source:  platform,
		})
	})

	return out
}
