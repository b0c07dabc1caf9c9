package services

import (
	"shop-seeker/config"
	"shop-seeker/geo"
	"shop-seeker/models"
	"shop-seeker/utils"
)

// Selector narrows scraped listings down to review candidates: first by
// dropping links already recorded, then by the search radius.
type Selector struct {
	box    geo.Box
	logger *utils.Logger
}

// NewSelector creates a Selector for the given search area.
func NewSelector(search config.Search, logger *utils.Logger) *Selector {
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Selector{
		box:    geo.BoundingBox(search.CenterLat, search.CenterLng, search.RadiusMiles),
		logger: logger,
	}
}

// Dedupe drops every listing whose link is in seen, preserving order.
// Listings repeated within the same batch are all kept.
func (s *Selector) Dedupe(listings []*models.Listing, seen *models.SeenSet) []*models.Listing {
	result := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if seen.Contains(l.Key()) {
			s.logger.Debug("[selector] Already seen: %s", l.Link)
			continue
		}
		result = append(result, l)
	}
	return result
}

// GeoFilter drops listings whose coordinates fall outside the search box.
// Listings without both coordinates are kept; the reviewer judges location
// from the text instead.
func (s *Selector) GeoFilter(listings []*models.Listing) []*models.Listing {
	result := make([]*models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.HasCoordinates() && !s.box.Contains(*l.Lat, *l.Lng) {
			s.logger.Info("[selector] Skipping out-of-radius: %s", l.Title)
			continue
		}
		result = append(result, l)
	}
	return result
}

// Select runs Dedupe then GeoFilter and returns both stages' output.
func (s *Selector) Select(listings []*models.Listing, seen *models.SeenSet) (fresh, candidates []*models.Listing) {
	fresh = s.Dedupe(listings, seen)
	candidates = s.GeoFilter(fresh)

	s.logger.Info("[selector] %d scraped → %d new → %d candidates",
		len(listings), len(fresh), len(candidates))
	return fresh, candidates
}
