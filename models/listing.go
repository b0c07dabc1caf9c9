package models

// Listing is one discovered candidate space. Price and Sqft are kept as the
// site printed them; sites mix per-month, per-sqft/year, ranges and "negotiable".
type Listing struct {
	Title    string   `json:"title"`
	Price    string   `json:"price"`
	Sqft     string   `json:"sqft"`
	Address  string   `json:"address"`
	Link     string   `json:"link"`
	Source   string   `json:"source"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
	FullText string   `json:"full_text,omitempty"`
}

// Key is the listing identity. Two listings are the same space iff their
// links are byte-equal; no other field participates.
func (l *Listing) Key() string {
	return l.Link
}

// HasCoordinates reports whether both latitude and longitude are known.
func (l *Listing) HasCoordinates() bool {
	return l.Lat != nil && l.Lng != nil
}

// SetCoordinates records the map position found on a detail page.
func (l *Listing) SetCoordinates(lat, lng float64) {
	l.Lat = &lat
	l.Lng = &lng
}

// ReviewVerdict is the classification outcome for one listing.
type ReviewVerdict struct {
	Approved         bool   `json:"approved"`
	EstMonthlyCost   string `json:"est_monthly_cost"`
	SuitabilityScore int    `json:"suitability_score"`
	Reasoning        string `json:"reasoning"`
}

// SeenSet holds the links already recorded in either outcome store.
// It is loaded once at the start of a run and not updated during it.
type SeenSet struct {
	seen map[string]struct{}
}

// NewSeenSet creates a SeenSet holding the given links.
func NewSeenSet(links ...string) *SeenSet {
	s := &SeenSet{seen: make(map[string]struct{}, len(links))}
	for _, l := range links {
		s.Add(l)
	}
	return s
}

// Add returns true if the link was newly added, false if already present.
// Empty links are ignored.
func (s *SeenSet) Add(link string) bool {
	if link == "" {
		return false
	}
	if _, exists := s.seen[link]; exists {
		return false
	}
	s.seen[link] = struct{}{}
	return true
}

// Contains returns true if the link has already been recorded.
func (s *SeenSet) Contains(link string) bool {
	if s == nil {
		return false
	}
	_, exists := s.seen[link]
	return exists
}

// Size returns the number of unique links tracked.
func (s *SeenSet) Size() int {
	if s == nil {
		return 0
	}
	return len(s.seen)
}
