// Package scraper defines the source adapter contract and the page fetchers
// the adapters share.
package scraper

import (
	"context"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"

	"shop-seeker/models"
)

// Source produces raw listings from one site.
//
// A blocked or challenged response is not an error: the source logs it and
// returns no listings. Network and HTTP failures are returned as errors and
// the caller carries on with the next source.
type Source interface {
	Name() string
	Fetch(ctx context.Context, budget *DetailBudget) ([]*models.Listing, error)
}

// DetailBudget caps the number of per-listing detail fetches in one run.
// It is created by the orchestrator and handed to every source in turn.
// A nil budget is unlimited.
type DetailBudget struct {
	remaining int
}

// NewDetailBudget creates a budget allowing max detail fetches.
func NewDetailBudget(max int) *DetailBudget {
	if max < 0 {
		max = 0
	}
	return &DetailBudget{remaining: max}
}

// Take consumes one fetch from the budget and reports whether it was available.
func (b *DetailBudget) Take() bool {
	if b == nil {
		return true
	}
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Remaining returns the number of detail fetches left, or -1 when unlimited.
func (b *DetailBudget) Remaining() int {
	if b == nil {
		return -1
	}
	return b.remaining
}

// Text returns the selection's text with whitespace trimmed and collapsed.
func Text(sel *goquery.Selection) string {
	return NormaliseText(sel.Text())
}

// NormaliseText strips leading/trailing whitespace and collapses internal whitespace.
func NormaliseText(s string) string {
	return strings.Join(strings.FieldsFunc(s, unicode.IsSpace), " ")
}

// ResolveLink turns a possibly relative href into an absolute URL on base.
// It returns "" when href is empty or unparseable.
func ResolveLink(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return b.ResolveReference(ref).String()
}
