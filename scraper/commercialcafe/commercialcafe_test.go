package commercialcafe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-seeker/scraper"
)

func newScraper(base string) *Scraper {
	return New(Options{
		BaseURL: base,
		Fetcher: scraper.NewHTTPFetcher(scraper.HTTPOptions{Timeout: 2 * time.Second, RetryDelay: time.Millisecond}),
	})
}

func TestFetch_ParsesCards(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		http.ServeFile(w, r, "testdata/results.html")
	}))
	defer srv.Close()

	listings, err := newScraper(srv.URL).Fetch(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "ListingType=Lease", query)

	first := listings[0]
	assert.Equal(t, "1455 Bancroft Ave", first.Title)
	assert.Equal(t, srv.URL+"/commercial-property/us/ca/san-francisco/1455-bancroft-ave/", first.Link)
	assert.Equal(t, "1455 Bancroft Ave, San Francisco, CA 94124", first.Address)
	assert.Equal(t, "$2.10 /SqFt/Mo", first.Price)
	assert.Equal(t, "600 - 1,500 SqFt", first.Sqft, "first availability entry mentioning sqft wins")
	assert.Equal(t, "commercialcafe", first.Source)

	second := listings[1]
	assert.Equal(t, "50 Dorman Ave", second.Title)
	assert.Equal(t, "Negotiable", second.Price)
	assert.Empty(t, second.Sqft)
	assert.Empty(t, second.Address)
}

func TestFetch_BlockedYieldsNothing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	listings, err := newScraper(srv.URL).Fetch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, listings)
}
