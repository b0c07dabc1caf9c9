package loopnet

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

func serveFile(t *testing.T, file string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != searchPath {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, file)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newScraper(base string) *Scraper {
	return New(Options{
		BaseURL: base,
		Fetcher: scraper.NewHTTPFetcher(scraper.HTTPOptions{Timeout: 2 * time.Second, RetryDelay: time.Millisecond}),
	})
}

func TestFetch_ParsesPlacards(t *testing.T) {
	srv := serveFile(t, "testdata/results.html")

	listings, err := newScraper(srv.URL).Fetch(context.Background(), scraper.NewDetailBudget(0))
	require.NoError(t, err)
	require.Len(t, listings, 2)

	assert.Equal(t, "2150 Folsom St", listings[0].Title)
	assert.Equal(t, "$2,400/MO", listings[0].Price)
	assert.Equal(t, "1,200 SF", listings[0].Sqft)
	assert.Equal(t, "2150 Folsom St, San Francisco, CA 94110", listings[0].Address)
	assert.Equal(t, srv.URL+"/Listing/2150-Folsom-St-San-Francisco-CA/30111111/", listings[0].Link)
	assert.Equal(t, "loopnet", listings[0].Source)
	assert.False(t, listings[0].HasCoordinates())

	assert.Equal(t, "https://www.loopnet.com/Listing/99-Bayshore-Blvd/30122222/", listings[1].Link)
	assert.Equal(t, "Price Upon Request", listings[1].Price)
	assert.Empty(t, listings[1].Sqft)
}

func TestFetch_ChallengeYieldsNothing(t *testing.T) {
	srv := serveFile(t, "testdata/challenge.html")

	listings, err := newScraper(srv.URL).Fetch(context.Background(), nil)
	assert.NoError(t, err)
	assert.Empty(t, listings)
}

func TestFetch_HTTPErrorIsReturned(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newScraper(srv.URL).Fetch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, scraper.IsStatus(err, http.StatusForbidden))
}
