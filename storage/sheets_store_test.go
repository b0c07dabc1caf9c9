package storage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"shop-seeker/models"
)

type fakeSheet struct {
	mu       sync.Mutex
	columns  map[string][][]string // tab → column E rows
	appended map[string][][]interface{}
}

func (f *fakeSheet) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	tab := rejectedTab
	if strings.Contains(r.URL.Path, approvedTab) {
		tab = approvedTab
	}

	w.Header().Set("Content-Type", "application/json")
	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(map[string]any{"range": tab + "!E:E", "values": f.columns[tab]})
	case http.MethodPost:
		var body struct {
			Values [][]interface{} `json:"values"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.appended[tab] = append(f.appended[tab], body.Values...)
		_, _ = w.Write([]byte(`{}`))
	default:
		http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
	}
}

func newFakeSheetsStore(t *testing.T, f *fakeSheet) *SheetsStore {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)

	s, err := newSheetsStore(context.Background(), "sheet-123",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return s
}

func TestSheetsStoreLoadSeen(t *testing.T) {
	f := &fakeSheet{
		columns: map[string][][]string{
			approvedTab: {{"Link"}, {"https://a/1"}, {}},
			rejectedTab: {{"Link"}, {"https://r/1"}, {"https://a/1"}},
		},
		appended: map[string][][]interface{}{},
	}
	s := newFakeSheetsStore(t, f)

	seen, err := s.LoadSeen(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, seen.Size())
	assert.True(t, seen.Contains("https://a/1"))
	assert.True(t, seen.Contains("https://r/1"))
	assert.False(t, seen.Contains("Link"))
}

func TestSheetsStoreAppend(t *testing.T) {
	f := &fakeSheet{columns: map[string][][]string{}, appended: map[string][][]interface{}{}}
	s := newFakeSheetsStore(t, f)

	rec := NewRecord(&models.Listing{Title: "Shop", Link: "https://a/2"},
		models.ReviewVerdict{Approved: true, EstMonthlyCost: "$2,000", SuitabilityScore: 8, Reasoning: "ok"},
		"2026-10-18")
	require.NoError(t, s.AppendApproved(context.Background(), rec))
	require.NoError(t, s.AppendRejected(context.Background(), rec))

	require.Len(t, f.appended[approvedTab], 1)
	require.Len(t, f.appended[rejectedTab], 1)
	assert.Len(t, f.appended[approvedTab][0], 12)
	assert.Len(t, f.appended[rejectedTab][0], 11)
	assert.Equal(t, "https://a/2", f.appended[approvedTab][0][linkColumn])
}

func TestNewSheetsStoreRequiresID(t *testing.T) {
	_, err := NewSheetsStore(context.Background(), []byte(`{}`), "")
	assert.Error(t, err)
}
