package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop-seeker/models"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVStoreCreatesHeaders(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	_, err := NewCSVStore(dir)
	require.NoError(t, err)

	approved := readCSV(t, filepath.Join(dir, "approved.csv"))
	require.Len(t, approved, 1)
	assert.Equal(t, approvedHeader, approved[0])

	rejected := readCSV(t, filepath.Join(dir, "rejected.csv"))
	require.Len(t, rejected, 1)
	assert.Equal(t, rejectedHeader, rejected[0])
}

func TestCSVStoreAppendAndLoadSeen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := NewCSVStore(dir)
	require.NoError(t, err)

	seen, err := store.LoadSeen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, seen.Size(), "header row must not count as a link")

	require.NoError(t, store.AppendApproved(ctx, Record{Title: "Loft", Link: "https://x/1", DateFound: "2026-10-18"}))
	require.NoError(t, store.AppendRejected(ctx, Record{Title: "Office", Link: "https://x/2", DateFound: "2026-10-18"}))
	require.NoError(t, store.AppendRejected(ctx, Record{Title: "Office again", Link: "https://x/2", DateFound: "2026-10-19"}))

	seen, err = store.LoadSeen(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, seen.Size())
	assert.True(t, seen.Contains("https://x/1"))
	assert.True(t, seen.Contains("https://x/2"))

	rejected := readCSV(t, filepath.Join(dir, "rejected.csv"))
	assert.Len(t, rejected, 3, "store only grows")
	assert.Len(t, rejected[1], len(rejectedHeader))
}

func TestCSVStoreKeepsExistingFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	first, err := NewCSVStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.AppendApproved(ctx, Record{Link: "https://x/keep"}))
	require.NoError(t, first.Close())

	second, err := NewCSVStore(dir)
	require.NoError(t, err)
	seen, err := second.LoadSeen(ctx)
	require.NoError(t, err)
	assert.True(t, seen.Contains("https://x/keep"))
}

func TestRecordRows(t *testing.T) {
	lat, lng := 37.78, -122.39
	l := &models.Listing{
		Title: "Warehouse", Price: "$1800/mo", Sqft: "600", Address: "123 Folsom St",
		Link: "https://x/1", Source: "craigslist", Lat: &lat, Lng: &lng,
	}
	v := models.ReviewVerdict{Approved: true, EstMonthlyCost: "$1,800", SuitabilityScore: 8, Reasoning: "Roll-up door"}

	rec := NewRecord(l, v, "2026-10-18")

	approved := rec.ApprovedRow()
	assert.Equal(t, []string{
		"Warehouse", "$1800/mo", "600", "123 Folsom St", "https://x/1", "2026-10-18",
		"$1,800", "8", "Roll-up door", "", "", "",
	}, approved)
	assert.Equal(t, "https://x/1", approved[linkColumn])

	rejected := rec.RejectedRow()
	assert.Len(t, rejected, 11)
	assert.Equal(t, "Roll-up door", rejected[8])
}
