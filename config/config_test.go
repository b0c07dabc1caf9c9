package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"CENTER_LAT", "CENTER_LNG", "RADIUS_MILES", "MAX_PRICE", "MIN_SQFT",
		"CRAIGSLIST_REGION", "STORE_BACKEND", "STORE_TARGET", "GOOGLE_SHEET_ID", "BROWSER_SOURCES",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Search.CenterLat != 37.7767 || cfg.Search.CenterLng != -122.4173 {
		t.Errorf("center: got (%v, %v)", cfg.Search.CenterLat, cfg.Search.CenterLng)
	}
	if cfg.Search.RadiusMiles != 4 {
		t.Errorf("radius: got %v, want 4", cfg.Search.RadiusMiles)
	}
	if cfg.Criteria.MaxPrice != 2400 || cfg.Criteria.MinSqft != 400 {
		t.Errorf("criteria: got %+v", cfg.Criteria)
	}
	if cfg.Sources.CraigslistRegion != "sfbay" {
		t.Errorf("region: got %q", cfg.Sources.CraigslistRegion)
	}
	if cfg.Store.Backend != "csv" || cfg.Store.Target != "./output" {
		t.Errorf("store: got %+v", cfg.Store)
	}
	if cfg.Sources.DetailDelayMin != 2*time.Second || cfg.Sources.DetailDelayMax != 5*time.Second {
		t.Errorf("detail delay: got %v..%v", cfg.Sources.DetailDelayMin, cfg.Sources.DetailDelayMax)
	}
	if len(cfg.Sources.BrowserSources) != 0 {
		t.Errorf("browser sources: got %v", cfg.Sources.BrowserSources)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("CENTER_LAT", "40.7128")
	t.Setenv("RADIUS_MILES", "2.5")
	t.Setenv("MAX_DETAIL_FETCHES", "3")
	t.Setenv("STORE_BACKEND", "Sheets")
	t.Setenv("STORE_TARGET", "")
	t.Setenv("GOOGLE_SHEET_ID", "sheet-123")
	t.Setenv("BROWSER_SOURCES", "LoopNet, commercialcafe,")

	cfg := Load()

	if cfg.Search.CenterLat != 40.7128 {
		t.Errorf("center lat: got %v", cfg.Search.CenterLat)
	}
	if cfg.Search.RadiusMiles != 2.5 {
		t.Errorf("radius: got %v", cfg.Search.RadiusMiles)
	}
	if cfg.Sources.MaxDetailFetches != 3 {
		t.Errorf("max detail fetches: got %d", cfg.Sources.MaxDetailFetches)
	}
	if cfg.Store.Backend != "sheets" || cfg.Store.Target != "sheet-123" {
		t.Errorf("store: got %+v", cfg.Store)
	}
	if !cfg.Sources.UsesBrowser("loopnet") || !cfg.Sources.UsesBrowser("commercialcafe") {
		t.Errorf("browser sources: got %v", cfg.Sources.BrowserSources)
	}
	if cfg.Sources.UsesBrowser("craigslist") {
		t.Error("craigslist should not use the browser")
	}
}

func TestLoadMalformedFallsBack(t *testing.T) {
	t.Setenv("RADIUS_MILES", "four")
	t.Setenv("MAX_RETRIES", "x")

	cfg := Load()

	if cfg.Search.RadiusMiles != 4 {
		t.Errorf("radius: got %v, want default 4", cfg.Search.RadiusMiles)
	}
	if cfg.Sources.MaxRetries != 3 {
		t.Errorf("max retries: got %d, want default 3", cfg.Sources.MaxRetries)
	}
}

func TestLoadStoreTargetPerBackend(t *testing.T) {
	tests := []struct {
		backend, sheetID, want string
	}{
		{"csv", "", "./output"},
		{"sheets", "", ""},
		{"sheets", "sheet-9", "sheet-9"},
		{"postgres", "sheet-9", ""},
	}

	for _, tt := range tests {
		t.Setenv("STORE_BACKEND", tt.backend)
		t.Setenv("STORE_TARGET", "")
		t.Setenv("GOOGLE_SHEET_ID", tt.sheetID)

		cfg := Load()
		if cfg.Store.Target != tt.want {
			t.Errorf("backend %s, sheet id %q: target = %q; want %q", tt.backend, tt.sheetID, cfg.Store.Target, tt.want)
		}
	}
}
