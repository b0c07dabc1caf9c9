package models

import "testing"

func TestSeenSetNoDuplicates(t *testing.T) {
	s := NewSeenSet()

	if !s.Add("https://example.com/1") {
		t.Error("first Add should return true")
	}
	if s.Add("https://example.com/1") {
		t.Error("second Add of same link should return false")
	}
	if s.Add("") {
		t.Error("empty link should not be added")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestSeenSetIdentityIsByteEqual(t *testing.T) {
	s := NewSeenSet("https://example.com/1")

	if !s.Contains("https://example.com/1") {
		t.Error("expected exact link to be contained")
	}
	for _, link := range []string{"https://example.com/1/", "https://EXAMPLE.com/1", "https://example.com/1 "} {
		if s.Contains(link) {
			t.Errorf("link %q should not match", link)
		}
	}

	var nilSet *SeenSet
	if nilSet.Contains("anything") || nilSet.Size() != 0 {
		t.Error("nil set should be empty")
	}
}

func TestListingCoordinates(t *testing.T) {
	l := &Listing{Link: "https://example.com/1"}
	if l.HasCoordinates() {
		t.Error("new listing should have no coordinates")
	}

	lat := 37.78
	l.Lat = &lat
	if l.HasCoordinates() {
		t.Error("latitude alone is not a coordinate pair")
	}

	l.SetCoordinates(37.78, -122.39)
	if !l.HasCoordinates() || *l.Lng != -122.39 {
		t.Errorf("coordinates not set: %+v", l)
	}
	if l.Key() != "https://example.com/1" {
		t.Errorf("key: got %q", l.Key())
	}
}
