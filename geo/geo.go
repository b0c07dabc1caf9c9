// Package geo approximates a circular search radius with a lat/lng box.
// It uses a flat-earth conversion that is adequate for a single-city radius;
// it degrades near the poles and ignores the antimeridian.
package geo

import "math"

// milesPerDegreeLat is the length of one degree of latitude.
const milesPerDegreeLat = 69.0

// Box is an inclusive latitude/longitude rectangle.
type Box struct {
	South, North, West, East float64
}

// BoundingBox returns the box of half-width radiusMiles around the center.
func BoundingBox(centerLat, centerLng, radiusMiles float64) Box {
	latDelta := radiusMiles / milesPerDegreeLat
	lngDelta := radiusMiles / (milesPerDegreeLat * math.Cos(centerLat*math.Pi/180))
	return Box{
		South: centerLat - latDelta,
		North: centerLat + latDelta,
		West:  centerLng - lngDelta,
		East:  centerLng + lngDelta,
	}
}

// Contains reports whether the point lies inside the box, bounds included.
func (b Box) Contains(lat, lng float64) bool {
	return b.South <= lat && lat <= b.North && b.West <= lng && lng <= b.East
}

// IsWithinRadius reports whether (lat, lng) falls inside the bounding box of
// radiusMiles around the center.
func IsWithinRadius(lat, lng, centerLat, centerLng, radiusMiles float64) bool {
	return BoundingBox(centerLat, centerLng, radiusMiles).Contains(lat, lng)
}
