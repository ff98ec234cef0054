// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package geo provides the geospatial primitives of the beacon: broadcast
// polygon matching, coordinate conversions (Maidenhead, UTM) and reverse
// geocoding.
package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a WGS84 coordinate.
type Point struct {
	Lat float64
	Lon float64
}

// ParsePolygon converts a MOWAS polygon ring into a point slice. The ring
// is a space-separated list of "lon,lat" tokens. Malformed tokens fail the
// whole ring.
func ParsePolygon(ring string) ([]Point, error) {
	tokens := strings.Fields(ring)
	if len(tokens) < 3 {
		return nil, fmt.Errorf("polygon ring has %d points, need at least 3", len(tokens))
	}

	points := make([]Point, 0, len(tokens))
	for _, token := range tokens {
		lonStr, latStr, found := strings.Cut(token, ",")
		if !found {
			return nil, fmt.Errorf("malformed polygon token %q", token)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed longitude %q: %w", lonStr, err)
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed latitude %q: %w", latStr, err)
		}
		points = append(points, Point{Lat: lat, Lon: lon})
	}

	return points, nil
}

// Contains reports whether the point lies inside the polygon or on its
// boundary. Open rings are treated as if the closing edge back to the
// first vertex were present.
func Contains(polygon []Point, p Point) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	// Boundary check first so that vertices and edge points always match.
	for i := 0; i < n; i++ {
		a := polygon[i]
		b := polygon[(i+1)%n]
		if onSegment(a, b, p) {
			return true
		}
	}

	// Even-odd ray casting, ray extends in +lon direction.
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a := polygon[i]
		b := polygon[j]
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			lonCross := (b.Lon-a.Lon)*(p.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lon
			if p.Lon < lonCross {
				inside = !inside
			}
		}
	}

	return inside
}

const segmentEpsilon = 1e-12

// onSegment reports whether p lies on the segment a-b.
func onSegment(a, b, p Point) bool {
	cross := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if cross > segmentEpsilon || cross < -segmentEpsilon {
		return false
	}
	if p.Lat < min(a.Lat, b.Lat)-segmentEpsilon || p.Lat > max(a.Lat, b.Lat)+segmentEpsilon {
		return false
	}
	if p.Lon < min(a.Lon, b.Lon)-segmentEpsilon || p.Lon > max(a.Lon, b.Lon)+segmentEpsilon {
		return false
	}
	return true
}
