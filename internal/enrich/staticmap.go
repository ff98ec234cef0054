// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package enrich

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"

	sm "github.com/flopp/go-staticmaps"
	"github.com/golang/geo/s2"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

const (
	mapWidth  = 800
	mapHeight = 500

	markerSize = 12.0
	areaWeight = 2.0
)

var (
	areaFillColor   = color.RGBA{R: 0, G: 0, B: 0, A: 0x2F}
	areaBorderColor = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	markerRed       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	markerGreen     = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// RenderMap draws the affected area polygon with markers for every
// matched watch point. Static points are red, the live APRS point is
// green. Returns an encoded PNG.
func RenderMap(polygon [][2]float64, points []models.MatchedPoint) ([]byte, error) {
	if len(polygon) < 3 {
		return nil, fmt.Errorf("polygon has %d points, need at least 3", len(polygon))
	}

	ctx := sm.NewContext()
	ctx.SetSize(mapWidth, mapHeight)

	ring := make([]s2.LatLng, 0, len(polygon))
	for _, p := range polygon {
		ring = append(ring, s2.LatLngFromDegrees(p[0], p[1]))
	}
	ctx.AddObject(sm.NewArea(ring, areaBorderColor, areaFillColor, areaWeight))

	for _, point := range points {
		col := markerRed
		if point.APRS {
			col = markerGreen
		}
		ctx.AddObject(sm.NewMarker(s2.LatLngFromDegrees(point.Latitude, point.Longitude), col, markerSize))
	}

	img, err := ctx.Render()
	if err != nil {
		return nil, fmt.Errorf("render map: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return buf.Bytes(), nil
}
