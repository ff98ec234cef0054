// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package geo

import (
	"fmt"
	"math"
)

// WGS84 / Transverse Mercator constants.
const (
	utmK0 = 0.9996
	utmE  = 0.00669438
	utmR  = 6378137.0
)

var (
	utmE2  = utmE * utmE
	utmE3  = utmE2 * utmE
	utmEP2 = utmE / (1 - utmE)

	utmM1 = 1 - utmE/4 - 3*utmE2/64 - 5*utmE3/256
	utmM2 = 3*utmE/8 + 3*utmE2/32 + 45*utmE3/1024
	utmM3 = 15*utmE2/256 + 45*utmE3/1024
	utmM4 = 35 * utmE3 / 3072
)

const utmZoneLetters = "CDEFGHJKLMNPQRSTUVWXX"

// UTM holds Universal Transverse Mercator coordinates with easting and
// northing rounded to full meters.
type UTM struct {
	ZoneNumber int
	ZoneLetter string
	Easting    int
	Northing   int
}

// String renders the coordinate as "zone letter easting northing", e.g.
// "32 U 630910 5371240".
func (u UTM) String() string {
	return fmt.Sprintf("%d %s %d %d", u.ZoneNumber, u.ZoneLetter, u.Easting, u.Northing)
}

// ToUTM converts a WGS84 coordinate to UTM.
func ToUTM(lat, lon float64) (UTM, error) {
	if lat < -80 || lat > 84 {
		return UTM{}, fmt.Errorf("latitude %f outside UTM range", lat)
	}
	if lon < -180 || lon > 180 {
		return UTM{}, fmt.Errorf("longitude %f out of range", lon)
	}

	zoneNumber := utmZoneNumber(lat, lon)
	zoneLetter := string(utmZoneLetters[int(lat+80)>>3])

	latRad := lat * math.Pi / 180
	latSin := math.Sin(latRad)
	latCos := math.Cos(latRad)
	latTan := latSin / latCos
	latTan2 := latTan * latTan
	latTan4 := latTan2 * latTan2

	centralLon := float64((zoneNumber-1)*6 - 180 + 3)
	a := latCos * (lon - centralLon) * math.Pi / 180

	a2 := a * a
	a3 := a2 * a
	a4 := a3 * a
	a5 := a4 * a
	a6 := a5 * a

	n := utmR / math.Sqrt(1-utmE*latSin*latSin)
	c := utmEP2 * latCos * latCos

	m := utmR * (utmM1*latRad -
		utmM2*math.Sin(2*latRad) +
		utmM3*math.Sin(4*latRad) -
		utmM4*math.Sin(6*latRad))

	easting := utmK0*n*(a+
		a3/6*(1-latTan2+c)+
		a5/120*(5-18*latTan2+latTan4+72*c-58*utmEP2)) + 500000

	northing := utmK0 * (m + n*latTan*(a2/2+
		a4/24*(5-latTan2+9*c+4*c*c)+
		a6/720*(61-58*latTan2+latTan4+600*c-330*utmEP2)))

	if lat < 0 {
		northing += 10000000
	}

	return UTM{
		ZoneNumber: zoneNumber,
		ZoneLetter: zoneLetter,
		Easting:    int(math.Round(easting)),
		Northing:   int(math.Round(northing)),
	}, nil
}

// utmZoneNumber picks the UTM zone, honoring the Norway and Svalbard
// exceptions.
func utmZoneNumber(lat, lon float64) int {
	if lat >= 56 && lat < 64 && lon >= 3 && lon < 12 {
		return 32
	}
	if lat >= 72 && lat <= 84 && lon >= 0 {
		switch {
		case lon < 9:
			return 31
		case lon < 21:
			return 33
		case lon < 33:
			return 35
		case lon < 42:
			return 37
		}
	}
	return int((lon+180)/6) + 1
}
