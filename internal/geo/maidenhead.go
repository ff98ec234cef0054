// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package geo

import (
	"fmt"
	"math"
	"strings"
)

// ToMaidenhead converts a coordinate to a Maidenhead grid locator with
// the given precision (number of character pairs). Precision 4 yields an
// eight-character locator such as "JN58jl24".
func ToMaidenhead(lat, lon float64, precision int) (string, error) {
	if math.Abs(lat) > 90 || math.Abs(lon) > 180 {
		return "", fmt.Errorf("coordinate out of range: %f, %f", lat, lon)
	}
	if precision < 1 {
		precision = 1
	}

	var sb strings.Builder

	lonQ, lonR := math.Floor((lon+180)/20), math.Mod(lon+180, 20)
	latQ, latR := math.Floor((lat+90)/10), math.Mod(lat+90, 10)
	sb.WriteByte(byte('A' + int(lonQ)))
	sb.WriteByte(byte('A' + int(latQ)))

	lonR /= 2

	for i := 2; i <= precision; i++ {
		lonQ, lonF := math.Floor(lonR), lonR-math.Floor(lonR)
		latQ, latF := math.Floor(latR), latR-math.Floor(latR)
		if i%2 == 0 {
			sb.WriteByte(byte('0' + int(lonQ)))
			sb.WriteByte(byte('0' + int(latQ)))
			lonR = 24 * lonF
			latR = 24 * latF
		} else {
			sb.WriteByte(byte('a' + int(lonQ)))
			sb.WriteByte(byte('a' + int(latQ)))
			lonR = 10 * lonF
			latR = 10 * latF
		}
	}

	return sb.String(), nil
}
