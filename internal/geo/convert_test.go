// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package geo

import (
	"strings"
	"testing"
)

func TestToMaidenhead(t *testing.T) {
	got, err := ToMaidenhead(48.4781, 10.774, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != "JN58jl24" {
		t.Errorf("locator = %q, want JN58jl24", got)
	}
}

func TestToMaidenheadPrecision(t *testing.T) {
	got, err := ToMaidenhead(48.4781, 10.774, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != "JN58" {
		t.Errorf("locator = %q, want JN58", got)
	}
}

func TestToMaidenheadOutOfRange(t *testing.T) {
	if _, err := ToMaidenhead(91, 0, 4); err == nil {
		t.Error("expected error for latitude out of range")
	}
	if _, err := ToMaidenhead(0, 181, 4); err == nil {
		t.Error("expected error for longitude out of range")
	}
}

func TestToUTM(t *testing.T) {
	utm, err := ToUTM(48.4781, 10.774)
	if err != nil {
		t.Fatal(err)
	}

	if utm.ZoneNumber != 32 {
		t.Errorf("zone number = %d, want 32", utm.ZoneNumber)
	}
	if utm.ZoneLetter != "U" {
		t.Errorf("zone letter = %q, want U", utm.ZoneLetter)
	}
	if utm.Easting < 629000 || utm.Easting > 633000 {
		t.Errorf("easting = %d, outside plausible range", utm.Easting)
	}
	if utm.Northing < 5368000 || utm.Northing > 5374000 {
		t.Errorf("northing = %d, outside plausible range", utm.Northing)
	}
}

func TestToUTMSouthernHemisphere(t *testing.T) {
	utm, err := ToUTM(-33.8688, 151.2093)
	if err != nil {
		t.Fatal(err)
	}
	if utm.ZoneNumber != 56 {
		t.Errorf("zone number = %d, want 56", utm.ZoneNumber)
	}
	if utm.ZoneLetter != "H" {
		t.Errorf("zone letter = %q, want H", utm.ZoneLetter)
	}
	// Southern hemisphere northings carry the 10,000 km false offset.
	if utm.Northing < 6000000 {
		t.Errorf("northing = %d, missing false northing", utm.Northing)
	}
}

func TestToUTMNorwayException(t *testing.T) {
	// Bergen sits in the widened zone 32.
	utm, err := ToUTM(60.39, 5.32)
	if err != nil {
		t.Fatal(err)
	}
	if utm.ZoneNumber != 32 {
		t.Errorf("zone number = %d, want 32 (Norway exception)", utm.ZoneNumber)
	}
}

func TestUTMString(t *testing.T) {
	utm, err := ToUTM(48.4781, 10.774)
	if err != nil {
		t.Fatal(err)
	}
	s := utm.String()
	if !strings.HasPrefix(s, "32 U ") {
		t.Errorf("formatted UTM = %q, want prefix \"32 U \"", s)
	}
	if len(strings.Fields(s)) != 4 {
		t.Errorf("formatted UTM = %q, want 4 fields", s)
	}
}
