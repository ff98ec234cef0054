// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package models

import "testing"

func TestSeverityOrdering(t *testing.T) {
	if !(SeverityMinor < SeverityModerate && SeverityModerate < SeveritySevere && SeveritySevere < SeverityExtreme) {
		t.Error("severity ranks must ascend Minor < Moderate < Severe < Extreme")
	}
	if SeverityUnknown >= SeverityMinor {
		t.Error("unknown severity must rank below Minor")
	}
}

func TestSeverityAtLeast(t *testing.T) {
	tests := []struct {
		severity  Severity
		threshold Severity
		want      bool
	}{
		{SeveritySevere, SeverityMinor, true},
		{SeveritySevere, SeveritySevere, true},
		{SeverityModerate, SeveritySevere, false},
		{SeverityExtreme, SeveritySevere, true},
		{SeverityUnknown, SeverityMinor, false},
	}
	for _, tt := range tests {
		if got := tt.severity.AtLeast(tt.threshold); got != tt.want {
			t.Errorf("%v.AtLeast(%v) = %v, want %v", tt.severity, tt.threshold, got, tt.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	if got := ParseSeverity("severe"); got != SeveritySevere {
		t.Errorf("ParseSeverity(severe) = %v", got)
	}
	if got := ParseSeverity("EXTREME"); got != SeverityExtreme {
		t.Errorf("ParseSeverity(EXTREME) = %v", got)
	}
	if got := ParseSeverity("bogus"); got != SeverityUnknown {
		t.Errorf("ParseSeverity(bogus) = %v", got)
	}
}

func TestParseMsgType(t *testing.T) {
	for in, want := range map[string]MsgType{
		"Alert":  MsgTypeAlert,
		"update": MsgTypeUpdate,
		"CANCEL": MsgTypeCancel,
	} {
		got, err := ParseMsgType(in)
		if err != nil {
			t.Fatalf("ParseMsgType(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseMsgType(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseMsgType("Ack"); err == nil {
		t.Error("expected error for unknown msgType")
	}
}

func TestCategoryFeedPaths(t *testing.T) {
	want := map[Category]string{
		CategoryTempest:    "/bbk.dwd/unwetter.json",
		CategoryFlood:      "/bbk.wsv/hochwasser.json",
		CategoryFloodOld:   "/bbk.lhp/hochwassermeldungen.json",
		CategoryWildfire:   "/bbk.dwd/waldbrand.json",
		CategoryEarthquake: "/bbk.bgr/erdbeben.json",
		CategoryDisasters:  "/bbk.mowas/gefahrendurchsagen.json",
	}
	if len(AllCategories) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(AllCategories))
	}
	for c, path := range want {
		if got := c.FeedPath(); got != path {
			t.Errorf("FeedPath(%s) = %q, want %q", c, got, path)
		}
	}
}

func TestParseCategoryCaseInsensitive(t *testing.T) {
	got, err := ParseCategory("tempest")
	if err != nil {
		t.Fatal(err)
	}
	if got != CategoryTempest {
		t.Errorf("ParseCategory(tempest) = %v", got)
	}
	if _, err := ParseCategory("volcano"); err == nil {
		t.Error("expected error for unknown category")
	}
}
