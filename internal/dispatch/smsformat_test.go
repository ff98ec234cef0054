// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package dispatch

import (
	"reflect"
	"strings"
	"testing"
)

func TestSanitizeShortMessage(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hochwasser {Elbe} | Pegel ~7m", "Hochwasser Elbe  Pegel 7m"},
		{"Überschwemmung in Köln", "Ueberschwemmung in Koeln"},
		{"Straße gesperrt", "Strasse gesperrt"},
		{"plain text", "plain text"},
	}
	for _, tt := range tests {
		if got := SanitizeShortMessage(tt.in); got != tt.want {
			t.Errorf("SanitizeShortMessage(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSegmentMessageShortInput(t *testing.T) {
	got := SegmentMessage("Hochwasserwarnung Koeln", 67)
	want := []string{"Hochwasserwarnung Koeln"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSegmentMessageSplitsOnWhitespace(t *testing.T) {
	msg := "Es besteht die Gefahr einer Ueberschwemmung in den tiefer gelegenen Stadtteilen"
	segments := SegmentMessage(msg, 67)

	if len(segments) < 2 {
		t.Fatalf("expected multiple segments, got %v", segments)
	}
	for i, segment := range segments {
		if len(segment) > 67 {
			t.Errorf("segment %d exceeds budget: %d chars", i, len(segment))
		}
		if strings.HasPrefix(segment, " ") || strings.HasSuffix(segment, " ") {
			t.Errorf("segment %d has padding: %q", i, segment)
		}
	}

	// No word may be cut in half: rejoining must restore the input.
	joined := strings.Join(segments, " ")
	if joined != msg {
		t.Errorf("rejoined = %q, want %q", joined, msg)
	}
}

func TestSegmentMessageHardSplitsOversizedWord(t *testing.T) {
	word := strings.Repeat("a", 150)
	segments := SegmentMessage(word, 67)

	want := []string{strings.Repeat("a", 67), strings.Repeat("a", 67), strings.Repeat("a", 16)}
	if !reflect.DeepEqual(segments, want) {
		t.Errorf("got %v, want %v", segments, want)
	}
}

func TestSegmentMessageWordAtBudgetIsHardSplit(t *testing.T) {
	// A word of exactly the budget length bypasses greedy packing. The
	// message itself must exceed the budget to trigger word splitting.
	word := strings.Repeat("b", 67)
	segments := SegmentMessage("x "+word, 67)
	want := []string{"x", word}
	if !reflect.DeepEqual(segments, want) {
		t.Errorf("got %v, want %v", segments, want)
	}
}

func TestTruncateShortMessage(t *testing.T) {
	msg := strings.Repeat("c", 100)
	got := TruncateShortMessage(msg, 67)
	if len(got) != 67 {
		t.Errorf("len = %d, want 67", len(got))
	}
	if got := TruncateShortMessage("kurz", 67); got != "kurz" {
		t.Errorf("short message changed: %q", got)
	}
}
