// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package dispatch

import (
	"regexp"
	"strings"

	"github.com/joergschultzelutter/mowas-pwb/internal/enrich"
)

// MinSMSLength is the smallest permitted short-message budget. 67 is the
// usable payload of one APRS message.
const MinSMSLength = 67

// APRS forbids these characters in message payloads (spec pg. 71).
var forbiddenSMSChars = regexp.MustCompile(`[{}|~]+`)

// SanitizeShortMessage strips APRS-forbidden characters and converts the
// text to plain ASCII, expanding German umlauts first.
func SanitizeShortMessage(text string) string {
	return enrich.ToPlainASCII(forbiddenSMSChars.ReplaceAllString(text, ""))
}

// SegmentMessage packs the text into segments of at most maxLen
// characters, splitting on whitespace boundaries. A single word at or
// above the budget is hard-split into fixed-size chunks. The input is
// sanitized first, so segment lengths are counted on the ASCII form.
func SegmentMessage(text string, maxLen int) []string {
	return appendSegment(nil, SanitizeShortMessage(text), maxLen, true)
}

// appendSegment adds msg to the segment list, greedily extending the
// last segment while it fits within the budget.
func appendSegment(segments []string, msg string, maxLen int, addSep bool) []string {
	if len(msg) > maxLen {
		for _, word := range strings.Fields(msg) {
			if len(word) < maxLen {
				segments = appendSegment(segments, word, maxLen, addSep)
				continue
			}
			// Over-budget word, hard-split into raw chunks.
			for i := 0; i < len(word); i += maxLen {
				end := i + maxLen
				if end > len(word) {
					end = len(word)
				}
				segments = append(segments, word[i:end])
			}
		}
		return segments
	}

	if len(segments) == 0 {
		return append(segments, msg)
	}

	last := segments[len(segments)-1]
	if len(last)+len(msg)+1 <= maxLen {
		sep := ""
		if len(last) > 0 && addSep {
			sep = " "
		}
		segments[len(segments)-1] = last + sep + msg
		return segments
	}
	return append(segments, msg)
}

// TruncateShortMessage sanitizes the text and cuts it at the budget.
// Used when message splitting is disabled.
func TruncateShortMessage(text string, maxLen int) string {
	msg := SanitizeShortMessage(text)
	if len(msg) > maxLen {
		return msg[:maxLen]
	}
	return msg
}
