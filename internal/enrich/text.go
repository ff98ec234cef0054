// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package enrich turns raw MOWAS broadcasts into presentable content:
// markup removal, area name abbreviation, translation, summarization and
// static map rendering.
package enrich

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var htmlTagPattern = regexp.MustCompile("<[^<]+?>")

// StripHTML replaces markup tags with single spaces. BBK descriptions
// routinely embed HTML.
func StripHTML(s string) string {
	if s == "" {
		return s
	}
	return htmlTagPattern.ReplaceAllString(s, " ")
}

// areaPrefixes are administrative prefixes that add no information for
// the reader. Each one is removed at most once, in this order.
var areaPrefixes = []string{
	"Gemeinde/Stadt: ",
	"Landkreis/Stadt: ",
	"Bundesland: ",
	"Freistaat ",
	"Freie Hansestadt ",
	"Land: ",
	"Land ",
}

// AbbreviateAreaName shortens a MOWAS area description for channels with
// tight length budgets.
func AbbreviateAreaName(name string) string {
	for _, prefix := range areaPrefixes {
		name = strings.Replace(name, prefix, "", 1)
	}
	return name
}

// ContainsCovid reports whether any of the given texts mention covid or
// corona, case-insensitively. Pandemic messages are filtered by default.
func ContainsCovid(texts ...string) bool {
	for _, text := range texts {
		lower := strings.ToLower(text)
		if strings.Contains(lower, "covid") || strings.Contains(lower, "corona") {
			return true
		}
	}
	return false
}

var germanReplacer = strings.NewReplacer(
	"Ä", "Ae",
	"Ö", "Oe",
	"Ü", "Ue",
	"ä", "ae",
	"ö", "oe",
	"ü", "ue",
	"ß", "ss",
)

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// ToPlainASCII converts text to plain ASCII. German umlauts are expanded
// first because generic diacritic folding would turn "ä" into "a" instead
// of "ae"; everything else is folded, and leftover non-ASCII runes are
// dropped.
func ToPlainASCII(s string) string {
	s = germanReplacer.Replace(s)

	folded, _, err := transform.String(foldTransformer, s)
	if err == nil {
		s = folded
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if r < 128 {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
