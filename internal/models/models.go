// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package models defines the data structures shared across the beacon:
// MOWAS broadcast payloads as published by the BBK feeds, the typed
// enumerations used for filtering, and the delivery records handed to the
// dispatch channels.
package models

import (
	"fmt"
	"strings"
)

// Category identifies one of the six MOWAS warning feeds.
type Category string

const (
	CategoryTempest    Category = "TEMPEST"
	CategoryFlood      Category = "FLOOD"
	CategoryFloodOld   Category = "FLOOD_OLD"
	CategoryWildfire   Category = "WILDFIRE"
	CategoryEarthquake Category = "EARTHQUAKE"
	CategoryDisasters  Category = "DISASTERS"
)

// AllCategories lists every known feed category in fetch order.
var AllCategories = []Category{
	CategoryTempest,
	CategoryFlood,
	CategoryFloodOld,
	CategoryWildfire,
	CategoryEarthquake,
	CategoryDisasters,
}

// FeedPath returns the URL path of the category's JSON feed relative to the
// warnung.bund.de base URL.
func (c Category) FeedPath() string {
	switch c {
	case CategoryTempest:
		return "/bbk.dwd/unwetter.json"
	case CategoryFlood:
		return "/bbk.wsv/hochwasser.json"
	case CategoryFloodOld:
		return "/bbk.lhp/hochwassermeldungen.json"
	case CategoryWildfire:
		return "/bbk.dwd/waldbrand.json"
	case CategoryEarthquake:
		return "/bbk.bgr/erdbeben.json"
	case CategoryDisasters:
		return "/bbk.mowas/gefahrendurchsagen.json"
	}
	return ""
}

// ParseCategory converts a user-supplied category name. Matching is
// case-insensitive.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown warning category %q", s)
}

// Severity is the CAP severity of a broadcast. The zero value is the
// unknown severity, which ranks below Minor.
type Severity int

const (
	SeverityUnknown Severity = iota
	SeverityMinor
	SeverityModerate
	SeveritySevere
	SeverityExtreme
)

// ParseSeverity maps the CAP severity string to its rank. Unrecognized
// values map to SeverityUnknown.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(s) {
	case "minor":
		return SeverityMinor
	case "moderate":
		return SeverityModerate
	case "severe":
		return SeveritySevere
	case "extreme":
		return SeverityExtreme
	}
	return SeverityUnknown
}

func (s Severity) String() string {
	switch s {
	case SeverityMinor:
		return "Minor"
	case SeverityModerate:
		return "Moderate"
	case SeveritySevere:
		return "Severe"
	case SeverityExtreme:
		return "Extreme"
	}
	return "Unknown"
}

// AtLeast reports whether s ranks at or above the threshold.
func (s Severity) AtLeast(threshold Severity) bool {
	return s >= threshold
}

// MsgType is the CAP message type of a broadcast.
type MsgType string

const (
	MsgTypeAlert  MsgType = "Alert"
	MsgTypeUpdate MsgType = "Update"
	MsgTypeCancel MsgType = "Cancel"
)

// ParseMsgType normalizes a CAP msgType string.
func ParseMsgType(s string) (MsgType, error) {
	switch strings.ToLower(s) {
	case "alert":
		return MsgTypeAlert, nil
	case "update":
		return MsgTypeUpdate, nil
	case "cancel":
		return MsgTypeCancel, nil
	}
	return "", fmt.Errorf("unknown msgType %q", s)
}

// Broadcast is one entry of a MOWAS feed. Field names follow the CAP JSON
// that warnung.bund.de publishes; only the fields the beacon evaluates are
// mapped.
type Broadcast struct {
	Identifier string `json:"identifier"`
	Sender     string `json:"sender,omitempty"`
	Sent       string `json:"sent"`
	Status     string `json:"status,omitempty"`
	MsgType    string `json:"msgType"`
	Scope      string `json:"scope,omitempty"`
	Info       []Info `json:"info"`
}

// Info carries the human-readable content of a broadcast. MOWAS messages
// ship a single info block in German.
type Info struct {
	Language    string `json:"language,omitempty"`
	Event       string `json:"event,omitempty"`
	Urgency     string `json:"urgency,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Certainty   string `json:"certainty,omitempty"`
	Headline    string `json:"headline,omitempty"`
	Description string `json:"description,omitempty"`
	Instruction string `json:"instruction,omitempty"`
	Contact     string `json:"contact,omitempty"`
	Web         string `json:"web,omitempty"`
	Area        []Area `json:"area"`
}

// Area describes one affected area with its polygon rings and
// administrative geocodes.
type Area struct {
	AreaDesc string    `json:"areaDesc"`
	Polygon  []string  `json:"polygon,omitempty"`
	Geocode  []Geocode `json:"geocode,omitempty"`
}

// Geocode is a single valueName/value pair; MOWAS uses it to carry the
// warncell identifier of the area.
type Geocode struct {
	ValueName string `json:"valueName,omitempty"`
	Value     string `json:"value"`
}

// WatchPoint is a coordinate the beacon monitors. The APRS flag marks the
// live position that tracks a callsign on aprs.fi.
type WatchPoint struct {
	Latitude  float64
	Longitude float64
	APRS      bool
}

// MatchedPoint is a watch point that fell inside a broadcast area,
// enriched with everything the output channels render.
type MatchedPoint struct {
	Latitude   float64
	Longitude  float64
	Address    string
	UTM        string
	Maidenhead string
	APRS       bool
}

// DeliveryRecord is the fully enriched representation of one broadcast
// that is due for delivery. All free-text fields are already stripped of
// markup. Translated mirrors live in the Lang fields and never replace
// the German originals.
type DeliveryRecord struct {
	Identifier  string
	MsgType     MsgType
	Severity    Severity
	Urgency     string
	Certainty   string
	Sent        string
	Headline    string
	Description string
	Instruction string
	Contact     string

	// SMSMessage is the condensed single-line form for short-message
	// channels, built from headline and abbreviated area names.
	SMSMessage string

	// Translated mirrors of the free-text fields, populated when a target
	// language is configured and translation succeeded.
	LangHeadline    string
	LangDescription string
	LangInstruction string
	LangContact     string
	LangSMSMessage  string

	// Affected area names: the full MOWAS areaDesc, its administratively
	// abbreviated form (same index order), and the geocode names resolved
	// through the warncell table where possible.
	AreaDescriptions  []string
	AreaAbbreviations []string
	GeocodeNames      []string

	// Polygon of the first affected area, lat/lon order, used for the
	// static map render.
	Polygon [][2]float64

	// Watch points inside the affected area.
	Points []MatchedPoint

	// HighPrio marks broadcasts at or above the emergency severity
	// threshold. Always false for Cancel messages.
	HighPrio bool

	// Language the record was translated to; empty when untranslated.
	Language string

	// MapImage is the rendered PNG of the affected area, nil when static
	// map generation is disabled or failed.
	MapImage []byte
}
