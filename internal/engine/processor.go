// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package engine

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/joergschultzelutter/mowas-pwb/internal/cache"
	"github.com/joergschultzelutter/mowas-pwb/internal/enrich"
	"github.com/joergschultzelutter/mowas-pwb/internal/geo"
	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
	"github.com/joergschultzelutter/mowas-pwb/internal/metrics"
	"github.com/joergschultzelutter/mowas-pwb/internal/models"
	"github.com/joergschultzelutter/mowas-pwb/internal/warncell"
)

// maidenheadPrecision is the grid locator length used in reports
// (4 pairs, e.g. JN58jl24).
const maidenheadPrecision = 4

// Settings are the immutable filter thresholds of the processing
// pipeline.
type Settings struct {
	// MinSeverity drops broadcasts ranking below it.
	MinSeverity models.Severity

	// HighPrioSeverity marks broadcasts at or above it as high
	// priority. Cancel messages are never high priority.
	HighPrioSeverity models.Severity

	// EnableCovidContent keeps pandemic-related broadcasts. Disabled by
	// default since those flooded the feeds without being actionable.
	EnableCovidContent bool

	// TargetLanguage requests translated mirrors of the free-text
	// fields; empty disables translation.
	TargetLanguage string
}

// Geocoder resolves a coordinate to a human-readable address.
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (string, error)
}

// Translator mirrors a list of texts into the target language.
type Translator interface {
	TranslateAll(ctx context.Context, texts []string) []string
}

// MapRenderer draws the polygon/marker overview image.
type MapRenderer func(polygon [][2]float64, points []models.MatchedPoint) ([]byte, error)

// ProcessorConfig wires the pipeline dependencies. Geocoder,
// Translator, Summarizer and RenderMap are optional; a nil value
// degrades to the documented fallback.
type ProcessorConfig struct {
	Cache      *cache.BroadcastCache
	Warncells  *warncell.Table
	Geocoder   Geocoder
	Translator Translator
	Summarizer enrich.Summarizer
	RenderMap  MapRenderer
	Settings   Settings
}

// Processor turns raw feed broadcasts into delivery-ready records. It
// owns the lifecycle decision, all filters, and the enrichment steps.
type Processor struct {
	cache      *cache.BroadcastCache
	warncells  *warncell.Table
	geocoder   Geocoder
	translator Translator
	summarizer enrich.Summarizer
	renderMap  MapRenderer
	settings   Settings
	log        zerolog.Logger
}

// NewProcessor creates a processing pipeline.
func NewProcessor(cfg ProcessorConfig) *Processor {
	return &Processor{
		cache:      cfg.Cache,
		warncells:  cfg.Warncells,
		geocoder:   cfg.Geocoder,
		translator: cfg.Translator,
		summarizer: cfg.Summarizer,
		renderMap:  cfg.RenderMap,
		settings:   cfg.Settings,
		log:        logging.With().Str("component", "processor").Logger(),
	}
}

// areaMatch collects everything the matcher learned about one
// broadcast.
type areaMatch struct {
	points       []models.WatchPoint
	areaFull     []string
	areaAbbrev   []string
	geocodeNames []string
	polygon      [][2]float64
}

// Process runs one broadcast through the full pipeline: lifecycle
// decision, severity filter, geospatial match, covid filter, cache
// insertion and enrichment. Returns nil when the broadcast is not due
// for delivery; the cache then stays free of tentative insertions.
func (p *Processor) Process(ctx context.Context, b *models.Broadcast, watch []models.WatchPoint) *models.DeliveryRecord {
	msgType, err := models.ParseMsgType(b.MsgType)
	if err != nil {
		p.log.Debug().Str("identifier", b.Identifier).Str("msgtype", b.MsgType).Msg("Skipping broadcast with unknown msgType")
		return nil
	}

	decision := Decide(p.cache, b.Identifier, msgType, b.Sent)
	if !decision.Deliver {
		return nil
	}

	if len(b.Info) == 0 {
		return nil
	}
	info := &b.Info[0]

	severity := models.ParseSeverity(info.Severity)
	if !severity.AtLeast(p.settings.MinSeverity) {
		return nil
	}

	match := p.matchAreas(info, watch)
	if len(match.points) == 0 {
		return nil
	}

	headline := enrich.StripHTML(info.Headline)
	description := enrich.StripHTML(info.Description)
	instruction := enrich.StripHTML(info.Instruction)
	contact := enrich.StripHTML(info.Contact)

	if !p.settings.EnableCovidContent && enrich.ContainsCovid(headline, description, instruction) {
		p.log.Debug().Str("identifier", b.Identifier).Msg("Dropping covid-related broadcast")
		return nil
	}

	if decision.Insert {
		p.cache.Put(b.Identifier, cache.Entry{MsgType: msgType, Sent: b.Sent})
	}
	metrics.CacheEntries.Set(float64(p.cache.Len()))

	rec := &models.DeliveryRecord{
		Identifier:        b.Identifier,
		MsgType:           msgType,
		Severity:          severity,
		Urgency:           info.Urgency,
		Certainty:         info.Certainty,
		Sent:              b.Sent,
		Headline:          headline,
		Description:       description,
		Instruction:       instruction,
		Contact:           contact,
		AreaDescriptions:  match.areaFull,
		AreaAbbreviations: match.areaAbbrev,
		GeocodeNames:      match.geocodeNames,
		Polygon:           match.polygon,
		Points:            p.enrichPoints(ctx, match.points),
		HighPrio:          msgType != models.MsgTypeCancel && severity.AtLeast(p.settings.HighPrioSeverity),
	}
	rec.SMSMessage = p.buildShortMessage(ctx, msgType, headline, description, match.geocodeNames)

	p.translate(ctx, rec)

	if p.renderMap != nil {
		img, err := p.renderMap(rec.Polygon, rec.Points)
		if err != nil {
			p.log.Debug().Err(err).Str("identifier", b.Identifier).Msg("Static map render failed")
		} else {
			rec.MapImage = img
		}
	}

	return rec
}

// matchAreas tests every watch point against every area polygon of the
// info block. Only the first ring of each area is evaluated; MOWAS
// publishes one ring per area. The first matching area's ring becomes
// the record polygon for the map render.
func (p *Processor) matchAreas(info *models.Info, watch []models.WatchPoint) areaMatch {
	var match areaMatch

	for i := range info.Area {
		area := &info.Area[i]
		if len(area.Polygon) == 0 {
			continue
		}
		ring, err := geo.ParsePolygon(area.Polygon[0])
		if err != nil {
			p.log.Debug().Err(err).Str("area", area.AreaDesc).Msg("Unparseable polygon")
			continue
		}

		areaMatched := false
		for _, wp := range watch {
			if !geo.Contains(ring, geo.Point{Lat: wp.Latitude, Lon: wp.Longitude}) {
				continue
			}
			areaMatched = true
			if !containsPoint(match.points, wp) {
				match.points = append(match.points, wp)
			}
		}
		if !areaMatched {
			continue
		}

		if match.polygon == nil {
			match.polygon = make([][2]float64, 0, len(ring))
			for _, v := range ring {
				match.polygon = append(match.polygon, [2]float64{v.Lat, v.Lon})
			}
		}

		if !containsString(match.areaFull, area.AreaDesc) {
			match.areaFull = append(match.areaFull, area.AreaDesc)
			match.areaAbbrev = append(match.areaAbbrev, enrich.AbbreviateAreaName(area.AreaDesc))
		}

		// Geocodes are the primary area reference; the feed occasionally
		// carries ids unknown to the warncell table, in which case the
		// abbreviated areaDesc fills in.
		if len(area.Geocode) == 0 {
			name := enrich.AbbreviateAreaName(area.AreaDesc)
			if !containsString(match.geocodeNames, name) {
				match.geocodeNames = append(match.geocodeNames, name)
			}
			continue
		}
		for _, g := range area.Geocode {
			name := enrich.AbbreviateAreaName(area.AreaDesc)
			if p.warncells != nil {
				if entry, ok := p.warncells.Lookup(g.Value); ok {
					name = entry.ShortName
				}
			}
			if !containsString(match.geocodeNames, name) {
				match.geocodeNames = append(match.geocodeNames, name)
			}
		}
	}

	return match
}

// enrichPoints augments every matched watch point with grid locator,
// UTM projection and a best-effort reverse-geocoded address.
func (p *Processor) enrichPoints(ctx context.Context, points []models.WatchPoint) []models.MatchedPoint {
	enriched := make([]models.MatchedPoint, 0, len(points))
	for _, wp := range points {
		mp := models.MatchedPoint{
			Latitude:  wp.Latitude,
			Longitude: wp.Longitude,
			Address:   geo.FallbackAddress,
			APRS:      wp.APRS,
		}
		if p.geocoder != nil {
			if address, err := p.geocoder.Reverse(ctx, wp.Latitude, wp.Longitude); err == nil {
				mp.Address = address
			} else {
				p.log.Debug().Err(err).Float64("lat", wp.Latitude).Float64("lon", wp.Longitude).Msg("Reverse geocoding failed")
			}
		}
		if locator, err := geo.ToMaidenhead(wp.Latitude, wp.Longitude, maidenheadPrecision); err == nil {
			mp.Maidenhead = locator
		}
		if utm, err := geo.ToUTM(wp.Latitude, wp.Longitude); err == nil {
			mp.UTM = utm.String()
		}
		enriched = append(enriched, mp)
	}
	return enriched
}

// buildShortMessage assembles the abbreviated report form: the msgtype
// initial, the headline (or a machine summary of the description when a
// summarizer is configured), then the short area names.
func (p *Processor) buildShortMessage(ctx context.Context, msgType models.MsgType, headline, description string, geocodeNames []string) string {
	body := headline
	if p.summarizer != nil {
		body = p.summarizer.Summarize(ctx, description)
	}

	var b strings.Builder
	b.WriteString(string(msgType)[:1])
	b.WriteString(":")
	b.WriteString(body)
	for _, name := range geocodeNames {
		b.WriteString(" ")
		b.WriteString(name)
	}
	return strings.TrimSpace(b.String())
}

// translate fills the Lang mirror fields when a target language is
// configured. The translator returns the originals on failure, so the
// mirrors are always safe to render.
func (p *Processor) translate(ctx context.Context, rec *models.DeliveryRecord) {
	if p.translator == nil || p.settings.TargetLanguage == "" {
		return
	}
	texts := []string{rec.Headline, rec.Description, rec.Instruction, rec.Contact, rec.SMSMessage}
	translated := p.translator.TranslateAll(ctx, texts)
	if len(translated) != len(texts) {
		return
	}
	rec.Language = p.settings.TargetLanguage
	rec.LangHeadline = translated[0]
	rec.LangDescription = translated[1]
	rec.LangInstruction = translated[2]
	rec.LangContact = translated[3]
	rec.LangSMSMessage = translated[4]
}

func containsPoint(points []models.WatchPoint, p models.WatchPoint) bool {
	for _, existing := range points {
		if existing.Latitude == p.Latitude && existing.Longitude == p.Longitude {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, existing := range list {
		if existing == s {
			return true
		}
	}
	return false
}
