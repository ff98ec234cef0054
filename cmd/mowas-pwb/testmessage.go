// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package main

import (
	"context"
	"fmt"

	"github.com/joergschultzelutter/mowas-pwb/internal/dispatch"
	"github.com/joergschultzelutter/mowas-pwb/internal/enrich"
	"github.com/joergschultzelutter/mowas-pwb/internal/geo"
	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// testMessageRecord builds the synthetic broadcast of the
// configuration test: a fictitious minor alert for Kreis Holzminden.
func testMessageRecord() *models.DeliveryRecord {
	polygon := [][2]float64{
		{52.038744, 9.575559},
		{51.964414, 9.646755},
		{51.952843, 9.806973},
		{51.870435, 9.795105},
		{51.829115, 9.643089},
		{51.789787, 9.579181},
		{51.896644, 9.852876},
		{52.038744, 9.575559},
	}

	point := models.MatchedPoint{
		Latitude:  51.910341,
		Longitude: 9.642272,
		Address:   geo.FallbackAddress,
	}
	if grid, err := geo.ToMaidenhead(point.Latitude, point.Longitude, 4); err == nil {
		point.Maidenhead = grid
	}
	if utm, err := geo.ToUTM(point.Latitude, point.Longitude); err == nil {
		point.UTM = utm.String()
	}

	rec := &models.DeliveryRecord{
		Identifier:       "MOWAS-BEISPIEL-MELDUNG",
		MsgType:          models.MsgTypeAlert,
		Severity:         models.SeverityMinor,
		Urgency:          "Immediate",
		Sent:             "2020-08-28T11:00:08+02:00",
		Headline:         "mowas-pwb Konfigurationstest",
		Description:      "Bei Empfang dieser Nachricht ist mowas-pwb ordnungsgemäß konfiguriert",
		Instruction:      "Vielen Dank für die Benutzung dieser Software",
		Contact:          "",
		AreaDescriptions: []string{"Kreis Holzminden"},
		GeocodeNames:     []string{"Kreis Holzminden"},
		Polygon:          polygon,
		Points:           []models.MatchedPoint{point},
		SMSMessage:       "mowas-pwb Konfigurationstest ok",
	}

	if img, err := enrich.RenderMap(rec.Polygon, rec.Points); err == nil {
		rec.MapImage = img
	}
	return rec
}

// sendTestMessage pushes one synthetic record through every configured
// channel so the operator can verify the setup end to end.
func sendTestMessage(ctx context.Context, registry *dispatch.Registry) error {
	log := logging.With().Str("component", "main").Logger()
	log.Info().Msg("Sending configuration test message")

	delivered, err := registry.Dispatch(ctx, testMessageRecord())
	if err != nil {
		return fmt.Errorf("configuration test failed: %w", err)
	}
	log.Info().Int("channels", delivered).Msg("Configuration test message delivered")
	return nil
}
