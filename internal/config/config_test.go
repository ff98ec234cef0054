// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

const sampleConfig = `
# mowas-pwb configuration
[mowas_config]
aprsdotfi_api_key = abcdef123456
mowas_watch_areas = 51.838879,8.32678 51.829722,9.448333
deepldotcom_api_key = NOT_CONFIGURED
openai_api_key = NOT_CONFIGURED
palm_api_key = NOT_CONFIGURED
smtpimap_email_address = beacon@example.com
smtpimap_email_password = secret
smtp_server_address = smtp.example.com
smtp_server_port = 465
imap_server_address = imap.example.com
imap_server_port = 993
imap_mailbox_name = INBOX
imap_mail_retention_max_days = 7
mowas_active_categories = TEMPEST,FLOOD,DISASTERS
`

func TestLoadBytes(t *testing.T) {
	cfg, err := LoadBytes([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "abcdef123456", cfg.AprsAPIKey)
	assert.Equal(t, 465, cfg.SMTPServerPort)
	assert.Equal(t, 7, cfg.IMAPRetentionDays)
	assert.True(t, cfg.AprsConfigured())
	assert.False(t, cfg.TranslationConfigured(), "NOT_CONFIGURED key must disable the translator")
	assert.True(t, cfg.EmailConfigured())
	assert.True(t, cfg.IMAPConfigured())
}

func TestLoadBytesWatchPoints(t *testing.T) {
	cfg, err := LoadBytes([]byte(sampleConfig))
	require.NoError(t, err)

	points, err := cfg.WatchPoints()
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 51.838879, points[0].Latitude)
	assert.Equal(t, 8.32678, points[0].Longitude)
	assert.False(t, points[0].APRS, "static watch points must not carry the live marker")
}

func TestLoadBytesCategories(t *testing.T) {
	cfg, err := LoadBytes([]byte(sampleConfig))
	require.NoError(t, err)

	categories, err := cfg.Categories()
	require.NoError(t, err)
	assert.Equal(t, []models.Category{
		models.CategoryTempest,
		models.CategoryFlood,
		models.CategoryDisasters,
	}, categories)
}

func TestLoadBytesUnparseablePortDisablesSMTP(t *testing.T) {
	body := strings.Replace(sampleConfig, "smtp_server_port = 465", "smtp_server_port = NOT_CONFIGURED", 1)
	cfg, err := LoadBytes([]byte(body))
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.SMTPServerPort)
	assert.False(t, cfg.EmailConfigured(), "unusable SMTP port must disable the channel")
	assert.True(t, cfg.IMAPConfigured(), "IMAP must stay configured")
}

func TestLoadBytesRejectsUnknownCategory(t *testing.T) {
	body := strings.Replace(sampleConfig, "TEMPEST,FLOOD,DISASTERS", "TEMPEST,VOLCANO", 1)
	_, err := LoadBytes([]byte(body))
	assert.Error(t, err)
}

func TestLoadBytesRejectsEmptyCategories(t *testing.T) {
	body := strings.Replace(sampleConfig, "TEMPEST,FLOOD,DISASTERS", ",", 1)
	_, err := LoadBytes([]byte(body))
	assert.Error(t, err)
}

func TestLoadBytesRejectsMalformedWatchArea(t *testing.T) {
	body := strings.Replace(sampleConfig, "51.838879,8.32678", "51.838879;8.32678", 1)
	_, err := LoadBytes([]byte(body))
	assert.Error(t, err)
}

func TestLoadBytesRejectsMissingSection(t *testing.T) {
	_, err := LoadBytes([]byte("[other_section]\nfoo = bar\n"))
	assert.Error(t, err)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("MOWAS_SMTP_SERVER_PORT", "587")
	t.Setenv("MOWAS_UNRELATED_OPTION", "ignored")

	cfg, err := LoadBytes([]byte(sampleConfig))
	require.NoError(t, err)
	assert.Equal(t, 587, cfg.SMTPServerPort)
}

func TestINIParserRoundTrip(t *testing.T) {
	parser := newINIParser()
	raw, err := parser.Marshal(map[string]interface{}{"imap_mailbox_name": "INBOX"})
	require.NoError(t, err)

	parsed, err := parser.Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, "INBOX", parsed["imap_mailbox_name"])
}

func TestDefaultsDisableCapabilities(t *testing.T) {
	cfg := defaultConfig()
	assert.False(t, cfg.AprsConfigured())
	assert.False(t, cfg.EmailConfigured())
	assert.False(t, cfg.IMAPConfigured())
	assert.False(t, cfg.TranslationConfigured())
}
