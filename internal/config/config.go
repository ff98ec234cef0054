// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package config loads the program configuration from the mowas-pwb.cfg
// file and the environment.
//
// Configuration loading order (Koanf v2):
//  1. Defaults: built-in sensible defaults
//  2. Config file: INI file, section [mowas_config]
//  3. Environment variables: MOWAS_* overrides any file setting
//
// Any option whose value equals the literal NOT_CONFIGURED disables the
// corresponding capability. The beacon keeps running without it.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// NotConfigured is the sentinel value that disables an optional
// capability.
const NotConfigured = "NOT_CONFIGURED"

// DefaultConfigFile is the config file read when --configfile is not
// given.
const DefaultConfigFile = "mowas-pwb.cfg"

// Config holds all options of the [mowas_config] file section.
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	// AprsAPIKey is the aprs.fi API key for the follow-the-ham live
	// position lookup.
	AprsAPIKey string `koanf:"aprsdotfi_api_key"`

	// WatchAreas holds the static watch coordinates as space-separated
	// "lat,lon" pairs.
	WatchAreas string `koanf:"mowas_watch_areas"`

	// DeepLAPIKey enables the deepl.com translation of outgoing
	// content.
	DeepLAPIKey string `koanf:"deepldotcom_api_key"`

	// OpenAIAPIKey and PalmAPIKey back the respective text summarizers.
	OpenAIAPIKey string `koanf:"openai_api_key"`
	PalmAPIKey   string `koanf:"palm_api_key"`

	// SMTPIMAPAddress and SMTPIMAPPassword are the shared mail account
	// credentials for both the SMTP sender and the IMAP retention job.
	SMTPIMAPAddress  string `koanf:"smtpimap_email_address"`
	SMTPIMAPPassword string `koanf:"smtpimap_email_password"`

	SMTPServerAddress string `koanf:"smtp_server_address"`
	SMTPServerPort    int    `koanf:"smtp_server_port" validate:"min=0,max=65535"`

	IMAPServerAddress string `koanf:"imap_server_address"`
	IMAPServerPort    int    `koanf:"imap_server_port" validate:"min=0,max=65535"`
	IMAPMailboxName   string `koanf:"imap_mailbox_name"`

	// IMAPRetentionDays is the mailbox retention interval in days.
	// Zero disables the retention job.
	IMAPRetentionDays int `koanf:"imap_mail_retention_max_days" validate:"min=0"`

	// ActiveCategories is the comma-separated list of MOWAS feed
	// categories to poll.
	ActiveCategories string `koanf:"mowas_active_categories" validate:"required"`
}

// defaultConfig returns a Config with all optional capabilities
// disabled and all six feed categories active.
func defaultConfig() *Config {
	return &Config{
		AprsAPIKey:        NotConfigured,
		WatchAreas:        "",
		DeepLAPIKey:       NotConfigured,
		OpenAIAPIKey:      NotConfigured,
		PalmAPIKey:        NotConfigured,
		SMTPIMAPAddress:   NotConfigured,
		SMTPIMAPPassword:  NotConfigured,
		SMTPServerAddress: NotConfigured,
		SMTPServerPort:    0,
		IMAPServerAddress: NotConfigured,
		IMAPServerPort:    0,
		IMAPMailboxName:   "INBOX",
		IMAPRetentionDays: 0,
		ActiveCategories:  "TEMPEST,FLOOD,FLOOD_OLD,WILDFIRE,EARTHQUAKE,DISASTERS",
	}
}

// configured reports whether an option carries a usable value.
func configured(value string) bool {
	return value != "" && value != NotConfigured
}

// AprsConfigured reports whether the aprs.fi position lookup can be
// used.
func (c *Config) AprsConfigured() bool {
	return configured(c.AprsAPIKey)
}

// TranslationConfigured reports whether the deepl.com translator can be
// used.
func (c *Config) TranslationConfigured() bool {
	return configured(c.DeepLAPIKey)
}

// EmailConfigured reports whether the SMTP channel can be used.
func (c *Config) EmailConfigured() bool {
	return configured(c.SMTPIMAPAddress) &&
		configured(c.SMTPIMAPPassword) &&
		configured(c.SMTPServerAddress) &&
		c.SMTPServerPort > 0
}

// IMAPConfigured reports whether the mailbox retention job can run.
func (c *Config) IMAPConfigured() bool {
	return configured(c.SMTPIMAPAddress) &&
		configured(c.SMTPIMAPPassword) &&
		configured(c.IMAPServerAddress) &&
		c.IMAPServerPort > 0 &&
		c.IMAPRetentionDays > 0
}

// WatchPoints parses the mowas_watch_areas option into watch points.
// The option holds space-separated "lat,lon" pairs.
func (c *Config) WatchPoints() ([]models.WatchPoint, error) {
	fields := strings.Fields(c.WatchAreas)
	points := make([]models.WatchPoint, 0, len(fields))
	for _, field := range fields {
		latStr, lonStr, ok := strings.Cut(field, ",")
		if !ok {
			return nil, fmt.Errorf("watch area %q is not a lat,lon pair", field)
		}
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			return nil, fmt.Errorf("watch area %q has an invalid latitude: %w", field, err)
		}
		lon, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			return nil, fmt.Errorf("watch area %q has an invalid longitude: %w", field, err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("watch area %q is outside the valid coordinate range", field)
		}
		points = append(points, models.WatchPoint{Latitude: lat, Longitude: lon})
	}
	return points, nil
}

// Categories parses the mowas_active_categories option. At least one
// category must be configured.
func (c *Config) Categories() ([]models.Category, error) {
	parts := strings.Split(c.ActiveCategories, ",")
	categories := make([]models.Category, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		category, err := models.ParseCategory(part)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	if len(categories) == 0 {
		return nil, fmt.Errorf("at least one MOWAS category needs to be configured")
	}
	return categories, nil
}
