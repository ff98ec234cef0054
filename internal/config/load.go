// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is the prefix of environment variables that override config
// file options, e.g. MOWAS_APRSDOTFI_API_KEY.
const envPrefix = "MOWAS_"

// Load reads the configuration from the given INI file, layered with
// defaults and MOWAS_* environment variables.
func Load(path string) (*Config, error) {
	return load(file.Provider(path))
}

// LoadBytes parses configuration from raw INI bytes. Used in tests.
func LoadBytes(b []byte) (*Config, error) {
	return load(rawbytes.Provider(b))
}

func load(provider koanf.Provider) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := k.Load(provider, newINIParser()); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	coercePorts(k)

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// coercePorts turns unparseable port options into zero so that a
// NOT_CONFIGURED port disables the capability instead of failing the
// load. An unusable SMTP port also takes the SMTP server out of
// service.
func coercePorts(k *koanf.Koanf) {
	if !parseableInt(k.Get("smtp_server_port")) {
		_ = k.Set("smtp_server_port", 0)
		_ = k.Set("smtp_server_address", NotConfigured)
	}
	if !parseableInt(k.Get("imap_server_port")) {
		_ = k.Set("imap_server_port", 0)
	}
}

func parseableInt(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case int, int64, float64:
		return true
	case string:
		_, err := strconv.Atoi(v)
		return err == nil
	default:
		return false
	}
}

// envOptionNames lists the config options that may be overridden from
// the environment. Unknown MOWAS_* variables are ignored.
var envOptionNames = map[string]bool{
	"aprsdotfi_api_key":            true,
	"mowas_watch_areas":            true,
	"deepldotcom_api_key":          true,
	"openai_api_key":               true,
	"palm_api_key":                 true,
	"smtpimap_email_address":       true,
	"smtpimap_email_password":      true,
	"smtp_server_address":          true,
	"smtp_server_port":             true,
	"imap_server_address":          true,
	"imap_server_port":             true,
	"imap_mailbox_name":            true,
	"imap_mail_retention_max_days": true,
	"mowas_active_categories":      true,
}

// envTransformFunc maps MOWAS_* environment variable names to config
// option names, e.g. MOWAS_SMTP_SERVER_PORT -> smtp_server_port.
func envTransformFunc(key string) string {
	option := strings.ToLower(strings.TrimPrefix(key, envPrefix))
	if !envOptionNames[option] {
		return ""
	}
	return option
}
