// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package main is the entry point of the MOWAS Personal Warning Beacon.
//
// The beacon polls the German BBK civil protection feeds, matches the
// published warning polygons against the configured watch coordinates
// and delivers matching broadcasts through the configured channels
// (email, messenger services, SMS-style short messages).
//
// Startup order:
//
//  1. Logging: zerolog, configured from --log-level / --log-format
//  2. Configuration: mowas-pwb.cfg [mowas_config] section plus
//     MOWAS_* environment overrides (Koanf v2)
//  3. Enrichment: warncell registry download, reverse geocoder,
//     optional DeepL translator and text summarizer
//  4. Dispatch: channel registry built from the configured sinks
//  5. Supervision: suture tree carrying the polling loop, the mailbox
//     retention job and the optional ops listener
//
// The process shuts down gracefully on SIGINT/SIGTERM; a second signal
// forces an immediate exit.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joergschultzelutter/mowas-pwb/internal/config"
	"github.com/joergschultzelutter/mowas-pwb/internal/dispatch"
	"github.com/joergschultzelutter/mowas-pwb/internal/enrich"
	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// options is the full CLI flag surface.
type options struct {
	configFile          string
	messengerConfigFile string
	smsConfigFile       string
	smsMessageLength    int
	smsMessageSplit     bool
	generateTestMessage bool
	standardInterval    int
	emergencyInterval   int
	ttlMinutes          int
	followTheHam        string
	warningLevel        string
	highPrioLevel       string
	textSummarizer      string
	summarizerEndpoint  string
	emailRecipient      string
	enableCovidContent  bool
	translateTo         string
	localFile           string
	opsListenAddress    string
	logLevel            string
	logFormat           string
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "mowas-pwb",
		Short:         "MOWAS personal warning beacon",
		Long:          "Polls the German BBK MOWAS warning feeds and notifies you when a warning polygon covers one of your watch coordinates.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logging.Init(logging.Config{
				Level:     opts.logLevel,
				Format:    opts.logFormat,
				Timestamp: true,
				Output:    os.Stderr,
			})
			if err := opts.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configFile, "configfile", config.DefaultConfigFile, "program config file")
	flags.StringVar(&opts.messengerConfigFile, "messenger-config-file", "", "shoutrrr URL file for full-content messenger targets")
	flags.StringVar(&opts.smsConfigFile, "sms-messenger-config-file", "", "shoutrrr URL file for SMS-style short message targets")
	flags.IntVar(&opts.smsMessageLength, "sms-message-length", dispatch.MinSMSLength, "maximum length of a short message segment")
	flags.BoolVar(&opts.smsMessageSplit, "sms-message-split", false, "split long short messages into segments instead of truncating")
	flags.BoolVar(&opts.generateTestMessage, "generate-test-message", false, "send one test message through every configured channel, then exit")
	flags.IntVar(&opts.standardInterval, "standard-run-interval", 60, "standard polling interval in minutes (minimum 60)")
	flags.IntVar(&opts.emergencyInterval, "emergency-run-interval", 15, "emergency polling interval in minutes (minimum 15)")
	flags.IntVar(&opts.ttlMinutes, "ttl", 480, "time-to-live of delivered broadcasts in minutes")
	flags.StringVar(&opts.followTheHam, "follow-the-ham", "", "amateur radio call sign whose aprs.fi position is watched as a live coordinate")
	flags.StringVar(&opts.warningLevel, "warning-level", "minor", "minimal severity of broadcasts to deliver (minor, moderate, severe, extreme)")
	flags.StringVar(&opts.highPrioLevel, "high-prio-level", "severe", "severity at which broadcasts are marked high priority")
	flags.StringVar(&opts.textSummarizer, "text-summarizer", enrich.SummarizerInternal, "short message summarizer (internal, generic, openai, palm)")
	flags.StringVar(&opts.summarizerEndpoint, "summarizer-endpoint", "", "endpoint of the generic summarizer")
	flags.StringVar(&opts.emailRecipient, "email-recipient", "", "recipient of email notifications")
	flags.BoolVar(&opts.enableCovidContent, "enable-covid-content", false, "also deliver Covid-related broadcasts")
	flags.StringVar(&opts.translateTo, "translate-to", "", "ISO-639-1 target language for translated content mirrors")
	flags.StringVar(&opts.localFile, "localfile", "", "read broadcasts from a local JSON file instead of the live feeds")
	flags.StringVar(&opts.opsListenAddress, "ops-listen-address", "", "listen address of the /healthz and /metrics endpoints; empty disables the listener")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log format (console, json)")

	return cmd
}

// validate checks the flag constraints before any component is built.
func (o *options) validate() error {
	if o.smsMessageLength < dispatch.MinSMSLength {
		return fmt.Errorf("--sms-message-length must be at least %d", dispatch.MinSMSLength)
	}
	if o.standardInterval < 60 {
		return fmt.Errorf("--standard-run-interval must be at least 60 minutes")
	}
	if o.emergencyInterval < 15 {
		return fmt.Errorf("--emergency-run-interval must be at least 15 minutes")
	}
	if o.emergencyInterval > o.standardInterval {
		return fmt.Errorf("--emergency-run-interval must not exceed --standard-run-interval")
	}
	if o.ttlMinutes < 1 {
		return fmt.Errorf("--ttl must be at least 1 minute")
	}
	if models.ParseSeverity(o.warningLevel) == models.SeverityUnknown {
		return fmt.Errorf("--warning-level must be one of minor, moderate, severe, extreme")
	}
	if models.ParseSeverity(o.highPrioLevel) == models.SeverityUnknown {
		return fmt.Errorf("--high-prio-level must be one of minor, moderate, severe, extreme")
	}
	switch strings.ToLower(o.textSummarizer) {
	case enrich.SummarizerInternal, enrich.SummarizerGeneric, enrich.SummarizerOpenAI, enrich.SummarizerPalm:
	default:
		return fmt.Errorf("--text-summarizer must be one of internal, generic, openai, palm")
	}
	if o.translateTo != "" && !enrich.IsSupportedLanguage(o.translateTo) {
		return fmt.Errorf("--translate-to language %q is not supported", o.translateTo)
	}
	return nil
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logging.Error().Err(err).Msg("mowas-pwb failed")
		os.Exit(1)
	}
}
