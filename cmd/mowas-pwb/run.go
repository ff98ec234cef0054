// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joergschultzelutter/mowas-pwb/internal/cache"
	"github.com/joergschultzelutter/mowas-pwb/internal/config"
	"github.com/joergschultzelutter/mowas-pwb/internal/dispatch"
	"github.com/joergschultzelutter/mowas-pwb/internal/engine"
	"github.com/joergschultzelutter/mowas-pwb/internal/enrich"
	"github.com/joergschultzelutter/mowas-pwb/internal/feed"
	"github.com/joergschultzelutter/mowas-pwb/internal/geo"
	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
	"github.com/joergschultzelutter/mowas-pwb/internal/mailbox"
	"github.com/joergschultzelutter/mowas-pwb/internal/models"
	"github.com/joergschultzelutter/mowas-pwb/internal/ops"
	"github.com/joergschultzelutter/mowas-pwb/internal/position"
	"github.com/joergschultzelutter/mowas-pwb/internal/supervisor"
	"github.com/joergschultzelutter/mowas-pwb/internal/warncell"
)

// run wires all components and serves the supervisor tree until a
// shutdown signal arrives.
func run(ctx context.Context, opts *options) error {
	log := logging.With().Str("component", "main").Logger()

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}

	watchPoints, err := cfg.WatchPoints()
	if err != nil {
		return err
	}
	categories, err := cfg.Categories()
	if err != nil {
		return err
	}
	if len(watchPoints) == 0 && opts.followTheHam == "" {
		return fmt.Errorf("no watch coordinates: set mowas_watch_areas or --follow-the-ham")
	}

	registry, err := buildRegistry(cfg, opts)
	if err != nil {
		return err
	}
	if registry.Len() == 0 {
		return fmt.Errorf("no notification channel configured")
	}
	if err := registry.Validate(); err != nil {
		return err
	}
	log.Info().Strs("channels", registry.Names()).Msg("Dispatch channels ready")

	if opts.generateTestMessage {
		return sendTestMessage(ctx, registry)
	}

	var locator engine.Locator
	callsign := ""
	if opts.followTheHam != "" {
		if !cfg.AprsConfigured() {
			return fmt.Errorf("--follow-the-ham requires the aprsdotfi_api_key option")
		}
		callsign = position.NormalizeCallsign(opts.followTheHam)
		locator = position.NewClient(cfg.AprsAPIKey)
	}

	warncells, err := loadWarncells(ctx, "")
	if err != nil {
		return err
	}
	log.Info().Int("warncells", warncells.Len()).Msg("Warncell registry loaded")

	broadcastCache := cache.New(cache.DefaultCapacity, time.Duration(opts.ttlMinutes)*time.Minute)

	var feedOpts []feed.Option
	if opts.localFile != "" {
		feedOpts = append(feedOpts, feed.WithLocalFile(opts.localFile))
	}
	feedClient := feed.NewClient(feedOpts...)

	var translator engine.Translator
	targetLanguage := ""
	if opts.translateTo != "" {
		if cfg.TranslationConfigured() {
			translator = enrich.NewTranslator(cfg.DeepLAPIKey, opts.translateTo)
			targetLanguage = opts.translateTo
		} else {
			log.Warn().Msg("Translation requested but deepldotcom_api_key is not configured, continuing untranslated")
		}
	}

	summarizer, err := buildSummarizer(cfg, opts)
	if err != nil {
		return err
	}

	processor := engine.NewProcessor(engine.ProcessorConfig{
		Cache:      broadcastCache,
		Warncells:  warncells,
		Geocoder:   geo.NewGeocoder(),
		Translator: translator,
		Summarizer: summarizer,
		RenderMap:  enrich.RenderMap,
		Settings: engine.Settings{
			MinSeverity:        models.ParseSeverity(opts.warningLevel),
			HighPrioSeverity:   models.ParseSeverity(opts.highPrioLevel),
			EnableCovidContent: opts.enableCovidContent,
			TargetLanguage:     targetLanguage,
		},
	})

	poller := engine.NewPoller(engine.PollerConfig{
		Feed:              feedClient,
		Processor:         processor,
		Dispatcher:        registry,
		Cache:             broadcastCache,
		Categories:        categories,
		WatchPoints:       watchPoints,
		FollowCallsign:    callsign,
		Locator:           locator,
		StandardInterval:  time.Duration(opts.standardInterval) * time.Minute,
		EmergencyInterval: time.Duration(opts.emergencyInterval) * time.Minute,
	})

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddBeaconService(poller)

	retention := mailbox.NewJob(mailbox.Config{
		Server:        cfg.IMAPServerAddress,
		Port:          cfg.IMAPServerPort,
		Username:      cfg.SMTPIMAPAddress,
		Password:      cfg.SMTPIMAPPassword,
		Mailbox:       cfg.IMAPMailboxName,
		RetentionDays: cfg.IMAPRetentionDays,
	})
	if retention.Enabled() {
		tree.AddSupportService(retention)
		log.Info().Dur("interval", retention.Interval()).Msg("Mailbox retention job scheduled")
	}

	if opts.opsListenAddress != "" {
		tree.AddSupportService(ops.NewServer(opts.opsListenAddress))
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		log.Info().Str("signal", sig.String()).Msg("Shutdown requested")
		cancel()
		sig = <-sigCh
		log.Warn().Str("signal", sig.String()).Msg("Forced exit")
		os.Exit(1)
	}()

	log.Info().
		Int("watch_points", len(watchPoints)).
		Int("categories", len(categories)).
		Str("follow", callsign).
		Msg("mowas-pwb started")

	if err := tree.Serve(serveCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info().Msg("mowas-pwb stopped")
	return nil
}

// loadWarncells fetches the warncell registry. The geocode short names
// come from this table; the beacon refuses to start without it.
func loadWarncells(ctx context.Context, url string) (*warncell.Table, error) {
	warncells, err := warncell.Load(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("warncell registry load failed: %w", err)
	}
	return warncells, nil
}

// buildRegistry assembles the dispatch channels from the config file
// options and the CLI flags. Every channel is optional; the caller
// rejects an empty registry.
func buildRegistry(cfg *config.Config, opts *options) (*dispatch.Registry, error) {
	registry := dispatch.NewRegistry()

	if opts.emailRecipient != "" {
		if !cfg.EmailConfigured() {
			return nil, fmt.Errorf("--email-recipient requires the SMTP options in the config file")
		}
		registry.Register(dispatch.NewEmailChannel(dispatch.EmailConfig{
			Host:      cfg.SMTPServerAddress,
			Port:      cfg.SMTPServerPort,
			Username:  cfg.SMTPIMAPAddress,
			Password:  cfg.SMTPIMAPPassword,
			From:      cfg.SMTPIMAPAddress,
			Recipient: opts.emailRecipient,
			StartTLS:  true,
		}))
	}

	if opts.messengerConfigFile != "" {
		messenger, err := dispatch.NewMessengerChannel(opts.messengerConfigFile)
		if err != nil {
			return nil, err
		}
		registry.Register(messenger)
	}

	if opts.smsConfigFile != "" {
		sms, err := dispatch.NewSMSChannel(opts.smsConfigFile, opts.smsMessageLength, opts.smsMessageSplit)
		if err != nil {
			return nil, err
		}
		registry.Register(sms)
	}

	return registry, nil
}

// buildSummarizer resolves the --text-summarizer selector against the
// configured credentials. The internal selector keeps the headline as
// short message body, so no summarizer is built for it.
func buildSummarizer(cfg *config.Config, opts *options) (enrich.Summarizer, error) {
	switch opts.textSummarizer {
	case "", enrich.SummarizerInternal:
		return nil, nil
	case enrich.SummarizerGeneric:
		if opts.summarizerEndpoint == "" {
			return nil, fmt.Errorf("--text-summarizer generic requires --summarizer-endpoint")
		}
	case enrich.SummarizerOpenAI:
		if cfg.OpenAIAPIKey == "" || cfg.OpenAIAPIKey == config.NotConfigured {
			return nil, fmt.Errorf("--text-summarizer openai requires the openai_api_key option")
		}
	case enrich.SummarizerPalm:
		if cfg.PalmAPIKey == "" || cfg.PalmAPIKey == config.NotConfigured {
			return nil, fmt.Errorf("--text-summarizer palm requires the palm_api_key option")
		}
	}
	return enrich.NewSummarizer(opts.textSummarizer, enrich.SummarizerConfig{
		GenericEndpoint: opts.summarizerEndpoint,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		PalmAPIKey:      cfg.PalmAPIKey,
	})
}
