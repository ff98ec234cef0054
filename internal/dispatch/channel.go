// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package dispatch fans fully enriched delivery records out to the
// configured notification channels.
//
// Three channel implementations exist:
//   - Email: multipart MIME via SMTP with an embedded map image
//   - Messenger: full-content notifications via shoutrrr service URLs
//   - SMS: abbreviated plain-ASCII segments via shoutrrr service URLs
//
// Each channel implements the Channel interface. Channels are independent
// of one another; a failure in one channel never blocks delivery on the
// remaining channels.
package dispatch

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
	"github.com/joergschultzelutter/mowas-pwb/internal/metrics"
	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// Channel is one notification sink for delivery records.
type Channel interface {
	// Name returns the channel identifier (email, messenger, sms).
	Name() string

	// Validate checks whether the channel configuration is usable.
	Validate() error

	// Send delivers one record to the channel's destination.
	Send(ctx context.Context, rec *models.DeliveryRecord) error
}

// Registry holds the enabled channels in registration order.
type Registry struct {
	channels []Channel
}

// NewRegistry creates a registry with the given channels.
func NewRegistry(channels ...Channel) *Registry {
	r := &Registry{}
	for _, ch := range channels {
		r.Register(ch)
	}
	return r
}

// Register appends a channel. Nil channels are ignored so callers can
// pass the result of a conditional constructor directly.
func (r *Registry) Register(ch Channel) {
	if ch == nil {
		return
	}
	r.channels = append(r.channels, ch)
}

// Names returns the identifiers of all registered channels.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.channels))
	for _, ch := range r.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Len returns the number of registered channels.
func (r *Registry) Len() int {
	return len(r.channels)
}

// Validate checks every registered channel and returns the first
// configuration error found.
func (r *Registry) Validate() error {
	for _, ch := range r.channels {
		if err := ch.Validate(); err != nil {
			return fmt.Errorf("channel %s: %w", ch.Name(), err)
		}
	}
	return nil
}

// Dispatch sends the record to every registered channel in order. Each
// record receives a correlation id for log tracing. Channel failures are
// logged and collected; the returned count is the number of channels
// that accepted the record.
func (r *Registry) Dispatch(ctx context.Context, rec *models.DeliveryRecord) (int, error) {
	deliveryID := uuid.NewString()
	log := logging.With().
		Str("delivery_id", deliveryID).
		Str("identifier", rec.Identifier).
		Str("msgtype", string(rec.MsgType)).
		Logger()

	delivered := 0
	var firstErr error
	for _, ch := range r.channels {
		if err := ch.Send(ctx, rec); err != nil {
			metrics.DeliveryErrors.WithLabelValues(ch.Name()).Inc()
			log.Error().Err(err).Str("channel", ch.Name()).Msg("Delivery failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("channel %s: %w", ch.Name(), err)
			}
			continue
		}
		log.Info().Str("channel", ch.Name()).Msg("Delivered")
		delivered++
	}
	return delivered, firstErr
}

// readServiceURLs loads a messenger configuration file: one shoutrrr
// service URL per line, blank lines and #-comments skipped.
func readServiceURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open messenger config: %w", err)
	}
	defer func() { _ = f.Close() }()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read messenger config: %w", err)
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("messenger config %s contains no service URLs", path)
	}
	return urls, nil
}
