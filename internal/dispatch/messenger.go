// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/containrrr/shoutrrr"
	"github.com/containrrr/shoutrrr/pkg/types"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// notifier abstracts the shoutrrr service router for tests.
type notifier interface {
	Send(message string, params *types.Params) []error
}

// MessengerChannel delivers the full report content to one or more
// shoutrrr service URLs (Telegram, Discord, Matrix and friends).
type MessengerChannel struct {
	sender notifier
	now    func() time.Time
}

// NewMessengerChannel builds the channel from a messenger configuration
// file holding one shoutrrr service URL per line.
func NewMessengerChannel(configFile string) (*MessengerChannel, error) {
	urls, err := readServiceURLs(configFile)
	if err != nil {
		return nil, err
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("create messenger sender: %w", err)
	}
	return &MessengerChannel{sender: sender, now: time.Now}, nil
}

// Name returns the channel identifier.
func (c *MessengerChannel) Name() string {
	return "messenger"
}

// Validate checks that a sender exists.
func (c *MessengerChannel) Validate() error {
	if c.sender == nil {
		return fmt.Errorf("messenger sender is not configured")
	}
	return nil
}

// Send pushes the full-content notification to every configured service.
func (c *MessengerChannel) Send(_ context.Context, rec *models.DeliveryRecord) error {
	body := MessengerBody(rec, GeneratedAt(c.now()))
	params := &types.Params{"title": notifyTitle(rec)}
	return firstSendError(c.sender.Send(body, params))
}

// firstSendError reduces shoutrrr's per-service error slice to a single
// error value.
func firstSendError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
