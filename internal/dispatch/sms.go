// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package dispatch

import (
	"context"
	"fmt"

	"github.com/containrrr/shoutrrr"
	"github.com/containrrr/shoutrrr/pkg/types"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// SMSChannel delivers the abbreviated report form to short-message-style
// shoutrrr destinations. Content is plain ASCII; long texts are either
// truncated to the budget or split into multiple segments.
type SMSChannel struct {
	sender notifier
	maxLen int
	split  bool
}

// NewSMSChannel builds the channel from a messenger configuration file
// holding one shoutrrr service URL per line. maxLen must honor
// MinSMSLength; split selects segmentation over truncation.
func NewSMSChannel(configFile string, maxLen int, split bool) (*SMSChannel, error) {
	if maxLen < MinSMSLength {
		return nil, fmt.Errorf("sms message length %d is below the minimum of %d", maxLen, MinSMSLength)
	}
	urls, err := readServiceURLs(configFile)
	if err != nil {
		return nil, err
	}
	sender, err := shoutrrr.CreateSender(urls...)
	if err != nil {
		return nil, fmt.Errorf("create sms sender: %w", err)
	}
	return &SMSChannel{sender: sender, maxLen: maxLen, split: split}, nil
}

// Name returns the channel identifier.
func (c *SMSChannel) Name() string {
	return "sms"
}

// Validate checks the sender and the length budget.
func (c *SMSChannel) Validate() error {
	if c.sender == nil {
		return fmt.Errorf("sms sender is not configured")
	}
	if c.maxLen < MinSMSLength {
		return fmt.Errorf("sms message length %d is below the minimum of %d", c.maxLen, MinSMSLength)
	}
	return nil
}

// Send emits one notification per physical segment. A translated short
// message takes precedence over the German one.
func (c *SMSChannel) Send(_ context.Context, rec *models.DeliveryRecord) error {
	text := rec.SMSMessage
	if rec.LangSMSMessage != "" {
		text = rec.LangSMSMessage
	}

	var segments []string
	if c.split {
		segments = SegmentMessage(text, c.maxLen)
	} else {
		segments = []string{TruncateShortMessage(text, c.maxLen)}
	}

	params := &types.Params{"title": notifyTitle(rec)}
	for _, segment := range segments {
		if err := firstSendError(c.sender.Send(segment, params)); err != nil {
			return err
		}
	}
	return nil
}
