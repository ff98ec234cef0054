// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the field constraints and the cross-field rules that
// the struct tags cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := c.Categories(); err != nil {
		return err
	}
	if _, err := c.WatchPoints(); err != nil {
		return err
	}

	if configured(c.SMTPServerAddress) && c.SMTPServerPort == 0 {
		return fmt.Errorf("smtp_server_port is required when smtp_server_address is set")
	}
	if configured(c.IMAPServerAddress) && c.IMAPServerPort == 0 {
		return fmt.Errorf("imap_server_port is required when imap_server_address is set")
	}
	if configured(c.SMTPServerAddress) && c.SMTPServerPort > 0 {
		if !configured(c.SMTPIMAPAddress) || !configured(c.SMTPIMAPPassword) {
			return fmt.Errorf("smtpimap_email_address and smtpimap_email_password are required when the SMTP server is set")
		}
	}
	return nil
}
