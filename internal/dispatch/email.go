// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package dispatch

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// mapImageCID references the embedded map image from the HTML part.
const mapImageCID = "mowas-map"

// EmailConfig carries the SMTP settings for the email channel.
type EmailConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	From      string
	Recipient string

	// StartTLS upgrades the connection after the initial handshake.
	StartTLS bool
}

// EmailChannel delivers reports as multipart MIME email via SMTP.
type EmailChannel struct {
	config EmailConfig

	// defaultTimeout is the connection timeout.
	defaultTimeout time.Duration

	// now is replaceable for tests.
	now func() time.Time
}

// NewEmailChannel creates the email delivery channel.
func NewEmailChannel(config EmailConfig) *EmailChannel {
	return &EmailChannel{
		config:         config,
		defaultTimeout: 30 * time.Second,
		now:            time.Now,
	}
}

// Name returns the channel identifier.
func (c *EmailChannel) Name() string {
	return "email"
}

// Validate checks the SMTP configuration.
func (c *EmailChannel) Validate() error {
	if c.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.config.Port <= 0 || c.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.config.Port)
	}
	if err := validateAddress(c.config.From); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := validateAddress(c.config.Recipient); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	return nil
}

// Send renders the record as multipart MIME and submits it via SMTP.
func (c *EmailChannel) Send(ctx context.Context, rec *models.DeliveryRecord) error {
	msg := c.buildMessage(rec)
	if err := c.sendSMTP(ctx, msg); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// buildMessage constructs the full RFC 5322 message. The body is a
// multipart/alternative of plain text and HTML; when a map image exists
// the HTML alternative becomes a multipart/related with the PNG embedded
// under a content id.
func (c *EmailChannel) buildMessage(rec *models.DeliveryRecord) string {
	generatedAt := GeneratedAt(c.now())

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: MOWAS Personal Warning Beacon <%s>\r\n", c.config.From))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", c.config.Recipient))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", Subject(rec, generatedAt)))
	msg.WriteString(fmt.Sprintf("Message-ID: <%s@mowas-pwb>\r\n", uuid.NewString()))
	msg.WriteString("MIME-Version: 1.0\r\n")

	altBoundary := fmt.Sprintf("boundary_alt_%d", c.now().UnixNano())
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", altBoundary))
	msg.WriteString("\r\n")

	// Plain text part
	msg.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(PlainTextBody(rec, generatedAt))
	msg.WriteString("\r\n")

	if len(rec.MapImage) > 0 {
		relBoundary := fmt.Sprintf("boundary_rel_%d", c.now().UnixNano())
		msg.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/related; boundary=%q\r\n", relBoundary))
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", relBoundary))
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(HTMLBody(rec, generatedAt, mapImageCID))
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", relBoundary))
		msg.WriteString("Content-Type: image/png\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-ID: <%s>\r\n", mapImageCID))
		msg.WriteString("Content-Disposition: inline; filename=\"mowas-pwb-map.png\"\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(wrapBase64(rec.MapImage))
		msg.WriteString("\r\n")

		msg.WriteString(fmt.Sprintf("--%s--\r\n", relBoundary))
	} else {
		msg.WriteString(fmt.Sprintf("--%s\r\n", altBoundary))
		msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(HTMLBody(rec, generatedAt, ""))
		msg.WriteString("\r\n")
	}

	msg.WriteString(fmt.Sprintf("--%s--\r\n", altBoundary))
	return msg.String()
}

// sendSMTP submits the message via SMTP.
func (c *EmailChannel) sendSMTP(ctx context.Context, msg string) error {
	addr := fmt.Sprintf("%s:%d", c.config.Host, c.config.Port)

	dialer := &net.Dialer{Timeout: c.defaultTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer func() { _ = conn.Close() }()

	client, err := smtp.NewClient(conn, c.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer func() { _ = client.Close() }()

	if c.config.StartTLS {
		tlsConfig := &tls.Config{
			ServerName: c.config.Host,
			MinVersion: tls.VersionTLS12,
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if c.config.Username != "" && c.config.Password != "" {
		auth := smtp.PlainAuth("", c.config.Username, c.config.Password, c.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("SMTP authentication failed: %w", err)
		}
	}

	if err := client.Mail(c.config.From); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(c.config.Recipient); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	writer, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to start message: %w", err)
	}
	if _, err := writer.Write([]byte(msg)); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close message: %w", err)
	}

	// The message was accepted; a failing QUIT is not a delivery error.
	_ = client.Quit()
	return nil
}

// wrapBase64 encodes the data and folds it into 76-column lines.
func wrapBase64(data []byte) string {
	encoded := base64.StdEncoding.EncodeToString(data)
	var b strings.Builder
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	return b.String()
}

// validateAddress performs a minimal email address sanity check.
func validateAddress(email string) error {
	if email == "" {
		return fmt.Errorf("email address is required")
	}
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" {
		return fmt.Errorf("invalid email address format: %s", email)
	}
	if !strings.Contains(domain, ".") {
		return fmt.Errorf("invalid email domain: %s", domain)
	}
	return nil
}
