// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package mailbox implements the IMAP retention job that purges aged
// beacon reports from the sender's mailbox. The job runs independently
// of the polling loop and never touches the broadcast cache.
package mailbox

import (
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/rs/zerolog"

	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
	"github.com/joergschultzelutter/mowas-pwb/internal/metrics"
)

// Config carries the IMAP settings of the retention job. A
// RetentionDays of zero disables the job.
type Config struct {
	Server        string
	Port          int
	Username      string
	Password      string
	Mailbox       string
	RetentionDays int
}

// session is the subset of the go-imap client the sweep needs.
type session interface {
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	Search(criteria *imap.SearchCriteria) ([]uint32, error)
	Store(seqset *imap.SeqSet, item imap.StoreItem, value interface{}, ch chan *imap.Message) error
	Expunge(ch chan uint32) error
	Logout() error
}

// Job periodically deletes mails older than the retention window.
type Job struct {
	cfg  Config
	dial func() (session, error)
	now  func() time.Time
	log  zerolog.Logger
}

// NewJob creates the retention job. The connection is established per
// sweep, so a flaky mailbox only fails the current run.
func NewJob(cfg Config) *Job {
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	j := &Job{
		cfg: cfg,
		now: time.Now,
		log: logging.With().Str("component", "mailbox").Logger(),
	}
	j.dial = j.dialTLS
	return j
}

// Enabled reports whether a retention window is configured.
func (j *Job) Enabled() bool {
	return j.cfg.RetentionDays > 0 && j.cfg.Server != "" && j.cfg.Port != 0
}

// Interval is the pause between sweeps: the retention window itself.
func (j *Job) Interval() time.Duration {
	return time.Duration(j.cfg.RetentionDays) * 24 * time.Hour
}

// Serve runs sweeps until the context is cancelled. It satisfies the
// suture service contract.
func (j *Job) Serve(ctx context.Context) error {
	if !j.Enabled() {
		j.log.Debug().Msg("Mailbox retention disabled")
		<-ctx.Done()
		return ctx.Err()
	}

	j.log.Info().
		Int("retention_days", j.cfg.RetentionDays).
		Str("mailbox", j.cfg.Mailbox).
		Msg("Mailbox retention job started")

	// The first sweep waits a full interval; mails younger than the
	// retention window at startup cannot be due yet.
	ticker := time.NewTicker(j.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
		if err := j.RunOnce(); err != nil {
			j.log.Warn().Err(err).Msg("Mailbox sweep failed, retrying next interval")
		}
	}
}

// RunOnce performs one retention sweep: flag everything older than the
// window as deleted, then expunge.
func (j *Job) RunOnce() error {
	sess, err := j.dial()
	if err != nil {
		return fmt.Errorf("imap connect: %w", err)
	}
	defer func() { _ = sess.Logout() }()

	if _, err := sess.Select(j.cfg.Mailbox, false); err != nil {
		return fmt.Errorf("select mailbox %s: %w", j.cfg.Mailbox, err)
	}

	criteria := imap.NewSearchCriteria()
	criteria.Before = j.now().AddDate(0, 0, -j.cfg.RetentionDays)

	ids, err := sess.Search(criteria)
	if err != nil {
		return fmt.Errorf("search mailbox: %w", err)
	}
	if len(ids) == 0 {
		j.log.Debug().Msg("No mails past retention")
		metrics.RetentionRuns.Inc()
		return nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	item := imap.FormatFlagsOp(imap.AddFlags, true)
	if err := sess.Store(seqset, item, []interface{}{imap.DeletedFlag}, nil); err != nil {
		return fmt.Errorf("flag mails deleted: %w", err)
	}
	if err := sess.Expunge(nil); err != nil {
		return fmt.Errorf("expunge mailbox: %w", err)
	}

	metrics.RetentionRuns.Inc()
	metrics.RetentionDeleted.Add(float64(len(ids)))
	j.log.Info().Int("deleted", len(ids)).Msg("Mailbox sweep complete")
	return nil
}

func (j *Job) dialTLS() (session, error) {
	addr := fmt.Sprintf("%s:%d", j.cfg.Server, j.cfg.Port)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, err
	}
	if err := c.Login(j.cfg.Username, j.cfg.Password); err != nil {
		_ = c.Logout()
		return nil, fmt.Errorf("imap login: %w", err)
	}
	return c, nil
}
