// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/joergschultzelutter/mowas-pwb/internal/cache"
	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
	"github.com/joergschultzelutter/mowas-pwb/internal/metrics"
	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// Fetcher retrieves the broadcasts of one feed category.
type Fetcher interface {
	Fetch(ctx context.Context, category models.Category) ([]models.Broadcast, error)
}

// Locator resolves a callsign to its latest reported position.
type Locator interface {
	Locate(ctx context.Context, callsign string) (lat, lon float64, err error)
}

// Dispatcher fans a delivery record out to the notification channels.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec *models.DeliveryRecord) (int, error)
}

// PollerConfig wires the polling loop.
type PollerConfig struct {
	Feed       Fetcher
	Processor  *Processor
	Dispatcher Dispatcher
	Cache      *cache.BroadcastCache

	// Categories to poll, in order.
	Categories []models.Category

	// WatchPoints are the static coordinates from the configuration.
	WatchPoints []models.WatchPoint

	// FollowCallsign enables the live watch point; empty disables it.
	FollowCallsign string
	Locator        Locator

	// StandardInterval is the sleep after a quiet cycle, EmergencyInterval
	// after a cycle that delivered an Alert or Update.
	StandardInterval  time.Duration
	EmergencyInterval time.Duration
}

// Poller runs the polling loop: refresh the live position, fetch every
// enabled category, run each broadcast through the processor, dispatch
// the survivors, then sleep with the adaptive interval.
type Poller struct {
	cfg  PollerConfig
	live *models.WatchPoint
	log  zerolog.Logger
}

// NewPoller creates the polling loop service.
func NewPoller(cfg PollerConfig) *Poller {
	return &Poller{
		cfg: cfg,
		log: logging.With().Str("component", "poller").Logger(),
	}
}

// Serve runs cycles until the context is cancelled. It satisfies the
// suture service contract.
func (p *Poller) Serve(ctx context.Context) error {
	p.log.Info().
		Int("categories", len(p.cfg.Categories)).
		Int("watch_points", len(p.cfg.WatchPoints)).
		Dur("standard_interval", p.cfg.StandardInterval).
		Dur("emergency_interval", p.cfg.EmergencyInterval).
		Msg("Polling loop started")

	for {
		interval := p.RunCycle(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		p.log.Debug().Dur("sleep", interval).Msg("Cycle complete")

		select {
		case <-ctx.Done():
			p.log.Info().Msg("Polling loop stopped")
			return ctx.Err()
		case <-time.After(interval):
		}
	}
}

// RunCycle executes one polling cycle and returns the sleep interval
// for the next one.
func (p *Poller) RunCycle(ctx context.Context) time.Duration {
	metrics.CyclesTotal.Inc()

	if p.cfg.Cache != nil {
		if expired := p.cfg.Cache.CleanupExpired(); expired > 0 {
			p.log.Debug().Int("expired", expired).Msg("Dropped expired cache entries")
		}
		metrics.CacheEntries.Set(float64(p.cfg.Cache.Len()))
	}

	p.refreshLivePosition(ctx)
	watch := p.watchPoints()

	emergency := false
	for _, category := range p.cfg.Categories {
		if ctx.Err() != nil {
			return p.cfg.StandardInterval
		}

		broadcasts, err := p.cfg.Feed.Fetch(ctx, category)
		if err != nil {
			metrics.FeedFetches.WithLabelValues(string(category), "error").Inc()
			p.log.Warn().Err(err).Str("category", string(category)).Msg("Feed fetch failed, retrying next cycle")
			continue
		}
		metrics.FeedFetches.WithLabelValues(string(category), "ok").Inc()
		metrics.BroadcastsSeen.WithLabelValues(string(category)).Add(float64(len(broadcasts)))

		for i := range broadcasts {
			rec := p.cfg.Processor.Process(ctx, &broadcasts[i], watch)
			if rec == nil {
				continue
			}

			metrics.BroadcastsDelivered.WithLabelValues(string(rec.MsgType)).Inc()
			if p.cfg.Dispatcher != nil {
				if _, err := p.cfg.Dispatcher.Dispatch(ctx, rec); err != nil {
					p.log.Warn().Err(err).Str("identifier", rec.Identifier).Msg("Partial delivery failure")
				}
			}

			if rec.MsgType == models.MsgTypeAlert || rec.MsgType == models.MsgTypeUpdate {
				emergency = true
			}
		}
	}

	if emergency {
		metrics.EmergencyCycles.Inc()
		return p.cfg.EmergencyInterval
	}
	return p.cfg.StandardInterval
}

// refreshLivePosition updates the live watch point from aprs.fi. A
// lookup failure keeps the previous position so the rest of the cycle
// still covers the user's last known location.
func (p *Poller) refreshLivePosition(ctx context.Context) {
	if p.cfg.FollowCallsign == "" || p.cfg.Locator == nil {
		return
	}

	lat, lon, err := p.cfg.Locator.Locate(ctx, p.cfg.FollowCallsign)
	if err != nil {
		metrics.PositionRefreshes.WithLabelValues("error").Inc()
		p.log.Warn().Err(err).Str("callsign", p.cfg.FollowCallsign).Msg("Position lookup failed, keeping previous value")
		return
	}
	metrics.PositionRefreshes.WithLabelValues("ok").Inc()
	p.live = &models.WatchPoint{Latitude: lat, Longitude: lon, APRS: true}
}

// watchPoints returns the static points plus the live point when one is
// known.
func (p *Poller) watchPoints() []models.WatchPoint {
	points := make([]models.WatchPoint, len(p.cfg.WatchPoints))
	copy(points, p.cfg.WatchPoints)
	if p.live != nil {
		points = append(points, *p.live)
	}
	return points
}
