// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package engine contains the beacon's core: the broadcast lifecycle
// decider, the per-broadcast processing pipeline, and the adaptive
// polling loop that drives both.
package engine

import (
	"github.com/joergschultzelutter/mowas-pwb/internal/cache"
	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// Decision is the lifecycle outcome for one broadcast. Insert is
// tentative: the identifier only enters the cache once the broadcast
// has survived severity, geospatial and content filtering.
type Decision struct {
	Deliver bool
	Insert  bool
}

// Decide applies the Alert/Update/Cancel state machine against the
// deduplication cache. Evictions of stale entries happen immediately;
// a Cancel never enters the cache, so repeated Cancels for an unknown
// identifier deliver every time they are seen in the feed.
func Decide(c *cache.BroadcastCache, identifier string, msgType models.MsgType, sent string) Decision {
	switch msgType {
	case models.MsgTypeCancel:
		c.Remove(identifier)
		return Decision{Deliver: true}

	case models.MsgTypeUpdate:
		entry, ok := c.Get(identifier)
		if !ok {
			return Decision{Deliver: true, Insert: true}
		}
		if entry.MsgType != msgType {
			// Status transition, e.g. Alert -> Update.
			c.Remove(identifier)
			return Decision{Deliver: true, Insert: true}
		}
		if entry.Sent == sent {
			// Same revision, already notified.
			return Decision{}
		}
		c.Remove(identifier)
		return Decision{Deliver: true, Insert: true}

	case models.MsgTypeAlert:
		if c.Contains(identifier) {
			return Decision{}
		}
		return Decision{Deliver: true, Insert: true}
	}

	return Decision{}
}
