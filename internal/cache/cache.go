// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package cache implements the bounded deduplication store for MOWAS
// broadcasts. Keys are broadcast identifiers, values carry the message
// type and timestamp last seen for that identifier.
package cache

import (
	"sync"
	"time"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// DefaultCapacity bounds the number of tracked broadcasts.
const DefaultCapacity = 1000

// Entry is the cached state of one broadcast identifier.
type Entry struct {
	MsgType models.MsgType
	Sent    string
}

type node struct {
	key       string
	value     Entry
	prev      *node
	next      *node
	expiresAt time.Time
}

// BroadcastCache is a thread-safe, insertion-ordered map with a capacity
// bound and per-entry TTL.
//
//   - O(1) Get, Put, Remove
//   - when full, the oldest inserted entry is evicted
//   - expired entries are dropped lazily on access and in bulk via
//     CleanupExpired
//
// Lookups do not refresh an entry's age; Put does, so a re-announced
// broadcast survives as long as the feeds keep carrying it.
type BroadcastCache struct {
	mu sync.RWMutex

	capacity int
	ttl      time.Duration

	items map[string]*node

	// head.next is the newest insertion, tail.prev the oldest.
	head *node
	tail *node

	hits   int64
	misses int64
}

// New creates a broadcast cache with the given capacity and TTL.
func New(capacity int, ttl time.Duration) *BroadcastCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = 480 * time.Minute
	}

	c := &BroadcastCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*node, capacity),
		head:     &node{},
		tail:     &node{},
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	return c
}

// Get returns the cached entry for an identifier. Expired entries are
// removed and reported as absent.
func (c *BroadcastCache) Get(identifier string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, exists := c.items[identifier]; exists {
		if time.Now().After(n.expiresAt) {
			c.removeNode(n)
			c.misses++
			return Entry{}, false
		}
		c.hits++
		return n.value, true
	}

	c.misses++
	return Entry{}, false
}

// Contains reports whether an identifier is tracked and unexpired.
func (c *BroadcastCache) Contains(identifier string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if n, exists := c.items[identifier]; exists {
		return !time.Now().After(n.expiresAt)
	}
	return false
}

// Put inserts or replaces the entry for an identifier, refreshing its
// TTL and insertion position. When the cache is full the oldest entry is
// evicted.
func (c *BroadcastCache) Put(identifier string, value Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)

	if n, exists := c.items[identifier]; exists {
		n.value = value
		n.expiresAt = expiresAt
		c.moveToFront(n)
		return
	}

	n := &node{
		key:       identifier,
		value:     value,
		expiresAt: expiresAt,
	}
	c.addToFront(n)
	c.items[identifier] = n

	for len(c.items) > c.capacity {
		c.evictOldest()
	}
}

// Remove drops an identifier from the cache. Returns true if it was
// present.
func (c *BroadcastCache) Remove(identifier string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, exists := c.items[identifier]; exists {
		c.removeNode(n)
		return true
	}
	return false
}

// Len returns the current number of tracked identifiers.
func (c *BroadcastCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Clear removes all entries.
func (c *BroadcastCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*node, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// CleanupExpired removes all expired entries and returns how many were
// dropped.
func (c *BroadcastCache) CleanupExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	removed := 0

	for n := c.tail.prev; n != c.head; {
		prev := n.prev
		if now.After(n.expiresAt) {
			c.removeNode(n)
			removed++
		}
		n = prev
	}

	return removed
}

// Stats returns hit/miss counters and the current size.
func (c *BroadcastCache) Stats() (hits, misses int64, size int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses, len(c.items)
}

// Internal methods (must be called with lock held)

func (c *BroadcastCache) addToFront(n *node) {
	n.prev = c.head
	n.next = c.head.next
	c.head.next.prev = n
	c.head.next = n
}

func (c *BroadcastCache) moveToFront(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	c.addToFront(n)
}

func (c *BroadcastCache) removeNode(n *node) {
	n.prev.next = n.next
	n.next.prev = n.prev
	delete(c.items, n.key)
}

func (c *BroadcastCache) evictOldest() {
	oldest := c.tail.prev
	if oldest == c.head {
		return
	}
	c.removeNode(oldest)
}
