// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

func TestPutGet(t *testing.T) {
	c := New(10, time.Hour)

	c.Put("DE-BY-A-W083-20200828-000", Entry{MsgType: models.MsgTypeAlert, Sent: "2020-08-28T11:00:08+02:00"})

	got, ok := c.Get("DE-BY-A-W083-20200828-000")
	if !ok {
		t.Fatal("expected entry to be present")
	}
	if got.MsgType != models.MsgTypeAlert {
		t.Errorf("msgtype = %v, want Alert", got.MsgType)
	}
	if got.Sent != "2020-08-28T11:00:08+02:00" {
		t.Errorf("sent = %q", got.Sent)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("unexpected hit for missing key")
	}
}

func TestPutReplaces(t *testing.T) {
	c := New(10, time.Hour)

	c.Put("id", Entry{MsgType: models.MsgTypeAlert, Sent: "t0"})
	c.Put("id", Entry{MsgType: models.MsgTypeUpdate, Sent: "t1"})

	got, ok := c.Get("id")
	if !ok {
		t.Fatal("entry vanished")
	}
	if got.MsgType != models.MsgTypeUpdate || got.Sent != "t1" {
		t.Errorf("got %+v, want Update/t1", got)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestCapacityEvictsOldest(t *testing.T) {
	c := New(3, time.Hour)

	for i := 0; i < 4; i++ {
		c.Put(fmt.Sprintf("id-%d", i), Entry{MsgType: models.MsgTypeAlert, Sent: "t"})
	}

	if c.Len() != 3 {
		t.Fatalf("len = %d, want 3", c.Len())
	}
	if c.Contains("id-0") {
		t.Error("oldest entry id-0 should have been evicted")
	}
	for i := 1; i < 4; i++ {
		if !c.Contains(fmt.Sprintf("id-%d", i)) {
			t.Errorf("id-%d should still be present", i)
		}
	}
}

func TestPutRefreshesInsertionOrder(t *testing.T) {
	c := New(3, time.Hour)

	c.Put("a", Entry{})
	c.Put("b", Entry{})
	c.Put("c", Entry{})
	// Re-announce "a": it becomes the newest, "b" is now oldest.
	c.Put("a", Entry{})
	c.Put("d", Entry{})

	if c.Contains("b") {
		t.Error("b should have been evicted")
	}
	if !c.Contains("a") {
		t.Error("a was refreshed and must survive")
	}
}

func TestTTLExpiration(t *testing.T) {
	c := New(10, 10*time.Millisecond)

	c.Put("id", Entry{MsgType: models.MsgTypeAlert, Sent: "t"})
	if !c.Contains("id") {
		t.Fatal("entry should exist before expiry")
	}

	time.Sleep(20 * time.Millisecond)

	if c.Contains("id") {
		t.Error("entry should have expired")
	}
	if _, ok := c.Get("id"); ok {
		t.Error("Get should not return expired entries")
	}
}

func TestCleanupExpired(t *testing.T) {
	c := New(10, 10*time.Millisecond)

	c.Put("a", Entry{})
	c.Put("b", Entry{})
	time.Sleep(20 * time.Millisecond)
	c.Put("c", Entry{})

	removed := c.CleanupExpired()
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestRemove(t *testing.T) {
	c := New(10, time.Hour)

	c.Put("id", Entry{})
	if !c.Remove("id") {
		t.Error("Remove should report true for present key")
	}
	if c.Remove("id") {
		t.Error("Remove should report false for absent key")
	}
	if c.Len() != 0 {
		t.Errorf("len = %d, want 0", c.Len())
	}
}

func TestClear(t *testing.T) {
	c := New(10, time.Hour)
	c.Put("a", Entry{})
	c.Put("b", Entry{})

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("len = %d after Clear", c.Len())
	}
	c.Put("c", Entry{})
	if !c.Contains("c") {
		t.Error("cache unusable after Clear")
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(100, time.Hour)

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				key := fmt.Sprintf("id-%d-%d", g, i)
				c.Put(key, Entry{MsgType: models.MsgTypeAlert, Sent: "t"})
				c.Get(key)
				c.Contains(key)
			}
		}(g)
	}
	wg.Wait()

	if c.Len() != 100 {
		t.Errorf("len = %d, want capacity 100", c.Len())
	}
}

func BenchmarkPut(b *testing.B) {
	c := New(1000, time.Hour)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Put(fmt.Sprintf("id-%d", i%2000), Entry{MsgType: models.MsgTypeAlert, Sent: "t"})
	}
}

func BenchmarkGet(b *testing.B) {
	c := New(1000, time.Hour)
	for i := 0; i < 1000; i++ {
		c.Put(fmt.Sprintf("id-%d", i), Entry{})
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(fmt.Sprintf("id-%d", i%1000))
	}
}
