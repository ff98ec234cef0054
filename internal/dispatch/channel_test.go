// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package dispatch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/containrrr/shoutrrr/pkg/types"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

type fakeChannel struct {
	name string
	err  error
	sent int
}

func (c *fakeChannel) Name() string    { return c.name }
func (c *fakeChannel) Validate() error { return c.err }

func (c *fakeChannel) Send(_ context.Context, _ *models.DeliveryRecord) error {
	if c.err != nil {
		return c.err
	}
	c.sent++
	return nil
}

func TestRegistryDispatchContinuesOnFailure(t *testing.T) {
	broken := &fakeChannel{name: "broken", err: errors.New("boom")}
	working := &fakeChannel{name: "working"}
	registry := NewRegistry(broken, working)

	delivered, err := registry.Dispatch(context.Background(), sampleRecord())
	if delivered != 1 {
		t.Errorf("delivered = %d, want 1", delivered)
	}
	if err == nil || !strings.Contains(err.Error(), "broken") {
		t.Errorf("expected error naming the failed channel, got %v", err)
	}
	if working.sent != 1 {
		t.Errorf("working channel sent %d records, want 1", working.sent)
	}
}

func TestRegistryNames(t *testing.T) {
	registry := NewRegistry(&fakeChannel{name: "email"}, &fakeChannel{name: "sms"})
	registry.Register(nil)

	if got := registry.Names(); !reflect.DeepEqual(got, []string{"email", "sms"}) {
		t.Errorf("Names = %v", got)
	}
	if registry.Len() != 2 {
		t.Errorf("Len = %d, want 2", registry.Len())
	}
}

func TestRegistryValidate(t *testing.T) {
	registry := NewRegistry(&fakeChannel{name: "sms", err: errors.New("no sender")})
	err := registry.Validate()
	if err == nil || !strings.Contains(err.Error(), "sms") {
		t.Errorf("expected validation error naming the channel, got %v", err)
	}
}

func TestReadServiceURLs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messenger.cfg")
	content := "# telegram\ntelegram://token@telegram?chats=home\n\ndiscord://token@channel\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	urls, err := readServiceURLs(path)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"telegram://token@telegram?chats=home", "discord://token@channel"}
	if !reflect.DeepEqual(urls, want) {
		t.Errorf("urls = %v, want %v", urls, want)
	}
}

func TestReadServiceURLsRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.cfg")
	if err := os.WriteFile(path, []byte("# comments only\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readServiceURLs(path); err == nil {
		t.Error("expected error for config without URLs")
	}
	if _, err := readServiceURLs(filepath.Join(t.TempDir(), "missing.cfg")); err == nil {
		t.Error("expected error for missing config file")
	}
}

type fakeNotifier struct {
	messages []string
	titles   []string
	err      error
}

func (n *fakeNotifier) Send(message string, params *types.Params) []error {
	n.messages = append(n.messages, message)
	if params != nil {
		n.titles = append(n.titles, (*params)["title"])
	}
	if n.err != nil {
		return []error{n.err}
	}
	return nil
}

func TestMessengerChannelSend(t *testing.T) {
	sender := &fakeNotifier{}
	ch := &MessengerChannel{sender: sender, now: time.Now}

	if err := ch.Send(context.Background(), sampleRecord()); err != nil {
		t.Fatal(err)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.messages))
	}
	if !strings.Contains(sender.messages[0], "Coronavirus: Informationen des Landratsamtes") {
		t.Error("headline missing from messenger body")
	}
	if sender.titles[0] != "mowas-pwb notification" {
		t.Errorf("title = %q", sender.titles[0])
	}
}

func TestSMSChannelSplitsIntoSegments(t *testing.T) {
	sender := &fakeNotifier{}
	ch := &SMSChannel{sender: sender, maxLen: MinSMSLength, split: true}

	rec := sampleRecord()
	rec.SMSMessage = strings.Repeat("Hochwasserwarnung fuer den Landkreis ", 4)
	rec.HighPrio = true

	if err := ch.Send(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if len(sender.messages) < 2 {
		t.Fatalf("expected multiple segments, got %v", sender.messages)
	}
	for i, msg := range sender.messages {
		if len(msg) > MinSMSLength {
			t.Errorf("segment %d exceeds budget: %d chars", i, len(msg))
		}
	}
	for _, title := range sender.titles {
		if title != "mowas-pwb EMERGENCY notification" {
			t.Errorf("title = %q", title)
		}
	}
}

func TestSMSChannelTruncatesWhenSplitDisabled(t *testing.T) {
	sender := &fakeNotifier{}
	ch := &SMSChannel{sender: sender, maxLen: MinSMSLength, split: false}

	rec := sampleRecord()
	rec.SMSMessage = strings.Repeat("x", 200)

	if err := ch.Send(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if len(sender.messages) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.messages))
	}
	if len(sender.messages[0]) != MinSMSLength {
		t.Errorf("truncated length = %d, want %d", len(sender.messages[0]), MinSMSLength)
	}
}

func TestSMSChannelPrefersTranslatedMessage(t *testing.T) {
	sender := &fakeNotifier{}
	ch := &SMSChannel{sender: sender, maxLen: MinSMSLength, split: true}

	rec := sampleRecord()
	rec.LangSMSMessage = "Flood warning for the district"

	if err := ch.Send(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	if sender.messages[0] != "Flood warning for the district" {
		t.Errorf("message = %q", sender.messages[0])
	}
}

func TestNewSMSChannelRejectsShortBudget(t *testing.T) {
	if _, err := NewSMSChannel("unused.cfg", 20, true); err == nil {
		t.Error("expected error for budget below the minimum")
	}
}
