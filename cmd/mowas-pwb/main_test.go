// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

func validOptions() *options {
	return &options{
		smsMessageLength:  67,
		standardInterval:  60,
		emergencyInterval: 15,
		ttlMinutes:        480,
		warningLevel:      "minor",
		highPrioLevel:     "severe",
		textSummarizer:    "internal",
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := validOptions().validate(); err != nil {
		t.Fatal(err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*options)
	}{
		{"short sms budget", func(o *options) { o.smsMessageLength = 66 }},
		{"standard interval below minimum", func(o *options) { o.standardInterval = 59 }},
		{"emergency interval below minimum", func(o *options) { o.emergencyInterval = 14 }},
		{"emergency above standard", func(o *options) { o.emergencyInterval = 90 }},
		{"zero ttl", func(o *options) { o.ttlMinutes = 0 }},
		{"unknown warning level", func(o *options) { o.warningLevel = "catastrophic" }},
		{"unknown high prio level", func(o *options) { o.highPrioLevel = "urgent" }},
		{"unknown summarizer", func(o *options) { o.textSummarizer = "bard" }},
		{"unsupported language", func(o *options) { o.translateTo = "xx" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(opts)
			if err := opts.validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsSupportedLanguage(t *testing.T) {
	opts := validOptions()
	opts.translateTo = "en-us"
	if err := opts.validate(); err != nil {
		t.Fatal(err)
	}
}

func TestTestMessageRecord(t *testing.T) {
	rec := testMessageRecord()
	if rec.MsgType != models.MsgTypeAlert {
		t.Errorf("MsgType = %v", rec.MsgType)
	}
	if rec.Severity != models.SeverityMinor {
		t.Errorf("Severity = %v", rec.Severity)
	}
	if rec.SMSMessage != "mowas-pwb Konfigurationstest ok" {
		t.Errorf("SMSMessage = %q", rec.SMSMessage)
	}
	if len(rec.Polygon) == 0 || len(rec.Points) == 0 {
		t.Error("test record must carry a polygon and a matched point")
	}
	if !strings.HasPrefix(rec.Points[0].UTM, "32 U") {
		t.Errorf("UTM = %q", rec.Points[0].UTM)
	}
}

func TestLoadWarncellsFailureIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	if _, err := loadWarncells(context.Background(), server.URL); err == nil {
		t.Error("an unavailable warncell registry must abort startup")
	}
}

func TestLoadWarncells(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("WARNCELLID;NAME;NUTS;KURZNAME;SIGN\n975100;Landkreis Augsburg;DE271;LK Augsburg;GKZ\n"))
	}))
	defer server.Close()

	warncells, err := loadWarncells(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if warncells.Len() != 1 {
		t.Errorf("Len() = %d", warncells.Len())
	}
}

func TestRootCommandFlagDefaults(t *testing.T) {
	cmd := newRootCommand()
	for flag, want := range map[string]string{
		"configfile":             "mowas-pwb.cfg",
		"sms-message-length":     "67",
		"standard-run-interval":  "60",
		"emergency-run-interval": "15",
		"ttl":                    "480",
		"warning-level":          "minor",
		"high-prio-level":        "severe",
		"text-summarizer":        "internal",
	} {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			t.Errorf("flag --%s is missing", flag)
			continue
		}
		if f.DefValue != want {
			t.Errorf("flag --%s default = %q, want %q", flag, f.DefValue, want)
		}
	}
}
