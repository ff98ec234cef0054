// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package warncell

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const sampleCSV = `WARNCELLID;NAME;NUTS;KURZNAME;KENNUNG
109771000;Kreis und Stadt Augsburg;DE271;Augsburg;GA
105315000;Stadt Köln;DEA23;Köln;K
810200000;Kreis Ostholstein - Küste;;Ostholstein Küste;OHK
`

func TestParse(t *testing.T) {
	table, err := Parse(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatal(err)
	}

	if table.Len() != 3 {
		t.Fatalf("len = %d, want 3", table.Len())
	}

	e, ok := table.Lookup("109771000")
	if !ok {
		t.Fatal("expected warncell 109771000")
	}
	if e.FullName != "Kreis und Stadt Augsburg" {
		t.Errorf("full name = %q", e.FullName)
	}
	if e.ShortName != "Augsburg" {
		t.Errorf("short name = %q", e.ShortName)
	}

	// Header row must not leak into the table.
	if _, ok := table.Lookup("WARNCELLID"); ok {
		t.Error("header row leaked into table")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := Parse(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	// A header-only file has no usable rows either.
	if _, err := Parse(strings.NewReader("WARNCELLID;NAME;NUTS;KURZNAME;KENNUNG\n")); err == nil {
		t.Error("expected error for header-only input")
	}
}

func TestParseSkipsShortRecords(t *testing.T) {
	data := "H1;H2;H3;H4;H5\n123;only-two\n109771000;Kreis und Stadt Augsburg;DE271;Augsburg;GA\n"
	table, err := Parse(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 1 {
		t.Errorf("len = %d, want 1", table.Len())
	}
}

func TestLoad(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "Mozilla" {
			t.Errorf("User-Agent = %q, want Mozilla", ua)
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	table, err := Load(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if table.Len() != 3 {
		t.Errorf("len = %d, want 3", table.Len())
	}
}

func TestLoadHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := Load(context.Background(), server.URL); err == nil {
		t.Error("expected error on HTTP 404")
	}
}
