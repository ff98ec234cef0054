// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package warncell loads the Deutscher Wetterdienst warncell registry,
// which maps MOWAS geocode identifiers to area names.
package warncell

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultURL is the DWD open-data endpoint for the warncell registry.
const DefaultURL = "https://www.dwd.de/DE/leistungen/opendata/help/warnungen/cap_warncellids_csv.csv?__blob=publicationFile&v=3"

// Entry holds the names attached to one warncell identifier.
type Entry struct {
	FullName  string
	ShortName string
}

// Table is an immutable lookup of warncell identifiers. It is loaded once
// at startup; a load failure is fatal for the daemon.
type Table struct {
	entries map[string]Entry
}

// Lookup resolves a warncell identifier.
func (t *Table) Lookup(id string) (Entry, bool) {
	e, ok := t.entries[id]
	return e, ok
}

// Len returns the number of known warncells.
func (t *Table) Len() int {
	return len(t.entries)
}

// Load downloads and parses the warncell registry.
func Load(ctx context.Context, url string) (*Table, error) {
	if url == "" {
		url = DefaultURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download warncell data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	return Parse(resp.Body)
}

// Parse reads the semicolon-separated registry. The first record is the
// header and is discarded. Records are keyed by the first column; full
// and short names come from columns two and four.
func Parse(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	// The registry carries trailing columns of varying width.
	reader.FieldsPerRecord = -1

	entries := make(map[string]Entry)
	first := true

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse warncell data: %w", err)
		}
		if first {
			first = false
			continue
		}
		if len(record) < 4 {
			continue
		}
		entries[record[0]] = Entry{
			FullName:  record[1],
			ShortName: record[3],
		}
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("warncell data is empty")
	}

	return &Table{entries: entries}, nil
}
