// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package position tracks the live coordinate of an amateur radio call
// sign via the aprs.fi API.
package position

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultBaseURL   = "https://api.aprs.fi/api"
	defaultUserAgent = "mowas-pwb (+https://github.com/joergschultzelutter/mowas-pwb/)"
)

// NormalizeCallsign upper-cases a call sign and strips any SSID suffix,
// so "df1jsl-8" becomes "DF1JSL".
func NormalizeCallsign(callsign string) string {
	callsign = strings.ToUpper(strings.TrimSpace(callsign))
	if idx := strings.Index(callsign, "-"); idx >= 0 {
		callsign = callsign[:idx]
	}
	return callsign
}

// Client queries aprs.fi for the most recent position of a call sign.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates an aprs.fi client.
func NewClient(apiKey string) *Client {
	return &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// aprs.fi serves lat/lng as JSON strings.
type aprsfiResponse struct {
	Result  string `json:"result"`
	Found   int    `json:"found"`
	Entries []struct {
		Lat string `json:"lat"`
		Lng string `json:"lng"`
	} `json:"entries"`
}

// Locate returns the current coordinates of the call sign. When aprs.fi
// has multiple entries, only the first one counts.
func (c *Client) Locate(ctx context.Context, callsign string) (lat, lon float64, err error) {
	query := url.Values{}
	query.Set("name", callsign)
	query.Set("what", "loc")
	query.Set("apikey", c.apiKey)
	query.Set("format", "json")

	reqURL := fmt.Sprintf("%s/get?%s", c.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return 0, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("query aprs.fi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	var result aprsfiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("decode response: %w", err)
	}

	if result.Result != "ok" {
		return 0, 0, fmt.Errorf("aprs.fi result %q", result.Result)
	}
	if result.Found < 1 || len(result.Entries) == 0 {
		return 0, 0, fmt.Errorf("call sign %s not found", callsign)
	}

	entry := result.Entries[0]
	lat, err = strconv.ParseFloat(entry.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed latitude %q: %w", entry.Lat, err)
	}
	lon, err = strconv.ParseFloat(entry.Lng, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("malformed longitude %q: %w", entry.Lng, err)
	}

	return lat, lon, nil
}
