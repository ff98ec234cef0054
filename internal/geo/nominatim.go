// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package geo

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"
)

// FallbackAddress is rendered whenever reverse geocoding fails.
const FallbackAddress = "Cannot determine address data"

const (
	nominatimBaseURL   = "https://nominatim.openstreetmap.org"
	nominatimUserAgent = "mowas-pwb (+https://github.com/joergschultzelutter/mowas-pwb/)"
)

// Geocoder resolves coordinates to human-readable addresses through the
// public Nominatim instance. Requests are limited to one per second to
// stay within the provider's usage policy.
type Geocoder struct {
	baseURL    string
	language   string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// GeocoderOption customizes a Geocoder.
type GeocoderOption func(*Geocoder)

// WithGeocoderBaseURL overrides the Nominatim endpoint, used by tests.
func WithGeocoderBaseURL(u string) GeocoderOption {
	return func(g *Geocoder) { g.baseURL = u }
}

// WithGeocoderLanguage sets the accept-language for results.
func WithGeocoderLanguage(lang string) GeocoderOption {
	return func(g *Geocoder) { g.language = lang }
}

// NewGeocoder creates a rate-limited Nominatim client.
func NewGeocoder(opts ...GeocoderOption) *Geocoder {
	g := &Geocoder{
		baseURL:  nominatimBaseURL,
		language: "de",
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type nominatimResponse struct {
	DisplayName string `json:"display_name"`
}

// Reverse resolves a coordinate at building zoom. Callers are expected to
// substitute FallbackAddress on error.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	query.Set("format", "jsonv2")
	query.Set("zoom", "18")
	query.Set("addressdetails", "1")
	query.Set("accept-language", g.language)

	reqURL := fmt.Sprintf("%s/reverse?%s", g.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocode: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	var result nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if result.DisplayName == "" {
		return "", fmt.Errorf("no address for %f, %f", lat, lon)
	}

	return result.DisplayName, nil
}
