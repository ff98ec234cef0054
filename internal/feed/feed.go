// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

// Package feed retrieves the BBK warning feeds from warnung.bund.de.
//
// Feed availability is best-effort: a failing category is skipped for the
// current run cycle and retried on the next one. A circuit breaker keeps
// the client from hammering the endpoint during longer outages.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
	"github.com/joergschultzelutter/mowas-pwb/internal/models"
)

// DefaultBaseURL is the production MOWAS endpoint.
const DefaultBaseURL = "https://warnung.bund.de"

// Client fetches broadcast lists per warning category.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]models.Broadcast]
	log        zerolog.Logger

	// localFile, when set, replaces every network fetch with the contents
	// of a JSON file. Used for dry runs and tests.
	localFile string
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the MOWAS endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithLocalFile makes every Fetch read the given JSON file instead of
// the network.
func WithLocalFile(path string) Option {
	return func(c *Client) { c.localFile = path }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a feed client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logging.With().Str("component", "feed").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker[[]models.Broadcast](gobreaker.Settings{
		Name:    "mowas-feed",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("feed circuit breaker state change")
		},
	})

	return c
}

// Fetch retrieves all broadcasts of one category. Transport and payload
// errors are returned to the caller, which treats them as a skipped
// category rather than a fatal condition.
func (c *Client) Fetch(ctx context.Context, category models.Category) ([]models.Broadcast, error) {
	if c.localFile != "" {
		return c.fetchLocal()
	}

	return c.breaker.Execute(func() ([]models.Broadcast, error) {
		return c.fetchRemote(ctx, category)
	})
}

func (c *Client) fetchRemote(ctx context.Context, category models.Category) ([]models.Broadcast, error) {
	path := category.FeedPath()
	if path == "" {
		return nil, fmt.Errorf("category %q has no feed path", category)
	}

	reqURL := fmt.Sprintf("%s%s", c.baseURL, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", category, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d %s", category, resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", category, err)
	}

	return decodeBroadcasts(body)
}

func (c *Client) fetchLocal() ([]models.Broadcast, error) {
	body, err := os.ReadFile(c.localFile)
	if err != nil {
		return nil, fmt.Errorf("read local feed file: %w", err)
	}
	return decodeBroadcasts(body)
}

// decodeBroadcasts validates the payload shape before decoding. The BBK
// endpoint occasionally serves HTML error pages with status 200; the
// array bracket check rejects those cheaply.
func decodeBroadcasts(body []byte) ([]models.Broadcast, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) < 2 || trimmed[0] != '[' || trimmed[len(trimmed)-1] != ']' {
		return nil, fmt.Errorf("payload is not a JSON array")
	}

	var broadcasts []models.Broadcast
	if err := json.Unmarshal(trimmed, &broadcasts); err != nil {
		return nil, fmt.Errorf("decode broadcasts: %w", err)
	}

	return broadcasts, nil
}
