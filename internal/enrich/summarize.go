// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package enrich

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
)

// Summarizer shortens broadcast text for length-constrained channels.
// Implementations are best-effort and must return the input unchanged on
// failure.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// Summarizer selectors.
const (
	SummarizerInternal = "internal"
	SummarizerGeneric  = "generic"
	SummarizerOpenAI   = "openai"
	SummarizerPalm     = "palm"
)

// SummarizerConfig carries the credentials and endpoints of the external
// summarizers.
type SummarizerConfig struct {
	GenericEndpoint string
	OpenAIAPIKey    string
	PalmAPIKey      string
}

// NewSummarizer builds a summarizer for the given selector.
func NewSummarizer(selector string, cfg SummarizerConfig) (Summarizer, error) {
	log := logging.With().Str("component", "summarizer").Str("backend", selector).Logger()

	switch strings.ToLower(selector) {
	case "", SummarizerInternal:
		return internalSummarizer{}, nil
	case SummarizerGeneric:
		return &genericSummarizer{
			endpoint:   cfg.GenericEndpoint,
			httpClient: &http.Client{Timeout: 60 * time.Second},
			log:        log,
		}, nil
	case SummarizerOpenAI:
		return &openaiSummarizer{
			endpoint:   "https://api.openai.com/v1/chat/completions",
			apiKey:     cfg.OpenAIAPIKey,
			httpClient: &http.Client{Timeout: 60 * time.Second},
			log:        log,
		}, nil
	case SummarizerPalm:
		return &palmSummarizer{
			endpoint:   "https://generativelanguage.googleapis.com/v1beta3/models/text-bison-001:generateText",
			apiKey:     cfg.PalmAPIKey,
			httpClient: &http.Client{Timeout: 60 * time.Second},
			log:        log,
		}, nil
	}
	return nil, fmt.Errorf("unknown text summarizer %q", selector)
}

// summarizerPrompt instructs the model to compress warning messages down
// to keyword level for pager and SMS delivery. German, matching the feed
// content.
const summarizerPrompt = "Du bist ein hilfreicher Assistent, der darauf spezialisiert ist, " +
	"Warnmeldungen soweit wie möglich bis auf Stichpunktebene zu verkürzen. " +
	"Entferne HTML-Tags und Links und gib nur die Stichpunkte zurück. Der Text " +
	"wird an Pager und Mobiltelefone übertragen; fasse ihn so kurz wie möglich " +
	"zusammen, ohne relevante Informationen zu verlieren."

// internalSummarizer is the identity transform; the channel-level
// segmentation handles the length instead.
type internalSummarizer struct{}

func (internalSummarizer) Summarize(_ context.Context, text string) string {
	return text
}

// genericSummarizer posts to a self-hosted summarization service.
type genericSummarizer struct {
	endpoint   string
	httpClient *http.Client
	log        zerolog.Logger
}

func (s *genericSummarizer) Summarize(ctx context.Context, text string) string {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return text
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return text
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Debug().Err(err).Msg("summarizer unavailable, keeping original text")
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return text
	}

	var result struct {
		Summary string `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil || result.Summary == "" {
		return text
	}
	return result.Summary
}

// openaiSummarizer uses the chat completions API.
type openaiSummarizer struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *openaiSummarizer) Summarize(ctx context.Context, text string) string {
	payload, err := json.Marshal(map[string]interface{}{
		"model": "gpt-3.5-turbo",
		"messages": []chatMessage{
			{Role: "system", Content: summarizerPrompt},
			{Role: "user", Content: "Hier kommt die Nachricht: " + text},
		},
		"temperature": 0.7,
		"max_tokens":  2000,
	})
	if err != nil {
		return text
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return text
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Debug().Err(err).Msg("summarizer unavailable, keeping original text")
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return text
	}

	var result struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return text
	}
	if len(result.Choices) == 0 || result.Choices[0].Message.Content == "" {
		return text
	}
	return result.Choices[0].Message.Content
}

// palmSummarizer uses the Generative Language text API.
type palmSummarizer struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

func (s *palmSummarizer) Summarize(ctx context.Context, text string) string {
	payload, err := json.Marshal(map[string]interface{}{
		"prompt": map[string]string{
			"text": summarizerPrompt + " Hier kommt die Nachricht: " + text,
		},
		"temperature":     0.7,
		"maxOutputTokens": 1000,
	})
	if err != nil {
		return text
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint+"?key="+s.apiKey, bytes.NewReader(payload))
	if err != nil {
		return text
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.log.Debug().Err(err).Msg("summarizer unavailable, keeping original text")
		return text
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return text
	}

	var result struct {
		Candidates []struct {
			Output string `json:"output"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return text
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Output == "" {
		return text
	}
	return result.Candidates[0].Output
}
