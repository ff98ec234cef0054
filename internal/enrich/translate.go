// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/joergschultzelutter/mowas-pwb/internal/logging"
)

// SupportedLanguages is the closed set of DeepL target languages the
// beacon accepts.
var SupportedLanguages = []string{
	"bg", "cs", "da", "el", "en-gb", "en-us", "es", "et", "fi", "fr",
	"hu", "it", "ja", "lt", "lv", "nl", "pl", "pt-br", "pt-pt", "ro",
	"ru", "sk", "sl", "sv", "zh",
}

// IsSupportedLanguage validates a target language code,
// case-insensitively.
func IsSupportedLanguage(lang string) bool {
	lang = strings.ToLower(lang)
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

const (
	deeplProURL  = "https://api.deepl.com/v2/translate"
	deeplFreeURL = "https://api-free.deepl.com/v2/translate"
)

// Translator translates broadcast content through the DeepL API. Source
// language is always German. Translation is best-effort: any failure
// yields the original texts.
type Translator struct {
	endpoint   string
	apiKey     string
	targetLang string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewTranslator creates a DeepL translator. Keys with the ":fx" suffix
// route to the free API endpoint.
func NewTranslator(apiKey, targetLang string) *Translator {
	endpoint := deeplProURL
	if strings.HasSuffix(apiKey, ":fx") {
		endpoint = deeplFreeURL
	}
	return &Translator{
		endpoint:   endpoint,
		apiKey:     apiKey,
		targetLang: strings.ToUpper(targetLang),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: logging.With().Str("component", "translate").Logger(),
	}
}

// SetEndpoint overrides the DeepL endpoint, used by tests.
func (t *Translator) SetEndpoint(u string) { t.endpoint = u }

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// TranslateAll translates a batch of texts. On any error the input slice
// is returned unchanged.
func (t *Translator) TranslateAll(ctx context.Context, texts []string) []string {
	translated, err := t.translate(ctx, texts)
	if err != nil {
		t.log.Debug().Err(err).Msg("cannot translate, keeping original text")
		return texts
	}
	return translated
}

func (t *Translator) translate(ctx context.Context, texts []string) ([]string, error) {
	form := url.Values{}
	for _, text := range texts {
		form.Add("text", text)
	}
	form.Set("target_lang", t.targetLang)
	form.Set("source_lang", "DE")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "DeepL-Auth-Key "+t.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("deepl request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	var result deeplResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Translations) != len(texts) {
		return nil, fmt.Errorf("got %d translations for %d texts", len(result.Translations), len(texts))
	}

	out := make([]string, len(texts))
	for i, tr := range result.Translations {
		out[i] = tr.Text
	}
	return out, nil
}
