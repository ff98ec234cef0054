// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package config

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// iniParser is a koanf.Parser for the mowas-pwb.cfg file format: a
// classic INI file whose options live in one named section. Options
// outside that section are ignored.
type iniParser struct {
	section string
}

// newINIParser returns a parser bound to the [mowas_config] section.
func newINIParser() *iniParser {
	return &iniParser{section: "mowas_config"}
}

// Unmarshal parses the INI bytes into a flat key/value map. All values
// stay strings; the typed conversion happens during unmarshaling into
// the Config struct.
func (p *iniParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	current := ""
	seenSection := false

	scanner := bufio.NewScanner(bytes.NewReader(b))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			if !strings.HasSuffix(line, "]") {
				return nil, fmt.Errorf("line %d: malformed section header %q", lineNo, line)
			}
			current = strings.TrimSpace(line[1 : len(line)-1])
			if current == p.section {
				seenSection = true
			}
			continue
		}
		if current != p.section {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("line %d: expected key = value, got %q", lineNo, line)
		}
		out[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !seenSection {
		return nil, fmt.Errorf("config file has no [%s] section", p.section)
	}
	return out, nil
}

// Marshal renders the key/value map back into the section format.
func (p *iniParser) Marshal(m map[string]interface{}) ([]byte, error) {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s]\n", p.section)
	for _, key := range keys {
		fmt.Fprintf(&buf, "%s = %v\n", key, m[key])
	}
	return buf.Bytes(), nil
}
