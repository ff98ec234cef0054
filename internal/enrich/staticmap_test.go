// mowas-pwb - MOWAS Personal Warning Beacon
// Copyright 2026 Joerg Schultze-Lutter (joergschultzelutter)
// SPDX-License-Identifier: GPL-3.0-or-later
// https://github.com/joergschultzelutter/mowas-pwb

package enrich

import "testing"

func TestRenderMapRejectsDegeneratePolygon(t *testing.T) {
	if _, err := RenderMap(nil, nil); err == nil {
		t.Error("expected error for empty polygon")
	}
	if _, err := RenderMap([][2]float64{{48, 10}, {49, 11}}, nil); err == nil {
		t.Error("expected error for two-point polygon")
	}
}
