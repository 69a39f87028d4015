// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import "strings"

// A Detector reports whether free-form reason text signals server-side rate
// limiting. It is applied to classified response reasons and to raw
// transport error text alike, since a wrapped external tool can surface a
// limit message on its diagnostic stream.
type Detector struct {
	markers []string
	hints   []string
}

// NewDetector builds a Detector from the throttle marker and hint lists.
func NewDetector(t Tables) *Detector {
	return &Detector{
		markers: upperAll(t.ThrottleMarkers),
		hints:   upperAll(t.ThrottleHints),
	}
}

// Throttled performs a case-insensitive substring match against the fixed
// markers and the broader heuristic hints.
func (d *Detector) Throttled(reason string) bool {
	upper := strings.ToUpper(reason)

	for _, marker := range d.markers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	for _, hint := range d.hints {
		if strings.Contains(upper, hint) {
			return true
		}
	}
	return false
}
