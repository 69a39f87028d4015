// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"strings"
	"testing"
)

func TestDetectorMarkersAndHints(t *testing.T) {
	tables := DefaultTables()
	d := NewDetector(tables)

	for _, marker := range tables.ThrottleMarkers {
		if !d.Throttled(marker) {
			t.Errorf("Marker %q was not detected", marker)
		}
		if !d.Throttled(strings.ToLower(marker)) {
			t.Errorf("Lowercase marker %q was not detected", marker)
		}
	}
	for _, hint := range tables.ThrottleHints {
		reason := "prefix " + strings.ToLower(hint) + " suffix"

		if !d.Throttled(reason) {
			t.Errorf("Hint %q was not detected within %q", hint, reason)
		}
	}
}

func TestDetectorNegatives(t *testing.T) {
	d := NewDetector(DefaultTables())

	for _, reason := range []string{"", "connection refused", "no route to host", "i/o timeout"} {
		if d.Throttled(reason) {
			t.Errorf("Reason %q was unexpectedly flagged as throttling", reason)
		}
	}
}

func TestDetectorTransportErrors(t *testing.T) {
	d := NewDetector(DefaultTables())

	// Transport-level failures can signal throttling too, such as the
	// external tool reporting a limit on its diagnostic stream
	for _, reason := range []string{"nc exit 1", "server says: try again in 60s", "terms-only response"} {
		if !d.Throttled(reason) {
			t.Errorf("Reason %q was not flagged as throttling", reason)
		}
	}
}
