// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"testing"
	"time"
)

func TestNextDelay(t *testing.T) {
	cases := []struct {
		label    string
		current  time.Duration
		base     time.Duration
		max      time.Duration
		factor   float64
		expected time.Duration
	}{
		{
			label:    "Doubling within bounds",
			current:  500 * time.Millisecond,
			base:     500 * time.Millisecond,
			max:      10 * time.Second,
			factor:   2.0,
			expected: time.Second,
		}, {
			label:    "Truncated by the maximum",
			current:  8 * time.Second,
			base:     500 * time.Millisecond,
			max:      10 * time.Second,
			factor:   2.0,
			expected: 10 * time.Second,
		}, {
			label:    "Raised to the base",
			current:  100 * time.Millisecond,
			base:     500 * time.Millisecond,
			max:      10 * time.Second,
			factor:   2.0,
			expected: 500 * time.Millisecond,
		}, {
			label:    "Shrinking factor never drops below the base",
			current:  time.Second,
			base:     500 * time.Millisecond,
			max:      10 * time.Second,
			factor:   0.25,
			expected: 500 * time.Millisecond,
		},
	}

	for _, tt := range cases {
		t.Run(tt.label, func(t *testing.T) {
			if got := NextDelay(tt.current, tt.base, tt.max, tt.factor); got != tt.expected {
				t.Errorf("Got %v; expected %v", got, tt.expected)
			}
		})
	}
}
