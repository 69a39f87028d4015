// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import "time"

// Backoff bounds the inter-query delay adjusted on throttle events.
type Backoff struct {
	Base            time.Duration
	Max             time.Duration
	Factor          float64
	ThrottleRetries int
}

// NextDelay returns the current delay grown by the backoff factor, raised
// to at least base and truncated by max.
func NextDelay(current, base, max time.Duration, factor float64) time.Duration {
	next := time.Duration(float64(current) * factor)

	if next < base {
		next = base
	}
	if next > max {
		next = max
	}
	return next
}
