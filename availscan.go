// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

// Package availscan checks domain name availability over the WHOIS text protocol.
package availscan

// Status is the authoritative outcome of a single domain lookup.
type Status string

const (
	StatusAvailable Status = "available"
	StatusTaken     Status = "taken"
	StatusError     Status = "error"
)

// Result pairs a lookup status with the classification evidence behind it.
// The reason is diagnostic free text and is never parsed further.
type Result struct {
	Status Status
	Reason string
}
