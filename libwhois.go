// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"context"
	"time"

	"github.com/likexian/whois"
)

// Library queries the WHOIS server through the likexian whois client. It
// backs the "lib" mode and does not participate in the auto chain.
type Library struct {
	addr   string
	client *whois.Client
}

// NewLibrary returns a Library strategy bound to the server address.
func NewLibrary(addr string, timeout time.Duration) *Library {
	client := whois.NewClient()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}

	return &Library{
		addr:   ServerAddr(addr),
		client: client,
	}
}

// Query implements the Strategy interface.
func (l *Library) Query(_ context.Context, domain string) (string, error) {
	return l.client.Whois(domain, l.addr)
}
