// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"context"
	"net"
)

// DefaultPort is the WHOIS TCP port.
const DefaultPort = "43"

// A Strategy performs one WHOIS lookup attempt against a single server.
// A non-empty response text implies a nil error. An empty text with a nil
// error is a blank-but-successful response, which is distinct from a
// transport failure.
type Strategy interface {
	Query(ctx context.Context, domain string) (string, error)
}

// ServerAddr ensures the server address carries a port, defaulting to the
// WHOIS port when missing.
func ServerAddr(addr string) string {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		// Add the default port number to the server address
		addr = net.JoinHostPort(addr, DefaultPort)
	}
	return addr
}
