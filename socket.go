// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// Socket queries the WHOIS server directly over TCP: write the query line,
// half-close the connection, and read until the peer closes or the read
// deadline elapses. Every resolved server address is tried before giving up.
type Socket struct {
	Addr     string        // server address, WHOIS port added when missing
	Timeout  time.Duration // per-operation deadline on each connection
	IPv4Only bool
}

// Query implements the Strategy interface.
func (s *Socket) Query(ctx context.Context, domain string) (string, error) {
	host, port, err := net.SplitHostPort(ServerAddr(s.Addr))
	if err != nil {
		return "", err
	}

	network := "ip"
	if s.IPv4Only {
		network = "ip4"
	}
	ips, err := net.DefaultResolver.LookupIP(ctx, network, host)
	if err != nil {
		return "", err
	}

	var sawEmpty bool
	var lastErr error
	for _, ip := range ips {
		text, err := s.exchange(ctx, net.JoinHostPort(ip.String(), port), domain)
		if err != nil {
			lastErr = err
			continue
		}
		if text != "" {
			return text, nil
		}
		sawEmpty = true
	}

	// A connection that closed without data is a valid, empty response
	if sawEmpty {
		return "", nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", errors.New("connection failed")
}

func (s *Socket) exchange(ctx context.Context, addr, domain string) (string, error) {
	d := net.Dialer{Timeout: s.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return "", err
	}
	defer conn.Close()

	_ = conn.SetWriteDeadline(time.Now().Add(s.Timeout))
	if _, err := conn.Write([]byte(domain + "\r\n")); err != nil {
		return "", err
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}

	var buf bytes.Buffer
	b := make([]byte, 4096)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(s.Timeout))

		n, err := conn.Read(b)
		if n > 0 {
			buf.Write(b[:n])
		}
		if err != nil {
			if errors.Is(err, io.EOF) || isTimeout(err) {
				// A slow or silent server terminates the read; whatever
				// arrived so far is the response
				break
			}
			return "", err
		}
	}
	return buf.String(), nil
}

func isTimeout(err error) bool {
	var nerr net.Error

	return errors.As(err, &nerr) && nerr.Timeout()
}
