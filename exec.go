// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// execGrace extends the wall-clock timeout beyond the tool's own -w limit.
const execGrace = 2 * time.Second

// Netcat queries the WHOIS server through the host's nc binary, feeding the
// query line on stdin. It is the fallback path for environments where the
// direct socket strategy keeps coming back blank.
type Netcat struct {
	Addr    string
	Timeout time.Duration
	Path    string // tool name or path, defaults to "nc"
}

func (n *Netcat) tool() string {
	if n.Path != "" {
		return n.Path
	}
	return "nc"
}

// Query implements the Strategy interface.
func (n *Netcat) Query(ctx context.Context, domain string) (string, error) {
	name := filepath.Base(n.tool())

	tool, err := exec.LookPath(n.tool())
	if err != nil {
		return "", fmt.Errorf("%s not found", name)
	}

	host, port, err := net.SplitHostPort(ServerAddr(n.Addr))
	if err != nil {
		return "", err
	}

	secs := int(math.Round(n.Timeout.Seconds()))
	if secs < 1 {
		secs = 1
	}

	ctx, cancel := context.WithTimeout(ctx, n.Timeout+execGrace)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, "-w", strconv.Itoa(secs), host, port)
	cmd.Stdin = strings.NewReader(domain + "\r\n")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var xerr *exec.ExitError
		if !errors.As(err, &xerr) {
			return "", err
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.New(msg)
		}
		if msg := strings.TrimSpace(stdout.String()); msg != "" {
			return "", errors.New(msg)
		}
		return "", fmt.Errorf("%s exit %d", name, xerr.ExitCode())
	}

	if strings.TrimSpace(stdout.String()) == "" {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", errors.New(msg)
		}
	}
	return stdout.String(), nil
}
