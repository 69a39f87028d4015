// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedStrategy struct {
	calls int
	fn    func(call int) (string, error)
}

func (s *scriptedStrategy) Query(ctx context.Context, domain string) (string, error) {
	s.calls++
	return s.fn(s.calls)
}

func newTestChecker(t *testing.T, retries int, strategies ...Strategy) *Checker {
	t.Helper()

	return &Checker{
		Strategies: strategies,
		Retries:    retries,
		Classifier: newTestClassifier(t),
		Detector:   NewDetector(DefaultTables()),
		sleep:      func(d time.Duration) {},
	}
}

func TestCheckExhaustsAttempts(t *testing.T) {
	s := &scriptedStrategy{fn: func(int) (string, error) {
		return "", errors.New("i/o timeout")
	}}

	c := newTestChecker(t, 3, s)
	res := c.Check(context.Background(), "example.ai")

	if res.Status != StatusError || res.Reason != "i/o timeout" {
		t.Errorf("Got (%s, %q); expected the propagated transport error", res.Status, res.Reason)
	}
	if s.calls != 4 {
		t.Errorf("Got %d attempts; expected retries + 1 = 4", s.calls)
	}
}

func TestCheckEmptyResponses(t *testing.T) {
	s := &scriptedStrategy{fn: func(int) (string, error) {
		return "", nil
	}}

	c := newTestChecker(t, 2, s)
	res := c.Check(context.Background(), "example.ai")

	if res.Status != StatusError || res.Reason != "empty response" {
		t.Errorf("Got (%s, %q); expected (error, \"empty response\")", res.Status, res.Reason)
	}
	if s.calls != 3 {
		t.Errorf("Got %d attempts; expected retries + 1 = 3", s.calls)
	}
}

func TestCheckClassifiedResponseEndsTheLoop(t *testing.T) {
	cases := []struct {
		label    string
		response string
		status   Status
	}{
		{
			label:    "Available",
			response: "NO OBJECT FOUND",
			status:   StatusAvailable,
		}, {
			label:    "Taken",
			response: "Domain Name: EXAMPLE.AI\nRegistrar: X",
			status:   StatusTaken,
		}, {
			label:    "Ambiguous error is not retried",
			response: "unrecognized registry dialect",
			status:   StatusError,
		}, {
			label:    "Throttled error returns for the caller to back off",
			response: "WHOIS LIMIT EXCEEDED",
			status:   StatusError,
		},
	}

	for _, tt := range cases {
		t.Run(tt.label, func(t *testing.T) {
			s := &scriptedStrategy{fn: func(int) (string, error) {
				return tt.response, nil
			}}

			c := newTestChecker(t, 5, s)
			res := c.Check(context.Background(), "example.ai")

			if res.Status != tt.status {
				t.Errorf("Got status %s; expected %s", res.Status, tt.status)
			}
			if s.calls != 1 {
				t.Errorf("Got %d attempts; expected a single attempt", s.calls)
			}
		})
	}
}

func TestCheckThrottledTransportError(t *testing.T) {
	s := &scriptedStrategy{fn: func(int) (string, error) {
		return "", errors.New("nc exit 1")
	}}

	c := newTestChecker(t, 5, s)
	res := c.Check(context.Background(), "example.ai")

	if res.Status != StatusError || res.Reason != "nc exit 1" {
		t.Errorf("Got (%s, %q); expected the throttled transport error", res.Status, res.Reason)
	}
	if s.calls != 1 {
		t.Errorf("Got %d attempts; expected the throttle signal to bypass retries", s.calls)
	}
}

func TestCheckFallbackChain(t *testing.T) {
	blank := &scriptedStrategy{fn: func(int) (string, error) {
		return "", nil
	}}
	record := &scriptedStrategy{fn: func(int) (string, error) {
		return "Domain Name: EXAMPLE.AI", nil
	}}

	c := newTestChecker(t, 2, blank, record)
	res := c.Check(context.Background(), "example.ai")

	if res.Status != StatusTaken {
		t.Errorf("Got status %s; expected %s", res.Status, StatusTaken)
	}
	if blank.calls != 1 || record.calls != 1 {
		t.Errorf("Got %d and %d calls; expected the fallback to run exactly once each", blank.calls, record.calls)
	}
}

func TestCheckFallbackSkippedOnResponse(t *testing.T) {
	record := &scriptedStrategy{fn: func(int) (string, error) {
		return "NO OBJECT FOUND", nil
	}}
	fallback := &scriptedStrategy{fn: func(int) (string, error) {
		return "", errors.New("should not run")
	}}

	c := newTestChecker(t, 2, record, fallback)
	res := c.Check(context.Background(), "example.ai")

	if res.Status != StatusAvailable {
		t.Errorf("Got status %s; expected %s", res.Status, StatusAvailable)
	}
	if fallback.calls != 0 {
		t.Errorf("The fallback strategy ran despite a usable response")
	}
}
