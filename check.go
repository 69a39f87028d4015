// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// A Checker drives transport attempts for a single domain and classifies
// the first usable response. Throttle-flagged outcomes are returned without
// internal retry so the caller owns the backoff.
type Checker struct {
	Strategies []Strategy
	Retries    int
	RetrySleep time.Duration
	Classifier *Classifier
	Detector   *Detector
	Log        *logrus.Logger

	sleep func(time.Duration)
}

// Check performs up to Retries+1 attempts and returns the terminal Result.
func (c *Checker) Check(ctx context.Context, domain string) Result {
	sleep := c.sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	lastErr := "empty response"
	for attempt := 0; attempt <= c.Retries; attempt++ {
		text, err := c.attempt(ctx, domain)

		if strings.TrimSpace(text) != "" {
			res := c.Classifier.Classify(text)
			if res.Status == StatusError && c.Log != nil {
				c.Log.WithField("domain", domain).Debugf("response head:\n%s", head(text, headLines))
			}
			// A classified response ends the loop, even when it carries an
			// error status
			return res
		}

		if err != nil {
			lastErr = err.Error()
			if c.Detector.Throttled(lastErr) {
				return Result{Status: StatusError, Reason: lastErr}
			}
		} else {
			lastErr = "empty response"
		}

		if c.Log != nil {
			c.Log.WithField("domain", domain).Debugf("attempt %d: %s", attempt+1, lastErr)
		}
		if attempt < c.Retries {
			sleep(c.RetrySleep)
		}
	}
	return Result{Status: StatusError, Reason: lastErr}
}

// attempt walks the strategy chain, consulting the next strategy only when
// the previous one produced a blank response.
func (c *Checker) attempt(ctx context.Context, domain string) (string, error) {
	var text string
	var err error

	for _, s := range c.Strategies {
		if strings.TrimSpace(text) != "" {
			break
		}
		text, err = s.Query(ctx, domain)
	}
	return text, err
}
