// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ReasonThrottled is the terminal reason once the throttle-retry cap is hit.
const ReasonThrottled = "throttled"

// A DomainChecker performs the per-domain attempt and classification loop.
type DomainChecker interface {
	Check(ctx context.Context, domain string) Result
}

// A Controller paces lookups across an entire run. It owns the inter-query
// delay, grown on throttle events and reset on any other outcome, and the
// cache of terminal available/taken results. It is not safe for concurrent
// use; lookups are strictly sequential.
type Controller struct {
	checker  DomainChecker
	detector *Detector
	log      *logrus.Logger
	backoff  Backoff

	limiter *rate.Limiter
	delay   time.Duration
	cache   map[string]Result
}

// NewController returns a Controller enforcing the provided backoff bounds.
func NewController(checker DomainChecker, detector *Detector, b Backoff, log *logrus.Logger) *Controller {
	c := &Controller{
		checker:  checker,
		detector: detector,
		log:      log,
		backoff:  b,
		delay:    b.Base,
		cache:    make(map[string]Result),
	}

	// A burst of one lets the first lookup of the run proceed without waiting
	c.limiter = rate.NewLimiter(limitFor(b.Base), 1)
	return c
}

// Lookup resolves the terminal Result for a domain, waiting out the current
// delay before each query and driving the backoff loop on throttle signals.
func (c *Controller) Lookup(ctx context.Context, domain string) Result {
	if res, ok := c.cache[domain]; ok {
		return res
	}

	var throttled int
	var res Result
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return Result{Status: StatusError, Reason: err.Error()}
		}

		res = c.checker.Check(ctx, domain)
		if res.Status == StatusError && c.detector.Throttled(res.Reason) {
			throttled++
			if throttled > c.backoff.ThrottleRetries {
				res = Result{Status: StatusError, Reason: ReasonThrottled}
				break
			}
			c.grow(domain)
			continue
		}

		c.reset()
		break
	}

	// Errors may be transient and must be re-queried on duplicates
	if res.Status == StatusAvailable || res.Status == StatusTaken {
		c.cache[domain] = res
	}
	return res
}

// Delay returns the current inter-query delay.
func (c *Controller) Delay() time.Duration {
	return c.delay
}

func (c *Controller) grow(domain string) {
	c.delay = NextDelay(c.delay, c.backoff.Base, c.backoff.Max, c.backoff.Factor)
	c.limiter.SetLimit(limitFor(c.delay))

	if c.log != nil {
		c.log.WithField("domain", domain).Debugf("throttled, backing off to %s", c.delay)
	}
}

func (c *Controller) reset() {
	if c.delay != c.backoff.Base {
		c.delay = c.backoff.Base
		c.limiter.SetLimit(limitFor(c.delay))
	}
}

func limitFor(delay time.Duration) rate.Limit {
	if delay <= 0 {
		return rate.Inf
	}
	return rate.Every(delay)
}
