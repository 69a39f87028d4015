// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"regexp"
	"strings"
)

// Reasons reported for fixed classification outcomes.
const (
	ReasonNotFound  = "domain not found"
	ReasonRecord    = "WHOIS record found"
	ReasonTermsOnly = "terms-only response"
	ReasonAmbiguous = "ambiguous response"
)

// headLines bounds the primary availability scan. Some registries repeat
// "not found" phrasing inside legal boilerplate further down responses for
// registered domains.
const headLines = 8

const (
	termsMarker      = "TERMS OF USE"
	domainNameMarker = "DOMAIN NAME"
)

// A Classifier maps raw WHOIS response text to a Result. It never fails on
// any input text.
type Classifier struct {
	available []*regexp.Regexp
	markers   []string
	throttle  []string
	taken     []*regexp.Regexp
}

// NewClassifier compiles the provided pattern tables. All regular
// expressions are matched case-insensitively.
func NewClassifier(t Tables) (*Classifier, error) {
	c := &Classifier{
		markers:  upperAll(t.AvailableMarkers),
		throttle: upperAll(t.ThrottleMarkers),
	}

	for _, p := range t.AvailablePatterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, err
		}
		c.available = append(c.available, re)
	}
	for _, p := range t.TakenPatterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, err
		}
		c.taken = append(c.taken, re)
	}
	return c, nil
}

// Classify maps the response text to a status and reason, first match wins:
// availability patterns over the leading lines, availability markers over
// the whole text, throttle markers, registration field labels, and finally
// the terms-only and ambiguous fallbacks.
func (c *Classifier) Classify(response string) Result {
	h := head(response, headLines)
	for _, re := range c.available {
		if re.MatchString(h) {
			return Result{Status: StatusAvailable, Reason: ReasonNotFound}
		}
	}

	upper := strings.ToUpper(response)
	for _, marker := range c.markers {
		if strings.Contains(upper, marker) {
			return Result{Status: StatusAvailable, Reason: marker}
		}
	}
	for _, marker := range c.throttle {
		if strings.Contains(upper, marker) {
			return Result{Status: StatusError, Reason: marker}
		}
	}

	for _, re := range c.taken {
		if re.MatchString(response) {
			return Result{Status: StatusTaken, Reason: ReasonRecord}
		}
	}

	if strings.Contains(upper, termsMarker) && !strings.Contains(upper, domainNameMarker) {
		return Result{Status: StatusError, Reason: ReasonTermsOnly}
	}
	return Result{Status: StatusError, Reason: ReasonAmbiguous}
}

// head returns up to n leading lines of the text.
func head(text string, n int) string {
	lines := strings.Split(text, "\n")

	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
