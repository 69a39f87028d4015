// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package availscan

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables holds the marker and pattern lists that drive response
// classification and throttle detection. The lists are plain data so tests
// and operators can inject additional registry dialects.
type Tables struct {
	AvailablePatterns []string `yaml:"availablePatterns"`
	AvailableMarkers  []string `yaml:"availableMarkers"`
	ThrottleMarkers   []string `yaml:"throttleMarkers"`
	ThrottleHints     []string `yaml:"throttleHints"`
	TakenPatterns     []string `yaml:"takenPatterns"`
}

// DefaultTables returns the registry dialects recognized out of the box.
func DefaultTables() Tables {
	return Tables{
		AvailablePatterns: []string{
			`\bNO\s+OBJECT\s+FOUND\b`,
			`\bDOMAIN\s+NOT\s+FOUND\b`,
			`\bNOT\s+FOUND\b`,
			`\bNO\s+MATCH\s+FOR\b`,
			`\bNO\s+DATA\s+FOUND\b`,
			`\bOBJECT\s+DOES\s+NOT\s+EXIST\b`,
		},
		AvailableMarkers: []string{
			"NO OBJECT FOUND",
			"NOT FOUND",
			"NO MATCH FOR",
			"DOMAIN NOT FOUND",
			"NO DATA FOUND",
			"OBJECT DOES NOT EXIST",
		},
		ThrottleMarkers: []string{
			"WHOIS LIMIT EXCEEDED",
			"QUERY LIMIT EXCEEDED",
			"EXCESSIVE QUERIES",
			"TRY AGAIN LATER",
		},
		ThrottleHints: []string{
			"NC EXIT 1",
			"TERMS-ONLY RESPONSE",
			"TRY AGAIN",
			"LIMIT",
			"EXCESSIVE",
			"THROTTLE",
		},
		TakenPatterns: []string{
			`\bDOMAIN\s+NAME\s*:`,
			`\bREGISTRY\s+DOMAIN\s+ID\s*:`,
			`\bREGISTRAR\s*:`,
			`\bNAME\s+SERVER\s*:`,
		},
	}
}

// LoadTables reads a YAML dialect file on top of the defaults. Lists absent
// from the file keep their default contents.
func LoadTables(path string) (Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("failed to read the tables file %s: %w", path, err)
	}

	t := DefaultTables()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tables{}, fmt.Errorf("failed to parse the tables file %s: %w", path, err)
	}
	return t, nil
}

func upperAll(strs []string) []string {
	upper := make([]string, len(strs))

	for i, s := range strs {
		upper[i] = strings.ToUpper(s)
	}
	return upper
}
