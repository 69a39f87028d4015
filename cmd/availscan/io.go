// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/caffix/queue"
	"github.com/caffix/stringset"
	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

// headerHints are first-row values treated as a column header rather than a
// candidate word.
var headerHints = stringset.New("word", "words", "name", "domain", "domains")

type wordRow struct {
	Index int
	Word  string
}

// readWords appends one wordRow per usable CSV row onto the queue and
// returns the number of rows queued. Row indexes are 1-based over the raw
// file so they line up with checkpoint entries.
func readWords(path, column string, noHeader bool, rows queue.Queue, log *logrus.Logger) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open the input file %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	if column == "" || isDigits(column) {
		col := 0
		if column != "" {
			col, _ = strconv.Atoi(column)
		}
		return readIndexedColumn(r, col, noHeader, rows, log)
	}
	return readNamedColumn(r, column, rows)
}

func readIndexedColumn(r *csv.Reader, col int, noHeader bool, rows queue.Queue, log *logrus.Logger) (int, error) {
	var count, seen int
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}

		// The reader silently skips blank lines, so the checkpoint index
		// must come from the physical line of the record
		idx, _ := r.FieldPos(0)
		seen++
		if col >= len(record) {
			log.Warnf("Row %d has no column index %d", idx, col)
			continue
		}

		value := strings.TrimSpace(record[col])
		if seen == 1 && !noHeader && headerHints.Has(strings.ToLower(value)) {
			continue
		}
		if value == "" {
			continue
		}

		rows.Append(wordRow{Index: idx, Word: value})
		count++
	}
	return count, nil
}

func readNamedColumn(r *csv.Reader, column string, rows queue.Queue) (int, error) {
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("column %q not found: %w", column, err)
	}

	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == column {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, fmt.Errorf("column %q not found, available: %s", column, strings.Join(header, ", "))
	}

	count := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}

		idx, _ := r.FieldPos(0)
		if col >= len(record) {
			continue
		}
		if value := strings.TrimSpace(record[col]); value != "" {
			rows.Append(wordRow{Index: idx, Word: value})
			count++
		}
	}
	return count, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// validLabel enforces the character and length rules on a candidate word
// before it becomes the leading label of a domain name.
func validLabel(label string) (string, bool) {
	switch {
	case label == "":
		return "empty label", false
	case len(label) > 63:
		return "label too long", false
	case strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-"):
		return "label starts or ends with '-'", false
	}

	for _, r := range label {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return "invalid characters", false
		}
	}
	return "", true
}

func validDomain(domain string) bool {
	_, ok := dns.IsDomainName(domain)
	return ok
}

// loadCheckpoint returns the last processed row index recorded in the file.
func loadCheckpoint(path string) (int, bool) {
	f, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return 0, false
	}
	line := strings.TrimSpace(scanner.Text())
	if line == "" {
		return 0, false
	}

	idx, err := strconv.Atoi(strings.SplitN(line, ",", 2)[0])
	if err != nil {
		return 0, false
	}
	return idx, true
}

func saveCheckpoint(path string, idx int, word string) error {
	data := fmt.Sprintf("%d,%s\n", idx, word)

	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		return fmt.Errorf("failed to write the checkpoint file %s: %w", path, err)
	}
	return nil
}

// openOutput returns the output destination and whether the CSV header row
// still needs to be written. Resuming onto a non-empty output file appends
// and suppresses the header.
func openOutput(path string, resume bool) (io.WriteCloser, bool, error) {
	if path == "" {
		return nopCloser{os.Stdout}, true, nil
	}

	info, err := os.Stat(path)
	exists := err == nil
	hasData := exists && info.Size() > 0

	mode := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if resume && exists {
		mode = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	}

	f, err := os.OpenFile(path, mode, 0666)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open the output file %s: %w", path, err)
	}
	return f, !(resume && hasData), nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
