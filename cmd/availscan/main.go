// Copyright © by the availscan authors 2024-2026. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/availscan/availscan"
	"github.com/caffix/queue"
	"github.com/caffix/stringset"
	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

type options struct {
	Column          string        `long:"column" description:"CSV column name or 0-based index (default: first column)"`
	NoHeader        bool          `long:"no-header" description:"Treat the first row as data even if it looks like a header"`
	Sleep           time.Duration `long:"sleep" default:"500ms" description:"Base delay between WHOIS queries"`
	Timeout         time.Duration `long:"timeout" default:"10s" description:"Socket timeout"`
	Retries         int           `long:"retries" default:"2" description:"Retries per domain on empty responses or transport errors"`
	RetrySleep      time.Duration `long:"retry-sleep" default:"1s" description:"Delay between retries"`
	MaxSleep        time.Duration `long:"max-sleep" default:"10s" description:"Max backoff delay when throttled"`
	BackoffFactor   float64       `long:"backoff-factor" default:"2.0" description:"Backoff multiplier when throttled"`
	ThrottleRetries int           `long:"throttle-retries" default:"3" description:"Retries per domain when throttled"`
	Debug           bool          `long:"debug" description:"Log debug info for failed WHOIS queries"`
	Server          string        `long:"server" default:"whois.nic.ai" description:"WHOIS server"`
	Mode            string        `long:"mode" choice:"auto" choice:"socket" choice:"netcat" choice:"lib" default:"auto" description:"WHOIS query mode"`
	IPv4            bool          `long:"ipv4" description:"Force IPv4 for socket mode"`
	TLD             string        `long:"tld" default:"ai" description:"Zone appended to each candidate word"`
	Tables          string        `long:"tables" description:"YAML file overriding the classification tables"`
	Output          string        `long:"output" description:"Write CSV output to a file (appends when --resume is used)"`
	Checkpoint      string        `long:"checkpoint" default:".whois_checkpoint" description:"Checkpoint file path"`
	Resume          bool          `long:"resume" description:"Resume after the last checkpoint row"`

	Args struct {
		CSVPath string `positional-arg-name:"csv-path" description:"CSV file with candidate words"`
	} `positional-args:"true" required:"true"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, ferr.Message)
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseOptions(args []string) (*options, error) {
	var opts options

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		return nil, err
	}
	return &opts, nil
}

func buildStrategies(opts *options) ([]availscan.Strategy, error) {
	socket := &availscan.Socket{Addr: opts.Server, Timeout: opts.Timeout, IPv4Only: opts.IPv4}
	netcat := &availscan.Netcat{Addr: opts.Server, Timeout: opts.Timeout}

	switch opts.Mode {
	case "socket":
		return []availscan.Strategy{socket}, nil
	case "netcat":
		return []availscan.Strategy{netcat}, nil
	case "lib":
		return []availscan.Strategy{availscan.NewLibrary(opts.Server, opts.Timeout)}, nil
	case "auto":
		return []availscan.Strategy{socket, netcat}, nil
	}
	return nil, fmt.Errorf("unknown mode: %s", opts.Mode)
}

func run(args []string) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if opts.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	tables := availscan.DefaultTables()
	if opts.Tables != "" {
		if tables, err = availscan.LoadTables(opts.Tables); err != nil {
			return err
		}
	}
	classifier, err := availscan.NewClassifier(tables)
	if err != nil {
		return fmt.Errorf("invalid classification tables: %w", err)
	}
	detector := availscan.NewDetector(tables)

	strategies, err := buildStrategies(opts)
	if err != nil {
		return err
	}

	checker := &availscan.Checker{
		Strategies: strategies,
		Retries:    opts.Retries,
		RetrySleep: opts.RetrySleep,
		Classifier: classifier,
		Detector:   detector,
		Log:        log,
	}
	controller := availscan.NewController(checker, detector, availscan.Backoff{
		Base:            opts.Sleep,
		Max:             opts.MaxSleep,
		Factor:          opts.BackoffFactor,
		ThrottleRetries: opts.ThrottleRetries,
	}, log)

	zone := strings.Trim(strings.ToLower(opts.TLD), ".")
	if zone == "" {
		return errors.New("the zone must not be empty")
	}
	if _, icann := publicsuffix.PublicSuffix("label." + zone); !icann {
		log.Warnf("zone %q is not a known public suffix", zone)
	}

	rows := queue.NewQueue()
	total, err := readWords(opts.Args.CSVPath, opts.Column, opts.NoHeader, rows, log)
	if err != nil {
		return err
	}

	resumeFrom := 0
	if opts.Resume && opts.Checkpoint != "" {
		if idx, ok := loadCheckpoint(opts.Checkpoint); ok {
			resumeFrom = idx
		} else {
			log.Debugf("checkpoint not found or invalid: %s", opts.Checkpoint)
		}
	}

	out, writeHeader, err := openOutput(opts.Output, opts.Resume)
	if err != nil {
		return err
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if writeHeader {
		_ = w.Write([]string{"word", "domain", "status", "reason"})
	}

	available := stringset.New()
	defer available.Close()

	ctx := context.Background()
	var processed int
	for {
		element, ok := rows.Next()
		if !ok {
			break
		}
		row := element.(wordRow)
		if resumeFrom > 0 && row.Index <= resumeFrom {
			continue
		}

		label := strings.ToLower(strings.TrimSpace(row.Word))
		domain := label + "." + zone

		var res availscan.Result
		if reason, ok := validLabel(label); !ok {
			res = availscan.Result{Status: availscan.StatusError, Reason: reason}
		} else if !validDomain(domain) {
			res = availscan.Result{Status: availscan.StatusError, Reason: "invalid domain name"}
		} else {
			res = controller.Lookup(ctx, domain)
		}

		if res.Status == availscan.StatusAvailable {
			available.Insert(domain)
		}

		_ = w.Write([]string{row.Word, domain, string(res.Status), res.Reason})
		w.Flush()
		if err := w.Error(); err != nil {
			return fmt.Errorf("failed to write the output: %w", err)
		}
		if opts.Checkpoint != "" {
			if err := saveCheckpoint(opts.Checkpoint, row.Index, row.Word); err != nil {
				return err
			}
		}
		processed++
	}

	log.Infof("Processed %d of %d rows with %d available domains", processed, total, available.Len())
	if available.Len() > 0 {
		log.Infof("Available: %s", strings.Join(available.Slice(), ", "))
	}
	return nil
}
