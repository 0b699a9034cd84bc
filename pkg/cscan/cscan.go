// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package cscan runs the rule engine over sets of files and directories.
package cscan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/misrascan/misrascan/pkg/log"
	"github.com/misrascan/misrascan/pkg/misra"
	"github.com/misrascan/misrascan/pkg/osutil"
	"github.com/misrascan/misrascan/pkg/stat"
	"golang.org/x/sync/errgroup"
)

var (
	statFiles = stat.New("files", "Number of scanned files",
		stat.Rate{}, stat.Prometheus("misra_files_scanned"))
	statViolations = stat.New("violations", "Number of reported rule violations",
		stat.Prometheus("misra_violations"))
	statWarnings = stat.New("warnings", "Number of recoverable lexical errors",
		stat.Prometheus("misra_lex_warnings"))
	statFailed = stat.New("failed", "Number of files that could not be scanned",
		stat.Prometheus("misra_failed_files"))
	statLatency = stat.New("scan latency", "Scan time per file (us)",
		stat.Distribution{}, stat.Prometheus("misra_scan_latency_us"))
	statBytes = stat.New("bytes", "Size of scanned sources",
		formatKB, stat.Prometheus("misra_scanned_bytes"))
	inFlight     atomic.Int64
	statInFlight = stat.New("in flight", "Number of files being scanned",
		func() int { return int(inFlight.Load()) }, stat.Prometheus("misra_scans_in_flight"))
)

func formatKB(v int, period time.Duration) string {
	const KB = 1 << 10
	return fmt.Sprintf("%v KB (%v KB/sec)", (v+KB/2)/KB, (v+KB/2)/KB/max(int(period/time.Second), 1))
}

// FileResult is the outcome for one input file.
// Exactly one of Result and Err is set.
type FileResult struct {
	File   string
	Result *misra.Result
	Err    error
}

// Collect expands paths into the list of files to scan.
// Directories are walked recursively and only files with one of exts are taken,
// hidden subdirectories are skipped. Files given explicitly are always taken,
// even if they don't exist (scanning them reports the error).
// The result is sorted and has no duplicates.
func Collect(paths, exts []string) ([]string, error) {
	dedup := make(map[string]bool)
	var files []string
	add := func(file string) {
		file = filepath.Clean(file)
		if !dedup[file] {
			dedup[file] = true
			files = append(files, file)
		}
	}
	for _, path := range paths {
		if !osutil.IsDir(path) {
			add(path)
			continue
		}
		err := filepath.WalkDir(path, func(file string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if file != path && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && hasExt(file, exts) {
				add(file)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func hasExt(file string, exts []string) bool {
	ext := filepath.Ext(file)
	for _, want := range exts {
		if ext == want {
			return true
		}
	}
	return false
}

// ScanFile reads and scans a single file.
func ScanFile(eng *misra.Engine, file string) (*misra.Result, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, &misra.InputError{File: file, Err: err}
	}
	statBytes.Add(len(data))
	return eng.Scan(file, data)
}

// Run scans files on procs parallel workers and returns results in the order of files.
// Per-file failures are stored in FileResult.Err, the returned error is set only
// if ctx was cancelled before all files were scanned.
func Run(ctx context.Context, eng *misra.Engine, files []string, procs int) ([]*FileResult, error) {
	results := make([]*FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(procs, 1))
	for i, file := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scanOne(eng, file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if slices.Contains(results, nil) {
		// Cancelled before some files were started.
		return nil, ctx.Err()
	}
	return results, nil
}

func scanOne(eng *misra.Engine, file string) *FileResult {
	inFlight.Add(1)
	defer inFlight.Add(-1)
	start := time.Now()
	res, err := ScanFile(eng, file)
	statLatency.Add(int(time.Since(start) / time.Microsecond))
	statFiles.Add(1)
	if err != nil {
		statFailed.Add(1)
		log.Logf(1, "%v: %v", file, err)
		return &FileResult{File: file, Err: err}
	}
	statViolations.Add(len(res.Violations))
	statWarnings.Add(len(res.Warnings))
	log.Logf(1, "%v: %v violations, %v warnings", file, len(res.Violations), len(res.Warnings))
	return &FileResult{File: file, Result: res}
}

// Summary aggregates a batch of results.
type Summary struct {
	Files      int
	Violations int
	Warnings   int
	Failed     int
	// Number of files that violate each rule, by rule id.
	Rules map[string]int
}

func Summarize(results []*FileResult) *Summary {
	sum := &Summary{Rules: make(map[string]int)}
	for _, fr := range results {
		sum.Files++
		if fr.Err != nil {
			sum.Failed++
			continue
		}
		sum.Violations += len(fr.Result.Violations)
		sum.Warnings += len(fr.Result.Warnings)
		for _, id := range fr.Result.IDs() {
			sum.Rules[id]++
		}
	}
	return sum
}

// InputFailed says if any file could not be read or decoded.
func InputFailed(results []*FileResult) bool {
	for _, fr := range results {
		var inputErr *misra.InputError
		if errors.As(fr.Err, &inputErr) {
			return true
		}
	}
	return false
}
