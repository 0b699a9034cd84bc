// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package log provides functionality similar to standard log package with some extensions:
//   - verbosity levels
//   - global verbosity setting that can be used by multiple packages
//   - ability to redirect all output (used by tests)
package log

import (
	"flag"
	"fmt"
	"io"
	golog "log"
	"os"
	"sync"
	"sync/atomic"
)

var (
	flagV     = flag.Int("vv", 0, "verbosity")
	verbosity atomic.Int64
	mu        sync.Mutex
	logger    = golog.New(os.Stderr, "", golog.LstdFlags)
)

func init() {
	verbosity.Store(-1)
}

// SetVerbosity overrides the -vv flag.
func SetVerbosity(v int) {
	verbosity.Store(int64(v))
}

// SetOutput redirects log output, prependTime controls the timestamp prefix.
func SetOutput(w io.Writer, prependTime bool) {
	mu.Lock()
	defer mu.Unlock()
	flags := 0
	if prependTime {
		flags = golog.LstdFlags
	}
	logger = golog.New(w, "", flags)
}

// V says if messages of verbosity v are printed.
func V(v int) bool {
	level := int(verbosity.Load())
	if level < 0 {
		level = *flagV
	}
	return v <= level
}

func Logf(v int, msg string, args ...interface{}) {
	if !V(v) {
		return
	}
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Printf(msg, args...)
}

// Errorf logs regardless of verbosity.
func Errorf(msg string, args ...interface{}) {
	Logf(0, "error: "+msg, args...)
}

func Fatalf(msg string, args ...interface{}) {
	mu.Lock()
	l := logger
	mu.Unlock()
	l.Output(2, fmt.Sprintf(msg, args...))
	os.Exit(1)
}
