// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package tool contains various helper utilitites useful for implementation of command line tools.
package tool

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
)

var (
	flagCPUProfile = flag.String("cpuprofile", "", "write CPU profile to this file")
	flagMemProfile = flag.String("memprofile", "", "write memory profile to this file")
)

// Init parses command line flags and starts the profiles requested with
// -cpuprofile and -memprofile. The returned function stops profiling and
// must be called before the tool exits:
//
//	defer tool.Init()()
func Init() func() {
	flag.Parse()
	var stops []func() error
	if *flagCPUProfile != "" {
		stop, err := startCPUProfile(*flagCPUProfile)
		if err != nil {
			Fail(err)
		}
		stops = append(stops, stop)
	}
	if *flagMemProfile != "" {
		file := *flagMemProfile
		stops = append(stops, func() error { return writeHeapProfile(file) })
	}
	return func() {
		for _, stop := range stops {
			if err := stop(); err != nil {
				Fail(err)
			}
		}
	}
}

func startCPUProfile(file string) (func() error, error) {
	f, err := os.Create(file)
	if err != nil {
		return nil, fmt.Errorf("failed to create cpuprofile file: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to start cpu profile: %w", err)
	}
	return func() error {
		pprof.StopCPUProfile()
		return f.Close()
	}, nil
}

func writeHeapProfile(file string) error {
	f, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("failed to create memprofile file: %w", err)
	}
	defer f.Close()
	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return fmt.Errorf("failed to write mem profile: %w", err)
	}
	return nil
}

func Failf(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, msg+"\n", args...)
	os.Exit(1)
}

func Fail(err error) {
	Failf("%v", err)
}
