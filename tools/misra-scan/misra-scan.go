// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// misra-scan checks C sources against the rule catalog.
//
// Usage:
//
//	misra-scan [flags] files... or dirs...
//
// The exit status is 0 if all files were scanned, 1 if some input could not be
// read or decoded (or on usage errors), and 2 if the report differs from -baseline.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/misrascan/misrascan/pkg/cscan"
	"github.com/misrascan/misrascan/pkg/log"
	"github.com/misrascan/misrascan/pkg/osutil"
	"github.com/misrascan/misrascan/pkg/scanconfig"
	"github.com/misrascan/misrascan/pkg/stat"
	"github.com/misrascan/misrascan/pkg/tool"
)

var (
	flagConfig   = flag.String("config", "", "config file (JSON, or YAML if the name ends with .yaml/.yml)")
	flagFormat   = flag.String("format", "text", "output format: text or json")
	flagProcs    = flag.Int("procs", 0, "number of files scanned in parallel (overrides config)")
	flagPrecise  = flag.Bool("precise", false, "use token matchers so that comments and strings don't trigger rules")
	flagWarnings = flag.Bool("warnings", false, "print match positions, rule descriptions and lexical warnings")
	flagBaseline = flag.String("baseline", "", "compare the text report with this file (the file is created if missing)")
	flagMetrics  = flag.String("metrics", "", "write Prometheus metrics to this file")
	flagStats    = flag.Bool("stats", false, "print scan statistics")
	flagEnable   tool.ListFlag
	flagDisable  tool.ListFlag
)

func main() {
	flag.Var(&flagEnable, "enable", "comma-separated list of rules to check (all by default)")
	flag.Var(&flagDisable, "disable", "comma-separated list of rules to skip")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: misra-scan [flags] files... or dirs...\n")
		flag.PrintDefaults()
	}
	stop := tool.Init()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}
	if *flagFormat != "text" && *flagFormat != "json" {
		tool.Failf("unknown -format %q", *flagFormat)
	}
	code := scan(loadConfig())
	stop()
	os.Exit(code)
}

func loadConfig() *scanconfig.Config {
	cfg := scanconfig.Default()
	if *flagConfig != "" {
		var err error
		if cfg, err = scanconfig.LoadFile(*flagConfig); err != nil {
			tool.Fail(err)
		}
	}
	if *flagProcs > 0 {
		cfg.Procs = *flagProcs
	}
	if *flagPrecise {
		cfg.Precise = true
	}
	if len(flagEnable) != 0 {
		cfg.Enable = flagEnable
	}
	cfg.Disable = append(cfg.Disable, flagDisable...)
	if err := scanconfig.Complete(cfg); err != nil {
		tool.Fail(err)
	}
	return cfg
}

func scan(cfg *scanconfig.Config) int {
	eng, err := cfg.Engine()
	if err != nil {
		tool.Fail(err)
	}
	files, err := cscan.Collect(flag.Args(), cfg.Extensions)
	if err != nil {
		tool.Fail(err)
	}
	log.Logf(1, "scanning %v files with %v rules", len(files), cfg.Catalog.Len())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	osutil.HandleInterrupts(cancel)
	results, err := cscan.Run(ctx, eng, files, cfg.Procs)
	if err != nil {
		tool.Fail(err)
	}
	switch *flagFormat {
	case "json":
		var rules []string
		for _, rule := range cfg.Catalog.Rules() {
			rules = append(rules, rule.ID)
		}
		err = cscan.NewReport(results, rules, cfg.Precise).WriteJSON(os.Stdout)
	default:
		err = cscan.WriteText(os.Stdout, results, *flagWarnings)
	}
	if err != nil {
		tool.Fail(err)
	}
	if *flagMetrics != "" {
		if err := stat.WriteTextfile(*flagMetrics); err != nil {
			tool.Failf("failed to write metrics: %v", err)
		}
	}
	if *flagStats {
		printStats(cfg, results)
	}
	code := 0
	if *flagBaseline != "" && !checkBaseline(*flagBaseline, results) {
		code = 2
	}
	if cscan.InputFailed(results) {
		code = 1
	}
	return code
}

func checkBaseline(file string, results []*cscan.FileResult) bool {
	report := new(bytes.Buffer)
	if err := cscan.WriteText(report, results, false); err != nil {
		tool.Fail(err)
	}
	if !osutil.IsExist(file) {
		if err := osutil.WriteFile(file, report.Bytes()); err != nil {
			tool.Failf("failed to write baseline: %v", err)
		}
		log.Logf(0, "saved baseline to %v", file)
		return true
	}
	data, err := os.ReadFile(file)
	if err != nil {
		tool.Failf("failed to read baseline: %v", err)
	}
	diff := cscan.DiffText(string(data), report.String())
	if diff == "" {
		return true
	}
	fmt.Fprintf(os.Stderr, "report differs from baseline %v:\n%v", file, diff)
	return false
}

func printStats(cfg *scanconfig.Config, results []*cscan.FileResult) {
	sum := cscan.Summarize(results)
	log.Logf(0, "files: %v, violations: %v, warnings: %v, failed: %v",
		sum.Files, sum.Violations, sum.Warnings, sum.Failed)
	for _, st := range stat.Collect() {
		log.Logf(0, "%-20v %v", st.Name+":", st.Value)
	}
	for _, rule := range cfg.Catalog.Rules() {
		if n := sum.Rules[rule.ID]; n != 0 {
			log.Logf(1, "%v: %v files", rule.ID, n)
		}
	}
}
