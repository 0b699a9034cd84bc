// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// misra-rules prints the rule catalog, optionally extended and filtered by a config.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/misrascan/misrascan/pkg/log"
	"github.com/misrascan/misrascan/pkg/scanconfig"
	"github.com/misrascan/misrascan/pkg/tool"
)

var (
	flagConfig   = flag.String("config", "", "config file with custom rules and rule selection")
	flagPatterns = flag.Bool("patterns", false, "print text patterns")
)

func main() {
	defer tool.Init()()
	cfg := scanconfig.Default()
	if *flagConfig != "" {
		var err error
		if cfg, err = scanconfig.LoadFile(*flagConfig); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	for _, rule := range cfg.Catalog.Rules() {
		kind := "text"
		if rule.HasTokenMatcher() {
			kind = "text+token"
		}
		fmt.Fprintf(w, "%v\t%v\t%v", rule.ID, kind, rule.Desc)
		if *flagPatterns {
			fmt.Fprintf(w, "\t%v", rule.Pattern)
		}
		fmt.Fprintf(w, "\n")
	}
	if err := w.Flush(); err != nil {
		tool.Fail(err)
	}
}
