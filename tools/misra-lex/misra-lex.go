// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// misra-lex dumps the token stream of C files, one token per line:
//
//	file:line:col	kind	literal
//
// Lexical errors are printed to stderr.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/misrascan/misrascan/pkg/clex"
	"github.com/misrascan/misrascan/pkg/log"
	"github.com/misrascan/misrascan/pkg/tool"
)

var (
	flagListKeywords = flag.Bool("list-keywords", false, "print the keyword set and exit")
	flagKeywords     tool.ListFlag
)

func main() {
	flag.Var(&flagKeywords, "keywords", "comma-separated list of additional keywords")
	defer tool.Init()()
	keywords := clex.NewKeywords(flagKeywords...)
	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()
	if *flagListKeywords {
		for _, kw := range keywords.List() {
			fmt.Fprintf(out, "%v\n", kw)
		}
		return
	}
	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: misra-lex [-keywords=kw1,kw2] [-list-keywords] files...\n")
		os.Exit(1)
	}
	failed := false
	for _, file := range flag.Args() {
		data, err := os.ReadFile(file)
		if err != nil {
			log.Errorf("failed to read file %v: %v", file, err)
			failed = true
			continue
		}
		s := clex.NewScannerKeywords(data, file, clex.LoggingHandler, keywords)
		for tok := s.Scan(); tok.Kind != clex.TokEOF; tok = s.Scan() {
			fmt.Fprintf(out, "%v\t%v\t%s\n", tok.Pos, tok.Kind, tok.Lit)
		}
		if !s.Ok() {
			failed = true
		}
	}
	if failed {
		out.Flush()
		os.Exit(1)
	}
}
