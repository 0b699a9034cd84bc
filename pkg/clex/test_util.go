// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package clex

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"testing"
)

// ExpectedError is a lexical error annotation from a test file.
// Col is 1-based, 0 accepts any column.
type ExpectedError struct {
	Line int
	Col  int
	Msg  string
}

func (want *ExpectedError) matches(err *Error) bool {
	return want.Line == err.Pos.Line && want.Msg == err.Msg &&
		(want.Col == 0 || want.Col == err.Pos.Col+1)
}

var annotationRe = regexp.MustCompile(`[ \t]*###[ \t]*(?:col ([0-9]+):[ \t]*)?(.*?)[ \t]*$`)

// LoadAnnotated reads a C test file where a line may end with an expected error:
//
//	x = 1 @ 2;	### col 7: illegal character U+0040 '@'
//	s = "abc;	### string literal is not terminated
//
// It returns the file contents with annotations removed.
func LoadAnnotated(t *testing.T, file string) ([]byte, []*ExpectedError) {
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read input file: %v", err)
	}
	var want []*ExpectedError
	lines := bytes.Split(data, []byte("\n"))
	for i, ln := range lines {
		m := annotationRe.FindSubmatchIndex(ln)
		if m == nil {
			continue
		}
		exp := &ExpectedError{Line: i + 1, Msg: string(ln[m[4]:m[5]])}
		if m[2] != -1 {
			exp.Col, _ = strconv.Atoi(string(ln[m[2]:m[3]]))
		}
		want = append(want, exp)
		lines[i] = ln[:m[0]]
	}
	return bytes.Join(lines, []byte("\n")), want
}

// CheckErrors matches errors reported by Tokenize against annotations.
// Every error must match exactly one annotation and vice versa.
func CheckErrors(t *testing.T, file string, want []*ExpectedError, got []*Error) {
	matched := make([]bool, len(want))
nextErr:
	for _, err := range got {
		for i, exp := range want {
			if !matched[i] && exp.matches(err) {
				matched[i] = true
				continue nextErr
			}
		}
		t.Errorf("unexpected error: %v", err)
	}
	for i, exp := range want {
		if !matched[i] {
			t.Errorf("unmatched error: %v", formatExpected(file, exp))
		}
	}
}

func formatExpected(file string, exp *ExpectedError) string {
	if exp.Col == 0 {
		return fmt.Sprintf("%v:%v: %v", file, exp.Line, exp.Msg)
	}
	return fmt.Sprintf("%v:%v:%v: %v", file, exp.Line, exp.Col, exp.Msg)
}
