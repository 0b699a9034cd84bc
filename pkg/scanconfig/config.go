// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package scanconfig

import (
	"time"

	"github.com/misrascan/misrascan/pkg/misra"
)

type Config struct {
	// File name extensions that are scanned when a directory is given
	// (".c" and ".h" by default).
	Extensions []string `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	// Number of files scanned in parallel (number of CPUs by default).
	Procs int `json:"procs,omitempty" yaml:"procs,omitempty"`
	// Use token matchers where a rule has one,
	// so that comments and string literals do not trigger rules.
	Precise bool `json:"precise,omitempty" yaml:"precise,omitempty"`
	// Bound on a single rule pattern evaluation, e.g. "5s" (optional).
	// A file whose scan hits the bound is reported as failed.
	MatchTimeout string `json:"match_timeout,omitempty" yaml:"match_timeout,omitempty"`
	// Rules to check, e.g. ["15.1", "Rule 17.2"] (all rules if empty).
	Enable []string `json:"enable,omitempty" yaml:"enable,omitempty"`
	// Rules to skip. Applied after enable.
	Disable []string `json:"disable,omitempty" yaml:"disable,omitempty"`
	// Additional identifiers treated as keywords by the tokenizer
	// (e.g. compiler extensions like "__attribute__").
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
	// Custom text-pattern rules appended after the built-in catalog.
	Rules []misra.RuleDef `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Implementation details beyond this point. Filled after parsing.
	Catalog      *misra.Catalog `json:"-" yaml:"-"`
	matchTimeout time.Duration
}
