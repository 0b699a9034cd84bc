// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package misra

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// Rule is a single catalog entry.
// Every rule has a text pattern; some also have a token matcher,
// which is used instead of the pattern in precise mode.
type Rule struct {
	ID      string
	Desc    string
	Pattern string

	re    *regexp2.Regexp
	match TokenMatcher
}

// TokenMatcher returns index of the first token that violates the rule, or -1.
type TokenMatcher func(ts *TokenStream) int

// RuleDef describes a user-supplied text-pattern rule.
type RuleDef struct {
	ID      string `json:"id" yaml:"id"`
	Desc    string `json:"desc" yaml:"desc"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

func (rule *Rule) HasTokenMatcher() bool {
	return rule.match != nil
}

func (rule *Rule) String() string {
	return rule.ID
}

// RuleError says that a rule pattern failed to compile or to evaluate.
type RuleError struct {
	ID      string
	Pattern string
	Err     error
}

func (err *RuleError) Error() string {
	return fmt.Sprintf("%v: bad pattern %q: %v", err.ID, err.Pattern, err.Err)
}

func (err *RuleError) Unwrap() error {
	return err.Err
}

// InputError says that a compilation unit could not be read or decoded.
type InputError struct {
	File string
	Err  error
}

func (err *InputError) Error() string {
	return fmt.Sprintf("%v: %v", err.File, err.Err)
}

func (err *InputError) Unwrap() error {
	return err.Err
}

var placeholders = strings.NewReplacer(
	"{{IDENT}}", `[A-Za-z_]\w*`,
	"{{FOR}}", `\bfor\s*\([^;]*;[^;]*;[^)]*\)`,
	"{{COND}}", `\s*\(`,
)

func compile(id, pattern string, timeout time.Duration) (*regexp2.Regexp, error) {
	re, err := regexp2.Compile(placeholders.Replace(pattern), regexp2.None)
	if err != nil {
		return nil, &RuleError{ID: id, Pattern: pattern, Err: err}
	}
	if timeout > 0 {
		re.MatchTimeout = timeout
	}
	return re, nil
}

// NormalizeID turns the short form "15.1" into "Rule 15.1".
func NormalizeID(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.HasPrefix(id, "Rule ") {
		return id
	}
	return "Rule " + id
}
