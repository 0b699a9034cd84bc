// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package misra

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/misrascan/misrascan/pkg/clex"
)

type Options struct {
	// Precise makes rules that have a token matcher use it instead of the text pattern.
	Precise bool
	// MatchTimeout bounds a single pattern evaluation, 0 means no limit.
	MatchTimeout time.Duration
	// Keywords used by the tokenizer, DefaultKeywords if nil.
	Keywords *clex.Keywords
}

// Engine evaluates a catalog against compilation units.
// It holds no mutable state and can be used from multiple goroutines.
type Engine struct {
	catalog *Catalog
	opts    Options
}

var errNotText = errors.New("input is not valid UTF-8 text")

func NewEngine(cat *Catalog, opts Options) (*Engine, error) {
	if cat == nil {
		cat = DefaultCatalog()
	}
	if opts.Keywords == nil {
		opts.Keywords = clex.DefaultKeywords
	}
	if opts.MatchTimeout > 0 {
		var err error
		if cat, err = cat.withTimeout(opts.MatchTimeout); err != nil {
			return nil, err
		}
	}
	return &Engine{
		catalog: cat,
		opts:    opts,
	}, nil
}

func (eng *Engine) Catalog() *Catalog {
	return eng.catalog
}

// Scan evaluates all rules against data, which is the whole text of one
// compilation unit called name. Lexical errors don't fail the scan,
// they are returned as Result.Warnings.
func (eng *Engine) Scan(name string, data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, &InputError{File: name, Err: errNotText}
	}
	res := &Result{Name: name}
	eh := func(pos clex.Pos, msg string) {
		res.Warnings = append(res.Warnings, &clex.Error{Pos: pos, Msg: msg})
	}
	var toks []clex.Token
	s := clex.NewScannerKeywords(data, name, eh, eng.opts.Keywords)
	for tok := s.Scan(); tok.Kind != clex.TokEOF; tok = s.Scan() {
		toks = append(toks, tok)
	}
	var ts *TokenStream
	if eng.opts.Precise {
		ts = NewTokenStream(toks)
	}
	text := string(data)
	for _, rule := range eng.catalog.rules {
		var v *Violation
		if ts != nil && rule.match != nil {
			if idx := rule.match(ts); idx != -1 {
				v = &Violation{Rule: rule, Pos: toks[idx].Pos, Match: toks[idx].Lit}
			}
		} else {
			m, err := rule.re.FindStringMatch(text)
			if err != nil {
				return nil, &RuleError{ID: rule.ID, Pattern: rule.Pattern, Err: err}
			}
			if m != nil {
				v = &Violation{Rule: rule, Pos: textPos(name, text, m.Index), Match: m.String()}
			}
		}
		if v != nil {
			res.Violations = append(res.Violations, v)
		}
	}
	return res, nil
}

// textPos converts a rune index in text into a position.
func textPos(name, text string, runeIdx int) clex.Pos {
	off := len(text)
	n := 0
	for i := range text {
		if n == runeIdx {
			off = i
			break
		}
		n++
	}
	lineStart := strings.LastIndexByte(text[:off], '\n') + 1
	return clex.Pos{
		File: name,
		Off:  off,
		Line: strings.Count(text[:off], "\n") + 1,
		Col:  off - lineStart,
	}
}
