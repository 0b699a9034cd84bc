// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package misra

import (
	"github.com/misrascan/misrascan/pkg/clex"
)

// TokenStream is the input of token matchers: the tokens of one compilation
// unit plus tables computed in a single pass, so that every matcher runs in
// linear time regardless of how the brackets nest or fail to balance.
type TokenStream struct {
	Toks []clex.Token

	// closer[i] is the index of the bracket that closes toks[i], or -1 if
	// toks[i] is not an opening bracket or is not properly closed.
	closer []int
	// semicolons[i] is the number of semicolons whose innermost enclosing
	// bracket is toks[i].
	semicolons []int
	// Number of && and break tokens in toks[:i].
	andAnds []int
	breaks  []int
	// nextSemicolon[i] is the index of the first semicolon in toks[i:], or len(toks).
	nextSemicolon []int
}

func NewTokenStream(toks []clex.Token) *TokenStream {
	n := len(toks)
	ts := &TokenStream{
		Toks:          toks,
		closer:        make([]int, n),
		semicolons:    make([]int, n),
		andAnds:       make([]int, n+1),
		breaks:        make([]int, n+1),
		nextSemicolon: make([]int, n+1),
	}
	var stack []int
	// A closer that does not match the innermost opener breaks all open brackets.
	reset := func() {
		for _, open := range stack {
			ts.closer[open] = -1
		}
		stack = stack[:0]
	}
	for i, tok := range toks {
		ts.closer[i] = -1
		ts.andAnds[i+1] = ts.andAnds[i]
		ts.breaks[i+1] = ts.breaks[i]
		switch tok.Kind {
		case clex.TokLParen, clex.TokLBrack, clex.TokLBrace:
			stack = append(stack, i)
		case clex.TokRParen, clex.TokRBrack, clex.TokRBrace:
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			if closerOf[toks[open].Kind] != tok.Kind {
				reset()
				continue
			}
			ts.closer[open] = i
			stack = stack[:len(stack)-1]
		case clex.TokSemicolon:
			if len(stack) != 0 {
				ts.semicolons[stack[len(stack)-1]]++
			}
		case clex.TokAndAnd:
			ts.andAnds[i+1]++
		case clex.TokKeyword:
			if tok.Lit == "break" {
				ts.breaks[i+1]++
			}
		}
	}
	reset()
	ts.nextSemicolon[n] = n
	for i := n - 1; i >= 0; i-- {
		ts.nextSemicolon[i] = ts.nextSemicolon[i+1]
		if toks[i].Kind == clex.TokSemicolon {
			ts.nextSemicolon[i] = i
		}
	}
	return ts
}

var closerOf = map[clex.Kind]clex.Kind{
	clex.TokLParen: clex.TokRParen,
	clex.TokLBrack: clex.TokRBrack,
	clex.TokLBrace: clex.TokRBrace,
}

// closing returns index of the bracket that closes toks[open], or -1.
func (ts *TokenStream) closing(open int) int {
	return ts.closer[open]
}

// count returns the number of tokens in toks[start:end] counted by prefix.
func count(prefix []int, start, end int) int {
	return prefix[end] - prefix[start]
}
