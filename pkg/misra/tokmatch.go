// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package misra

import (
	"regexp"
	"strings"

	"github.com/misrascan/misrascan/pkg/clex"
)

// Token matchers see comment-free input where string contents are opaque,
// so they don't fire on text that merely looks like code.

var (
	basicTypes = map[string]bool{
		"void": true, "char": true, "short": true, "long": true,
		"float": true, "double": true, "int": true,
	}
	declSpecifiers = map[string]bool{
		"auto": true, "register": true, "static": true, "extern": true,
		"const": true, "volatile": true, "restrict": true, "inline": true,
		"signed": true, "unsigned": true, "_Bool": true, "_Complex": true,
		"_Atomic": true, "_Thread_local": true,
		"struct": true, "union": true, "enum": true,
	}
	complexOperators = map[clex.Kind]bool{
		clex.TokAddAssign: true, clex.TokSubAssign: true,
		clex.TokMulAssign: true, clex.TokDivAssign: true,
		clex.TokEq: true, clex.TokNe: true, clex.TokLe: true, clex.TokGe: true,
		clex.TokAndAnd: true, clex.TokOrOr: true,
	}
	arithmeticOperators = map[clex.Kind]bool{
		clex.TokPlus: true, clex.TokMinus: true, clex.TokStar: true,
		clex.TokSlash: true, clex.TokPercent: true, clex.TokInc: true, clex.TokDec: true,
	}
	functionMacroRe = regexp.MustCompile(`^#\s*define\s+\w+\(`)
)

func keyword(words ...string) TokenMatcher {
	set := make(map[string]bool)
	for _, w := range words {
		set[w] = true
	}
	return func(ts *TokenStream) int {
		toks := ts.Toks
		for i, tok := range toks {
			if tok.Kind == clex.TokKeyword && set[tok.Lit] {
				return i
			}
		}
		return -1
	}
}

// call matches an identifier immediately followed by an opening parenthesis.
func call(names ...string) TokenMatcher {
	set := make(map[string]bool)
	for _, name := range names {
		set[name] = true
	}
	return func(ts *TokenStream) int {
		toks := ts.Toks
		for i := 0; i+1 < len(toks); i++ {
			if toks[i].Kind == clex.TokIdent && set[toks[i].Lit] && toks[i+1].Kind == clex.TokLParen {
				return i
			}
		}
		return -1
	}
}

func identContains(word string) TokenMatcher {
	return func(ts *TokenStream) int {
		toks := ts.Toks
		for i, tok := range toks {
			if tok.Kind == clex.TokIdent && strings.Contains(tok.Lit, word) {
				return i
			}
		}
		return -1
	}
}

func longIdent(minLen int) TokenMatcher {
	return func(ts *TokenStream) int {
		toks := ts.Toks
		for i, tok := range toks {
			if (tok.Kind == clex.TokIdent || tok.Kind == clex.TokKeyword) && len(tok.Lit) >= minLen {
				return i
			}
		}
		return -1
	}
}

func octalConstant(ts *TokenStream) int {
	toks := ts.Toks
	for i, tok := range toks {
		if tok.Kind != clex.TokNumber || len(tok.Lit) < 2 || tok.Lit[0] != '0' {
			continue
		}
		if strings.Trim(tok.Lit, "01234567") != "" {
			continue
		}
		// Fraction digits of a floating constant (1.0755) and suffixed
		// constants (0755u) are not plain octal constants.
		if i > 0 && toks[i-1].Kind == clex.TokDot && adjacent(toks[i-1], tok) {
			continue
		}
		if i+1 < len(toks) && adjacent(tok, toks[i+1]) && isWord(toks[i+1]) {
			continue
		}
		return i
	}
	return -1
}

func functionDefinition(ts *TokenStream) int {
	toks := ts.Toks
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Kind != clex.TokIdent || toks[i+1].Kind != clex.TokLParen {
			continue
		}
		end := ts.closing(i + 1)
		if end != -1 && end+1 < len(toks) && toks[end+1].Kind == clex.TokLBrace {
			return i
		}
	}
	return -1
}

func externInitializer(ts *TokenStream) int {
	toks := ts.Toks
	for i := 0; i < len(toks); i++ {
		if !toks[i].Is(clex.TokKeyword, "extern") {
			continue
		}
		j := i + 1
		for ; j < len(toks); j++ {
			kind := toks[j].Kind
			if kind == clex.TokSemicolon || kind == clex.TokLBrace {
				break
			}
			if kind == clex.TokAssign {
				return i
			}
		}
		// Later externs up to j share the same declaration end.
		i = j
	}
	return -1
}

// uninitializedDecl matches "type name;" at the start of a declaration.
func uninitializedDecl(ts *TokenStream) int {
	toks := ts.Toks
	for i := 0; i+2 < len(toks); i++ {
		typ, name := toks[i], toks[i+1]
		if !(typ.Kind == clex.TokIdent || typ.Kind == clex.TokKeyword && (basicTypes[typ.Lit] || declSpecifiers[typ.Lit])) {
			continue
		}
		if isTagKeyword(typ) {
			// Forward declaration "struct point;".
			continue
		}
		if name.Kind != clex.TokIdent || toks[i+2].Kind != clex.TokSemicolon {
			continue
		}
		if !declarationStart(toks, i) {
			continue
		}
		return i
	}
	return -1
}

// declarationStart walks back over declaration specifiers preceding toks[i]
// and says if they begin a statement. Typedefs are not variables.
func declarationStart(toks []clex.Token, i int) bool {
	for j := i - 1; j >= 0; j-- {
		tok := toks[j]
		switch {
		case tok.Kind == clex.TokKeyword && (basicTypes[tok.Lit] || declSpecifiers[tok.Lit]):
			continue
		case tok.Is(clex.TokKeyword, "typedef"):
			return false
		case tok.Kind == clex.TokIdent && j > 0 && isTagKeyword(toks[j-1]):
			// Tag name in "struct point p;".
			continue
		}
		return isStatementBoundary(tok)
	}
	return true
}

func isTagKeyword(tok clex.Token) bool {
	return tok.Kind == clex.TokKeyword && (tok.Lit == "struct" || tok.Lit == "union" || tok.Lit == "enum")
}

func isStatementBoundary(tok clex.Token) bool {
	switch tok.Kind {
	case clex.TokSemicolon, clex.TokLBrace, clex.TokRBrace, clex.TokPreproc:
		return true
	}
	return false
}

func complexOperator(ts *TokenStream) int {
	toks := ts.Toks
	for i, tok := range toks {
		if complexOperators[tok.Kind] {
			return i
		}
		if i+1 >= len(toks) || !adjacent(tok, toks[i+1]) {
			continue
		}
		next := toks[i+1].Kind
		// "%=" is not a single token; "=-" style is an operand sign glued to "=".
		if tok.Kind == clex.TokPercent && next == clex.TokAssign ||
			tok.Kind == clex.TokAssign && arithmeticOperators[next] {
			return i
		}
	}
	return -1
}

func pointerCast(ts *TokenStream) int {
	toks := ts.Toks
	for i := 0; i+3 < len(toks); i++ {
		if toks[i].Kind == clex.TokLParen &&
			toks[i+1].Kind == clex.TokKeyword && basicTypes[toks[i+1].Lit] &&
			toks[i+2].Kind == clex.TokStar &&
			toks[i+3].Kind == clex.TokRParen {
			return i
		}
	}
	return -1
}

func isLoopOrIf(tok clex.Token) bool {
	return tok.Kind == clex.TokKeyword && (tok.Lit == "if" || tok.Lit == "while" || tok.Lit == "for")
}

// controlCondition matches if/while/for followed by a parenthesized condition,
// optionally requiring a && inside of it.
func controlCondition(needAnd bool) TokenMatcher {
	return func(ts *TokenStream) int {
		toks := ts.Toks
		for i := 0; i+1 < len(toks); i++ {
			if !isLoopOrIf(toks[i]) || toks[i+1].Kind != clex.TokLParen {
				continue
			}
			if !needAnd {
				return i
			}
			end := ts.closing(i + 1)
			if end == -1 {
				end = len(toks)
			}
			if count(ts.andAnds, i+2, end) != 0 {
				return i
			}
		}
		return -1
	}
}

func functionLikeMacro(ts *TokenStream) int {
	toks := ts.Toks
	for i, tok := range toks {
		if tok.Kind == clex.TokPreproc && functionMacroRe.MatchString(tok.Lit) {
			return i
		}
	}
	return -1
}

// forLoop returns the index of the closing parenthesis of a for header
// with three clauses that starts at toks[i], or -1.
func forLoop(ts *TokenStream, i int) int {
	toks := ts.Toks
	if !toks[i].Is(clex.TokKeyword, "for") || i+1 >= len(toks) || toks[i+1].Kind != clex.TokLParen {
		return -1
	}
	end := ts.closing(i + 1)
	if end == -1 || ts.semicolons[i+1] != 2 {
		return -1
	}
	return end
}

func forHeader(ts *TokenStream) int {
	toks := ts.Toks
	for i := range toks {
		if forLoop(ts, i) != -1 {
			return i
		}
	}
	return -1
}

func breakInFor(ts *TokenStream) int {
	toks := ts.Toks
	for i := range toks {
		header := forLoop(ts, i)
		if header == -1 || header+1 >= len(toks) {
			continue
		}
		body, end := header+1, len(toks)
		if toks[body].Kind == clex.TokLBrace {
			if c := ts.closing(body); c != -1 {
				end = c
			}
		} else {
			end = ts.nextSemicolon[body]
		}
		if count(ts.breaks, body, end) != 0 {
			return i
		}
	}
	return -1
}

func pointerArithmetic(ts *TokenStream) int {
	toks := ts.Toks
	for i := 1; i+1 < len(toks); i++ {
		if toks[i].Kind != clex.TokStar || !isWord(toks[i-1]) || !adjacent(toks[i-1], toks[i]) {
			continue
		}
		switch toks[i+1].Kind {
		case clex.TokInc, clex.TokDec, clex.TokPlus, clex.TokMinus, clex.TokStar:
			return i
		}
	}
	return -1
}

// bareAmpersand matches a single & that is not glued to a word, e.g. "a & b".
func bareAmpersand(ts *TokenStream) int {
	toks := ts.Toks
	for i, tok := range toks {
		if tok.Kind != clex.TokAmp {
			continue
		}
		if i+1 < len(toks) && adjacent(tok, toks[i+1]) && isWord(toks[i+1]) {
			continue
		}
		return i
	}
	return -1
}

func elseIf(ts *TokenStream) int {
	toks := ts.Toks
	for i := 0; i+1 < len(toks); i++ {
		if toks[i].Is(clex.TokKeyword, "else") && toks[i+1].Is(clex.TokKeyword, "if") {
			return i
		}
	}
	return -1
}

func voidPointer(ts *TokenStream) int {
	toks := ts.Toks
	for i := 0; i+2 < len(toks); i++ {
		if toks[i].Is(clex.TokKeyword, "void") && toks[i+1].Kind == clex.TokStar &&
			adjacent(toks[i+1], toks[i+2]) && isWord(toks[i+2]) {
			return i
		}
	}
	return -1
}

func adjacent(a, b clex.Token) bool {
	return a.End() == b.Pos.Off
}

func isWord(tok clex.Token) bool {
	return tok.Kind == clex.TokIdent || tok.Kind == clex.TokKeyword || tok.Kind == clex.TokNumber
}
