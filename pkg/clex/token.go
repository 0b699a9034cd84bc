// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package clex

import (
	"fmt"
	"sort"
)

// Kind is the lexical category of a token.
// The set of kinds is closed; names returned by String are stable.
type Kind int

const (
	TokIllegal Kind = iota
	TokNumber
	TokIdent
	TokKeyword
	TokString
	TokChar
	TokPreproc

	// Multi-character operators.
	TokEq        // ==
	TokNe        // !=
	TokLe        // <=
	TokGe        // >=
	TokAndAnd    // &&
	TokOrOr      // ||
	TokInc       // ++
	TokDec       // --
	TokAddAssign // +=
	TokSubAssign // -=
	TokMulAssign // *=
	TokDivAssign // /=
	TokArrow     // ->
	TokShl       // <<
	TokShr       // >>

	// Single-character operators and punctuators.
	TokPlus
	TokMinus
	TokStar
	TokSlash
	TokPercent
	TokAssign
	TokLt
	TokGt
	TokNot
	TokAmp
	TokPipe
	TokCaret
	TokTilde
	TokDot
	TokColon
	TokSemicolon
	TokComma
	TokLParen
	TokRParen
	TokLBrace
	TokRBrace
	TokLBrack
	TokRBrack

	TokEOF
)

var punctuation = [256]Kind{
	'+': TokPlus,
	'-': TokMinus,
	'*': TokStar,
	'/': TokSlash,
	'%': TokPercent,
	'=': TokAssign,
	'<': TokLt,
	'>': TokGt,
	'!': TokNot,
	'&': TokAmp,
	'|': TokPipe,
	'^': TokCaret,
	'~': TokTilde,
	'.': TokDot,
	':': TokColon,
	';': TokSemicolon,
	',': TokComma,
	'(': TokLParen,
	')': TokRParen,
	'{': TokLBrace,
	'}': TokRBrace,
	'[': TokLBrack,
	']': TokRBrack,
}

// operators holds all operators longer than one character.
// The scanner consults it before punctuation, so "==" is never split into two "=".
var operators = map[string]Kind{
	"==": TokEq,
	"!=": TokNe,
	"<=": TokLe,
	">=": TokGe,
	"&&": TokAndAnd,
	"||": TokOrOr,
	"++": TokInc,
	"--": TokDec,
	"+=": TokAddAssign,
	"-=": TokSubAssign,
	"*=": TokMulAssign,
	"/=": TokDivAssign,
	"->": TokArrow,
	"<<": TokShl,
	">>": TokShr,
}

var tok2str = [...]string{
	TokIllegal: "ILLEGAL",
	TokNumber:  "number",
	TokIdent:   "identifier",
	TokKeyword: "keyword",
	TokString:  "string",
	TokChar:    "char",
	TokPreproc: "preprocessor",
	TokEOF:     "EOF",
}

func init() {
	for ch, tok := range punctuation {
		if tok == TokIllegal {
			continue
		}
		tok2str[tok] = fmt.Sprintf("%q", string(rune(ch)))
	}
	for op, tok := range operators {
		tok2str[tok] = fmt.Sprintf("%q", op)
	}
}

func (tok Kind) String() string {
	if tok < 0 || int(tok) >= len(tok2str) {
		return fmt.Sprintf("Kind(%d)", int(tok))
	}
	return tok2str[tok]
}

// IsOperator says if the kind is an operator or punctuator.
func (tok Kind) IsOperator() bool {
	return tok >= TokEq && tok <= TokRBrack
}

// Kinds returns all kinds a scanner can emit, in declaration order.
func Kinds() []Kind {
	var res []Kind
	for k := TokNumber; k <= TokEOF; k++ {
		res = append(res, k)
	}
	return res
}

// Pos describes a position in a source buffer.
// Line is 1-based, Col is the 0-based byte offset within the line.
type Pos struct {
	File string
	Off  int
	Line int
	Col  int
}

func (pos Pos) String() string {
	// Printed 1-based, the way compilers print columns.
	return fmt.Sprintf("%v:%v:%v", pos.File, pos.Line, pos.Col+1)
}

// Token is a single lexical unit.
// Lit is the exact source text; Val is the decoded value of number literals.
type Token struct {
	Kind Kind
	Lit  string
	Val  uint64
	Pos  Pos
}

// End returns the offset right after the token.
func (tok Token) End() int {
	return tok.Pos.Off + len(tok.Lit)
}

// Is says if the token has the given kind and, for identifiers,
// keywords and literals, the given text.
func (tok Token) Is(kind Kind, lit string) bool {
	return tok.Kind == kind && tok.Lit == lit
}

func (tok Token) String() string {
	if tok.Kind.IsOperator() || tok.Kind == TokEOF {
		return tok.Kind.String()
	}
	return fmt.Sprintf("%v %q", tok.Kind, tok.Lit)
}

// Keywords is an immutable set of reserved words.
type Keywords struct {
	set map[string]bool
}

var cKeywords = []string{
	"auto", "break", "case", "char", "const", "continue", "default", "do",
	"double", "else", "enum", "extern", "float", "for", "goto", "if",
	"inline", "int", "long", "register", "restrict", "return", "short",
	"signed", "sizeof", "static", "struct", "switch", "typedef", "union",
	"unsigned", "void", "volatile", "while",
	"_Alignas", "_Alignof", "_Atomic", "_Bool", "_Complex", "_Generic",
	"_Imaginary", "_Noreturn", "_Static_assert", "_Thread_local",
}

// DefaultKeywords is the C11 keyword set.
var DefaultKeywords = NewKeywords()

// NewKeywords returns the C11 keyword set extended with extra words.
func NewKeywords(extra ...string) *Keywords {
	kw := &Keywords{set: make(map[string]bool)}
	for _, w := range cKeywords {
		kw.set[w] = true
	}
	for _, w := range extra {
		kw.set[w] = true
	}
	return kw
}

func (kw *Keywords) Contains(word string) bool {
	return kw.set[word]
}

// List returns the sorted keywords.
func (kw *Keywords) List() []string {
	var res []string
	for w := range kw.set {
		res = append(res, w)
	}
	sort.Strings(res)
	return res
}
