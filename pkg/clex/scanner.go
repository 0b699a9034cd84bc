// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package clex splits C source text into tokens.
// Comments and whitespace are skipped, preprocessor lines are returned verbatim
// and malformed input is reported to an ErrorHandler without stopping the scan.
package clex

import (
	"fmt"
	"iter"
	"os"
	"strconv"
	"unicode/utf8"
)

type ErrorHandler func(pos Pos, msg string)

func LoggingHandler(pos Pos, msg string) {
	fmt.Fprintf(os.Stderr, "%v: %v\n", pos, msg)
}

// Error is a recoverable lexical error.
type Error struct {
	Pos Pos
	Msg string
}

func (err *Error) Error() string {
	return fmt.Sprintf("%v: %v", err.Pos, err.Msg)
}

// Scanner holds the cursor over a single buffer.
type Scanner struct {
	data         []byte
	filename     string
	errorHandler ErrorHandler
	keywords     *Keywords

	ch      byte
	off     int
	line    int
	lineOff int

	errors int
}

func NewScanner(data []byte, filename string, errorHandler ErrorHandler) *Scanner {
	return NewScannerKeywords(data, filename, errorHandler, DefaultKeywords)
}

func NewScannerKeywords(data []byte, filename string, errorHandler ErrorHandler, keywords *Keywords) *Scanner {
	if errorHandler == nil {
		errorHandler = LoggingHandler
	}
	if keywords == nil {
		keywords = DefaultKeywords
	}
	s := &Scanner{
		data:         data,
		filename:     filename,
		errorHandler: errorHandler,
		keywords:     keywords,
		line:         1,
	}
	if len(data) != 0 {
		s.ch = data[0]
	}
	return s
}

// Tokens returns the token sequence of data. Each iteration starts from the
// beginning of the buffer, so the sequence can be consumed more than once.
func Tokens(data []byte, filename string, errorHandler ErrorHandler) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		s := NewScanner(data, filename, errorHandler)
		for tok := s.Scan(); tok.Kind != TokEOF; tok = s.Scan() {
			if !yield(tok) {
				return
			}
		}
	}
}

// Tokenize scans the whole buffer and returns all tokens and lexical errors.
func Tokenize(data []byte, filename string, keywords *Keywords) ([]Token, []*Error) {
	var errs []*Error
	eh := func(pos Pos, msg string) {
		errs = append(errs, &Error{Pos: pos, Msg: msg})
	}
	var toks []Token
	s := NewScannerKeywords(data, filename, eh, keywords)
	for tok := s.Scan(); tok.Kind != TokEOF; tok = s.Scan() {
		toks = append(toks, tok)
	}
	return toks, errs
}

// Scan returns the next token. Once the buffer is exhausted it returns TokEOF forever.
func (s *Scanner) Scan() Token {
	for {
		s.skipWhitespace()
		pos := s.pos()
		if s.eof() {
			return Token{Kind: TokEOF, Pos: pos}
		}
		switch {
		case s.ch == '/' && s.peek() == '/':
			for !s.eof() && s.ch != '\n' {
				s.next()
			}
		case s.ch == '/' && s.peek() == '*':
			s.skipBlockComment(pos)
		case s.ch == '#':
			end := s.scanPreproc()
			return Token{Kind: TokPreproc, Lit: string(s.data[pos.Off:end]), Pos: pos}
		case s.ch == '"':
			if s.scanQuoted(pos, '"', "string") {
				return s.token(TokString, pos)
			}
		case s.ch == '\'':
			if s.scanQuoted(pos, '\'', "char") {
				return s.token(TokChar, pos)
			}
		case s.ch >= '0' && s.ch <= '9':
			return s.scanNumber(pos)
		case s.ch == '_' || s.ch >= 'a' && s.ch <= 'z' || s.ch >= 'A' && s.ch <= 'Z':
			return s.scanIdent(pos)
		default:
			if s.off+2 <= len(s.data) {
				if tok, ok := operators[string(s.data[s.off:s.off+2])]; ok {
					s.next()
					s.next()
					return s.token(tok, pos)
				}
			}
			if tok := punctuation[s.ch]; tok != TokIllegal {
				s.next()
				return s.token(tok, pos)
			}
			s.skipIllegal(pos)
		}
	}
}

func (s *Scanner) token(kind Kind, pos Pos) Token {
	return Token{
		Kind: kind,
		Lit:  string(s.data[pos.Off:s.off]),
		Pos:  pos,
	}
}

func (s *Scanner) skipIllegal(pos Pos) {
	r, size := utf8.DecodeRune(s.data[s.off:])
	if r == utf8.RuneError && size == 1 {
		s.Error(pos, "illegal byte %#02x", s.ch)
	} else {
		s.Error(pos, "illegal character %#U", r)
	}
	for i := 0; i < size; i++ {
		s.next()
	}
}

func (s *Scanner) skipBlockComment(pos Pos) {
	s.next()
	s.next()
	for {
		if s.eof() {
			s.Error(pos, "comment is not terminated")
			return
		}
		if s.ch == '*' && s.peek() == '/' {
			s.next()
			s.next()
			return
		}
		s.next()
	}
}

// scanPreproc consumes a directive up to the end of line and returns the end
// of its text, which excludes the \r of a CRLF line ending.
// A backslash right before the newline continues the directive. Block comments
// are part of the directive and may span lines, the directive goes on after them.
func (s *Scanner) scanPreproc() int {
	for !s.eof() && s.ch != '\n' {
		switch {
		case s.ch == '\\' && s.peek() == '\n':
			s.next()
			s.next()
		case s.ch == '\\' && s.peek() == '\r' && s.peekAt(2) == '\n':
			s.next()
			s.next()
			s.next()
		case s.ch == '/' && s.peek() == '*':
			s.skipBlockComment(s.pos())
		case s.ch == '"' || s.ch == '\'':
			s.skipDirectiveQuoted()
		default:
			s.next()
		}
	}
	end := s.off
	if end > 0 && s.data[end-1] == '\r' {
		end--
	}
	return end
}

// skipDirectiveQuoted skips a quoted span inside a directive so that comment
// markers in it are not recognized. Unbalanced quotes (#error don't) end at
// the end of line and are not reported.
func (s *Scanner) skipDirectiveQuoted() {
	quote := s.ch
	for s.next(); !s.eof() && s.ch != quote && s.ch != '\n'; s.next() {
		if s.ch == '\\' {
			s.next()
			if s.ch == '\r' && s.peek() == '\n' {
				s.next()
			}
		}
	}
	if s.ch == quote {
		s.next()
	}
}

// scanQuoted consumes a string or char literal including both quotes.
// A backslash escapes any following character, including a newline.
func (s *Scanner) scanQuoted(pos Pos, quote byte, what string) bool {
	for s.next(); s.ch != quote; s.next() {
		if s.eof() || s.ch == '\n' {
			s.Error(pos, "%v literal is not terminated", what)
			return false
		}
		if s.ch == '\\' {
			s.next()
			if s.eof() {
				s.Error(pos, "%v literal is not terminated", what)
				return false
			}
		}
	}
	s.next()
	return true
}

func (s *Scanner) scanNumber(pos Pos) Token {
	for s.ch >= '0' && s.ch <= '9' && !s.eof() {
		s.next()
	}
	tok := s.token(TokNumber, pos)
	val, err := strconv.ParseUint(tok.Lit, 10, 64)
	if err != nil {
		s.Error(pos, "integer constant %v overflows", tok.Lit)
	}
	tok.Val = val
	return tok
}

func (s *Scanner) scanIdent(pos Pos) Token {
	for !s.eof() && (s.ch == '_' ||
		s.ch >= 'a' && s.ch <= 'z' ||
		s.ch >= 'A' && s.ch <= 'Z' ||
		s.ch >= '0' && s.ch <= '9') {
		s.next()
	}
	tok := s.token(TokIdent, pos)
	if s.keywords.Contains(tok.Lit) {
		tok.Kind = TokKeyword
	}
	return tok
}

func (s *Scanner) Error(pos Pos, msg string, args ...interface{}) {
	s.errors++
	s.errorHandler(pos, fmt.Sprintf(msg, args...))
}

func (s *Scanner) Ok() bool {
	return s.errors == 0
}

func (s *Scanner) Errors() int {
	return s.errors
}

func (s *Scanner) next() {
	if s.eof() {
		return
	}
	if s.ch == '\n' {
		s.line++
		s.lineOff = s.off + 1
	}
	s.off++
	if s.eof() {
		s.ch = 0
		return
	}
	s.ch = s.data[s.off]
}

func (s *Scanner) eof() bool {
	return s.off >= len(s.data)
}

func (s *Scanner) peek() byte {
	return s.peekAt(1)
}

func (s *Scanner) peekAt(n int) byte {
	if s.off+n >= len(s.data) {
		return 0
	}
	return s.data[s.off+n]
}

func (s *Scanner) skipWhitespace() {
	for !s.eof() && (s.ch == ' ' || s.ch == '\t' || s.ch == '\n' ||
		s.ch == '\r' || s.ch == '\f' || s.ch == '\v') {
		s.next()
	}
}

func (s *Scanner) pos() Pos {
	return Pos{
		File: s.filename,
		Off:  s.off,
		Line: s.line,
		Col:  s.off - s.lineOff,
	}
}
