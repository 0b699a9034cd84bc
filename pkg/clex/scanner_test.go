// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package clex

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type kindLit struct {
	Kind Kind
	Lit  string
}

func scanAll(t *testing.T, input string) ([]kindLit, []*Error) {
	toks, errs := Tokenize([]byte(input), "test", nil)
	var res []kindLit
	for _, tok := range toks {
		res = append(res, kindLit{tok.Kind, tok.Lit})
	}
	return res, errs
}

func TestScan(t *testing.T) {
	tests := []struct {
		input  string
		tokens []kindLit
	}{
		{
			"a++b",
			[]kindLit{{TokIdent, "a"}, {TokInc, "++"}, {TokIdent, "b"}},
		},
		{
			"x==y!=z<=w>=v",
			[]kindLit{
				{TokIdent, "x"}, {TokEq, "=="}, {TokIdent, "y"}, {TokNe, "!="},
				{TokIdent, "z"}, {TokLe, "<="}, {TokIdent, "w"}, {TokGe, ">="},
				{TokIdent, "v"},
			},
		},
		{
			"p->q&&r||s<<1>>2",
			[]kindLit{
				{TokIdent, "p"}, {TokArrow, "->"}, {TokIdent, "q"}, {TokAndAnd, "&&"},
				{TokIdent, "r"}, {TokOrOr, "||"}, {TokIdent, "s"}, {TokShl, "<<"},
				{TokNumber, "1"}, {TokShr, ">>"}, {TokNumber, "2"},
			},
		},
		{
			"a+=1;b-=2;c*=3;d/=4;e--",
			[]kindLit{
				{TokIdent, "a"}, {TokAddAssign, "+="}, {TokNumber, "1"}, {TokSemicolon, ";"},
				{TokIdent, "b"}, {TokSubAssign, "-="}, {TokNumber, "2"}, {TokSemicolon, ";"},
				{TokIdent, "c"}, {TokMulAssign, "*="}, {TokNumber, "3"}, {TokSemicolon, ";"},
				{TokIdent, "d"}, {TokDivAssign, "/="}, {TokNumber, "4"}, {TokSemicolon, ";"},
				{TokIdent, "e"}, {TokDec, "--"},
			},
		},
		{
			// Three pluses: the longest operator wins first.
			"a+++b",
			[]kindLit{{TokIdent, "a"}, {TokInc, "++"}, {TokPlus, "+"}, {TokIdent, "b"}},
		},
		{
			"if (x) return 0; else goto out;",
			[]kindLit{
				{TokKeyword, "if"}, {TokLParen, "("}, {TokIdent, "x"}, {TokRParen, ")"},
				{TokKeyword, "return"}, {TokNumber, "0"}, {TokSemicolon, ";"},
				{TokKeyword, "else"}, {TokKeyword, "goto"}, {TokIdent, "out"}, {TokSemicolon, ";"},
			},
		},
		{
			`s = "a \"quoted\" \\ string"; c = '\''; d = 'ab';`,
			[]kindLit{
				{TokIdent, "s"}, {TokAssign, "="}, {TokString, `"a \"quoted\" \\ string"`},
				{TokSemicolon, ";"},
				{TokIdent, "c"}, {TokAssign, "="}, {TokChar, `'\''`}, {TokSemicolon, ";"},
				{TokIdent, "d"}, {TokAssign, "="}, {TokChar, `'ab'`}, {TokSemicolon, ";"},
			},
		},
		{
			"#include <stdio.h>\n#define X(a) \\\n\t(a + 1)\nint",
			[]kindLit{
				{TokPreproc, "#include <stdio.h>"},
				{TokPreproc, "#define X(a) \\\n\t(a + 1)"},
				{TokKeyword, "int"},
			},
		},
		{
			"#define LIMIT 10 /* see notes\n   goto a*-b */\nx;\n",
			[]kindLit{
				{TokPreproc, "#define LIMIT 10 /* see notes\n   goto a*-b */"},
				{TokIdent, "x"}, {TokSemicolon, ";"},
			},
		},
		{
			"#define X /* c */ 1\n#include \"a/*b.h\"\n#error don't\ny",
			[]kindLit{
				{TokPreproc, "#define X /* c */ 1"},
				{TokPreproc, `#include "a/*b.h"`},
				{TokPreproc, "#error don't"},
				{TokIdent, "y"},
			},
		},
		{
			"#define X 1\r\n#define Y \\\r\n 2\r\nz",
			[]kindLit{
				{TokPreproc, "#define X 1"},
				{TokPreproc, "#define Y \\\r\n 2"},
				{TokIdent, "z"},
			},
		},
		{
			"a // comment ++ == \"\nb /* c */ d /* multi\nline */ e",
			[]kindLit{{TokIdent, "a"}, {TokIdent, "b"}, {TokIdent, "d"}, {TokIdent, "e"}},
		},
		{
			"x[1].y:{}~!^|&%,",
			[]kindLit{
				{TokIdent, "x"}, {TokLBrack, "["}, {TokNumber, "1"}, {TokRBrack, "]"},
				{TokDot, "."}, {TokIdent, "y"}, {TokColon, ":"}, {TokLBrace, "{"},
				{TokRBrace, "}"}, {TokTilde, "~"}, {TokNot, "!"}, {TokCaret, "^"},
				{TokPipe, "|"}, {TokAmp, "&"}, {TokPercent, "%"}, {TokComma, ","},
			},
		},
		{
			"0x1F 1.5",
			[]kindLit{
				{TokNumber, "0"}, {TokIdent, "x1F"}, {TokNumber, "1"}, {TokDot, "."},
				{TokNumber, "5"},
			},
		},
		{
			"",
			nil,
		},
		{
			"  \t\r\n\f\v ",
			nil,
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			got, errs := scanAll(t, test.input)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			if diff := cmp.Diff(test.tokens, got); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

func TestNumberValue(t *testing.T) {
	toks, errs := Tokenize([]byte("0755 42 007"), "test", nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	var vals []uint64
	for _, tok := range toks {
		vals = append(vals, tok.Val)
	}
	if diff := cmp.Diff([]uint64{755, 42, 7}, vals); diff != "" {
		t.Fatal(diff)
	}
	_, errs = Tokenize([]byte("99999999999999999999999"), "test", nil)
	if len(errs) != 1 || errs[0].Msg != "integer constant 99999999999999999999999 overflows" {
		t.Fatalf("want overflow error, got %v", errs)
	}
}

func TestKeywords(t *testing.T) {
	kw := NewKeywords("__asm", "bool")
	toks, _ := Tokenize([]byte("bool __asm int foo"), "test", kw)
	want := []Kind{TokKeyword, TokKeyword, TokKeyword, TokIdent}
	var got []Kind
	for _, tok := range toks {
		got = append(got, tok.Kind)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
	if DefaultKeywords.Contains("bool") {
		t.Fatalf("extending keywords changed the default set")
	}
	list := kw.List()
	if len(list) != len(DefaultKeywords.List())+2 || !sort.StringsAreSorted(list) {
		t.Fatalf("bad keyword list: %v", list)
	}
}

func TestLineTracking(t *testing.T) {
	input := "a\n/* one\ntwo\nthree\n*/ b\n  c // x\nd"
	toks, errs := Tokenize([]byte(input), "test", nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []Pos{
		{File: "test", Off: 0, Line: 1, Col: 0},
		{File: "test", Off: 22, Line: 5, Col: 3},
		{File: "test", Off: 26, Line: 6, Col: 2},
		{File: "test", Off: 33, Line: 7, Col: 0},
	}
	var got []Pos
	for _, tok := range toks {
		got = append(got, tok.Pos)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
	// Comment starts on line 2 and embeds 3 newlines.
	if toks[1].Pos.Line != 2+3 {
		t.Fatalf("identifier after comment is on line %v", toks[1].Pos.Line)
	}
}

func TestStringLineContinuation(t *testing.T) {
	toks, errs := Tokenize([]byte("\"a\\\nb\" c"), "test", nil)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(toks) != 2 || toks[0].Kind != TokString || toks[1].Pos.Line != 2 {
		t.Fatalf("bad tokens: %v", toks)
	}
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		input  string
		tokens []kindLit
		errors []string
	}{
		{
			"foo\x01bar",
			[]kindLit{{TokIdent, "foo"}, {TokIdent, "bar"}},
			[]string{"test:1:4: illegal character U+0001"},
		},
		{
			"a \xe9 b",
			[]kindLit{{TokIdent, "a"}, {TokIdent, "b"}},
			[]string{"test:1:3: illegal byte 0xe9"},
		},
		{
			"a é b",
			[]kindLit{{TokIdent, "a"}, {TokIdent, "b"}},
			[]string{"test:1:3: illegal character U+00E9 'é'"},
		},
		{
			"x = \"abc\ny;",
			[]kindLit{{TokIdent, "x"}, {TokAssign, "="}, {TokIdent, "y"}, {TokSemicolon, ";"}},
			[]string{"test:1:5: string literal is not terminated"},
		},
		{
			"x = 'a",
			[]kindLit{{TokIdent, "x"}, {TokAssign, "="}},
			[]string{"test:1:5: char literal is not terminated"},
		},
		{
			"x \"abc\\",
			[]kindLit{{TokIdent, "x"}},
			[]string{"test:1:3: string literal is not terminated"},
		},
		{
			"x /* y\nz",
			[]kindLit{{TokIdent, "x"}},
			[]string{"test:1:3: comment is not terminated"},
		},
		{
			"a ? b : c",
			[]kindLit{{TokIdent, "a"}, {TokIdent, "b"}, {TokColon, ":"}, {TokIdent, "c"}},
			[]string{"test:1:3: illegal character U+003F '?'"},
		},
	}
	for i, test := range tests {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			got, errs := scanAll(t, test.input)
			if diff := cmp.Diff(test.tokens, got); diff != "" {
				t.Fatal(diff)
			}
			var gotErrs []string
			for _, err := range errs {
				gotErrs = append(gotErrs, err.Error())
			}
			if diff := cmp.Diff(test.errors, gotErrs); diff != "" {
				t.Fatal(diff)
			}
		})
	}
}

// TestRoundTrip checks that tokens plus the skipped spans between them
// reproduce the input, and that skipped spans hold only whitespace and comments.
func TestRoundTrip(t *testing.T) {
	inputs := []string{
		"a++b",
		"int main(void) { return 0; }\n",
		"/* a\n b */ x // y\n#define Z 1\n'c' \"s\\\"\"",
		"\r\n\tfor (i = 0; i <= 10; i += 2) p->q[i] = ~i ^ 3;\r\n",
		"#define X 1 /* a\n b */\nx;\r\n#if A /* c */ && B\r\n",
	}
	files, err := filepath.Glob(filepath.Join("testdata", "valid*.c"))
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			t.Fatal(err)
		}
		inputs = append(inputs, string(data))
	}
	for i, input := range inputs {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			data := []byte(input)
			toks, errs := Tokenize(data, "test", nil)
			if len(errs) != 0 {
				t.Fatalf("unexpected errors: %v", errs)
			}
			var buf strings.Builder
			prev := 0
			for _, tok := range toks {
				checkSkipped(t, data[prev:tok.Pos.Off])
				buf.Write(data[prev:tok.Pos.Off])
				buf.WriteString(tok.Lit)
				prev = tok.End()
			}
			checkSkipped(t, data[prev:])
			buf.Write(data[prev:])
			if buf.String() != input {
				t.Fatalf("round trip changed input:\n%q\nvs:\n%q", input, buf.String())
			}
		})
	}
}

func checkSkipped(t *testing.T, span []byte) {
	toks, errs := Tokenize(span, "span", nil)
	if len(toks) != 0 || len(errs) != 0 {
		t.Fatalf("skipped span %q contains tokens %v, errors %v", span, toks, errs)
	}
}

func TestTokensRestart(t *testing.T) {
	seq := Tokens([]byte("a b c"), "test", nil)
	var first, second []string
	for tok := range seq {
		first = append(first, tok.Lit)
		if len(first) == 2 {
			break
		}
	}
	for tok := range seq {
		second = append(second, tok.Lit)
	}
	if diff := cmp.Diff([]string{"a", "b"}, first); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, second); diff != "" {
		t.Fatal(diff)
	}
}

func TestErrors(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "*.c"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no input files")
	}
	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			data, want := LoadAnnotated(t, file)
			_, errs := Tokenize(data, file, nil)
			CheckErrors(t, file, want, errs)
			s := NewScanner(data, file, func(Pos, string) {})
			for tok := s.Scan(); tok.Kind != TokEOF; tok = s.Scan() {
			}
			if s.Errors() != len(errs) || s.Ok() != (len(errs) == 0) {
				t.Fatalf("Errors()=%v Ok()=%v, want %v errors", s.Errors(), s.Ok(), len(errs))
			}
		})
	}
}

func TestLoadAnnotated(t *testing.T) {
	data, want := LoadAnnotated(t, filepath.Join("testdata", "errors.c"))
	if bytes.Contains(data, []byte("###")) {
		t.Fatalf("annotations are not removed:\n%s", data)
	}
	if diff := cmp.Diff(&ExpectedError{Line: 4, Col: 12, Msg: "illegal character U+0040 '@'"}, want[0]); diff != "" {
		t.Fatal(diff)
	}
	if diff := cmp.Diff(&ExpectedError{Line: 6, Msg: "char literal is not terminated"}, want[2]); diff != "" {
		t.Fatal(diff)
	}
}

func TestKindString(t *testing.T) {
	for _, kind := range Kinds() {
		if str := kind.String(); str == "" || strings.HasPrefix(str, "Kind(") {
			t.Errorf("kind %d has no name", int(kind))
		}
	}
	if TokInc.String() != `"++"` || TokLBrace.String() != `"{"` || TokIdent.String() != "identifier" {
		t.Fatalf("unexpected names: %v %v %v", TokInc, TokLBrace, TokIdent)
	}
}
