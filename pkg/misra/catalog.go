// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package misra evaluates a catalog of MISRA-C style rules against C sources.
//
// Each rule carries a regular expression that is matched against the raw text
// (comments and string literals included), and optionally a matcher over the
// token stream produced by pkg/clex. By default text patterns are used; in
// precise mode rules that have a token matcher use it instead.
package misra

import (
	"fmt"
	"time"
)

// Catalog is an ordered, immutable set of rules.
// Scan results list violations in catalog order.
type Catalog struct {
	rules []*Rule
	byID  map[string]*Rule
}

type builtinRule struct {
	id      string
	desc    string
	pattern string
	match   TokenMatcher
}

var builtinRules = []builtinRule{
	{
		id:      "Rule 1.1",
		desc:    "non-printable ASCII character",
		pattern: `[^ -~\t\n\r]`,
	},
	{
		id:      "Rule 2.1",
		desc:    "unreachable code marker",
		pattern: `unreachable_code`,
		match:   identContains("unreachable_code"),
	},
	{
		id:      "Rule 3.1",
		desc:    "non-ASCII character",
		pattern: `[^\x20-\x7E\t\n\r]`,
	},
	{
		id:      "Rule 5.1",
		desc:    "identifier longer than 31 characters",
		pattern: `\b[A-Za-z_]\w{31,}\b`,
		match:   longIdent(32),
	},
	{
		id:      "Rule 6.1",
		desc:    "bit-field of a type other than int, unsigned int, signed int or _Bool",
		pattern: `\bstruct\b.*\b:\s*(?!\b(int|unsigned int|signed int|_Bool)\b)`,
	},
	{
		id:      "Rule 7.1",
		desc:    "octal constant",
		pattern: `\b0[0-7]+\b`,
		match:   octalConstant,
	},
	{
		id:      "Rule 8.1",
		desc:    "function definition without a visible prototype",
		pattern: `\b{{IDENT}}\s*\([^)]*\)\s*\{`,
		match:   functionDefinition,
	},
	{
		id:      "Rule 8.2",
		desc:    "extern declaration with an initializer",
		pattern: `\bextern\b\s+.*\b=\s*`,
		match:   externInitializer,
	},
	{
		id:      "Rule 9.1",
		desc:    "variable declared without an initializer",
		pattern: `\b{{IDENT}}\s+({{IDENT}})\s*;`,
		match:   uninitializedDecl,
	},
	{
		id:      "Rule 10.1",
		desc:    "compound assignment, relational or logical operator in expression",
		pattern: `[\+\-\*/%]=|=[\+\-\*/%]|==|!=|<=|>=|&&|\|\|`,
		match:   complexOperator,
	},
	{
		id:      "Rule 11.1",
		desc:    "cast to a pointer type",
		pattern: `\(\s*(void|char|short|long|float|double|int)\s*\*\s*\)`,
		match:   pointerCast,
	},
	{
		id:      "Rule 12.1",
		desc:    "controlling expression relies on operator precedence",
		pattern: `\bif{{COND}}[^)]*\)|\bwhile{{COND}}[^)]*\)|\bfor{{COND}}[^)]*\)`,
		match:   controlCondition(false),
	},
	{
		id:      "Rule 14.1",
		desc:    "use of atof, atoi, atol or atoll",
		pattern: `\b(atof|atoi|atol|atoll)\s*\(`,
		match:   call("atof", "atoi", "atol", "atoll"),
	},
	{
		id:      "Rule 15.1",
		desc:    "use of goto",
		pattern: `\bgoto\b`,
		match:   keyword("goto"),
	},
	{
		id:      "Rule 16.1",
		desc:    "use of continue",
		pattern: `\bcontinue\b`,
		match:   keyword("continue"),
	},
	{
		id:      "Rule 17.1",
		desc:    "function-like macro definition",
		pattern: `#\s*define\s+\w+\s*\(`,
		match:   functionLikeMacro,
	},
	{
		id:      "Rule 17.2",
		desc:    "basic numerical type used instead of a sized typedef",
		pattern: `\b(int|char|float|double|short|long)\b`,
		match:   keyword("int", "char", "float", "double", "short", "long"),
	},
	{
		id:      "Rule 18.1",
		desc:    "floating-point type",
		pattern: `\b(double|float)\b`,
		match:   keyword("double", "float"),
	},
	{
		id:      "Rule 19.1",
		desc:    "assignment with a possible implicit conversion",
		pattern: `\b({{IDENT}})\s*=\s*[^;]*\b({{IDENT}})\b`,
	},
	{
		id:      "Rule 19.2",
		desc:    "union type",
		pattern: `\bunion\b`,
		match:   keyword("union"),
	},
	{
		id:      "Rule 20.1",
		desc:    "for loop with a non-constant loop condition",
		pattern: `{{FOR}}`,
		match:   forHeader,
	},
	{
		id:      "Rule 21.1",
		desc:    "pointer arithmetic",
		pattern: `\b\*\s*(\+\+|--|\+|\-|\*)`,
		match:   pointerArithmetic,
	},
	{
		id:      "Rule 2.3",
		desc:    "C++ style comment",
		pattern: `//`,
	},
	{
		id:      "Rule 12.2",
		desc:    "logical conjunction in a controlling expression",
		pattern: `\bif{{COND}}.*?&&.*?\)|\bwhile{{COND}}.*?&&.*?\)|\bfor{{COND}}.*?&&.*?\)`,
		match:   controlCondition(true),
	},
	{
		id:      "Rule 13.1",
		desc:    "bitwise operator applied to a non-identifier operand",
		pattern: `&(?![a-zA-Z0-9])`,
		match:   bareAmpersand,
	},
	{
		id:      "Rule 14.3",
		desc:    "else if construct",
		pattern: `\belse\s+if\b`,
		match:   elseIf,
	},
	{
		id:      "Rule 15.4",
		desc:    "use of break",
		pattern: `\bbreak\b`,
		match:   keyword("break"),
	},
	{
		id:      "Rule 20.3",
		desc:    "break inside a for loop",
		pattern: `{{FOR}}\s*\{[^}]*\bbreak\b`,
		match:   breakInFor,
	},
	{
		id:      "Rule 21.3",
		desc:    "void pointer",
		pattern: `\bvoid\s*\*\b`,
		match:   voidPointer,
	},
	{
		id:      "Rule 22.2",
		desc:    "use of assert",
		pattern: `assert\s*\(`,
		match:   call("assert"),
	},
}

var defaultCatalog = mustBuiltinCatalog()

func mustBuiltinCatalog() *Catalog {
	cat, err := builtinCatalog(0)
	if err != nil {
		panic(err)
	}
	return cat
}

func builtinCatalog(timeout time.Duration) (*Catalog, error) {
	cat := &Catalog{byID: make(map[string]*Rule)}
	for _, def := range builtinRules {
		re, err := compile(def.id, def.pattern, timeout)
		if err != nil {
			return nil, err
		}
		if err := cat.add(&Rule{
			ID:      def.id,
			Desc:    def.desc,
			Pattern: def.pattern,
			re:      re,
			match:   def.match,
		}); err != nil {
			return nil, err
		}
	}
	return cat, nil
}

// DefaultCatalog returns the built-in rule catalog.
// It is compiled once at process start and shared by all engines.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

// NewCatalog builds a catalog of text-pattern rules.
func NewCatalog(defs []RuleDef) (*Catalog, error) {
	return (&Catalog{}).Extend(defs)
}

// Extend returns a new catalog with defs appended after the existing rules.
func (cat *Catalog) Extend(defs []RuleDef) (*Catalog, error) {
	res := cat.clone()
	for _, def := range defs {
		id := NormalizeID(def.ID)
		if id == "" {
			return nil, &RuleError{Pattern: def.Pattern, Err: fmt.Errorf("empty rule id")}
		}
		re, err := compile(id, def.Pattern, 0)
		if err != nil {
			return nil, err
		}
		if err := res.add(&Rule{ID: id, Desc: def.Desc, Pattern: def.Pattern, re: re}); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Select returns a catalog restricted to enabled rules (all if enable is empty)
// minus the disabled ones. Rule ids may be given in the short "15.1" form.
func (cat *Catalog) Select(enable, disable []string) (*Catalog, error) {
	enabled := make(map[string]bool)
	for _, id := range enable {
		id = NormalizeID(id)
		if cat.byID[id] == nil {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		enabled[id] = true
	}
	disabled := make(map[string]bool)
	for _, id := range disable {
		id = NormalizeID(id)
		if cat.byID[id] == nil {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		disabled[id] = true
	}
	res := &Catalog{byID: make(map[string]*Rule)}
	for _, rule := range cat.rules {
		if len(enabled) != 0 && !enabled[rule.ID] || disabled[rule.ID] {
			continue
		}
		res.rules = append(res.rules, rule)
		res.byID[rule.ID] = rule
	}
	return res, nil
}

// withTimeout returns a copy of the catalog whose patterns give up after timeout.
func (cat *Catalog) withTimeout(timeout time.Duration) (*Catalog, error) {
	res := &Catalog{byID: make(map[string]*Rule)}
	for _, rule := range cat.rules {
		re, err := compile(rule.ID, rule.Pattern, timeout)
		if err != nil {
			return nil, err
		}
		clone := *rule
		clone.re = re
		if err := res.add(&clone); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (cat *Catalog) Rules() []*Rule {
	return append([]*Rule(nil), cat.rules...)
}

func (cat *Catalog) Lookup(id string) *Rule {
	return cat.byID[NormalizeID(id)]
}

func (cat *Catalog) Len() int {
	return len(cat.rules)
}

func (cat *Catalog) clone() *Catalog {
	res := &Catalog{
		rules: append([]*Rule(nil), cat.rules...),
		byID:  make(map[string]*Rule),
	}
	for id, rule := range cat.byID {
		res.byID[id] = rule
	}
	return res
}

func (cat *Catalog) add(rule *Rule) error {
	if cat.byID[rule.ID] != nil {
		return &RuleError{ID: rule.ID, Pattern: rule.Pattern, Err: fmt.Errorf("duplicate rule id")}
	}
	cat.rules = append(cat.rules, rule)
	cat.byID[rule.ID] = rule
	return nil
}
