// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package misra

import (
	"bytes"
	"fmt"
	"io"

	"github.com/misrascan/misrascan/pkg/clex"
)

// Result is the outcome of scanning one compilation unit.
type Result struct {
	Name string
	// Violations in catalog order, at most one per rule.
	Violations []*Violation
	// Recoverable lexical errors.
	Warnings []*clex.Error
}

// Violation is the first match of a rule.
type Violation struct {
	Rule  *Rule
	Pos   clex.Pos
	Match string
}

func (res *Result) IDs() []string {
	var ids []string
	for _, v := range res.Violations {
		ids = append(ids, v.Rule.ID)
	}
	return ids
}

func (res *Result) Violated(id string) bool {
	id = NormalizeID(id)
	for _, v := range res.Violations {
		if v.Rule.ID == id {
			return true
		}
	}
	return false
}

// Format writes the plain report:
//
//	Violations found in foo.c:
//	- Rule 15.1
//
// or "No violations found in foo.c." when nothing fired.
func (res *Result) Format(w io.Writer) error {
	buf := new(bytes.Buffer)
	if len(res.Violations) == 0 {
		fmt.Fprintf(buf, "No violations found in %v.\n", res.Name)
	} else {
		fmt.Fprintf(buf, "Violations found in %v:\n", res.Name)
		for _, v := range res.Violations {
			fmt.Fprintf(buf, "- %v\n", v.Rule.ID)
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// FormatDetailed is like Format, but also prints match positions, rule
// descriptions and lexical warnings.
func (res *Result) FormatDetailed(w io.Writer) error {
	buf := new(bytes.Buffer)
	if len(res.Violations) == 0 {
		fmt.Fprintf(buf, "No violations found in %v.\n", res.Name)
	} else {
		fmt.Fprintf(buf, "Violations found in %v:\n", res.Name)
		for _, v := range res.Violations {
			fmt.Fprintf(buf, "- %v: %v: %v (%q)\n", v.Rule.ID, v.Pos, v.Rule.Desc, v.Match)
		}
	}
	for _, warn := range res.Warnings {
		fmt.Fprintf(buf, "warning: %v\n", warn)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (res *Result) String() string {
	buf := new(bytes.Buffer)
	res.Format(buf)
	return buf.String()
}
